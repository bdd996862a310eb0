package trace_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

var _ = Describe("Trace files", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should read decimal and hex addresses, skipping comments", func() {
		input := "# header\n0\n\n  64 \n0x200\n0XFF\n"

		var addrs []uint64
		for addr, err := range trace.NewReader(strings.NewReader(input)).All() {
			Expect(err).NotTo(HaveOccurred())
			addrs = append(addrs, addr)
		}

		Expect(addrs).To(Equal([]uint64{0, 64, 0x200, 0xFF}))
	})

	It("should treat leading zeros as decimal", func() {
		addr, err := trace.ParseAddress("010")
		Expect(err).NotTo(HaveOccurred())
		Expect(addr).To(Equal(uint64(10)))
	})

	It("should reject negative addresses with the line number", func() {
		var last error
		count := 0
		for _, err := range trace.NewReader(strings.NewReader("4\n-8\n12\n")).All() {
			count++
			last = err
		}

		Expect(count).To(Equal(2))
		Expect(errors.Is(last, cache.ErrInvalidAddress)).To(BeTrue())
		Expect(last).To(MatchError(ContainSubstring("line 2")))
	})

	It("should reject malformed addresses", func() {
		_, err := trace.ParseAddress("0xZZ")
		Expect(errors.Is(err, cache.ErrInvalidAddress)).To(BeTrue())
	})

	It("should save and load a trace file", func() {
		path := filepath.Join(dir, "trace.txt")
		addrs := trace.NewGenerator().Mixed(300)

		Expect(trace.Save(path, addrs)).To(Succeed())
		loaded, err := trace.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(addrs))
	})

	It("should name the file when loading fails", func() {
		path := filepath.Join(dir, "bad.txt")
		Expect(os.WriteFile(path, []byte("1\nabc\n"), 0644)).To(Succeed())

		_, err := trace.Load(path)

		Expect(err).To(MatchError(ContainSubstring("bad.txt: line 2")))
	})

	It("should report missing files", func() {
		_, err := trace.Load(filepath.Join(dir, "missing.txt"))
		Expect(err).To(MatchError(ContainSubstring("failed to open trace file")))
	})

	It("should write one address per line", func() {
		var buf bytes.Buffer
		Expect(trace.Write(&buf, []uint64{1, 22, 333})).To(Succeed())
		Expect(buf.String()).To(Equal("1\n22\n333\n"))
	})

	It("should feed a cache through Addresses", func() {
		c := cache.New(cache.MustNewConfig(cache.DefaultParams()))
		var err error

		seq := trace.NewReader(strings.NewReader("0\n0\n64\nbad\n0\n")).All()
		stats, replayErr := c.Replay(trace.Addresses(seq, &err))

		Expect(replayErr).NotTo(HaveOccurred())
		Expect(errors.Is(err, cache.ErrInvalidAddress)).To(BeTrue())
		Expect(stats.Accesses).To(Equal(uint64(3)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("should stop early when the consumer stops", func() {
		seq := trace.NewReader(strings.NewReader("1\n2\n3\n")).All()
		var err error

		first := slices.Collect(func(yield func(uint64) bool) {
			for addr := range trace.Addresses(seq, &err) {
				if !yield(addr) || addr == 2 {
					return
				}
			}
		})

		Expect(first).To(Equal([]uint64{1, 2}))
		Expect(err).NotTo(HaveOccurred())
	})
})
