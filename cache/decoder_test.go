package cache_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Decoder", func() {
	var decoder cache.Decoder

	BeforeEach(func() {
		// 1KB, 64B lines, 2-way: 6 offset bits, 3 index bits
		decoder = cache.NewDecoder(cache.MustNewConfig(cache.Params{
			TotalSize:     1024,
			BlockSize:     64,
			Associativity: 2,
		}))
	})

	It("should split an address into tag, set and offset", func() {
		a, err := decoder.Decode(0x1234)

		Expect(err).NotTo(HaveOccurred())
		Expect(a.Offset).To(Equal(uint64(0x34)))
		Expect(a.SetIndex).To(Equal(0))
		Expect(a.Tag).To(Equal(uint64(0x9)))
	})

	It("should map consecutive blocks to consecutive sets", func() {
		for i := 0; i < 8; i++ {
			a, err := decoder.Decode(uint64(i * 64))
			Expect(err).NotTo(HaveOccurred())
			Expect(a.SetIndex).To(Equal(i))
			Expect(a.Tag).To(BeZero())
		}

		a, err := decoder.Decode(512)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.SetIndex).To(Equal(0))
		Expect(a.Tag).To(Equal(uint64(1)))
	})

	It("should compose the address it decoded", func() {
		for _, addr := range []uint64{0, 1, 63, 64, 0xDEADBEEF, 1 << 63} {
			a, err := decoder.Decode(addr)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoder.Compose(a)).To(Equal(addr))
		}
	})

	It("should align addresses to blocks", func() {
		Expect(decoder.BlockAddress(0x1234)).To(Equal(uint64(0x1200)))
	})

	It("should accept every address when the space is unbounded", func() {
		a, err := decoder.Decode(^uint64(0))

		Expect(err).NotTo(HaveOccurred())
		Expect(a.Tag).To(Equal(^uint64(0) >> 9))
	})

	Context("with a bounded address space", func() {
		BeforeEach(func() {
			decoder = cache.NewDecoder(cache.MustNewConfig(cache.Params{
				TotalSize:     1024,
				BlockSize:     64,
				Associativity: 2,
				AddressBits:   16,
			}))
		})

		It("should accept the highest address", func() {
			a, err := decoder.Decode(0xFFFF)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Tag).To(Equal(uint64(0x7F)))
		})

		It("should reject addresses beyond the space", func() {
			_, err := decoder.Decode(0x10000)
			Expect(errors.Is(err, cache.ErrInvalidAddress)).To(BeTrue())
		})
	})
})
