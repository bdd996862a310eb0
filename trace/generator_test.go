package trace_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/trace"
)

var _ = Describe("Generator", func() {
	var g *trace.Generator

	BeforeEach(func() {
		g = trace.NewGenerator()
	})

	It("should walk memory sequentially", func() {
		Expect(g.Sequential(100, 4, 8)).To(Equal([]uint64{100, 108, 116, 124}))
		Expect(g.Generated).To(Equal(1))
	})

	It("should repeat a loop", func() {
		Expect(g.Looping(3, 2, 4)).To(Equal([]uint64{0, 4, 8, 0, 4, 8}))
	})

	It("should draw random addresses within bounds", func() {
		addrs := g.Random(10, 500)

		Expect(addrs).To(HaveLen(500))
		for _, a := range addrs {
			Expect(a).To(BeNumerically("<=", 10))
		}
		Expect(addrs).To(ContainElement(uint64(10)))
	})

	It("should be deterministic for a seed", func() {
		other := trace.NewGenerator()

		Expect(g.Mixed(900)).To(Equal(other.Mixed(900)))
		Expect(g.Random(1<<20, 50)).To(Equal(other.Random(1<<20, 50)))
	})

	It("should differ across seeds", func() {
		other := trace.NewSeededGenerator(7)

		Expect(g.Random(1<<30, 50)).NotTo(Equal(other.Random(1<<30, 50)))
	})

	It("should return empty traces for negative counts", func() {
		Expect(g.Sequential(0, -1, 4)).To(BeEmpty())
		Expect(g.Random(100, -5)).To(BeEmpty())
		Expect(g.Looping(-3, 2, 4)).To(BeEmpty())
		Expect(g.Looping(3, -2, 4)).To(BeEmpty())
		Expect(g.Mixed(-300)).To(BeEmpty())
	})

	It("should reject negative counts for named patterns", func() {
		for _, p := range trace.Patterns() {
			var err error
			Expect(func() { _, err = g.Generate(p, -1) }).NotTo(Panic())
			Expect(err).To(MatchError(ContainSubstring("count must be >= 0")), p.String())
		}
	})

	It("should mix patterns up to the requested count", func() {
		addrs := g.Mixed(1500)

		Expect(addrs).To(HaveLen(1500))
		Expect(addrs).To(ContainElement(uint64(1996)))
		Expect(g.Generated).To(Equal(1))
	})

	It("should generate named patterns", func() {
		for _, p := range trace.Patterns() {
			addrs, err := g.Generate(p, 1500)

			Expect(err).NotTo(HaveOccurred())
			Expect(addrs).To(HaveLen(1500), p.String())
		}
	})

	It("should parse pattern names", func() {
		p, err := trace.ParsePattern("Looping")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(trace.Looping))

		p, err = trace.ParsePattern("random")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(trace.Uniform))

		_, err = trace.ParsePattern("strided")
		Expect(err).To(MatchError(ContainSubstring("unknown trace pattern")))
	})
})
