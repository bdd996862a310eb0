package cache_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/cache"
)

var _ = Describe("Replacement policies", func() {
	Describe("LRU", func() {
		var lru *cache.LRUPolicy

		BeforeEach(func() {
			lru = cache.NewLRUPolicy(4)
			for way := 0; way < 4; way++ {
				lru.OnInsert(way)
			}
		})

		It("should evict the oldest way when nothing was touched", func() {
			Expect(lru.ChooseVictim()).To(Equal(0))
		})

		It("should move accessed ways to the most recent position", func() {
			lru.OnAccess(0)
			lru.OnAccess(2)

			Expect(lru.Order()).To(Equal([]int{1, 3, 0, 2}))
			Expect(lru.ChooseVictim()).To(Equal(1))
		})

		It("should forget evicted ways", func() {
			lru.OnEvict(0)
			lru.OnInsert(0)

			Expect(lru.Order()).To(Equal([]int{1, 2, 3, 0}))
		})

		It("should forget everything on reset", func() {
			lru.Reset()
			Expect(lru.Order()).To(BeEmpty())
		})
	})

	Describe("FIFO", func() {
		var fifo *cache.FIFOPolicy

		BeforeEach(func() {
			fifo = cache.NewFIFOPolicy(3)
			fifo.OnInsert(0)
			fifo.OnInsert(1)
			fifo.OnInsert(2)
		})

		It("should ignore hits", func() {
			fifo.OnAccess(0)
			fifo.OnAccess(0)

			Expect(fifo.ChooseVictim()).To(Equal(0))
		})

		It("should evict in insertion order", func() {
			fifo.OnEvict(0)
			fifo.OnInsert(0)

			Expect(fifo.ChooseVictim()).To(Equal(1))
			Expect(fifo.Order()).To(Equal([]int{1, 2, 0}))
		})
	})

	Describe("Random", func() {
		It("should stay within the set", func() {
			r := cache.NewRandomPolicy(4, cache.NewSeededRand(1))
			seen := map[int]bool{}

			for i := 0; i < 200; i++ {
				way, err := r.ChooseVictim()
				Expect(err).NotTo(HaveOccurred())
				Expect(way).To(BeNumerically(">=", 0))
				Expect(way).To(BeNumerically("<", 4))
				seen[way] = true
			}

			Expect(seen).To(HaveLen(4))
		})

		It("should repeat its choices for the same seed", func() {
			a := cache.NewRandomPolicy(8, cache.NewSeededRand(42))
			b := cache.NewRandomPolicy(8, cache.NewSeededRand(42))

			for i := 0; i < 50; i++ {
				wa, _ := a.ChooseVictim()
				wb, _ := b.ChooseVictim()
				Expect(wa).To(Equal(wb))
			}
		})
	})

	It("should fail to choose a victim without ways", func() {
		policies := []cache.ReplacementPolicy{
			cache.NewLRUPolicy(0),
			cache.NewFIFOPolicy(0),
			cache.NewRandomPolicy(0, cache.NewSeededRand(0)),
		}

		for _, p := range policies {
			_, err := p.ChooseVictim()
			Expect(errors.Is(err, cache.ErrInvalidConfiguration)).To(BeTrue(), p.Name())
		}
	})

	It("should build policies by kind", func() {
		for _, kind := range cache.Policies() {
			p, err := cache.NewPolicy(kind, 2, cache.NewSeededRand(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(kind.String()))
		}

		_, err := cache.NewPolicy(cache.Random, 2, nil)
		Expect(errors.Is(err, cache.ErrInvalidConfiguration)).To(BeTrue())
	})
})
