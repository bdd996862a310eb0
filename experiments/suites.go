package experiments

import (
	"fmt"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

// DefaultSizes are the cache sizes, in bytes, swept by SizeSweep.
var DefaultSizes = []int{2 * 1024, 4 * 1024, 8 * 1024, 16 * 1024, 32 * 1024}

// DefaultWays are the associativities swept by AssociativitySweep.
var DefaultWays = []int{1, 2, 4, 8}

// PolicyComparison runs trace once per replacement policy.
func PolicyComparison(base cache.Params, addrs []uint64) []Experiment {
	experiments := make([]Experiment, 0, len(cache.Policies()))
	for _, policy := range cache.Policies() {
		p := base
		p.Policy = policy
		experiments = append(experiments, Experiment{
			Name:        "policy/" + policy.String(),
			Description: "replacement policy comparison",
			Params:      p,
			Trace:       addrs,
		})
	}

	return experiments
}

// SizeSweep runs trace once per total cache size.
func SizeSweep(base cache.Params, addrs []uint64, sizes []int) []Experiment {
	experiments := make([]Experiment, 0, len(sizes))
	for _, size := range sizes {
		p := base
		p.TotalSize = size
		experiments = append(experiments, Experiment{
			Name:        "size/" + sizeLabel(size),
			Description: "cache size impact",
			Params:      p,
			Trace:       addrs,
		})
	}

	return experiments
}

// AssociativitySweep runs trace once per associativity.
func AssociativitySweep(base cache.Params, addrs []uint64, ways []int) []Experiment {
	experiments := make([]Experiment, 0, len(ways))
	for _, w := range ways {
		p := base
		p.Associativity = w
		p.FullyAssociative = false

		label := fmt.Sprintf("%d-way", w)
		if w == 1 {
			label = "direct"
		}

		experiments = append(experiments, Experiment{
			Name:        "assoc/" + label,
			Description: "associativity impact",
			Params:      p,
			Trace:       addrs,
		})
	}

	return experiments
}

// PatternComparison generates count addresses of every trace pattern and
// runs each on the base cache.
func PatternComparison(base cache.Params, gen *trace.Generator, count int) ([]Experiment, error) {
	experiments := make([]Experiment, 0, len(trace.Patterns()))
	for _, pattern := range trace.Patterns() {
		addrs, err := gen.Generate(pattern, count)
		if err != nil {
			return nil, err
		}

		experiments = append(experiments, Experiment{
			Name:        "pattern/" + pattern.String(),
			Description: "memory access pattern comparison",
			Params:      base,
			Trace:       addrs,
		})
	}

	return experiments, nil
}

func sizeLabel(n int) string {
	if n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}

	return fmt.Sprintf("%dB", n)
}
