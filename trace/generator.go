// Package trace produces memory address traces for the cache simulator,
// either synthesized by a Generator or read from text files.
package trace

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// DefaultSeed is the seed used by NewGenerator.
const DefaultSeed = 42

// Pattern names a synthetic access pattern.
type Pattern int

const (
	// Sequential scans memory like an array walk.
	Sequential Pattern = iota
	// Uniform accesses random addresses.
	Uniform
	// Looping repeats a short sequential walk.
	Looping
	// Mixed shuffles sequential, random and looping accesses together.
	Mixed
)

var patternNames = []string{"sequential", "random", "looping", "mixed"}

// Patterns lists every pattern in a stable order.
func Patterns() []Pattern {
	return []Pattern{Sequential, Uniform, Looping, Mixed}
}

func (p Pattern) String() string {
	if int(p) >= 0 && int(p) < len(patternNames) {
		return patternNames[p]
	}

	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern converts a pattern name into a Pattern.
func ParsePattern(name string) (Pattern, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range patternNames {
		if n == lower {
			return Pattern(i), nil
		}
	}

	return 0, fmt.Errorf("unknown trace pattern %q (want one of %s)",
		name, strings.Join(patternNames, ", "))
}

// Generator synthesizes address traces. Traces from two generators with
// the same seed are identical.
type Generator struct {
	rng *rand.Rand

	// Generated counts the traces produced so far.
	Generated int
}

// NewGenerator creates a generator seeded with DefaultSeed.
func NewGenerator() *Generator {
	return NewSeededGenerator(DefaultSeed)
}

// NewSeededGenerator creates a generator with the given seed.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Sequential returns count addresses starting at start, step bytes apart.
// A negative count yields an empty trace, as in the other generators.
func (g *Generator) Sequential(start uint64, count int, step uint64) []uint64 {
	g.Generated++
	return sequential(start, count, step)
}

// Random returns count addresses drawn uniformly from [0, maxAddr].
func (g *Generator) Random(maxAddr uint64, count int) []uint64 {
	trace := make([]uint64, max(count, 0))
	for i := range trace {
		trace[i] = g.uniform(maxAddr)
	}

	g.Generated++

	return trace
}

// Looping walks loopSize addresses stride bytes apart, loops times.
func (g *Generator) Looping(loopSize, loops int, stride uint64) []uint64 {
	g.Generated++
	return looping(loopSize, loops, stride)
}

// Mixed shuffles a third sequential, a third random and a looping
// remainder together and returns at most count addresses.
func (g *Generator) Mixed(count int) []uint64 {
	count = max(count, 0)
	trace := sequential(0, count/3, 4)

	for range count / 3 {
		trace = append(trace, g.uniform(5000))
	}

	trace = append(trace, looping(50, count/150, 4)...)

	g.rng.Shuffle(len(trace), func(i, j int) {
		trace[i], trace[j] = trace[j], trace[i]
	})

	g.Generated++

	return trace[:min(count, len(trace))]
}

// Generate produces count addresses following p with default parameters.
func (g *Generator) Generate(p Pattern, count int) ([]uint64, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be >= 0, got %d", count)
	}

	switch p {
	case Sequential:
		return g.Sequential(0, count, 4), nil
	case Uniform:
		return g.Random(10000, count), nil
	case Looping:
		const loopSize = 100
		loops := max(1, count/loopSize)
		return g.Looping(loopSize, loops, 4), nil
	case Mixed:
		return g.Mixed(count), nil
	default:
		return nil, fmt.Errorf("unknown trace pattern %d", int(p))
	}
}

func (g *Generator) uniform(maxAddr uint64) uint64 {
	if maxAddr == ^uint64(0) {
		return g.rng.Uint64()
	}

	return g.rng.Uint64N(maxAddr + 1)
}

func sequential(start uint64, count int, step uint64) []uint64 {
	trace := make([]uint64, max(count, 0))
	for i := range trace {
		trace[i] = start + uint64(i)*step
	}

	return trace
}

func looping(loopSize, loops int, stride uint64) []uint64 {
	if loopSize <= 0 || loops <= 0 {
		return []uint64{}
	}

	trace := make([]uint64, 0, loopSize*loops)
	for range loops {
		for i := 0; i < loopSize; i++ {
			trace = append(trace, uint64(i)*stride)
		}
	}

	return trace
}
