package cache

import "math/rand/v2"

// RandomPolicy evicts a uniformly chosen way. It keeps no per-way state.
type RandomPolicy struct {
	ways int
	rng  *rand.Rand
}

// NewRandomPolicy returns a random policy drawing from rng.
func NewRandomPolicy(ways int, rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{ways: ways, rng: rng}
}

// NewSeededRand creates the random source used when a seed is configured.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Name returns "RANDOM".
func (p *RandomPolicy) Name() string { return Random.String() }

// OnAccess does nothing for Random.
func (p *RandomPolicy) OnAccess(int) {}

// OnInsert does nothing for Random.
func (p *RandomPolicy) OnInsert(int) {}

// OnEvict does nothing for Random.
func (p *RandomPolicy) OnEvict(int) {}

// ChooseVictim returns a way in [0, ways).
func (p *RandomPolicy) ChooseVictim() (int, error) {
	if p.ways <= 0 {
		return 0, errNoWays()
	}

	return p.rng.IntN(p.ways), nil
}

// Reset does nothing for Random.
func (p *RandomPolicy) Reset() {}
