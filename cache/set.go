package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Outcome is the result of a cache lookup.
type Outcome int

const (
	// Miss means the block was not resident.
	Miss Outcome = iota
	// Hit means the block was resident.
	Hit
)

func (o Outcome) String() string {
	if o == Hit {
		return "HIT"
	}

	return "MISS"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// A Line is one slot of a set.
type Line struct {
	Valid bool
	Tag   uint64
}

// LookupResult describes what a Set did during a lookup.
type LookupResult struct {
	Outcome Outcome

	// Way is the slot that was hit or filled.
	Way int

	// Evicted is true if a valid line was replaced to make room.
	Evicted bool

	// EvictedTag is the tag of the replaced line (if Evicted is true).
	EvictedTag uint64
}

// A Set is a fixed number of lines that a group of addresses can be stored
// at. The lines are the blocks of a single-set akita directory, addressed by
// tag. Replacement decisions are delegated to the set's policy.
type Set struct {
	directory *akitacache.DirectoryImpl
	finder    *policyVictimFinder
	policy    ReplacementPolicy
}

// NewSet creates an empty set with the given number of ways.
func NewSet(ways int, policy ReplacementPolicy) *Set {
	finder := &policyVictimFinder{policy: policy}

	return &Set{
		directory: akitacache.NewDirectory(1, ways, 1, finder),
		finder:    finder,
		policy:    policy,
	}
}

// Lookup searches the set for tag, installing it on a miss.
func (s *Set) Lookup(tag uint64) (LookupResult, error) {
	if block := s.directory.Lookup(0, tag); block != nil {
		s.policy.OnAccess(block.WayID)
		return LookupResult{Outcome: Hit, Way: block.WayID}, nil
	}

	victim := s.directory.FindVictim(tag)
	if victim == nil {
		return LookupResult{}, s.finder.takeErr()
	}

	result := LookupResult{Outcome: Miss, Way: victim.WayID}
	if victim.IsValid {
		result.Evicted = true
		result.EvictedTag = victim.Tag

		s.policy.OnEvict(victim.WayID)
		victim.IsValid = false
	}

	victim.Tag = tag
	victim.IsValid = true
	s.policy.OnInsert(victim.WayID)

	return result, nil
}

// Contains reports whether tag is resident without touching the policy.
func (s *Set) Contains(tag uint64) bool {
	return s.directory.Lookup(0, tag) != nil
}

// Lines returns a copy of the set's lines.
func (s *Set) Lines() []Line {
	lines := make([]Line, 0, s.Ways())
	for _, b := range s.blocks() {
		if b.IsValid {
			lines = append(lines, Line{Valid: true, Tag: b.Tag})
		} else {
			lines = append(lines, Line{})
		}
	}

	return lines
}

// Tags returns the tags of the valid lines in way order.
func (s *Set) Tags() []uint64 {
	tags := make([]uint64, 0, s.Ways())
	for _, b := range s.blocks() {
		if b.IsValid {
			tags = append(tags, b.Tag)
		}
	}

	return tags
}

// ValidCount returns the number of valid lines.
func (s *Set) ValidCount() int {
	n := 0
	for _, b := range s.blocks() {
		if b.IsValid {
			n++
		}
	}

	return n
}

// Ways returns the associativity of the set.
func (s *Set) Ways() int {
	return s.directory.WayAssociativity()
}

// Policy returns the policy governing the set.
func (s *Set) Policy() ReplacementPolicy {
	return s.policy
}

// Reset invalidates every line and clears the policy state.
func (s *Set) Reset() {
	s.directory.Reset()
	s.policy.Reset()
}

func (s *Set) blocks() []*akitacache.Block {
	return s.directory.Sets[0].Blocks
}

// policyVictimFinder is the akita victim finder of a Set. It fills the first
// invalid way and otherwise asks the replacement policy. Policy errors are
// kept until the set collects them.
type policyVictimFinder struct {
	policy ReplacementPolicy
	err    error
}

func (f *policyVictimFinder) FindVictim(set *akitacache.Set) *akitacache.Block {
	for _, b := range set.Blocks {
		if !b.IsValid {
			return b
		}
	}

	way, err := f.policy.ChooseVictim()
	if err != nil {
		f.err = err
		return nil
	}

	if way < 0 || way >= len(set.Blocks) {
		f.err = fmt.Errorf("%s policy chose way %d in a %d-way set",
			f.policy.Name(), way, len(set.Blocks))
		return nil
	}

	return set.Blocks[way]
}

func (f *policyVictimFinder) takeErr() error {
	err := f.err
	f.err = nil

	if err == nil {
		err = fmt.Errorf("%w: set has no victim", ErrInvalidConfiguration)
	}

	return err
}
