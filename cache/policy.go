package cache

import (
	"fmt"
	"math/rand/v2"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// A ReplacementPolicy decides which line of a full set to evict. Each set
// owns its own policy instance, and the policy keeps whatever per-way
// bookkeeping it needs in its own tables.
type ReplacementPolicy interface {
	// Name returns the policy name.
	Name() string

	// OnAccess is called when a lookup hits the line in way.
	OnAccess(way int)

	// OnInsert is called after a new line is installed in way.
	OnInsert(way int)

	// OnEvict is called when the line in way is evicted, before the
	// replacement line is installed.
	OnEvict(way int)

	// ChooseVictim returns the way to evict from a full set.
	ChooseVictim() (int, error)

	// Reset drops all bookkeeping.
	Reset()
}

// NewPolicy creates a policy of the given kind for a set with the given
// number of ways. rng is only used by Random and must not be nil for it.
func NewPolicy(kind PolicyKind, ways int, rng *rand.Rand) (ReplacementPolicy, error) {
	switch kind {
	case LRU:
		return NewLRUPolicy(ways), nil
	case FIFO:
		return NewFIFOPolicy(ways), nil
	case Random:
		if rng == nil {
			return nil, fmt.Errorf("%w: random policy requires a random source",
				ErrInvalidConfiguration)
		}
		return NewRandomPolicy(ways, rng), nil
	default:
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidConfiguration, int(kind))
	}
}

func errNoWays() error {
	return fmt.Errorf("%w: cannot choose a victim from a set with no ways",
		ErrInvalidConfiguration)
}

// wayQueue orders the ways of one set, oldest first. The order lives in the
// LRU queue of a single-set akita directory whose blocks stand for the ways;
// a way is tracked while its block is valid.
type wayQueue struct {
	ways  int
	order *akitacache.DirectoryImpl
}

func newWayQueue(ways int) wayQueue {
	return wayQueue{
		ways:  ways,
		order: akitacache.NewDirectory(1, max(ways, 0), 1, akitacache.NewLRUVictimFinder()),
	}
}

func (q *wayQueue) block(way int) *akitacache.Block {
	if way < 0 || way >= q.ways {
		return nil
	}

	return q.order.Sets[0].Blocks[way]
}

func (q *wayQueue) remove(way int) {
	if b := q.block(way); b != nil {
		b.IsValid = false
	}
}

// pushBack moves way to the back of the queue.
func (q *wayQueue) pushBack(way int) {
	if b := q.block(way); b != nil {
		b.IsValid = true
		q.order.Visit(b)
	}
}

func (q *wayQueue) front() (int, error) {
	if q.ways <= 0 {
		return 0, errNoWays()
	}

	for _, b := range q.order.Sets[0].LRUQueue {
		if b.IsValid {
			return b.WayID, nil
		}
	}

	return 0, nil
}

// Order returns the tracked ways, oldest first.
func (q *wayQueue) Order() []int {
	order := make([]int, 0, q.ways)
	for _, b := range q.order.Sets[0].LRUQueue {
		if b.IsValid {
			order = append(order, b.WayID)
		}
	}

	return order
}

func (q *wayQueue) Reset() {
	q.order.Reset()
}
