package cache

// LRUPolicy evicts the least recently used line. It keeps a recency queue
// of the occupied ways, least recent first.
type LRUPolicy struct {
	wayQueue
}

// NewLRUPolicy returns a newly constructed LRU policy.
func NewLRUPolicy(ways int) *LRUPolicy {
	return &LRUPolicy{wayQueue: newWayQueue(ways)}
}

// Name returns "LRU".
func (p *LRUPolicy) Name() string { return LRU.String() }

// OnAccess makes way the most recently used.
func (p *LRUPolicy) OnAccess(way int) { p.pushBack(way) }

// OnInsert makes way the most recently used.
func (p *LRUPolicy) OnInsert(way int) { p.pushBack(way) }

// OnEvict forgets way.
func (p *LRUPolicy) OnEvict(way int) { p.remove(way) }

// ChooseVictim returns the least recently used way.
func (p *LRUPolicy) ChooseVictim() (int, error) { return p.front() }
