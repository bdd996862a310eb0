package cache

// FIFOPolicy evicts the line that has been resident the longest. Hits do
// not change the order.
type FIFOPolicy struct {
	wayQueue
}

// NewFIFOPolicy returns a newly constructed FIFO policy.
func NewFIFOPolicy(ways int) *FIFOPolicy {
	return &FIFOPolicy{wayQueue: newWayQueue(ways)}
}

// Name returns "FIFO".
func (p *FIFOPolicy) Name() string { return FIFO.String() }

// OnAccess does nothing for FIFO.
func (p *FIFOPolicy) OnAccess(int) {}

// OnInsert appends way to the insertion queue.
func (p *FIFOPolicy) OnInsert(way int) { p.pushBack(way) }

// OnEvict forgets way.
func (p *FIFOPolicy) OnEvict(way int) { p.remove(way) }

// ChooseVictim returns the oldest inserted way.
func (p *FIFOPolicy) ChooseVictim() (int, error) { return p.front() }
