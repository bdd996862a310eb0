// Package cache models a single-level, set-associative CPU cache with
// pluggable replacement policies.
//
// A Cache is built from a validated Config and consulted one address at a
// time through Access. It is not safe for concurrent use; run one Cache per
// simulation.
package cache

import (
	"fmt"
	"iter"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Statistics holds cache performance statistics.
type Statistics struct {
	Accesses     uint64  `json:"accesses"`
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	Replacements uint64  `json:"replacements"`
	HitRate      float64 `json:"hit_rate"`
}

// MissRate returns misses / accesses, or 0 when nothing was accessed.
func (s Statistics) MissRate() float64 {
	if s.Accesses == 0 {
		return 0
	}

	return float64(s.Misses) / float64(s.Accesses)
}

// AccessRecord is one entry of the access log.
type AccessRecord struct {
	Address    uint64  `json:"address"`
	Set        int     `json:"set"`
	Tag        uint64  `json:"tag"`
	Outcome    Outcome `json:"outcome"`
	Evicted    bool    `json:"evicted,omitempty"`
	EvictedTag uint64  `json:"evicted_tag,omitempty"`
}

// DefaultAccessLogLimit is the number of accesses kept by WithAccessLog
// when a non-positive limit is given.
const DefaultAccessLogLimit = 1000

// Option configures a Cache.
type Option func(*Cache)

// WithRand sets the random source used by the Random policy. It overrides
// the configured seed.
func WithRand(rng *rand.Rand) Option {
	return func(c *Cache) {
		c.rng = rng
	}
}

// WithAccessLog records the first limit accesses.
func WithAccessLog(limit int) Option {
	return func(c *Cache) {
		if limit <= 0 {
			limit = DefaultAccessLogLimit
		}
		c.logLimit = limit
		c.accessLog = make([]AccessRecord, 0, min(limit, DefaultAccessLogLimit))
	}
}

// WithLogger traces every access at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache is a set-associative cache.
type Cache struct {
	config  Config
	decoder Decoder
	sets    []*Set
	rng     *rand.Rand

	stats Statistics

	accessLog []AccessRecord
	logLimit  int
	logger    *zap.Logger
}

// New creates an empty cache with the given configuration.
func New(config Config, opts ...Option) *Cache {
	c := &Cache{
		config:  config,
		decoder: NewDecoder(config),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		if seed, ok := config.Seed(); ok {
			c.rng = NewSeededRand(seed)
		} else {
			c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}

	c.sets = make([]*Set, config.NumSets())
	for i := range c.sets {
		policy, err := NewPolicy(config.Policy(), config.Associativity(), c.rng)
		if err != nil {
			// A Config can only hold a known policy and rng is set above.
			panic(err)
		}
		c.sets[i] = NewSet(config.Associativity(), policy)
	}

	return c
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Decoder returns the address decoder of the cache.
func (c *Cache) Decoder() Decoder {
	return c.decoder
}

// Access looks up addr, filling the block on a miss. An ErrInvalidAddress
// leaves the cache and its statistics untouched.
func (c *Cache) Access(addr uint64) (Outcome, error) {
	if len(c.sets) == 0 {
		return Miss, fmt.Errorf("%w: cache has no sets", ErrInvalidConfiguration)
	}

	a, err := c.decoder.Decode(addr)
	if err != nil {
		return Miss, err
	}

	result, err := c.sets[a.SetIndex].Lookup(a.Tag)
	if err != nil {
		return Miss, err
	}

	c.stats.Accesses++
	if result.Outcome == Hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
		if result.Evicted {
			c.stats.Replacements++
		}
	}

	c.record(addr, a, result)

	return result.Outcome, nil
}

func (c *Cache) record(addr uint64, a Address, result LookupResult) {
	if ce := c.logger.Check(zap.DebugLevel, "cache access"); ce != nil {
		fields := []zap.Field{
			zap.String("address", fmt.Sprintf("0x%08X", addr)),
			zap.Int("set", a.SetIndex),
			zap.Uint64("tag", a.Tag),
			zap.Int("way", result.Way),
			zap.Stringer("outcome", result.Outcome),
		}
		if result.Evicted {
			fields = append(fields, zap.Uint64("evicted_tag", result.EvictedTag))
		}
		ce.Write(fields...)
	}

	if len(c.accessLog) < c.logLimit {
		c.accessLog = append(c.accessLog, AccessRecord{
			Address:    addr,
			Set:        a.SetIndex,
			Tag:        a.Tag,
			Outcome:    result.Outcome,
			Evicted:    result.Evicted,
			EvictedTag: result.EvictedTag,
		})
	}
}

// Replay accesses every address of addrs in order. It stops at the first
// error and returns the statistics gathered so far.
func (c *Cache) Replay(addrs iter.Seq[uint64]) (Statistics, error) {
	for addr := range addrs {
		if _, err := c.Access(addr); err != nil {
			return c.Stats(), err
		}
	}

	return c.Stats(), nil
}

// Contains reports whether the block holding addr is resident. It does not
// count as an access and does not update replacement state.
func (c *Cache) Contains(addr uint64) (bool, error) {
	if len(c.sets) == 0 {
		return false, fmt.Errorf("%w: cache has no sets", ErrInvalidConfiguration)
	}

	a, err := c.decoder.Decode(addr)
	if err != nil {
		return false, err
	}

	return c.sets[a.SetIndex].Contains(a.Tag), nil
}

// Set returns the set at index i.
func (c *Cache) Set(i int) *Set {
	return c.sets[i]
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() Statistics {
	s := c.stats
	if s.Accesses > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Accesses)
	}

	return s
}

// ResetStats clears cache statistics and the access log.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
	c.accessLog = c.accessLog[:0]
}

// Reset invalidates all lines and clears statistics.
func (c *Cache) Reset() {
	for _, s := range c.sets {
		s.Reset()
	}
	c.ResetStats()
}

// AccessLog returns a copy of the recorded accesses.
func (c *Cache) AccessLog() []AccessRecord {
	return append([]AccessRecord(nil), c.accessLog...)
}
