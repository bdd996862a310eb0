package cache

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"strings"
)

// PolicyKind identifies a replacement policy.
type PolicyKind int

const (
	// LRU evicts the least recently used line.
	LRU PolicyKind = iota
	// FIFO evicts the line that was inserted first.
	FIFO
	// Random evicts a uniformly chosen line.
	Random
)

var policyNames = map[PolicyKind]string{
	LRU:    "LRU",
	FIFO:   "FIFO",
	Random: "RANDOM",
}

// Policies lists every supported policy in a stable order.
func Policies() []PolicyKind {
	return []PolicyKind{LRU, FIFO, Random}
}

// ParsePolicy converts a policy name into a PolicyKind. Matching is
// case-insensitive.
func ParsePolicy(name string) (PolicyKind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for kind, n := range policyNames {
		if n == upper {
			return kind, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfiguration, name)
}

func (k PolicyKind) String() string {
	if n, ok := policyNames[k]; ok {
		return n
	}

	return fmt.Sprintf("PolicyKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k PolicyKind) MarshalText() ([]byte, error) {
	if _, ok := policyNames[k]; !ok {
		return nil, fmt.Errorf("%w: unknown policy %d", ErrInvalidConfiguration, int(k))
	}

	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PolicyKind) UnmarshalText(text []byte) error {
	kind, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}

	*k = kind

	return nil
}

// Params holds the user-facing cache parameters. A Params value is not
// trusted by the simulator until it has been turned into a Config by
// NewConfig.
type Params struct {
	// TotalSize is the cache capacity in bytes.
	TotalSize int `json:"total_size_bytes"`

	// BlockSize is the cache line size in bytes. Must be a power of two.
	BlockSize int `json:"block_size_bytes"`

	// Associativity is the number of lines per set.
	Associativity int `json:"associativity"`

	// FullyAssociative derives Associativity so that the cache has a
	// single set.
	FullyAssociative bool `json:"fully_associative,omitempty"`

	// Policy selects the replacement policy.
	Policy PolicyKind `json:"policy"`

	// RandomSeed makes the Random policy reproducible when set.
	RandomSeed *uint64 `json:"random_seed,omitempty"`

	// AddressBits bounds the address space. Zero means the full 64-bit
	// range is addressable.
	AddressBits int `json:"address_bits,omitempty"`
}

// DefaultParams returns an 8KB, 2-way, 64B-line LRU cache.
func DefaultParams() Params {
	return Params{
		TotalSize:     8 * 1024,
		BlockSize:     64,
		Associativity: 2,
		Policy:        LRU,
	}
}

// LoadParams loads Params from a JSON file. Keys missing from the file keep
// their DefaultParams values.
func LoadParams(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read cache config file: %w", err)
	}

	p := DefaultParams()
	if err := json.Unmarshal(data, &p); err != nil {
		return Params{}, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return p, nil
}

// Save writes the Params to a JSON file.
func (p Params) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}

// WithSeed returns a copy of p with RandomSeed set.
func (p Params) WithSeed(seed uint64) Params {
	p.RandomSeed = &seed
	return p
}

// Config is a validated, immutable cache geometry. The zero value is not
// usable; build one with NewConfig.
type Config struct {
	totalSize     int
	blockSize     int
	associativity int
	numSets       int
	policy        PolicyKind
	seed          uint64
	hasSeed       bool
	addressBits   int
	offsetBits    int
	indexBits     int
}

// NewConfig validates p and derives the cache geometry from it.
func NewConfig(p Params) (Config, error) {
	if _, ok := policyNames[p.Policy]; !ok {
		return Config{}, fmt.Errorf("%w: unknown policy %d",
			ErrInvalidConfiguration, int(p.Policy))
	}

	if p.TotalSize <= 0 {
		return Config{}, fmt.Errorf("%w: total size must be > 0, got %d",
			ErrInvalidConfiguration, p.TotalSize)
	}

	if !isPowerOfTwo(p.BlockSize) {
		return Config{}, fmt.Errorf("%w: block size must be a power of two, got %d",
			ErrInvalidConfiguration, p.BlockSize)
	}

	assoc := p.Associativity
	if p.FullyAssociative {
		if p.TotalSize%p.BlockSize != 0 {
			return Config{}, fmt.Errorf(
				"%w: total size %d is not a multiple of block size %d",
				ErrInvalidConfiguration, p.TotalSize, p.BlockSize)
		}
		assoc = p.TotalSize / p.BlockSize
	}

	if assoc <= 0 {
		return Config{}, fmt.Errorf("%w: associativity must be > 0, got %d",
			ErrInvalidConfiguration, assoc)
	}

	if assoc > p.TotalSize/p.BlockSize {
		return Config{}, fmt.Errorf(
			"%w: %d ways of %d-byte blocks exceed total size %d",
			ErrInvalidConfiguration, assoc, p.BlockSize, p.TotalSize)
	}

	setBytes := p.BlockSize * assoc
	if p.TotalSize%setBytes != 0 {
		return Config{}, fmt.Errorf(
			"%w: total size %d is not divisible by block size %d x associativity %d",
			ErrInvalidConfiguration, p.TotalSize, p.BlockSize, assoc)
	}

	numSets := p.TotalSize / setBytes
	if !isPowerOfTwo(numSets) {
		return Config{}, fmt.Errorf("%w: set count must be a power of two, got %d",
			ErrInvalidConfiguration, numSets)
	}

	c := Config{
		totalSize:     p.TotalSize,
		blockSize:     p.BlockSize,
		associativity: assoc,
		numSets:       numSets,
		policy:        p.Policy,
		addressBits:   p.AddressBits,
		offsetBits:    log2(p.BlockSize),
		indexBits:     log2(numSets),
	}

	if p.RandomSeed != nil {
		c.seed = *p.RandomSeed
		c.hasSeed = true
	}

	if p.AddressBits < 0 || p.AddressBits > 64 {
		return Config{}, fmt.Errorf("%w: address bits must be within 0..64 (0 means 64), got %d",
			ErrInvalidConfiguration, p.AddressBits)
	}

	if p.AddressBits > 0 && p.AddressBits < c.offsetBits+c.indexBits {
		return Config{}, fmt.Errorf(
			"%w: %d address bits cannot hold %d offset bits and %d index bits",
			ErrInvalidConfiguration, p.AddressBits, c.offsetBits, c.indexBits)
	}

	return c, nil
}

// MustNewConfig is like NewConfig but panics on invalid parameters.
func MustNewConfig(p Params) Config {
	c, err := NewConfig(p)
	if err != nil {
		panic(err)
	}

	return c
}

// TotalSize returns the capacity in bytes.
func (c Config) TotalSize() int { return c.totalSize }

// BlockSize returns the line size in bytes.
func (c Config) BlockSize() int { return c.blockSize }

// Associativity returns the number of lines per set.
func (c Config) Associativity() int { return c.associativity }

// NumSets returns the number of sets.
func (c Config) NumSets() int { return c.numSets }

// NumBlocks returns the total number of lines in the cache.
func (c Config) NumBlocks() int { return c.numSets * c.associativity }

// Policy returns the replacement policy kind.
func (c Config) Policy() PolicyKind { return c.policy }

// Seed returns the Random policy seed and whether one was supplied.
func (c Config) Seed() (uint64, bool) { return c.seed, c.hasSeed }

// AddressBits returns the configured address width, or 64 when the
// address space is unbounded.
func (c Config) AddressBits() int {
	if c.addressBits == 0 {
		return 64
	}

	return c.addressBits
}

// OffsetBits returns the number of block offset bits.
func (c Config) OffsetBits() int { return c.offsetBits }

// IndexBits returns the number of set index bits.
func (c Config) IndexBits() int { return c.indexBits }

// TagBits returns the number of tag bits.
func (c Config) TagBits() int { return c.AddressBits() - c.offsetBits - c.indexBits }

// Params converts the Config back into the parameters that produce it.
// FullyAssociative is folded into Associativity.
func (c Config) Params() Params {
	p := Params{
		TotalSize:     c.totalSize,
		BlockSize:     c.blockSize,
		Associativity: c.associativity,
		Policy:        c.policy,
		AddressBits:   c.addressBits,
	}

	if c.hasSeed {
		p = p.WithSeed(c.seed)
	}

	return p
}

func (c Config) String() string {
	ways := fmt.Sprintf("%d-way", c.associativity)
	switch {
	case c.associativity == 1:
		ways = "direct-mapped"
	case c.numSets == 1:
		ways = "fully associative"
	}

	return fmt.Sprintf("%s, %dB blocks, %s, %d sets, %s",
		formatSize(c.totalSize), c.blockSize, ways, c.numSets, c.policy)
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func log2(n int) int {
	return bits.TrailingZeros(uint(n))
}
