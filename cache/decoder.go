package cache

import "fmt"

// Address is a memory address split into its cache fields.
type Address struct {
	Tag      uint64
	SetIndex int
	Offset   uint64
}

// Decoder splits addresses into tag, set index and block offset.
type Decoder struct {
	offsetBits  uint
	indexBits   uint
	addressBits uint
	offsetMask  uint64
	indexMask   uint64
}

// NewDecoder creates a decoder for the geometry described by config.
func NewDecoder(config Config) Decoder {
	return Decoder{
		offsetBits:  uint(config.OffsetBits()),
		indexBits:   uint(config.IndexBits()),
		addressBits: uint(config.AddressBits()),
		offsetMask:  mask(uint(config.OffsetBits())),
		indexMask:   mask(uint(config.IndexBits())),
	}
}

// Decode splits addr. It fails with ErrInvalidAddress if addr does not fit
// in the configured address space.
func (d Decoder) Decode(addr uint64) (Address, error) {
	if d.addressBits < 64 && addr>>d.addressBits != 0 {
		return Address{}, fmt.Errorf("%w: 0x%X exceeds %d-bit address space",
			ErrInvalidAddress, addr, d.addressBits)
	}

	return Address{
		Tag:      addr >> (d.offsetBits + d.indexBits),
		SetIndex: int((addr >> d.offsetBits) & d.indexMask),
		Offset:   addr & d.offsetMask,
	}, nil
}

// Compose is the inverse of Decode.
func (d Decoder) Compose(a Address) uint64 {
	return a.Tag<<(d.offsetBits+d.indexBits) |
		(uint64(a.SetIndex)&d.indexMask)<<d.offsetBits |
		a.Offset&d.offsetMask
}

// BlockAddress clears the offset bits of addr.
func (d Decoder) BlockAddress(addr uint64) uint64 {
	return addr &^ d.offsetMask
}

// mask returns a value with the n low bits set.
func mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<n - 1
}
