package cache

import "errors"

var (
	// ErrInvalidConfiguration is returned when cache geometry or policy
	// parameters cannot describe a valid cache.
	ErrInvalidConfiguration = errors.New("invalid cache configuration")

	// ErrInvalidAddress is returned when an address falls outside the
	// configured address space.
	ErrInvalidAddress = errors.New("invalid address")
)
