// Package mrerrors defines the error kinds shared by the mountain range
// solver core: corrupt or malformed input, I/O failure, and unsupported
// dimensionality. Callers use errors.Is against the sentinels below rather
// than type assertions.
package mrerrors

import "errors"

var (
	// ErrCorruptInput indicates a file shorter than the header, a size
	// mismatch between the declared cell count and the remaining bytes,
	// or any other structurally invalid payload.
	ErrCorruptInput = errors.New("corrupt input")

	// ErrUnsupportedDimensions indicates a declared ndims other than 1.
	ErrUnsupportedDimensions = errors.New("unsupported dimensions")

	// ErrIOFailure wraps an underlying read or write failure from the
	// collaborator (file, network, etc.) supplying the byte stream.
	ErrIOFailure = errors.New("I/O failure")
)
