package shared

import "errors"

// Sentinel errors returned by the container packages. These replace the
// part of the C template library's tl_status enum that represents a
// genuine failure (TL_ERR_MEM, out-of-range config); "key not found" is
// ordinary control flow and is reported the Go way instead, via the
// comma-ok idiom (TryGet, Remove) or a bool (Erase), matching the
// teacher's own Get/Remove signatures.
var (
	// ErrAlreadyExists is returned by Add when the key is already present.
	ErrAlreadyExists = errors.New("shared: key already exists")

	// ErrOutOfMemory is returned when growing a container's backing
	// storage fails. The container is left in its pre-call state.
	ErrOutOfMemory = errors.New("shared: allocation failed")

	// ErrOutOfRange is returned by configuration setters (e.g. load
	// factor) when the requested value is outside its valid range.
	ErrOutOfRange = errors.New("shared: value out of range")
)
