package shared

// Allocator is the Go-native shape of the C template library's
// injectable allocator: allocate, allocate_zeroed, reallocate,
// deallocate, fill and relocate become six slice operations over T.
// Array[T] accepts an Allocator[T] at construction because T is part of
// its public API; FlatMap/RHMap keep the default allocator internally
// since their node type interleaves bookkeeping fields and is
// package-private (see DESIGN.md).
type Allocator[T any] interface {
	// Allocate returns a new slice of length n. Contents are whatever
	// the runtime happens to hand back; callers needing a guaranteed
	// zero value must use AllocateZeroed.
	Allocate(n int) []T
	// AllocateZeroed returns a new slice of length n with every element
	// set to T's zero value.
	AllocateZeroed(n int) []T
	// Reallocate returns a slice of length n with old's contents copied
	// into the prefix (or truncated, if n < len(old)).
	Reallocate(old []T, n int) []T
	// Deallocate releases s's backing storage. A no-op under Go's GC;
	// kept so a custom allocator can pool buffers.
	Deallocate(s []T)
	// Fill overwrites every element of s with pattern.
	Fill(s []T, pattern T)
	// Relocate copies min(len(dst), len(src)) elements from src to dst
	// and returns the count copied.
	Relocate(dst, src []T) int
}

type defaultAllocator[T any] struct{}

// NewAllocator returns the default Allocator[T]: ordinary Go slices
// backed by make/copy. Go's runtime already zeroes fresh memory, so
// Allocate and AllocateZeroed are equivalent here; the distinction only
// matters for allocators that recycle buffers.
func NewAllocator[T any]() Allocator[T] {
	return defaultAllocator[T]{}
}

func (defaultAllocator[T]) Allocate(n int) []T {
	return make([]T, n)
}

func (defaultAllocator[T]) AllocateZeroed(n int) []T {
	return make([]T, n)
}

func (defaultAllocator[T]) Reallocate(old []T, n int) []T {
	next := make([]T, n)
	copy(next, old)
	return next
}

func (defaultAllocator[T]) Deallocate(_ []T) {}

func (defaultAllocator[T]) Fill(s []T, pattern T) {
	for i := range s {
		s[i] = pattern
	}
}

func (defaultAllocator[T]) Relocate(dst, src []T) int {
	return copy(dst, src)
}
