// Package array implements ARRAY<T>: a dynamically growing, contiguous
// sequence sharing its allocator/zeroing contract with the two hash map
// packages. All index-taking operations are programmer-error checked:
// an out-of-range index panics rather than returning a status, exactly
// as spec'd for a container whose contract is "the caller already knows
// the valid range".
package array

import (
	"fmt"
	"math"

	"github.com/gotlc/containers/shared"
)

// Array is a growable sequence of T, backed by one contiguous slice.
type Array[T any] struct {
	data       []T
	size       int
	growFactor float64
	alloc      shared.Allocator[T]
}

// New creates a ready to use Array with the given initial capacity and
// grow factor (> 1.0).
func New[T any](capacity int, growFactor float64) *Array[T] {
	return NewWithAllocator[T](capacity, growFactor, shared.NewAllocator[T]())
}

// NewWithAllocator is New but lets the caller inject the backing
// allocator policy (see shared.Allocator).
func NewWithAllocator[T any](capacity int, growFactor float64, alloc shared.Allocator[T]) *Array[T] {
	if capacity < 2 {
		panic("array: capacity must be > 1")
	}
	if growFactor <= 1.0 {
		panic("array: growFactor must be > 1.0")
	}
	if alloc == nil {
		alloc = shared.NewAllocator[T]()
	}

	return &Array[T]{
		data:       alloc.Allocate(capacity),
		growFactor: growFactor,
		alloc:      alloc,
	}
}

// Size returns the number of live elements.
func (a *Array[T]) Size() int { return a.size }

// Capacity returns the number of allocated slots.
func (a *Array[T]) Capacity() int { return len(a.data) }

func (a *Array[T]) checkIndex(i int) {
	if i < 0 || i >= a.size {
		panic(fmt.Sprintf("array: index %d out of range [0,%d)", i, a.size))
	}
}

// Get returns a copy of the element at i. Panics if i is out of range.
func (a *Array[T]) Get(i int) T {
	a.checkIndex(i)
	return a.data[i]
}

// Replace overwrites the element at i with x. Panics if i is out of range.
func (a *Array[T]) Replace(i int, x T) {
	a.checkIndex(i)
	a.data[i] = x
}

// Exchange overwrites the element at i with x and returns the old value.
// Panics if i is out of range.
func (a *Array[T]) Exchange(i int, x T) T {
	a.checkIndex(i)
	old := a.data[i]
	a.data[i] = x
	return old
}

// grow applies the growth policy: new capacity is ceil(capacity*growFactor);
// if that doesn't change capacity, add 10 instead. With growFactor > 1.0
// (enforced by NewWithAllocator) the ceiling already exceeds capacity,
// so the +10 branch is a guard rather than a path small factors take.
func (a *Array[T]) grow() error {
	cap0 := len(a.data)
	newCap := int(math.Ceil(float64(cap0) * a.growFactor))
	if newCap == cap0 {
		newCap = cap0 + 10
	}
	if newCap <= cap0 {
		// growFactor <= 0 or an int overflow wrapped us negative.
		return shared.ErrOutOfMemory
	}
	return a.reallocate(newCap)
}

// reallocate grows or shrinks the backing slice to exactly n slots,
// preserving existing elements. Go reports allocation exhaustion as a
// runtime panic rather than a return value; recover() here is what
// turns that into the ErrOutOfMemory the spec requires, leaving the
// array unchanged on failure.
func (a *Array[T]) reallocate(n int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.ErrOutOfMemory
		}
	}()

	a.data = a.alloc.Reallocate(a.data, n)
	return nil
}

// Append adds x to the end of the array, growing if necessary.
func (a *Array[T]) Append(x T) error {
	if a.size == len(a.data) {
		if err := a.grow(); err != nil {
			return err
		}
	}
	a.data[a.size] = x
	a.size++
	return nil
}

// PushFront inserts x at index 0, shifting every other element back.
func (a *Array[T]) PushFront(x T) error {
	return a.Insert(0, x)
}

// Insert places x at index i, 0 <= i <= Size(), shifting elements at and
// after i back by one. Panics if i is out of that range.
func (a *Array[T]) Insert(i int, x T) error {
	if i < 0 || i > a.size {
		panic(fmt.Sprintf("array: insert index %d out of range [0,%d]", i, a.size))
	}
	if a.size == len(a.data) {
		if err := a.grow(); err != nil {
			return err
		}
	}

	copy(a.data[i+1:a.size+1], a.data[i:a.size])
	a.data[i] = x
	a.size++
	return nil
}

// Erase removes the element at i, shifting later elements forward.
// Panics if i is out of range.
func (a *Array[T]) Erase(i int) {
	a.checkIndex(i)

	copy(a.data[i:a.size-1], a.data[i+1:a.size])
	var zero T
	a.data[a.size-1] = zero
	a.size--
}

// Remove removes the element at i and returns its value. Panics if i is
// out of range.
func (a *Array[T]) Remove(i int) T {
	a.checkIndex(i)
	x := a.data[i]
	a.Erase(i)
	return x
}

// ShrinkToFit reallocates the backing slice to exactly Size() slots.
func (a *Array[T]) ShrinkToFit() error {
	if a.size == len(a.data) {
		return nil
	}
	return a.reallocate(a.size)
}

// EnsureCapacity grows the backing slice to at least n slots. A no-op if
// the array's capacity is already >= n.
func (a *Array[T]) EnsureCapacity(n int) error {
	if n <= len(a.data) {
		return nil
	}
	return a.reallocate(n)
}

// Clear removes every element, zeroing their storage, without changing
// capacity.
func (a *Array[T]) Clear() {
	var zero T
	a.alloc.Fill(a.data[:a.size], zero)
	a.size = 0
}

// Each calls fn on every live element in index order. Iteration stops
// early if fn returns true.
func (a *Array[T]) Each(fn func(i int, v T) bool) {
	for i := 0; i < a.size; i++ {
		if fn(i, a.data[i]) {
			return
		}
	}
}

// Copy returns a deep copy of the array (a fresh backing slice with the
// same contents).
func (a *Array[T]) Copy() *Array[T] {
	data := a.alloc.Allocate(len(a.data))
	copy(data, a.data)
	return &Array[T]{
		data:       data,
		size:       a.size,
		growFactor: a.growFactor,
		alloc:      a.alloc,
	}
}
