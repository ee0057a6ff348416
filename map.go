// Package containers collects the generic in-memory containers: a
// growable array and two open-addressing hash map strategies (a
// bucketed flat map and a Robin Hood map), plus a factory that picks
// between the two hash map strategies behind one interface.
package containers

import (
	"github.com/gotlc/containers/flatmap"
	"github.com/gotlc/containers/rhmap"
	"github.com/gotlc/containers/shared"
)

// Map is the hash map interface as a set of function pointers, letting
// callers hold a single Map value regardless of which strategy backs
// it. In most cases using the flatmap or rhmap package directly is
// recommended; Map exists for code that wants to pick the strategy at
// runtime or swap it without touching call sites.
type Map[K comparable, V any] struct {
	Add     func(key K, val V) error
	Insert  func(key K, val V) error
	Get     func(key K) V
	TryGet  func(key K) (V, bool)
	Erase   func(key K) bool
	Remove  func(key K) (V, bool)
	Reserve func(n uintptr) error
	Load    func() float64
	MaxLoad func(lf int) error
	Clear   func()
	Size    func() int
	Each    func(fn func(key K, val V) bool)
	Copy    func() *Map[K, V]
}

// Kind selects the hash map strategy NewMap builds.
type Kind int

const (
	// Flat selects the bucketed flat map (flatmap.Map).
	Flat Kind = iota
	// RobinHood selects the Robin Hood map (rhmap.Map).
	RobinHood
)

// Config configures the factory. Zero values fall back to the chosen
// package's own defaults.
type Config[K comparable, V any] struct {
	Kind Kind
	// Capacity is passed through as NumBuckets for Flat and as
	// Capacity for RobinHood.
	Capacity uintptr
	// LoadFactor is a percentage, 1..100.
	LoadFactor int
	Hasher     shared.HashFn[K]
	Equals     shared.EqualsFn[K]
	// Policy only applies to Flat; RobinHood never uses tombstones.
	Policy flatmap.Policy
}

// NewMap is a factory function that builds a Map backed by the
// strategy named in cfg.Kind.
func NewMap[K comparable, V any](cfg Config[K, V]) *Map[K, V] {
	switch cfg.Kind {
	case RobinHood:
		return wrapRHMap(rhmap.NewWithOptions[K, V](rhmap.Options[K, V]{
			Capacity:   cfg.Capacity,
			LoadFactor: cfg.LoadFactor,
			Hasher:     cfg.Hasher,
			Equals:     cfg.Equals,
		}))
	default: // Flat
		return wrapFlatMap(flatmap.NewWithOptions[K, V](flatmap.Options[K, V]{
			NumBuckets: cfg.Capacity,
			LoadFactor: cfg.LoadFactor,
			Hasher:     cfg.Hasher,
			Equals:     cfg.Equals,
			Policy:     cfg.Policy,
		}))
	}
}

func wrapFlatMap[K comparable, V any](m *flatmap.Map[K, V]) *Map[K, V] {
	return &Map[K, V]{
		Add:     m.Add,
		Insert:  m.Insert,
		Get:     m.Get,
		TryGet:  m.TryGet,
		Erase:   m.Erase,
		Remove:  m.Remove,
		Reserve: m.Reserve,
		Load:    m.Load,
		MaxLoad: m.MaxLoad,
		Clear:   m.Clear,
		Size:    m.Size,
		Each:    m.Each,
		Copy:    func() *Map[K, V] { return wrapFlatMap(m.Copy()) },
	}
}

func wrapRHMap[K comparable, V any](m *rhmap.Map[K, V]) *Map[K, V] {
	return &Map[K, V]{
		Add:     m.Add,
		Insert:  m.Insert,
		Get:     m.Get,
		TryGet:  m.TryGet,
		Erase:   m.Erase,
		Remove:  m.Remove,
		Reserve: m.Reserve,
		Load:    m.Load,
		MaxLoad: m.MaxLoad,
		Clear:   m.Clear,
		Size:    m.Size,
		Each:    m.Each,
		Copy:    func() *Map[K, V] { return wrapRHMap(m.Copy()) },
	}
}
