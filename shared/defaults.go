// Package shared collects the utility layer reused by every container:
// power-of-two sizing helpers, the slot-state tag, pluggable hashing and
// the allocator policy. No container package depends on another; they
// all depend on shared.
package shared

const (
	// DefaultLoadFactor is the percentage of capacity at which a map
	// triggers a grow, for both FlatMap and RHMap. Must stay in [1,100].
	DefaultLoadFactor = 70

	// DefaultNumBuckets is the initial bucket count for a FlatMap.
	DefaultNumBuckets = 8

	// DefaultCapacity is the initial slot capacity for a RHMap.
	DefaultCapacity = 16

	// DefaultArrayCapacity and DefaultGrowFactor are starting values for
	// an Array; array.New takes both explicitly and does not read them.
	DefaultArrayCapacity = 20
	DefaultGrowFactor    = 2.0
)
