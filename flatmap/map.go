// Package flatmap implements FLATMAP<K,V>: a power-of-two bucketed open
// addressing hash map. Each of num_buckets buckets owns a contiguous,
// fixed-width run of log2(num_buckets) slots; collisions probe linearly
// within that run and never spill into a neighbouring bucket. Growth
// doubles num_buckets and rehashes whenever the load factor is hit or a
// single bucket overflows.
package flatmap

import (
	"fmt"

	"github.com/gotlc/containers/shared"
)

// Policy selects the erasure/probe-termination discipline. The two are
// mutually exclusive per map instance.
type Policy int

const (
	// ZeroingPolicy (default) compacts a bucket on erase by swapping in
	// its last live entry and zeroing the freed tail slot. Probes
	// terminate on Empty.
	ZeroingPolicy Policy = iota
	// TombstonePolicy marks an erased slot Deleted instead of
	// compacting. Probes must continue past Deleted, and inserts may
	// reclaim a Deleted slot.
	TombstonePolicy
)

type node[K comparable, V any] struct {
	key   K
	value V
}

// probeStatus is the internal result of a bucket-local key search.
type probeStatus int

const (
	probeFound probeStatus = iota
	probeNotFound
	probeOutOfBounds
)

// Map is an open-addressed, bucketed hash map. See package doc for the
// layout. The zero value is not usable; construct with New,
// NewWithHasher or NewWithOptions.
type Map[K comparable, V any] struct {
	nodes      []node[K, V]
	info       []shared.SlotState
	numBuckets uintptr
	bucketMax  uintptr
	slotMask   uintptr
	size       uintptr
	loadFactor int // percent, 1..100
	loadMax    uintptr
	hasher     shared.HashFn[K]
	equals     shared.EqualsFn[K]
	policy     Policy
}

// Options configures a Map at construction time. Zero values fall back
// to the package defaults.
type Options[K comparable, V any] struct {
	NumBuckets uintptr
	LoadFactor int // percent, 1..100; 0 means DefaultLoadFactor
	Hasher     shared.HashFn[K]
	Equals     shared.EqualsFn[K]
	Policy     Policy
}

// New creates a ready to use Map with default settings.
func New[K comparable, V any]() *Map[K, V] {
	return NewWithOptions[K, V](Options[K, V]{})
}

// NewWithHasher is New with a caller-supplied hash function.
func NewWithHasher[K comparable, V any](hasher shared.HashFn[K]) *Map[K, V] {
	return NewWithOptions[K, V](Options[K, V]{Hasher: hasher})
}

// NewWithOptions is the full constructor; see Options.
func NewWithOptions[K comparable, V any](opts Options[K, V]) *Map[K, V] {
	if opts.LoadFactor == 0 {
		opts.LoadFactor = shared.DefaultLoadFactor
	}
	if opts.LoadFactor < 1 || opts.LoadFactor > 100 {
		panic(fmt.Sprintf("flatmap: load factor %d out of range [1,100]", opts.LoadFactor))
	}
	if opts.NumBuckets == 0 {
		opts.NumBuckets = shared.DefaultNumBuckets
	}
	if opts.Hasher == nil {
		opts.Hasher = shared.DefaultHasher[K]()
	}
	if opts.Equals == nil {
		opts.Equals = shared.DefaultEquals[K]()
	}

	m := &Map[K, V]{
		hasher:     opts.Hasher,
		equals:     opts.Equals,
		loadFactor: opts.LoadFactor,
		policy:     opts.Policy,
	}

	numBuckets := uintptr(shared.NextPowerOfTwo(uint64(opts.NumBuckets)))
	if numBuckets < 2 {
		numBuckets = 2
	}
	m.growTo(numBuckets)

	return m
}

func (m *Map[K, V]) homeBase(key K) uintptr {
	bucket := m.hasher(key) & m.slotMask
	return bucket * m.bucketMax
}

// probeOpen scans bucket [base, base+bucketMax) for the first available
// slot under the map's policy (Empty always, plus Deleted under
// TombstonePolicy). Returns bucketMax if the bucket is full.
func (m *Map[K, V]) probeOpen(base uintptr) uintptr {
	for i := uintptr(0); i < m.bucketMax; i++ {
		s := m.info[base+i]
		if s == shared.Empty {
			return i
		}
		if m.policy == TombstonePolicy && s == shared.Deleted {
			return i
		}
	}
	return m.bucketMax
}

// probeKey scans bucket [base, base+bucketMax) for key. On a match it
// returns (slot, probeFound). On a miss it returns (slot, probeNotFound)
// where slot is where the key would be inserted (the first Empty, or
// under TombstonePolicy the first Deleted seen). If the bucket is full
// with no match, it returns (0, probeOutOfBounds).
func (m *Map[K, V]) probeKey(key K, base uintptr) (uintptr, probeStatus) {
	var (
		tombstone    uintptr
		haveTombtone bool
	)

	for i := uintptr(0); i < m.bucketMax; i++ {
		idx := base + i
		switch m.info[idx] {
		case shared.Empty:
			if haveTombtone {
				return tombstone, probeNotFound
			}
			return idx, probeNotFound
		case shared.Deleted:
			if m.policy == TombstonePolicy && !haveTombtone {
				tombstone = idx
				haveTombtone = true
			}
		default: // Occupied or Collided
			if m.equals(m.nodes[idx].key, key) {
				return idx, probeFound
			}
		}
	}

	if haveTombtone {
		return tombstone, probeNotFound
	}
	return 0, probeOutOfBounds
}

// growTo rebuilds the table with at least minNumBuckets buckets,
// doubling further if a pathological hash still overflows a bucket in
// the freshly sized table. Go reports allocation exhaustion as a
// runtime panic rather than a return value; recover() here is what
// turns that into the ErrOutOfMemory the spec requires, leaving the map
// unchanged on failure (mirrors array.Array.reallocate).
func (m *Map[K, V]) growTo(minNumBuckets uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.ErrOutOfMemory
		}
	}()

	numBuckets := minNumBuckets
	for !m.tryResize(numBuckets) {
		numBuckets *= 2
	}
	return nil
}

func (m *Map[K, V]) tryResize(numBuckets uintptr) bool {
	bucketMax := uintptr(shared.Log2Floor(uint64(numBuckets)))
	if bucketMax < 1 {
		bucketMax = 1
	}
	capacity := numBuckets * bucketMax
	slotMask := numBuckets - 1

	nodes := shared.NewAllocator[node[K, V]]().AllocateZeroed(int(capacity))
	info := shared.NewAllocator[shared.SlotState]().AllocateZeroed(int(capacity))

	for i := range m.nodes {
		if !m.info[i].Live() {
			continue
		}

		bucket := m.hasher(m.nodes[i].key) & slotMask
		base := bucket * bucketMax

		slot := bucketMax
		for j := uintptr(0); j < bucketMax; j++ {
			if info[base+j] == shared.Empty {
				slot = j
				break
			}
		}
		if slot == bucketMax {
			return false
		}

		idx := base + slot
		nodes[idx] = m.nodes[i]
		if slot == 0 {
			info[idx] = shared.Occupied
		} else {
			info[idx] = shared.Collided
		}
	}

	m.nodes = nodes
	m.info = info
	m.numBuckets = numBuckets
	m.bucketMax = bucketMax
	m.slotMask = slotMask
	m.loadMax = capacity * uintptr(m.loadFactor) / 100

	return true
}

// Add maps key to value only if key is not already present. Returns
// shared.ErrAlreadyExists if it is, or shared.ErrOutOfMemory if a forced
// grow-and-retry fails to allocate, leaving the map unchanged.
func (m *Map[K, V]) Add(key K, value V) error {
	for {
		if m.size >= m.loadMax {
			if err := m.growTo(m.numBuckets * 2); err != nil {
				return err
			}
		}

		base := m.homeBase(key)
		slot, status := m.probeKey(key, base)

		switch status {
		case probeFound:
			return shared.ErrAlreadyExists
		case probeNotFound:
			m.place(slot, base, key, value)
			m.size++
			return nil
		case probeOutOfBounds:
			if err := m.growTo(m.numBuckets * 2); err != nil {
				return err
			}
		}
	}
}

// Insert maps key to value, overwriting any existing value for key.
// Returns shared.ErrOutOfMemory only if an internal grow (triggered by
// load factor or a full bucket) needs to run and fails to allocate,
// leaving the map unchanged.
func (m *Map[K, V]) Insert(key K, value V) error {
	for {
		if m.size >= m.loadMax {
			if err := m.growTo(m.numBuckets * 2); err != nil {
				return err
			}
		}

		base := m.homeBase(key)
		slot, status := m.probeKey(key, base)

		switch status {
		case probeFound:
			m.nodes[slot].value = value
			return nil
		case probeNotFound:
			m.place(slot, base, key, value)
			m.size++
			return nil
		case probeOutOfBounds:
			if err := m.growTo(m.numBuckets * 2); err != nil {
				return err
			}
		}
	}
}

func (m *Map[K, V]) place(slot, base uintptr, key K, value V) {
	m.nodes[slot] = node[K, V]{key: key, value: value}
	if slot == base {
		m.info[slot] = shared.Occupied
	} else {
		m.info[slot] = shared.Collided
	}
}

// Get returns the value stored for key, or V's zero value if key is
// absent. This is the footgun form the spec warns about: a zero value is
// indistinguishable from "missing" when zero is itself a valid value.
// Prefer TryGet.
func (m *Map[K, V]) Get(key K) V {
	base := m.homeBase(key)
	slot, status := m.probeKey(key, base)
	if status == probeFound {
		return m.nodes[slot].value
	}
	var zero V
	return zero
}

// TryGet returns (value, true) if key is present, or (zero, false)
// otherwise. This is the preferred lookup form.
func (m *Map[K, V]) TryGet(key K) (V, bool) {
	base := m.homeBase(key)
	slot, status := m.probeKey(key, base)
	if status == probeFound {
		return m.nodes[slot].value, true
	}
	var zero V
	return zero, false
}

func (m *Map[K, V]) eraseAt(slot, base uintptr) V {
	removed := m.nodes[slot].value

	if m.policy == TombstonePolicy {
		m.info[slot] = shared.Deleted
		m.size--
		return removed
	}

	// ZeroingPolicy: occupied slots form a gap-free prefix of the
	// bucket, so the last live slot sits right before the first
	// available one.
	firstAvailable := m.probeOpen(base)
	last := base + firstAvailable - 1

	if last != slot {
		m.nodes[slot] = m.nodes[last]
		m.info[slot] = m.info[last]
	}

	var zero node[K, V]
	m.nodes[last] = zero
	m.info[last] = shared.Empty
	m.size--

	return removed
}

// Erase removes key's entry, if present, and returns whether it was.
func (m *Map[K, V]) Erase(key K) bool {
	base := m.homeBase(key)
	slot, status := m.probeKey(key, base)
	if status != probeFound {
		return false
	}
	m.eraseAt(slot, base)
	return true
}

// Remove removes key's entry, if present, and returns its value.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	base := m.homeBase(key)
	slot, status := m.probeKey(key, base)
	if status != probeFound {
		var zero V
		return zero, false
	}
	return m.eraseAt(slot, base), true
}

// Reserve grows the map, if needed, so it can hold at least n entries
// before the next grow. Returns shared.ErrOutOfMemory, leaving the map
// unchanged, if the allocation fails.
func (m *Map[K, V]) Reserve(n uintptr) error {
	for m.loadMax < n {
		if err := m.growTo(m.numBuckets * 2); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every entry without shrinking the backing storage.
func (m *Map[K, V]) Clear() {
	for i := range m.info {
		m.info[i] = shared.Empty
	}
	var zero node[K, V]
	for i := range m.nodes {
		m.nodes[i] = zero
	}
	m.size = 0
}

// Size returns the number of live entries.
func (m *Map[K, V]) Size() int { return int(m.size) }

// Load returns size/capacity.
func (m *Map[K, V]) Load() float64 {
	return float64(m.size) / float64(len(m.nodes))
}

// MaxLoad changes the load factor percentage that forces a grow.
func (m *Map[K, V]) MaxLoad(lf int) error {
	if lf < 1 || lf > 100 {
		return fmt.Errorf("%d: %w", lf, shared.ErrOutOfRange)
	}
	m.loadFactor = lf
	m.loadMax = uintptr(len(m.nodes)) * uintptr(lf) / 100
	return nil
}

// Each calls fn on every key-value pair in no particular order. If fn
// returns true, iteration stops early.
func (m *Map[K, V]) Each(fn func(key K, val V) bool) {
	for i := range m.info {
		if m.info[i].Live() {
			if fn(m.nodes[i].key, m.nodes[i].value) {
				return
			}
		}
	}
}

// Copy returns a deep copy of the map.
func (m *Map[K, V]) Copy() *Map[K, V] {
	nodes := shared.NewAllocator[node[K, V]]().Allocate(len(m.nodes))
	copy(nodes, m.nodes)
	info := shared.NewAllocator[shared.SlotState]().Allocate(len(m.info))
	copy(info, m.info)

	return &Map[K, V]{
		nodes:      nodes,
		info:       info,
		numBuckets: m.numBuckets,
		bucketMax:  m.bucketMax,
		slotMask:   m.slotMask,
		size:       m.size,
		loadFactor: m.loadFactor,
		loadMax:    m.loadMax,
		hasher:     m.hasher,
		equals:     m.equals,
		policy:     m.policy,
	}
}

// NumBuckets returns the current bucket count.
func (m *Map[K, V]) NumBuckets() int { return int(m.numBuckets) }

// BucketMax returns the per-bucket slot capacity (log2(NumBuckets())).
func (m *Map[K, V]) BucketMax() int { return int(m.bucketMax) }

// Capacity returns the total slot count (NumBuckets()*BucketMax()).
func (m *Map[K, V]) Capacity() int { return len(m.nodes) }
