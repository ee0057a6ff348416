// Package rhmap implements RHMAP<K,V>: a power-of-two Robin Hood hash
// map backed by a single flat, padded array. Every live entry's probe
// sequence length (psl) — its distance from its home slot — is bounded
// by max_psl = 2*log2(capacity); the array carries max_psl extra
// padding slots past capacity so a probe starting anywhere inside
// [0,capacity) can read home+psl without ever wrapping with a modulo.
package rhmap

import (
	"fmt"

	"github.com/gotlc/containers/shared"
)

type node[K comparable, V any] struct {
	state shared.SlotState
	psl   int
	key   K
	value V
}

func stateForPSL(psl int) shared.SlotState {
	if psl == 0 {
		return shared.Occupied
	}
	return shared.Collided
}

type insertResult int

const (
	resFound insertResult = iota
	resInserted
	resNeedGrow
)

// Map is a Robin Hood open-addressed hash map. The zero value is not
// usable; construct with New, NewWithHasher or NewWithOptions.
type Map[K comparable, V any] struct {
	nodes      []node[K, V]
	capacity   uintptr // power of two, excludes the maxPSL padding tail
	slotMask   uintptr
	maxPSL     int
	size       uintptr
	loadFactor int // percent, 1..100
	loadMax    uintptr
	hasher     shared.HashFn[K]
	equals     shared.EqualsFn[K]
}

// Options configures a Map at construction time. Zero values fall back
// to the package defaults.
type Options[K comparable, V any] struct {
	Capacity   uintptr
	LoadFactor int // percent, 1..100; 0 means DefaultLoadFactor
	Hasher     shared.HashFn[K]
	Equals     shared.EqualsFn[K]
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
		panic(fmt.Sprintf("rhmap: load factor %d out of range [1,100]", opts.LoadFactor))
	}
	if opts.Capacity == 0 {
		opts.Capacity = shared.DefaultCapacity
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
	}

	capacity := uintptr(shared.NextPowerOfTwo(uint64(opts.Capacity)))
	if capacity < 2 {
		capacity = 2
	}
	m.growTo(capacity)

	return m
}

// growTo rebuilds the table with at least minCapacity slots, doubling
// further if reinserting every live entry still overflows max_psl in
// the freshly sized table. Go reports allocation exhaustion as a
// runtime panic rather than a return value; recover() here is what
// turns that into the ErrOutOfMemory the spec requires, leaving the map
// unchanged on failure (mirrors array.Array.reallocate).
func (m *Map[K, V]) growTo(minCapacity uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.ErrOutOfMemory
		}
	}()

	capacity := minCapacity
	for !m.tryResize(capacity) {
		capacity *= 2
	}
	return nil
}

func (m *Map[K, V]) tryResize(capacity uintptr) bool {
	maxPSL := 2 * shared.Log2Floor(uint64(capacity))
	if maxPSL < 1 {
		maxPSL = 1
	}
	slotMask := capacity - 1
	nodes := shared.NewAllocator[node[K, V]]().AllocateZeroed(int(capacity) + maxPSL)

	for i := range m.nodes {
		if !m.nodes[i].state.Live() {
			continue
		}
		if !rawInsert(nodes, slotMask, maxPSL, m.hasher, m.nodes[i].key, m.nodes[i].value) {
			return false
		}
	}

	m.nodes = nodes
	m.capacity = capacity
	m.slotMask = slotMask
	m.maxPSL = maxPSL
	m.loadMax = capacity * uintptr(m.loadFactor) / 100

	return true
}

// rawInsert performs the Robin Hood insertion walk for a key known not
// to already be present (used only during rehash, where every source
// entry is already unique). Returns false if max_psl is exhausted.
func rawInsert[K comparable, V any](nodes []node[K, V], slotMask uintptr, maxPSL int, hasher shared.HashFn[K], key K, value V) bool {
	idx := hasher(key) & slotMask
	psl := 0

	for psl < maxPSL {
		slot := &nodes[idx]

		if slot.state == shared.Empty {
			slot.state = stateForPSL(psl)
			slot.psl = psl
			slot.key = key
			slot.value = value
			return true
		}

		if psl > slot.psl {
			dk, dv, dpsl := slot.key, slot.value, slot.psl
			slot.state = stateForPSL(psl)
			slot.psl = psl
			slot.key = key
			slot.value = value
			key, value, psl = dk, dv, dpsl
		}

		idx++
		psl++
	}

	return false
}

// insert is the full Add/Insert walk: unlike rawInsert it also checks
// for an existing key along the way, since a live map (unlike a
// freshly rehashed one) may already hold the key. The walk is first
// made without writing, so a walk that would exhaust maxPSL returns
// resNeedGrow with the table untouched instead of dropping a displaced
// resident.
func (m *Map[K, V]) insert(key K, value V, overwrite bool) insertResult {
	idx := m.hasher(key) & m.slotMask

	for i, p, carryingKey := idx, 0, true; ; i, p = i+1, p+1 {
		if p >= m.maxPSL {
			return resNeedGrow
		}
		s := &m.nodes[i]
		if s.state == shared.Empty || (carryingKey && m.equals(s.key, key)) {
			break
		}
		if p > s.psl {
			p, carryingKey = s.psl, false
		}
	}

	psl := 0
	for psl < m.maxPSL {
		slot := &m.nodes[idx]

		if slot.state == shared.Empty {
			slot.state = stateForPSL(psl)
			slot.psl = psl
			slot.key = key
			slot.value = value
			return resInserted
		}

		if m.equals(slot.key, key) {
			if overwrite {
				slot.value = value
			}
			return resFound
		}

		if psl > slot.psl {
			dk, dv, dpsl := slot.key, slot.value, slot.psl
			slot.state = stateForPSL(psl)
			slot.psl = psl
			slot.key = key
			slot.value = value
			key, value, psl = dk, dv, dpsl
		}

		idx++
		psl++
	}

	return resNeedGrow
}

// Add maps key to value only if key is not already present. Returns
// shared.ErrAlreadyExists if it is, or shared.ErrOutOfMemory if a forced
// grow-and-retry fails to allocate, leaving the map unchanged.
func (m *Map[K, V]) Add(key K, value V) error {
	for {
		if m.size >= m.loadMax {
			if err := m.growTo(m.capacity * 2); err != nil {
				return err
			}
		}

		switch m.insert(key, value, false) {
		case resFound:
			return shared.ErrAlreadyExists
		case resInserted:
			m.size++
			return nil
		case resNeedGrow:
			if err := m.growTo(m.capacity * 2); err != nil {
				return err
			}
		}
	}
}

// Insert maps key to value, overwriting any existing value for key.
// Returns shared.ErrOutOfMemory only if a forced grow-and-retry fails to
// allocate, leaving the map unchanged.
func (m *Map[K, V]) Insert(key K, value V) error {
	for {
		if m.size >= m.loadMax {
			if err := m.growTo(m.capacity * 2); err != nil {
				return err
			}
		}

		switch m.insert(key, value, true) {
		case resFound:
			return nil
		case resInserted:
			m.size++
			return nil
		case resNeedGrow:
			if err := m.growTo(m.capacity * 2); err != nil {
				return err
			}
		}
	}
}

// find walks from key's home slot, stopping on Empty (miss), on a slot
// whose psl is less than the steps taken so far (miss, by the Robin
// Hood invariant), or on a key match (hit).
func (m *Map[K, V]) find(key K) (uintptr, bool) {
	idx := m.hasher(key) & m.slotMask
	steps := 0

	for {
		slot := &m.nodes[idx]
		if slot.state == shared.Empty || slot.psl < steps {
			return 0, false
		}
		if m.equals(slot.key, key) {
			return idx, true
		}
		idx++
		steps++
	}
}

// Get returns the value stored for key, or V's zero value if key is
// absent. Prefer TryGet, which distinguishes a stored zero value from a
// miss.
func (m *Map[K, V]) Get(key K) V {
	if idx, ok := m.find(key); ok {
		return m.nodes[idx].value
	}
	var zero V
	return zero
}

// TryGet returns (value, true) if key is present, or (zero, false)
// otherwise.
func (m *Map[K, V]) TryGet(key K) (V, bool) {
	if idx, ok := m.find(key); ok {
		return m.nodes[idx].value, true
	}
	var zero V
	return zero, false
}

// eraseAt performs backward-shift deletion starting at idx: every
// subsequent slot that is occupied and has psl > 0 moves back one slot
// with its psl decremented, until an Empty slot or one with psl == 0 is
// reached.
func (m *Map[K, V]) eraseAt(idx uintptr) V {
	removed := m.nodes[idx].value

	cur := idx
	next := idx + 1
	for next < uintptr(len(m.nodes)) && m.nodes[next].state != shared.Empty && m.nodes[next].psl > 0 {
		m.nodes[cur] = m.nodes[next]
		m.nodes[cur].psl--
		m.nodes[cur].state = stateForPSL(m.nodes[cur].psl)
		cur = next
		next++
	}

	var zero node[K, V]
	m.nodes[cur] = zero
	m.nodes[cur].state = shared.Empty
	m.size--

	return removed
}

// Erase removes key's entry, if present, and returns whether it was.
func (m *Map[K, V]) Erase(key K) bool {
	idx, ok := m.find(key)
	if !ok {
		return false
	}
	m.eraseAt(idx)
	return true
}

// Remove removes key's entry, if present, and returns its value.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	idx, ok := m.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return m.eraseAt(idx), true
}

// Reserve grows the map, if needed, so it can hold at least n entries
// before the next grow. Returns shared.ErrOutOfMemory, leaving the map
// unchanged, if the allocation fails.
func (m *Map[K, V]) Reserve(n uintptr) error {
	for m.loadMax < n {
		if err := m.growTo(m.capacity * 2); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every entry without shrinking the backing storage.
func (m *Map[K, V]) Clear() {
	var zero node[K, V]
	for i := range m.nodes {
		m.nodes[i] = zero
	}
	m.size = 0
}

// Size returns the number of live entries.
func (m *Map[K, V]) Size() int { return int(m.size) }

// Load returns size/capacity (capacity excludes the probe padding).
func (m *Map[K, V]) Load() float64 {
	return float64(m.size) / float64(m.capacity)
}

// MaxLoad changes the load factor percentage that forces a grow.
func (m *Map[K, V]) MaxLoad(lf int) error {
	if lf < 1 || lf > 100 {
		return fmt.Errorf("%d: %w", lf, shared.ErrOutOfRange)
	}
	m.loadFactor = lf
	m.loadMax = m.capacity * uintptr(lf) / 100
	return nil
}

// Each calls fn on every key-value pair in no particular order. If fn
// returns true, iteration stops early.
func (m *Map[K, V]) Each(fn func(key K, val V) bool) {
	for i := range m.nodes {
		if m.nodes[i].state.Live() {
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

	return &Map[K, V]{
		nodes:      nodes,
		capacity:   m.capacity,
		slotMask:   m.slotMask,
		maxPSL:     m.maxPSL,
		size:       m.size,
		loadFactor: m.loadFactor,
		loadMax:    m.loadMax,
		hasher:     m.hasher,
		equals:     m.equals,
	}
}

// Capacity returns the number of home slots (excludes probe padding).
func (m *Map[K, V]) Capacity() int { return int(m.capacity) }

// MaxPSL returns the current bound on probe sequence length.
func (m *Map[K, V]) MaxPSL() int { return m.maxPSL }
