package containers_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gotlc/containers"
)

func checkEach[K comparable, V comparable](t *testing.T, m *containers.Map[K, V], get func(k K) (V, bool)) {
	m.Each(func(key K, val V) bool {
		ov, ok := get(key)
		assert.Truef(t, ok, "key %v should exist", key)
		assert.Equal(t, ov, val)

		v, found := m.TryGet(key)
		assert.True(t, found)
		assert.Equal(t, val, v)
		return false
	})
}

func TestFactoryCrossCheck(t *testing.T) {
	kinds := []containers.Kind{containers.Flat, containers.RobinHood}

	for _, kind := range kinds {
		m := containers.NewMap[uint64, uint32](containers.Config[uint64, uint32]{Kind: kind})
		oracle := make(map[uint64]uint32)

		r := rand.New(rand.NewSource(int64(kind) + 1))

		const nops = 2000
		for i := 0; i < nops; i++ {
			key := uint64(r.Intn(1000))
			val := r.Uint32()

			switch r.Intn(4) {
			case 0, 1:
				oracle[key] = val
				assert.NoError(t, m.Insert(key, val))
			case 2:
				v, ok := m.TryGet(key)
				ov, oracleOk := oracle[key]
				assert.Equal(t, oracleOk, ok)
				if ok {
					assert.Equal(t, ov, v)
				}
			case 3:
				if len(oracle) == 0 {
					continue
				}
				for k := range oracle {
					key = k
					break
				}
				delete(oracle, key)
				_, ok := m.Remove(key)
				assert.True(t, ok)
			}

			assert.Equal(t, len(oracle), m.Size())
		}

		checkEach(t, m, func(k uint64) (uint32, bool) {
			v, ok := oracle[k]
			return v, ok
		})
	}
}

func TestFactoryCopyIsIndependent(t *testing.T) {
	for _, kind := range []containers.Kind{containers.Flat, containers.RobinHood} {
		orig := containers.NewMap[uint64, uint32](containers.Config[uint64, uint32]{Kind: kind})
		for i := uint32(0); i < 10; i++ {
			assert.NoError(t, orig.Add(uint64(i), i))
		}

		cpy := orig.Copy()
		assert.NoError(t, cpy.Insert(0, 42))

		v, _ := cpy.TryGet(0)
		assert.Equal(t, uint32(42), v)

		v, _ = orig.TryGet(0)
		assert.Equal(t, uint32(0), v)
	}
}

func Example() {
	m := containers.NewMap[string, int](containers.Config[string, int]{Kind: containers.RobinHood})
	m.Add("foo", 42)
	m.Add("bar", 13)

	fmt.Println(m.TryGet("foo"))
	fmt.Println(m.TryGet("baz"))

	m.Erase("foo")

	fmt.Println(m.TryGet("foo"))
	fmt.Println(m.TryGet("bar"))

	m.Clear()

	fmt.Println(m.TryGet("foo"))
	fmt.Println(m.TryGet("bar"))
	// Output:
	// 42 true
	// 0 false
	// 0 false
	// 13 true
	// 0 false
	// 0 false
}

func TestComplexKeyType(t *testing.T) {
	type dummy struct {
		a int8
		b uint32
		c string
		d uint64
		e int
	}
	hasher := func(d dummy) uintptr {
		return 0
	}
	m := containers.NewMap[dummy, uint32](containers.Config[dummy, uint32]{
		Kind:   containers.Flat,
		Hasher: hasher,
	})
	assert.NoError(t, m.Add(dummy{a: 0, b: 0, c: "", d: 0, e: 0}, 0))
	assert.Equal(t, 1, m.Size())
}
