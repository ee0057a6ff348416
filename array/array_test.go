package array_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/gotlc/containers/array"
	"github.com/gotlc/containers/shared"
)

func TestAppendAndGet(t *testing.T) {
	a := array.New[int](2, 2.0)

	for i := 0; i < 10; i++ {
		assert.NoError(t, a.Append(i))
	}

	assert.Equal(t, 10, a.Size())
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, a.Get(i))
	}
}

func TestAppendThenRemoveRestoresSize(t *testing.T) {
	a := array.New[string](2, 2.0)
	assert.NoError(t, a.Append("x"))

	got := a.Remove(a.Size() - 1)
	assert.Equal(t, "x", got)
	assert.Equal(t, 0, a.Size())
}

func TestPushFrontAndInsert(t *testing.T) {
	a := array.New[int](2, 2.0)
	assert.NoError(t, a.Append(1))
	assert.NoError(t, a.Append(2))
	assert.NoError(t, a.PushFront(0))
	assert.NoError(t, a.Insert(2, 99))

	want := []int{0, 1, 99, 2}
	got := make([]int, 0, a.Size())
	a.Each(func(_ int, v int) bool {
		got = append(got, v)
		return false
	})
	assert.Empty(t, cmp.Diff(want, got))
}

func TestReplaceAndExchange(t *testing.T) {
	a := array.New[int](2, 2.0)
	assert.NoError(t, a.Append(1))

	a.Replace(0, 2)
	assert.Equal(t, 2, a.Get(0))

	old := a.Exchange(0, 3)
	assert.Equal(t, 2, old)
	assert.Equal(t, 3, a.Get(0))
}

func TestEraseShiftsElements(t *testing.T) {
	a := array.New[int](2, 2.0)
	for i := 0; i < 5; i++ {
		assert.NoError(t, a.Append(i))
	}

	a.Erase(2)
	assert.Equal(t, 4, a.Size())

	want := []int{0, 1, 3, 4}
	got := make([]int, 0, a.Size())
	a.Each(func(_ int, v int) bool {
		got = append(got, v)
		return false
	})
	assert.Empty(t, cmp.Diff(want, got))
}

func TestGrowthSmallFactorStillGrows(t *testing.T) {
	a := array.New[int](2, 1.01)
	before := a.Capacity()

	for i := 0; i < before+1; i++ {
		assert.NoError(t, a.Append(i))
	}

	assert.Greater(t, a.Capacity(), before)
}

func TestShrinkToFit(t *testing.T) {
	a := array.New[int](64, 2.0)
	for i := 0; i < 3; i++ {
		assert.NoError(t, a.Append(i))
	}

	assert.NoError(t, a.ShrinkToFit())
	assert.Equal(t, 3, a.Capacity())
	assert.Equal(t, 3, a.Size())
}

func TestEnsureCapacity(t *testing.T) {
	a := array.New[int](2, 2.0)
	assert.NoError(t, a.EnsureCapacity(100))
	assert.GreaterOrEqual(t, a.Capacity(), 100)
}

func TestClearResetsSizeNotCapacity(t *testing.T) {
	a := array.New[int](8, 2.0)
	for i := 0; i < 5; i++ {
		assert.NoError(t, a.Append(i))
	}
	cap0 := a.Capacity()

	a.Clear()
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, cap0, a.Capacity())
}

func TestIndexOutOfRangePanics(t *testing.T) {
	a := array.New[int](2, 2.0)
	assert.NoError(t, a.Append(1))

	assert.Panics(t, func() { a.Get(5) })
	assert.Panics(t, func() { a.Get(-1) })
	assert.Panics(t, func() { a.Insert(5, 0) })
}

func TestCopyIsIndependent(t *testing.T) {
	a := array.New[int](4, 2.0)
	for i := 0; i < 3; i++ {
		assert.NoError(t, a.Append(i))
	}

	b := a.Copy()
	assert.NoError(t, b.Append(99))

	assert.Equal(t, 3, a.Size())
	assert.Equal(t, 4, b.Size())
}

func TestInvariantSizeNeverExceedsCapacity(t *testing.T) {
	a := array.New[int](2, 1.5)
	for i := 0; i < 200; i++ {
		assert.NoError(t, a.Append(i))
		assert.LessOrEqual(t, a.Size(), a.Capacity())
	}
}

func TestNewWithAllocatorUsesInjectedPolicy(t *testing.T) {
	a := array.NewWithAllocator[int](2, 2.0, shared.NewAllocator[int]())
	assert.NoError(t, a.Append(1))
	assert.Equal(t, 1, a.Size())
}
