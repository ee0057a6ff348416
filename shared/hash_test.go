package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gotlc/containers/shared"
)

func TestFixedWidthHasherDeterministic(t *testing.T) {
	h := shared.FixedWidthHasher[uint64]()
	assert.Equal(t, h(1952805748), h(1952805748))
	assert.NotEqual(t, h(1952805748), h(1952805749))
}

func TestStringHasherDeterministic(t *testing.T) {
	h := shared.StringHasher()
	assert.Equal(t, h("foo"), h("foo"))
	assert.NotEqual(t, h("foo"), h("bar"))
}

func TestDefaultHasherDispatchesByKind(t *testing.T) {
	ih := shared.DefaultHasher[int]()
	sh := shared.DefaultHasher[string]()

	assert.Equal(t, ih(42), ih(42))
	assert.Equal(t, sh("abc"), sh("abc"))
}

func TestDefaultEquals(t *testing.T) {
	eq := shared.DefaultEquals[int]()
	assert.True(t, eq(1, 1))
	assert.False(t, eq(1, 2))
}
