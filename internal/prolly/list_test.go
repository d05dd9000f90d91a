package prolly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/value"
)

func newList(t *testing.T) *prolly.List {
	t.Helper()
	store := content.NewMemory()
	c, err := cache.New(64)
	require.NoError(t, err)
	return prolly.NewList(store, cid.DefaultHasher, c)
}

func TestListCreateEmpty(t *testing.T) {
	l := newList(t)
	root, err := l.Create(nil)
	require.NoError(t, err)
	vec, err := l.ToVec(root)
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestListCreateToVecPreservesOrder(t *testing.T) {
	l := newList(t)
	var vals []value.Value
	for i := 0; i < 400; i++ {
		vals = append(vals, value.Uint32(uint32(i)))
	}
	root, err := l.Create(vals)
	require.NoError(t, err)

	got, err := l.ToVec(root)
	require.NoError(t, err)
	require.Len(t, got, 400)
	for i, v := range got {
		u, ok := v.AsUint32()
		require.True(t, ok)
		assert.Equal(t, uint32(i), u)
	}
}

func TestListContains(t *testing.T) {
	l := newList(t)
	vals := []value.Value{value.String("a"), value.String("b"), value.String("c")}
	root, err := l.Create(vals)
	require.NoError(t, err)

	ok, err := l.Contains(root, value.String("b"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Contains(root, value.String("z"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListIterOrderAndIndex(t *testing.T) {
	l := newList(t)
	vals := []value.Value{value.Uint32(10), value.Uint32(20), value.Uint32(30)}
	root, err := l.Create(vals)
	require.NoError(t, err)

	var got []int
	var indices []int
	for idx, v := range l.Iter(root) {
		u, _ := v.AsUint32()
		got = append(got, int(u))
		indices = append(indices, idx)
	}
	assert.Equal(t, []int{10, 20, 30}, got)
	assert.Equal(t, []int{0, 1, 2}, indices)
}
