package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

func mustCid(t *testing.T, seed string) cid.Cid {
	t.Helper()
	digest := make([]byte, cid.DigestLen)
	copy(digest, seed)
	c, err := cid.FromHash(digest)
	require.NoError(t, err)
	return c
}

func TestRawInsertedOnce(t *testing.T) {
	c, err := cache.New(16)
	require.NoError(t, err)

	id := mustCid(t, "a")
	c.PutRaw(id, []byte("first"))
	c.PutRaw(id, []byte("second"))

	got, ok := c.GetRaw(id)
	require.True(t, ok)
	assert.Equal(t, []byte("first"), got)
}

func TestNodeInsertedOnce(t *testing.T) {
	c, err := cache.New(16)
	require.NoError(t, err)

	id := mustCid(t, "b")
	n1 := serial.NewLeaf([]serial.KVPair{{Key: value.NewKey(value.Uint32(1)), Value: value.Uint32(1)}})
	n2 := serial.NewLeaf(nil)
	c.PutNode(id, n1)
	c.PutNode(id, n2)

	got, ok := c.GetNode(id)
	require.True(t, ok)
	assert.Len(t, got.Leaf, 1)
}

func TestMissReturnsFalse(t *testing.T) {
	c, err := cache.New(16)
	require.NoError(t, err)
	_, ok := c.GetRaw(mustCid(t, "missing"))
	assert.False(t, ok)
}

func TestEvictionUnderCapacity(t *testing.T) {
	c, err := cache.New(1)
	require.NoError(t, err)

	a := mustCid(t, "evict-a")
	b := mustCid(t, "evict-b")
	c.PutRaw(a, []byte("a"))
	c.PutRaw(b, []byte("b"))

	rawLen, _, _ := c.Len()
	assert.Equal(t, 1, rawLen)
}
