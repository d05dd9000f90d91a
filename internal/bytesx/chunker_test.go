package bytesx_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/bytesx"
	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store := content.NewMemory()
	c, err := cache.New(64)
	require.NoError(t, err)

	data := make([]byte, 5*bytesx.MaxChunkSize)
	rand.New(rand.NewSource(1)).Read(data)

	root, n, err := bytesx.Write(store, cid.DefaultHasher, c, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), n)

	var out bytes.Buffer
	total, err := bytesx.Read(store, c, root, &out)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(data)), total)
	assert.True(t, bytes.Equal(data, out.Bytes()))
}

func TestWriteEmptyStream(t *testing.T) {
	store := content.NewMemory()
	c, err := cache.New(64)
	require.NoError(t, err)

	root, n, err := bytesx.Write(store, cid.DefaultHasher, c, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	var out bytes.Buffer
	total, err := bytesx.Read(store, c, root, &out)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	assert.Equal(t, 0, out.Len())
}

func TestWriteDeterministic(t *testing.T) {
	store := content.NewMemory()
	c, err := cache.New(64)
	require.NoError(t, err)

	data := make([]byte, 3*bytesx.AvgChunkSize)
	rand.New(rand.NewSource(7)).Read(data)

	root1, _, err := bytesx.Write(store, cid.DefaultHasher, c, bytes.NewReader(data))
	require.NoError(t, err)
	root2, _, err := bytesx.Write(store, cid.DefaultHasher, c, bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, root1.Equal(root2))
}

func TestChunksRespectMaxSize(t *testing.T) {
	store := content.NewMemory()
	c, err := cache.New(64)
	require.NoError(t, err)

	data := make([]byte, 10*bytesx.MaxChunkSize)
	rand.New(rand.NewSource(3)).Read(data)

	before := store.Len()
	_, _, err = bytesx.Write(store, cid.DefaultHasher, c, bytes.NewReader(data))
	require.NoError(t, err)
	after := store.Len()
	// No chunk exceeds MaxChunkSize, so 10*MaxChunkSize of random bytes
	// yields at least 10 distinct chunk objects.
	assert.GreaterOrEqual(t, after-before, 10)
}
