package commitlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/commitlog"
	"github.com/fixitydb/fixity/internal/content"
)

func TestAppendGetRoundTrip(t *testing.T) {
	store := content.NewMemory()
	log := commitlog.New(store, cid.DefaultHasher)

	contentCid, err := content.Write(store, cid.DefaultHasher, []byte("root-bytes"))
	require.NoError(t, err)

	entryCid, err := log.Append(contentCid, nil)
	require.NoError(t, err)

	entry, err := log.Get(entryCid)
	require.NoError(t, err)
	assert.True(t, entry.ContentCid.Equal(contentCid))
	assert.Nil(t, entry.Previous)

	first, err := log.First(entryCid)
	require.NoError(t, err)
	assert.True(t, first.Equal(contentCid))
}

func TestWalkFollowsChain(t *testing.T) {
	store := content.NewMemory()
	log := commitlog.New(store, cid.DefaultHasher)

	c1, err := content.Write(store, cid.DefaultHasher, []byte("v1"))
	require.NoError(t, err)
	e1, err := log.Append(c1, nil)
	require.NoError(t, err)

	c2, err := content.Write(store, cid.DefaultHasher, []byte("v2"))
	require.NoError(t, err)
	e2, err := log.Append(c2, &e1)
	require.NoError(t, err)

	c3, err := content.Write(store, cid.DefaultHasher, []byte("v3"))
	require.NoError(t, err)
	e3, err := log.Append(c3, &e2)
	require.NoError(t, err)

	chain, err := log.Walk(e3)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.True(t, chain[0].ContentCid.Equal(c3))
	assert.True(t, chain[1].ContentCid.Equal(c2))
	assert.True(t, chain[2].ContentCid.Equal(c1))
}
