package path_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/path"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/value"
)

func setup(t *testing.T) (content.Store, *cache.Cache) {
	t.Helper()
	c, err := cache.New(64)
	require.NoError(t, err)
	return content.NewMemory(), c
}

func leafCid(t *testing.T, store content.Store) cid.Cid {
	t.Helper()
	c, err := content.Write(store, cid.DefaultHasher, []byte("leaf-bytes"))
	require.NoError(t, err)
	return c
}

func TestMapSegmentResolveUpdateRoundTrip(t *testing.T) {
	store, c := setup(t)
	leaf := leafCid(t, store)

	seg := path.NewMapSegment(store, cid.DefaultHasher, c, value.NewKey(value.String("foo")))
	root, err := seg.Update(nil, leaf)
	require.NoError(t, err)

	child, found, err := seg.Resolve(root)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, child.Equal(leaf))
}

func TestMapSegmentResolveMissingKey(t *testing.T) {
	store, c := setup(t)
	tr := prolly.New(store, cid.DefaultHasher, c)
	root, err := tr.Create(nil)
	require.NoError(t, err)

	seg := path.NewMapSegment(store, cid.DefaultHasher, c, value.NewKey(value.String("missing")))
	_, found, err := seg.Resolve(root)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHashSetSegmentAddIsIdempotent(t *testing.T) {
	store, c := setup(t)
	leaf := leafCid(t, store)

	seg := path.NewHashSetSegment(store, cid.DefaultHasher, c)
	root1, err := seg.Update(nil, leaf)
	require.NoError(t, err)
	root2, err := seg.Update(&root1, leaf)
	require.NoError(t, err)
	assert.True(t, root1.Equal(root2))

	got, found, err := seg.Resolve(root1)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, got.Equal(leaf))
}

func TestResolverEmptyPathIsIdentity(t *testing.T) {
	store, _ := setup(t)
	leaf := leafCid(t, store)
	r := path.NewResolver()
	updated, err := r.Update(leaf, leaf)
	require.NoError(t, err)
	assert.True(t, updated.Equal(leaf))
}

func TestResolverMultiSegmentChain(t *testing.T) {
	store, c := setup(t)
	leaf := leafCid(t, store)

	inner := path.NewMapSegment(store, cid.DefaultHasher, c, value.NewKey(value.String("inner")))
	outer := path.NewMapSegment(store, cid.DefaultHasher, c, value.NewKey(value.String("outer")))
	r := path.NewResolver(outer, inner)

	root, err := r.Update(cid.Cid{}, leaf)
	require.NoError(t, err)

	chain, found, err := r.Resolve(root)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, chain, 3)
	assert.True(t, chain[2].Equal(leaf))
}
