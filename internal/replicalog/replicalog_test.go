package replicalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/replicalog"
	"github.com/fixitydb/fixity/internal/serial"
)

func mustCid(t *testing.T, seed string) cid.Cid {
	t.Helper()
	raw := make([]byte, cid.DigestLen)
	copy(raw, []byte(seed))
	c, err := cid.FromHash(raw)
	require.NoError(t, err)
	return c
}

func TestSaveOpenRoundTrip(t *testing.T) {
	store := content.NewMemory()
	log := replicalog.New(store, cid.DefaultHasher)

	commit := mustCid(t, "commit-1")
	entry := replicalog.SetCommit(nil, serial.ReplicaLogEntry{}, "repoA", "main", commit)

	c, err := log.Save(entry)
	require.NoError(t, err)

	got, err := log.Open(c)
	require.NoError(t, err)
	require.Contains(t, got.Repos, "repoA")
	assert.True(t, got.Repos["repoA"].BranchTip.Equal(commit))
	assert.True(t, got.Repos["repoA"].Branches["main"].Equal(commit))
}

func TestSetCommitChainsPrevious(t *testing.T) {
	store := content.NewMemory()
	log := replicalog.New(store, cid.DefaultHasher)

	commit1 := mustCid(t, "commit-1")
	entry1 := replicalog.SetCommit(nil, serial.ReplicaLogEntry{}, "repoA", "main", commit1)
	c1, err := log.Save(entry1)
	require.NoError(t, err)

	commit2 := mustCid(t, "commit-2")
	entry2 := replicalog.SetCommit(&c1, entry1, "repoA", "main", commit2)
	c2, err := log.Save(entry2)
	require.NoError(t, err)

	got, err := log.Open(c2)
	require.NoError(t, err)
	require.NotNil(t, got.Previous)
	assert.True(t, got.Previous.Equal(c1))
	assert.True(t, got.Repos["repoA"].BranchTip.Equal(commit2))
}

func TestMergeAndDiffAreUndefined(t *testing.T) {
	_, err := replicalog.Merge(serial.ReplicaLogEntry{}, serial.ReplicaLogEntry{})
	require.Error(t, err)
	assert.Equal(t, ferr.KindUnmergableType, ferr.KindOf(err))

	err = replicalog.Diff(serial.ReplicaLogEntry{}, serial.ReplicaLogEntry{})
	require.Error(t, err)
	assert.Equal(t, ferr.KindUndiffableType, ferr.KindOf(err))
}
