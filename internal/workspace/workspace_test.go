package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/commitlog"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/mutstore"
	"github.com/fixitydb/fixity/internal/workspace"
)

func newWorkspace(t *testing.T) (*workspace.Workspace, *commitlog.Log) {
	t.Helper()
	store := content.NewMemory()
	log := commitlog.New(store, cid.DefaultHasher)
	refs := mutstore.NewMemory()
	ws, err := workspace.Open(refs, log, "main")
	require.NoError(t, err)
	return ws, log
}

func TestInitStageCommitCycle(t *testing.T) {
	ws, store := newWorkspace(t)
	_ = store

	assert.Equal(t, workspace.Init, ws.Status().Kind)

	g, err := ws.Lock()
	require.NoError(t, err)
	defer g.Unlock()

	staged := mustCid(t, "staged-1")
	require.NoError(t, g.Stage(staged))
	assert.Equal(t, workspace.InitStaged, g.Status().Kind)

	commitCid, err := g.Commit()
	require.NoError(t, err)
	assert.Equal(t, workspace.Clean, g.Status().Kind)
	assert.True(t, g.Status().Commit.Equal(commitCid))
}

func TestCommitOnInitIsCommitEmptyStage(t *testing.T) {
	ws, _ := newWorkspace(t)
	g, err := ws.Lock()
	require.NoError(t, err)
	defer g.Unlock()

	_, err = g.Commit()
	require.Error(t, err)
	assert.Equal(t, ferr.KindCommitEmptyStage, ferr.KindOf(err))
}

func TestLockFailsFastWhenHeld(t *testing.T) {
	ws, _ := newWorkspace(t)
	g1, err := ws.Lock()
	require.NoError(t, err)
	defer g1.Unlock()

	_, err = ws.Lock()
	require.Error(t, err)
	assert.Equal(t, ferr.KindWorkspaceInUse, ferr.KindOf(err))
}

func TestLockReacquirableAfterUnlock(t *testing.T) {
	ws, _ := newWorkspace(t)
	g1, err := ws.Lock()
	require.NoError(t, err)
	g1.Unlock()

	g2, err := ws.Lock()
	require.NoError(t, err)
	defer g2.Unlock()
}

func TestDetachedRejectsStageAndCommit(t *testing.T) {
	store := content.NewMemory()
	log := commitlog.New(store, cid.DefaultHasher)
	refs := mutstore.NewMemory()
	ws := workspace.OpenDetached(refs, log, mustCid(t, "some-commit"))

	g, err := ws.Lock()
	require.NoError(t, err)
	defer g.Unlock()

	err = g.Stage(mustCid(t, "x"))
	require.Error(t, err)
	assert.Equal(t, ferr.KindDetachedHead, ferr.KindOf(err))

	_, err = g.Commit()
	require.Error(t, err)
	assert.Equal(t, ferr.KindDetachedHead, ferr.KindOf(err))
}

func mustCid(t *testing.T, seed string) cid.Cid {
	t.Helper()
	digest := make([]byte, cid.DigestLen)
	copy(digest, []byte(seed))
	c, err := cid.FromHash(digest)
	require.NoError(t, err)
	return c
}
