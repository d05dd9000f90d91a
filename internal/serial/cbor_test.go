package serial_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/serial"
)

func TestCommitEntryRoundTrip(t *testing.T) {
	c := mustCid(t, "commit-content")
	prev := mustCid(t, "commit-prev")
	entry := serial.CommitEntry{
		ContentCid: c,
		Timestamp:  time.Unix(1700000000, 0).UTC(),
		Previous:   &prev,
	}
	buf, err := serial.EncodeCommitEntry(entry)
	require.NoError(t, err)

	got, err := serial.DecodeCommitEntry(buf)
	require.NoError(t, err)
	assert.True(t, got.ContentCid.Equal(c))
	require.NotNil(t, got.Previous)
	assert.True(t, got.Previous.Equal(prev))
	assert.True(t, got.Timestamp.Equal(entry.Timestamp))
}

func TestCommitEntryNoPrevious(t *testing.T) {
	c := mustCid(t, "root-commit")
	entry := serial.CommitEntry{ContentCid: c, Timestamp: time.Unix(0, 0).UTC()}
	buf, err := serial.EncodeCommitEntry(entry)
	require.NoError(t, err)

	got, err := serial.DecodeCommitEntry(buf)
	require.NoError(t, err)
	assert.Nil(t, got.Previous)
}

func TestCommitEntryEncodeDeterministic(t *testing.T) {
	c := mustCid(t, "det-commit")
	entry := serial.CommitEntry{ContentCid: c, Timestamp: time.Unix(5, 0).UTC()}
	a, err := serial.EncodeCommitEntry(entry)
	require.NoError(t, err)
	b, err := serial.EncodeCommitEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReplicaLogEntryRoundTrip(t *testing.T) {
	tip := mustCid(t, "branch-tip")
	other := mustCid(t, "branch-other")
	prev := mustCid(t, "log-prev")

	entry := serial.ReplicaLogEntry{
		Previous: &prev,
		Repos: map[string]serial.Repo{
			"main": {
				BranchTip: tip,
				Branches: map[string]cid.Cid{
					"main":    tip,
					"feature": other,
				},
			},
		},
	}

	buf, err := serial.EncodeReplicaLogEntry(entry)
	require.NoError(t, err)

	got, err := serial.DecodeReplicaLogEntry(buf)
	require.NoError(t, err)
	require.NotNil(t, got.Previous)
	assert.True(t, got.Previous.Equal(prev))
	require.Contains(t, got.Repos, "main")
	assert.True(t, got.Repos["main"].BranchTip.Equal(tip))
	assert.Len(t, got.Repos["main"].Branches, 2)
}
