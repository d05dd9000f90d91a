package prolly_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

func TestDiffIdenticalRootsShortCircuits(t *testing.T) {
	tr, _ := newTree(t)
	root, err := tr.Create([]serial.KVPair{kv(1), kv(2)})
	require.NoError(t, err)

	d, err := tr.Diff(root, root)
	require.NoError(t, err)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Modified)
	assert.Empty(t, d.Deleted)
}

func TestDiffDetectsAddModifyDelete(t *testing.T) {
	tr, _ := newTree(t)

	var base []serial.KVPair
	for i := 0; i < 100; i++ {
		base = append(base, kv(i))
	}
	rootA, err := tr.Create(base)
	require.NoError(t, err)

	var changed []serial.KVPair
	for i := 0; i < 100; i++ {
		switch i {
		case 5:
			changed = append(changed, serial.KVPair{Key: value.NewKey(value.Uint32(5)), Value: value.String("changed")})
		case 50:
			continue // deleted
		default:
			changed = append(changed, kv(i))
		}
	}
	changed = append(changed, serial.KVPair{Key: value.NewKey(value.Uint32(1000)), Value: value.String("added")})
	rootB, err := tr.Create(changed)
	require.NoError(t, err)

	d, err := tr.Diff(rootA, rootB)
	require.NoError(t, err)

	require.Len(t, d.Deleted, 1)
	assert.True(t, d.Deleted[0].Equal(value.NewKey(value.Uint32(50))))

	require.Len(t, d.Modified, 1)
	assert.True(t, d.Modified[0].Key.Equal(value.NewKey(value.Uint32(5))))
	assert.True(t, d.Modified[0].NewValue.Equal(value.String("changed")))

	require.Len(t, d.Added, 1)
	assert.True(t, d.Added[0].Key.Equal(value.NewKey(value.Uint32(1000))))
}
