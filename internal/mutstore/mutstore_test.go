package mutstore_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/mutstore"
)

func stores(t *testing.T) map[string]mutstore.Store {
	t.Helper()
	fs, err := mutstore.NewFS(afero.NewMemMapFs(), "/repo/refs")
	require.NoError(t, err)
	return map[string]mutstore.Store{
		"memory": mutstore.NewMemory(),
		"fs":     fs,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("heads/main", []byte("commit-1")))
			buf, err := s.Get("heads/main")
			require.NoError(t, err)
			assert.Equal(t, []byte("commit-1"), buf)
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("k", []byte("v1")))
			require.NoError(t, s.Put("k", []byte("v2")))
			buf, err := s.Get("k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), buf)
		})
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("nope")
			assert.Error(t, err)
		})
	}
}

func TestListWithPrefixAndDelimiter(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("heads/main", []byte("c1")))
			require.NoError(t, s.Put("heads/feature/login", []byte("c2")))
			require.NoError(t, s.Put("heads/feature/logout", []byte("c3")))
			require.NoError(t, s.Put("tags/v1", []byte("c4")))

			flat, err := s.List("heads/", "")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"heads/main", "heads/feature/login", "heads/feature/logout"}, flat)

			grouped, err := s.List("heads/", "/")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"heads/main", "heads/feature/"}, grouped)
		})
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("k", []byte("v")))
			require.NoError(t, s.Delete("k"))
			ok, err := s.Exists("k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
