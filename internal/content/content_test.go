package content_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
)

func stores(t *testing.T) map[string]content.Store {
	t.Helper()
	fs, err := content.NewFS(afero.NewMemMapFs(), "/repo")
	require.NoError(t, err)
	return map[string]content.Store{
		"memory": content.NewMemory(),
		"fs":     fs,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			c, err := content.Write(s, cid.DefaultHasher, []byte("hello fixity"))
			require.NoError(t, err)

			ok, err := s.Exists(c)
			require.NoError(t, err)
			assert.True(t, ok)

			buf, err := s.ReadUnchecked(c)
			require.NoError(t, err)
			assert.Equal(t, []byte("hello fixity"), buf)
		})
	}
}

func TestWriteIsIdempotent(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			c1, err := content.Write(s, cid.DefaultHasher, []byte("same bytes"))
			require.NoError(t, err)
			c2, err := content.Write(s, cid.DefaultHasher, []byte("same bytes"))
			require.NoError(t, err)
			assert.True(t, c1.Equal(c2))
		})
	}
}

func TestReadMissingReturnsNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			missing, err := cid.FromHash([]byte("thisisthirtytwobyteslongpadding!"))
			require.NoError(t, err)
			_, err = s.ReadUnchecked(missing)
			assert.Error(t, err)
		})
	}
}

func TestVerifyingRejectsTamperedContent(t *testing.T) {
	c, err := content.Write(content.NewMemory(), cid.DefaultHasher, []byte("original"))
	require.NoError(t, err)
	// WriteUnchecked keeps the first bytes stored under a Cid, so the
	// tampered bytes go into a store that never held the original.
	mem := content.NewMemory()
	require.NoError(t, mem.WriteUnchecked(c, []byte("tampered!")))

	v := content.NewVerifying(mem, cid.DefaultHasher)
	_, err = v.ReadUnchecked(c)
	assert.Error(t, err)
}
