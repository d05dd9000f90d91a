package cid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
)

func TestHashDeterministic(t *testing.T) {
	a := cid.DefaultHasher.Hash([]byte("hello"))
	b := cid.DefaultHasher.Hash([]byte("hello"))
	assert.True(t, a.Equal(b))
	assert.Equal(t, cid.Len, len(a.AsBytes()))
}

func TestHashDiffersOnDifferentInput(t *testing.T) {
	a := cid.DefaultHasher.Hash([]byte("hello"))
	b := cid.DefaultHasher.Hash([]byte("world"))
	assert.False(t, a.Equal(b))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := cid.DefaultHasher.Hash([]byte("round trip me"))
	s := c.Encode()
	require.NotEmpty(t, s)

	back, err := cid.Decode(s)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))
}

func TestFromHashRejectsWrongLength(t *testing.T) {
	_, err := cid.FromHash([]byte("too short"))
	require.Error(t, err)
}

func TestBase32HexLowerRoundTrip(t *testing.T) {
	c := cid.DefaultHasher.Hash([]byte("meta store path component"))
	enc := cid.EncodeBase32HexLower(c.AsBytes())
	dec, err := cid.DecodeBase32HexLower(enc)
	require.NoError(t, err)
	assert.Equal(t, c.AsBytes(), dec)
}
