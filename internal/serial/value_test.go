package serial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

func mustCid(t *testing.T, s string) cid.Cid {
	t.Helper()
	digest := make([]byte, cid.DigestLen)
	copy(digest, s)
	c, err := cid.FromHash(digest)
	require.NoError(t, err)
	return c
}

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	c := mustCid(t, "hello")
	cases := []value.Value{
		value.Uint32(42),
		value.String("fixity"),
		value.Addr(c),
		value.Vec(value.Uint32(1), value.String("a"), value.Addr(c)),
		value.Vec(),
	}
	for _, v := range cases {
		buf := serial.EncodeValue(nil, v)
		got, consumed, err := serial.DecodeValue(buf)
		require.NoError(t, err)
		assert.Equal(t, len(buf), consumed)
		assert.True(t, v.Equal(got), "roundtrip mismatch for %v", v)
	}
}

func TestDecodeValueTruncated(t *testing.T) {
	buf := serial.EncodeValue(nil, value.String("abcdef"))
	_, _, err := serial.DecodeValue(buf[:len(buf)-2])
	assert.Error(t, err)
}

func TestDecodeValueUnknownTag(t *testing.T) {
	_, _, err := serial.DecodeValue([]byte{0xff, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestEncodeValueDeterministic(t *testing.T) {
	v := value.Vec(value.Uint32(7), value.String("x"))
	a := serial.EncodeValue(nil, v)
	b := serial.EncodeValue(nil, v)
	assert.Equal(t, a, b)
}
