package serial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

func TestEncodeDecodeListLeafRoundTrip(t *testing.T) {
	leaf := serial.NewListLeaf([]value.Value{value.Uint32(1), value.String("x")})
	buf := serial.EncodeListNode(leaf)
	got, err := serial.DecodeListNode(buf)
	require.NoError(t, err)
	require.True(t, got.IsLeaf())
	require.Len(t, got.Leaf, 2)
	assert.True(t, got.Leaf[0].Equal(leaf.Leaf[0]))
}

func TestEncodeDecodeListBranchRoundTrip(t *testing.T) {
	c1 := mustCid(t, "list-child-1")
	c2 := mustCid(t, "list-child-2")
	branch := serial.NewListBranch([]serial.ListChildRef{{Cid: c1}, {Cid: c2}})
	buf := serial.EncodeListNode(branch)
	got, err := serial.DecodeListNode(buf)
	require.NoError(t, err)
	require.False(t, got.IsLeaf())
	require.Len(t, got.Branch, 2)
	assert.True(t, got.Branch[0].Cid.Equal(c1))
}

func TestDecodeListNodeUnknownTag(t *testing.T) {
	_, err := serial.DecodeListNode([]byte{0xaa})
	assert.Error(t, err)
}
