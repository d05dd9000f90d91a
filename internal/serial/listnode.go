package serial

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/value"
)

// ListChildRef addresses a List subtree purely by content id: unlike the
// keyed Tree, a List's ordering is positional, so no leading key is stored
// (spec.md §3/§4.G: "Prolly List is a Prolly Tree without keys").
type ListChildRef struct {
	Cid cid.Cid
}

// ListNode is the Prolly List's on-disk node shape: a Branch of child Cids,
// or a Leaf of Values, in positional order.
type ListNode struct {
	Kind   NodeKind
	Leaf   []value.Value
	Branch []ListChildRef
}

func NewListLeaf(vs []value.Value) ListNode        { return ListNode{Kind: NodeLeaf, Leaf: vs} }
func NewListBranch(refs []ListChildRef) ListNode    { return ListNode{Kind: NodeBranch, Branch: refs} }
func (n ListNode) IsLeaf() bool                     { return n.Kind == NodeLeaf }

const (
	listNodeTagLeaf   byte = 0x11
	listNodeTagBranch byte = 0x12
)

// EncodeListNode serializes a ListNode using the same framing discipline as
// EncodeNode: deterministic, length-prefixed, big-endian.
func EncodeListNode(n ListNode) []byte {
	buf := make([]byte, 0, 64)
	switch n.Kind {
	case NodeLeaf:
		buf = append(buf, listNodeTagLeaf)
		buf = appendUint32(buf, uint32(len(n.Leaf)))
		for _, v := range n.Leaf {
			buf = EncodeValue(buf, v)
		}
	case NodeBranch:
		buf = append(buf, listNodeTagBranch)
		buf = appendUint32(buf, uint32(len(n.Branch)))
		for _, ref := range n.Branch {
			raw := ref.Cid.AsBytes()
			buf = appendUint32(buf, uint32(len(raw)))
			buf = append(buf, raw...)
		}
	}
	return buf
}

// DecodeListNode parses bytes produced by EncodeListNode.
func DecodeListNode(buf []byte) (ListNode, error) {
	if len(buf) < 1 {
		return ListNode{}, deserErr("empty list node buffer")
	}
	switch buf[0] {
	case listNodeTagLeaf:
		count, pos, err := readUint32(buf, 1)
		if err != nil {
			return ListNode{}, err
		}
		vals := make([]value.Value, 0, count)
		for i := uint32(0); i < count; i++ {
			v, consumed, err := DecodeValue(buf[pos:])
			if err != nil {
				return ListNode{}, err
			}
			vals = append(vals, v)
			pos += consumed
		}
		if pos != len(buf) {
			return ListNode{}, deserErr("trailing data after list leaf")
		}
		return NewListLeaf(vals), nil
	case listNodeTagBranch:
		count, pos, err := readUint32(buf, 1)
		if err != nil {
			return ListNode{}, err
		}
		refs := make([]ListChildRef, 0, count)
		for i := uint32(0); i < count; i++ {
			n, np, err := readUint32(buf, pos)
			if err != nil {
				return ListNode{}, err
			}
			pos = np
			if pos+int(n) > len(buf) {
				return ListNode{}, deserErr("truncated list branch child")
			}
			c, err := cid.FromBytes(buf[pos : pos+int(n)])
			if err != nil {
				return ListNode{}, err
			}
			pos += int(n)
			refs = append(refs, ListChildRef{Cid: c})
		}
		if pos != len(buf) {
			return ListNode{}, deserErr("trailing data after list branch")
		}
		return NewListBranch(refs), nil
	default:
		return ListNode{}, deserErr("unknown list node tag")
	}
}
