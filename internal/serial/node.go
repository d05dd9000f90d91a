package serial

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/value"
)

// KVPair is a single (Key, Value) entry stored in a tree Leaf node.
type KVPair struct {
	Key   value.Key
	Value value.Value
}

// ChildRef addresses a subtree by its first key and content id, stored in a
// tree Branch node (spec.md §3: "the leading key of each child is the
// smallest key reachable below it").
type ChildRef struct {
	Key value.Key
	Cid cid.Cid
}

// NodeKind distinguishes Branch from Leaf without a type switch.
type NodeKind uint8

const (
	NodeLeaf NodeKind = iota + 1
	NodeBranch
)

// Node is the Prolly Tree's on-disk node shape: a Branch of (Key,Cid)
// children, or a Leaf of (Key,Value) pairs (spec.md §3).
type Node struct {
	Kind     NodeKind
	Leaf     []KVPair
	Branch   []ChildRef
}

func NewLeaf(pairs []KVPair) Node     { return Node{Kind: NodeLeaf, Leaf: pairs} }
func NewBranch(refs []ChildRef) Node  { return Node{Kind: NodeBranch, Branch: refs} }
func (n Node) IsLeaf() bool           { return n.Kind == NodeLeaf }

// FirstKey returns the node's own leading key (spec.md §3's "left-most key
// of the tree is the node's own key").
func (n Node) FirstKey() (value.Key, bool) {
	switch n.Kind {
	case NodeLeaf:
		if len(n.Leaf) == 0 {
			return value.Key{}, false
		}
		return n.Leaf[0].Key, true
	case NodeBranch:
		if len(n.Branch) == 0 {
			return value.Key{}, false
		}
		return n.Branch[0].Key, true
	default:
		return value.Key{}, false
	}
}

const (
	nodeTagLeaf   byte = 0x01
	nodeTagBranch byte = 0x02
)

// EncodeNode serializes a Node to bytes using deterministic, length-framed
// binary encoding; a node's Cid is the hash of these bytes. Each leaf
// record's payload (EncodeValue of the key, then of the value) is the same
// byte form the rolling hash consumes per pair during tree Create/Update
// (spec.md §4.F step 2); the tag, count and length prefixes are not rolled.
// It must stay stable since the tree's structural sharing depends on it.
func EncodeNode(n Node) []byte {
	buf := make([]byte, 0, 64)
	switch n.Kind {
	case NodeLeaf:
		buf = append(buf, nodeTagLeaf)
		buf = appendUint32(buf, uint32(len(n.Leaf)))
		for _, pair := range n.Leaf {
			rec := EncodeValue(nil, pair.Key.V)
			rec = EncodeValue(rec, pair.Value)
			buf = appendUint32(buf, uint32(len(rec)))
			buf = append(buf, rec...)
		}
	case NodeBranch:
		buf = append(buf, nodeTagBranch)
		buf = appendUint32(buf, uint32(len(n.Branch)))
		for _, ref := range n.Branch {
			rec := EncodeValue(nil, ref.Key.V)
			raw := ref.Cid.AsBytes()
			rec = appendUint32(rec, uint32(len(raw)))
			rec = append(rec, raw...)
			buf = appendUint32(buf, uint32(len(rec)))
			buf = append(buf, rec...)
		}
	}
	return buf
}

// DecodeNode parses bytes produced by EncodeNode back into a Node, fully
// materializing every key/value (the "owned decode" side of spec.md §4.D).
func DecodeNode(buf []byte) (Node, error) {
	if len(buf) < 1 {
		return Node{}, deserErr("empty node buffer")
	}
	switch buf[0] {
	case nodeTagLeaf:
		return decodeLeaf(buf)
	case nodeTagBranch:
		return decodeBranch(buf)
	default:
		return Node{}, deserErr("unknown node tag")
	}
}

func decodeLeaf(buf []byte) (Node, error) {
	count, pos, err := readUint32(buf, 1)
	if err != nil {
		return Node{}, err
	}
	pairs := make([]KVPair, 0, count)
	for i := uint32(0); i < count; i++ {
		recLen, np, err := readUint32(buf, pos)
		if err != nil {
			return Node{}, err
		}
		pos = np
		if pos+int(recLen) > len(buf) {
			return Node{}, deserErr("truncated leaf record")
		}
		rec := buf[pos : pos+int(recLen)]
		pos += int(recLen)

		k, consumed, err := DecodeValue(rec)
		if err != nil {
			return Node{}, err
		}
		v, _, err := DecodeValue(rec[consumed:])
		if err != nil {
			return Node{}, err
		}
		pairs = append(pairs, KVPair{Key: value.NewKey(k), Value: v})
	}
	if pos != len(buf) {
		return Node{}, deserErr("trailing data after leaf node")
	}
	return NewLeaf(pairs), nil
}

func decodeBranch(buf []byte) (Node, error) {
	count, pos, err := readUint32(buf, 1)
	if err != nil {
		return Node{}, err
	}
	refs := make([]ChildRef, 0, count)
	for i := uint32(0); i < count; i++ {
		recLen, np, err := readUint32(buf, pos)
		if err != nil {
			return Node{}, err
		}
		pos = np
		if pos+int(recLen) > len(buf) {
			return Node{}, deserErr("truncated branch record")
		}
		rec := buf[pos : pos+int(recLen)]
		pos += int(recLen)

		k, consumed, err := DecodeValue(rec)
		if err != nil {
			return Node{}, err
		}
		cidLen, cp, err := readUint32(rec, consumed)
		if err != nil {
			return Node{}, err
		}
		if cp+int(cidLen) > len(rec) {
			return Node{}, deserErr("truncated branch child cid")
		}
		c, err := cid.FromBytes(rec[cp : cp+int(cidLen)])
		if err != nil {
			return Node{}, err
		}
		refs = append(refs, ChildRef{Key: value.NewKey(k), Cid: c})
	}
	if pos != len(buf) {
		return Node{}, deserErr("trailing data after branch node")
	}
	return NewBranch(refs), nil
}

// NodeRef is a zero-copy reference view into an encoded Node buffer
// (spec.md §4.D: "a deserialization form that does not allocate for
// primitive fields"). It lazily decodes each record on access instead of
// materializing the whole Node up front. The prolly Tree does not use it:
// its lookups decode whole nodes through DecodeNode.
type NodeRef struct {
	kind    NodeKind
	buf     []byte
	offsets []int // start offset of each record's length-prefix
}

// DecodeNodeRef indexes a Node buffer's record boundaries without decoding
// key/value payloads.
func DecodeNodeRef(buf []byte) (NodeRef, error) {
	if len(buf) < 1 {
		return NodeRef{}, deserErr("empty node buffer")
	}
	var kind NodeKind
	switch buf[0] {
	case nodeTagLeaf:
		kind = NodeLeaf
	case nodeTagBranch:
		kind = NodeBranch
	default:
		return NodeRef{}, deserErr("unknown node tag")
	}
	count, pos, err := readUint32(buf, 1)
	if err != nil {
		return NodeRef{}, err
	}
	offsets := make([]int, 0, count)
	for i := uint32(0); i < count; i++ {
		offsets = append(offsets, pos)
		recLen, np, err := readUint32(buf, pos)
		if err != nil {
			return NodeRef{}, err
		}
		pos = np + int(recLen)
		if pos > len(buf) {
			return NodeRef{}, deserErr("truncated node record")
		}
	}
	return NodeRef{kind: kind, buf: buf, offsets: offsets}, nil
}

func (r NodeRef) IsLeaf() bool { return r.kind == NodeLeaf }
func (r NodeRef) Len() int     { return len(r.offsets) }

func (r NodeRef) record(i int) []byte {
	start := r.offsets[i]
	recLen, pos, err := readUint32(r.buf, start)
	if err != nil {
		panic(err) // indexed by DecodeNodeRef, cannot fail here
	}
	return r.buf[pos : pos+int(recLen)]
}

// LeafPairAt decodes the i-th (Key,Value) pair of a leaf NodeRef.
func (r NodeRef) LeafPairAt(i int) (KVPair, error) {
	rec := r.record(i)
	k, consumed, err := DecodeValue(rec)
	if err != nil {
		return KVPair{}, err
	}
	v, _, err := DecodeValue(rec[consumed:])
	if err != nil {
		return KVPair{}, err
	}
	return KVPair{Key: value.NewKey(k), Value: v}, nil
}

// BranchChildAt decodes the i-th (Key,Cid) child of a branch NodeRef.
func (r NodeRef) BranchChildAt(i int) (ChildRef, error) {
	rec := r.record(i)
	k, consumed, err := DecodeValue(rec)
	if err != nil {
		return ChildRef{}, err
	}
	cidLen, pos, err := readUint32(rec, consumed)
	if err != nil {
		return ChildRef{}, err
	}
	c, err := cid.FromBytes(rec[pos : pos+int(cidLen)])
	if err != nil {
		return ChildRef{}, err
	}
	return ChildRef{Key: value.NewKey(k), Cid: c}, nil
}

// Materialize fully decodes the ref view into an owned Node.
func (r NodeRef) Materialize() (Node, error) { return DecodeNode(r.buf) }
