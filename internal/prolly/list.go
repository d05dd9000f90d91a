package prolly

import (
	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

// List is a Prolly Tree without keys: a content-addressed, structurally
// shared ordered sequence of Values (spec.md §4.G), used by the byte
// chunker to hold a sequence of chunk Cids.
type List struct {
	store  content.Store
	hasher content.Hasher
	cache  *cache.Cache
}

func NewList(store content.Store, hasher content.Hasher, c *cache.Cache) *List {
	return &List{store: store, hasher: hasher, cache: c}
}

func (l *List) storeNode(n serial.ListNode) (cid.Cid, error) {
	buf := serial.EncodeListNode(n)
	c, err := content.Write(l.store, l.hasher, buf)
	if err != nil {
		return cid.Cid{}, err
	}
	if l.cache != nil {
		l.cache.PutListNode(c, n)
		l.cache.PutRaw(c, buf)
	}
	return c, nil
}

func (l *List) loadNode(c cid.Cid) (serial.ListNode, error) {
	if l.cache != nil {
		if n, ok := l.cache.GetListNode(c); ok {
			return n, nil
		}
	}
	buf, err := l.store.ReadUnchecked(c)
	if err != nil {
		return serial.ListNode{}, err
	}
	n, err := serial.DecodeListNode(buf)
	if err != nil {
		return serial.ListNode{}, err
	}
	if l.cache != nil {
		l.cache.PutListNode(c, n)
		l.cache.PutRaw(c, buf)
	}
	return n, nil
}

func encodeListValue(v value.Value) []byte { return serial.EncodeValue(nil, v) }

func encodeListChildRef(r serial.ListChildRef) []byte { return r.Cid.AsBytes() }

// Create builds a Prolly List from an ordered sequence of values (order is
// significant and preserved, unlike Tree's key-sorted input).
func (l *List) Create(values []value.Value) (cid.Cid, error) {
	if len(values) == 0 {
		return l.storeNode(serial.NewListLeaf(nil))
	}

	leafChunks := chunkBySerializedBytes(values, encodeListValue)
	refs := make([]serial.ListChildRef, 0, len(leafChunks))
	for _, chunk := range leafChunks {
		c, err := l.storeNode(serial.NewListLeaf(chunk))
		if err != nil {
			return cid.Cid{}, err
		}
		refs = append(refs, serial.ListChildRef{Cid: c})
	}
	return l.buildLayers(refs)
}

func (l *List) buildLayers(refs []serial.ListChildRef) (cid.Cid, error) {
	if len(refs) == 1 {
		return refs[0].Cid, nil
	}
	chunks := chunkBySerializedBytes(refs, encodeListChildRef)
	parents := make([]serial.ListChildRef, 0, len(chunks))
	for _, chunk := range chunks {
		c, err := l.storeNode(serial.NewListBranch(chunk))
		if err != nil {
			return cid.Cid{}, err
		}
		parents = append(parents, serial.ListChildRef{Cid: c})
	}
	return l.buildLayers(parents)
}

// ToVec collects every Value in order.
func (l *List) ToVec(root cid.Cid) ([]value.Value, error) {
	var out []value.Value
	if err := l.collect(root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *List) collect(c cid.Cid, out *[]value.Value) error {
	n, err := l.loadNode(c)
	if err != nil {
		return err
	}
	if n.IsLeaf() {
		*out = append(*out, n.Leaf...)
		return nil
	}
	for _, ref := range n.Branch {
		if err := l.collect(ref.Cid, out); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether target appears anywhere in the list.
func (l *List) Contains(root cid.Cid, target value.Value) (bool, error) {
	vals, err := l.ToVec(root)
	if err != nil {
		return false, err
	}
	for _, v := range vals {
		if v.Equal(target) {
			return true, nil
		}
	}
	return false, nil
}

// Iter walks every Value in order, stopping early if yield returns false.
func (l *List) Iter(root cid.Cid) func(yield func(int, value.Value) bool) {
	return func(yield func(int, value.Value) bool) {
		idx := 0
		l.iterNode(root, &idx, yield)
	}
}

func (l *List) iterNode(c cid.Cid, idx *int, yield func(int, value.Value) bool) bool {
	n, err := l.loadNode(c)
	if err != nil {
		return true
	}
	if n.IsLeaf() {
		for _, v := range n.Leaf {
			if !yield(*idx, v) {
				return false
			}
			*idx++
		}
		return true
	}
	for _, ref := range n.Branch {
		if !l.iterNode(ref.Cid, idx, yield) {
			return false
		}
	}
	return true
}
