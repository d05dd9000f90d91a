package prolly

import (
	"sort"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

// Tree is a handle for building and reading Prolly Trees against a given
// content store. It holds no state of its own beyond its dependencies; a
// tree's actual identity is always a root Cid passed into each method.
type Tree struct {
	store  content.Store
	hasher content.Hasher
	cache  *cache.Cache
}

// New constructs a Tree handle. cache may be nil, in which case every node
// load goes straight to store.
func New(store content.Store, hasher content.Hasher, c *cache.Cache) *Tree {
	return &Tree{store: store, hasher: hasher, cache: c}
}

// Patch describes a single key's edit for Update: either a new/overwritten
// value, or a deletion.
type Patch struct {
	Key    value.Key
	Value  value.Value
	Delete bool
}

func (t *Tree) storeNode(n serial.Node) (cid.Cid, error) {
	buf := serial.EncodeNode(n)
	c, err := content.Write(t.store, t.hasher, buf)
	if err != nil {
		return cid.Cid{}, err
	}
	if t.cache != nil {
		t.cache.PutNode(c, n)
		t.cache.PutRaw(c, buf)
	}
	return c, nil
}

func (t *Tree) loadNode(c cid.Cid) (serial.Node, error) {
	if t.cache != nil {
		if n, ok := t.cache.GetNode(c); ok {
			return n, nil
		}
	}
	buf, err := t.store.ReadUnchecked(c)
	if err != nil {
		return serial.Node{}, err
	}
	n, err := serial.DecodeNode(buf)
	if err != nil {
		return serial.Node{}, err
	}
	if t.cache != nil {
		t.cache.PutNode(c, n)
		t.cache.PutRaw(c, buf)
	}
	return n, nil
}

func encodeKVPair(p serial.KVPair) []byte {
	buf := serial.EncodeValue(nil, p.Key.V)
	return serial.EncodeValue(buf, p.Value)
}

func encodeChildRef(r serial.ChildRef) []byte {
	buf := serial.EncodeValue(nil, r.Key.V)
	return append(buf, r.Cid.AsBytes()...)
}

// Create builds a Prolly Tree from an arbitrary (not necessarily sorted)
// set of KV pairs and returns its root Cid, following spec.md's five-step
// algorithm: dedupe/sort/uniqueness check, roll each pair's serialized
// bytes through the §4.E hasher emitting a leaf at every boundary, flush
// the trailing partial leaf, then recurse the same chunking over
// (firstKey, Cid) child references until exactly one root remains.
func (t *Tree) Create(pairs []serial.KVPair) (cid.Cid, error) {
	if len(pairs) == 0 {
		return t.storeNode(serial.NewLeaf(nil))
	}

	sorted := make([]serial.KVPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key.Compare(sorted[j].Key) < 0 })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Key.Equal(sorted[i].Key) {
			return cid.Cid{}, ferr.New(ferr.KindInvalidInput, "prolly: duplicate key in Create").
				WithPath(sorted[i].Key.String())
		}
	}

	leafChunks := chunkBySerializedBytes(sorted, encodeKVPair)
	refs := make([]serial.ChildRef, 0, len(leafChunks))
	for _, chunk := range leafChunks {
		c, err := t.storeNode(serial.NewLeaf(chunk))
		if err != nil {
			return cid.Cid{}, err
		}
		refs = append(refs, serial.ChildRef{Key: chunk[0].Key, Cid: c})
	}

	return t.buildLayers(refs)
}

func (t *Tree) buildLayers(refs []serial.ChildRef) (cid.Cid, error) {
	if len(refs) == 1 {
		return refs[0].Cid, nil
	}
	chunks := chunkBySerializedBytes(refs, encodeChildRef)
	parents := make([]serial.ChildRef, 0, len(chunks))
	for _, chunk := range chunks {
		c, err := t.storeNode(serial.NewBranch(chunk))
		if err != nil {
			return cid.Cid{}, err
		}
		parents = append(parents, serial.ChildRef{Key: chunk[0].Key, Cid: c})
	}
	return t.buildLayers(parents)
}

// Get looks up key starting from root, returning (value, true, nil) on a
// hit or (zero, false, nil) on a clean miss. Traversal walks one node per
// level using binary search, matching the teacher's TreeTraverser.Get.
func (t *Tree) Get(root cid.Cid, key value.Key) (value.Value, bool, error) {
	c := root
	for {
		n, err := t.loadNode(c)
		if err != nil {
			return value.Value{}, false, err
		}
		if n.IsLeaf() {
			idx := sort.Search(len(n.Leaf), func(i int) bool { return n.Leaf[i].Key.Compare(key) >= 0 })
			if idx < len(n.Leaf) && n.Leaf[idx].Key.Equal(key) {
				return n.Leaf[idx].Value, true, nil
			}
			return value.Value{}, false, nil
		}
		// Find the rightmost child whose key is <= the search key.
		idx := sort.Search(len(n.Branch), func(i int) bool { return n.Branch[i].Key.Compare(key) > 0 }) - 1
		if idx < 0 {
			idx = 0
		}
		c = n.Branch[idx].Cid
	}
}

// ToVec collects every (Key, Value) pair in the tree rooted at root, in
// ascending key order.
func (t *Tree) ToVec(root cid.Cid) ([]serial.KVPair, error) {
	var out []serial.KVPair
	if err := t.collect(root, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Tree) collect(c cid.Cid, out *[]serial.KVPair) error {
	n, err := t.loadNode(c)
	if err != nil {
		return err
	}
	if n.IsLeaf() {
		*out = append(*out, n.Leaf...)
		return nil
	}
	for _, ref := range n.Branch {
		if err := t.collect(ref.Cid, out); err != nil {
			return err
		}
	}
	return nil
}

// Iter returns a Go 1.23-style iterator function over every (Key, Value)
// pair whose key satisfies [start, end], walking leaves left to right and
// pruning any subtree whose key range cannot overlap the requested bounds.
func (t *Tree) Iter(root cid.Cid, start, end Cursor) func(yield func(value.Key, value.Value) bool) {
	return func(yield func(value.Key, value.Value) bool) {
		t.iterNode(root, start, end, yield)
	}
}

// iterNode returns false once the caller's yield has asked to stop, so
// callers up the recursion can also stop immediately.
func (t *Tree) iterNode(c cid.Cid, start, end Cursor, yield func(value.Key, value.Value) bool) bool {
	n, err := t.loadNode(c)
	if err != nil {
		return true // nothing more we can safely iterate; unreported error stops silently
	}
	if n.IsLeaf() {
		for _, p := range n.Leaf {
			if !start.satisfiesLower(p.Key) || !end.satisfiesUpper(p.Key) {
				continue
			}
			if !yield(p.Key, p.Value) {
				return false
			}
		}
		return true
	}
	for i, ref := range n.Branch {
		// A branch child's key range runs from its own key to the next
		// sibling's key (exclusive); skip children entirely outside bounds.
		if end.Kind != Unbounded && ref.Key.Compare(end.Key) > 0 {
			break
		}
		if start.Kind != Unbounded && i+1 < len(n.Branch) && n.Branch[i+1].Key.Compare(start.Key) < 0 {
			continue
		}
		if !t.iterNode(ref.Cid, start, end, yield) {
			return false
		}
	}
	return true
}

// Update applies patches to the tree rooted at root and returns the new
// root. Rather than rebalancing in place, it flattens the tree, applies
// the patches to the flattened list, and re-runs Create — the teacher's
// own approach to mutation, generalized from raw bytes to Value (spec.md
// 4.F: "structurally identical to a tree built from scratch with the same
// final contents").
func (t *Tree) Update(root cid.Cid, patches []Patch) (cid.Cid, error) {
	existing, err := t.ToVec(root)
	if err != nil {
		return cid.Cid{}, err
	}
	merged := make(map[string]serial.KVPair, len(existing)+len(patches))
	order := make([]string, 0, len(existing)+len(patches))
	for _, p := range existing {
		k := p.Key.String()
		merged[k] = p
		order = append(order, k)
	}
	for _, patch := range patches {
		k := patch.Key.String()
		if _, ok := merged[k]; !ok {
			order = append(order, k)
		}
		if patch.Delete {
			delete(merged, k)
			continue
		}
		merged[k] = serial.KVPair{Key: patch.Key, Value: patch.Value}
	}
	final := make([]serial.KVPair, 0, len(merged))
	seen := make(map[string]struct{}, len(merged))
	for _, k := range order {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if p, ok := merged[k]; ok {
			final = append(final, p)
		}
	}
	return t.Create(final)
}
