// Package path implements fixity's path resolver (spec.md §4.I): a chain
// of Segments, each addressing one level of nested structure (a map key, a
// set member) by rewriting a parent Cid into a child Cid and back. The
// teacher has no nested-path concept (its Store is a flat KV map), so this
// package is grounded on spec.md §4.I directly, using the closed
// Segment-variant design spec.md §9 calls out, and reusing internal/prolly
// for the actual keyed/unordered storage each Segment variant addresses.
package path

import (
	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

// Segment is one step of a Path. Resolve walks from a parent Cid to the
// child Cid it addresses; Update rewrites the parent to point at a new
// child, creating the parent structure if it does not yet exist (parent ==
// nil).
type Segment interface {
	Resolve(parent cid.Cid) (child cid.Cid, found bool, err error)
	Update(parent *cid.Cid, newChild cid.Cid) (newParent cid.Cid, err error)
}

// MapSegment addresses a key within a Prolly Tree used as a keyed map:
// the stored Value at Key is always an Addr pointing at the child.
type MapSegment struct {
	tree *prolly.Tree
	key  value.Key
}

// NewMapSegment builds a MapSegment over store/cache for the given key.
func NewMapSegment(store content.Store, hasher content.Hasher, c *cache.Cache, key value.Key) MapSegment {
	return MapSegment{tree: prolly.New(store, hasher, c), key: key}
}

func (m MapSegment) Resolve(parent cid.Cid) (cid.Cid, bool, error) {
	v, ok, err := m.tree.Get(parent, m.key)
	if err != nil || !ok {
		return cid.Cid{}, ok, err
	}
	addr, ok := v.AsAddr()
	if !ok {
		return cid.Cid{}, false, errUnexpectedVariant()
	}
	return addr, true, nil
}

func (m MapSegment) Update(parent *cid.Cid, newChild cid.Cid) (cid.Cid, error) {
	patch := []prolly.Patch{{Key: m.key, Value: value.Addr(newChild)}}
	if parent == nil {
		return m.tree.Create([]serial.KVPair{{Key: m.key, Value: value.Addr(newChild)}})
	}
	return m.tree.Update(*parent, patch)
}

// HashSetSegment addresses membership of a Cid-valued element within a
// Prolly List used as an unordered set. Resolve returns the list's first
// Addr member (found=false when the list holds no Addr value); Update
// inserts the new child if absent,
// leaving an already-present set untouched (idempotent add).
type HashSetSegment struct {
	list *prolly.List
}

// NewHashSetSegment builds a HashSetSegment over store/cache.
func NewHashSetSegment(store content.Store, hasher content.Hasher, c *cache.Cache) HashSetSegment {
	return HashSetSegment{list: prolly.NewList(store, hasher, c)}
}

func (h HashSetSegment) Resolve(parent cid.Cid) (cid.Cid, bool, error) {
	vals, err := h.list.ToVec(parent)
	if err != nil {
		return cid.Cid{}, false, err
	}
	for _, v := range vals {
		if addr, ok := v.AsAddr(); ok {
			return addr, true, nil
		}
	}
	return cid.Cid{}, false, nil
}

func (h HashSetSegment) Update(parent *cid.Cid, newChild cid.Cid) (cid.Cid, error) {
	var members []value.Value
	if parent != nil {
		existing, err := h.list.ToVec(*parent)
		if err != nil {
			return cid.Cid{}, err
		}
		members = existing
	}
	for _, v := range members {
		if addr, ok := v.AsAddr(); ok && addr.Equal(newChild) {
			return h.list.Create(members)
		}
	}
	members = append(members, value.Addr(newChild))
	return h.list.Create(members)
}
