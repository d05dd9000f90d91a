package prolly

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/serial"
	"github.com/fixitydb/fixity/internal/value"
)

// Modified is a key present in both trees with a changed value.
type Modified struct {
	Key      value.Key
	OldValue value.Value
	NewValue value.Value
}

// DiffResult is the outcome of comparing two tree roots: keys added in B,
// keys with changed values, and keys only present in A.
type DiffResult struct {
	Added    []serial.KVPair
	Modified []Modified
	Deleted  []value.Key
}

// Diff compares the trees rooted at a and b, following the teacher's
// strategy (tree/diff.go): short-circuit on identical roots, skip any pair
// of aligned children whose Cids already match, and fall back to a full
// flatten-and-merge compare whenever node shapes don't line up (e.g. a
// single inserted key shifted every chunk boundary downstream of it).
func (t *Tree) Diff(a, b cid.Cid) (DiffResult, error) {
	result := DiffResult{}
	if a.Equal(b) {
		return result, nil
	}
	nodeA, err := t.loadNode(a)
	if err != nil {
		return result, err
	}
	nodeB, err := t.loadNode(b)
	if err != nil {
		return result, err
	}
	if err := t.diffNodes(nodeA, nodeB, &result); err != nil {
		return result, err
	}
	return result, nil
}

func (t *Tree) diffNodes(a, b serial.Node, result *DiffResult) error {
	if a.IsLeaf() && b.IsLeaf() {
		diffPairLists(a.Leaf, b.Leaf, result)
		return nil
	}
	if !a.IsLeaf() && !b.IsLeaf() && sameChildKeys(a.Branch, b.Branch) {
		return t.diffAlignedChildren(a.Branch, b.Branch, result)
	}

	pairsA, err := t.flattenNode(a)
	if err != nil {
		return err
	}
	pairsB, err := t.flattenNode(b)
	if err != nil {
		return err
	}
	diffPairLists(pairsA, pairsB, result)
	return nil
}

func sameChildKeys(a, b []serial.ChildRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Key.Equal(b[i].Key) {
			return false
		}
	}
	return true
}

func (t *Tree) diffAlignedChildren(a, b []serial.ChildRef, result *DiffResult) error {
	for i := range a {
		if a[i].Cid.Equal(b[i].Cid) {
			continue
		}
		nodeA, err := t.loadNode(a[i].Cid)
		if err != nil {
			return err
		}
		nodeB, err := t.loadNode(b[i].Cid)
		if err != nil {
			return err
		}
		if err := t.diffNodes(nodeA, nodeB, result); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) flattenNode(n serial.Node) ([]serial.KVPair, error) {
	if n.IsLeaf() {
		return n.Leaf, nil
	}
	var out []serial.KVPair
	for _, ref := range n.Branch {
		if err := t.collect(ref.Cid, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// diffPairLists merge-compares two sorted KV lists, matching the teacher's
// diffPairLists exactly (cmp < 0 => deleted, cmp > 0 => added, cmp == 0 &&
// value differs => modified).
func diffPairLists(a, b []serial.KVPair, result *DiffResult) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		cmp := a[i].Key.Compare(b[j].Key)
		switch {
		case cmp < 0:
			result.Deleted = append(result.Deleted, a[i].Key)
			i++
		case cmp > 0:
			result.Added = append(result.Added, b[j])
			j++
		default:
			if !a[i].Value.Equal(b[j].Value) {
				result.Modified = append(result.Modified, Modified{
					Key:      a[i].Key,
					OldValue: a[i].Value,
					NewValue: b[j].Value,
				})
			}
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		result.Deleted = append(result.Deleted, a[i].Key)
	}
	for ; j < len(b); j++ {
		result.Added = append(result.Added, b[j])
	}
}
