package path

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
)

// Resolver chains Segments front-to-back for resolution, and walks them in
// reverse for update (spec.md §4.I): committing a write at the tail first,
// then threading each new child Cid back up through its parent segment.
type Resolver struct {
	segments []Segment
}

// NewResolver builds a Resolver over segs, resolved/updated in the given
// order (root-to-leaf).
func NewResolver(segs ...Segment) Resolver {
	return Resolver{segments: segs}
}

// Resolve walks every segment from root, returning the full chain of
// intermediate Cids including root itself. If any segment's key is
// missing, it returns the chain resolved so far and found=false.
func (r Resolver) Resolve(root cid.Cid) (chain []cid.Cid, found bool, err error) {
	chain = append(chain, root)
	if root.IsZero() {
		return chain, len(r.segments) == 0, nil
	}
	current := root
	for _, seg := range r.segments {
		child, ok, err := seg.Resolve(current)
		if err != nil {
			return chain, false, err
		}
		if !ok {
			return chain, false, nil
		}
		chain = append(chain, child)
		current = child
	}
	return chain, true, nil
}

// ResolveLast resolves the full chain and returns only the final child
// Cid, matching the empty-path identity case (an empty Resolver returns
// root itself).
func (r Resolver) ResolveLast(root cid.Cid) (cid.Cid, bool, error) {
	chain, found, err := r.Resolve(root)
	if err != nil {
		return cid.Cid{}, false, err
	}
	return chain[len(chain)-1], found, nil
}

// Update writes newLeaf at the end of the path and rewrites every ancestor
// segment in reverse, returning the new root. It resolves root itself on
// every call; a zero root (an empty workspace) resolves no ancestors.
func (r Resolver) Update(root cid.Cid, newLeaf cid.Cid) (cid.Cid, error) {
	if len(r.segments) == 0 {
		return newLeaf, nil
	}

	chain, _, err := r.Resolve(root)
	if err != nil {
		return cid.Cid{}, err
	}
	// chain[i] is the parent Cid segments[i] resolved against; chain may be
	// shorter than len(segments)+1 if resolution stopped early (a missing
	// key along the way), in which case every segment from that point on
	// is rewritten as if creating fresh structure (parent == nil). A zero
	// root is likewise no parent: there is no stored structure behind it.
	next := newLeaf
	for i := len(r.segments) - 1; i >= 0; i-- {
		var parent *cid.Cid
		if i < len(chain) && !chain[i].IsZero() {
			p := chain[i]
			parent = &p
		}
		updated, err := r.segments[i].Update(parent, next)
		if err != nil {
			return cid.Cid{}, err
		}
		next = updated
	}
	return next, nil
}

func errUnexpectedVariant() error {
	return ferr.New(ferr.KindUnexpectedValueVariant, "path: expected Addr value")
}
