// Package metastore implements fixity's meta store (spec.md §4.M): a thin
// layer over internal/mutstore recording each replica's current head Cid
// per remote, keyed by base32hex-lower-encoded Rid. Grounded on the
// teacher's BranchManager (pkg/branch/manager.go) for the one-file-per-ref
// persistence shape, generalized from "branch name" keys to the
// "{remote}/{base32hex-lower(rid)}" layout spec.md §4.M and §6 specify.
package metastore

import (
	"fmt"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/mutstore"
)

// Store is a meta store over a single mutstore.Store backend.
type Store struct {
	backing mutstore.Store
}

// New wraps backing as a meta store.
func New(backing mutstore.Store) *Store {
	return &Store{backing: backing}
}

func keyFor(remote string, rid cid.Rid) string {
	return fmt.Sprintf("%s/%s", remote, cid.EncodeBase32HexLower(rid.AsBytes()))
}

// Replicas lists every replica id known under remote.
func (s *Store) Replicas(remote string) ([]cid.Rid, error) {
	prefix := remote + "/"
	keys, err := s.backing.List(prefix, "")
	if err != nil {
		return nil, ferr.Wrap(ferr.KindMetaStorage, "metastore: list replicas", err)
	}
	out := make([]cid.Rid, 0, len(keys))
	for _, k := range keys {
		encoded := k[len(prefix):]
		raw, err := cid.DecodeBase32HexLower(encoded)
		if err != nil {
			return nil, ferr.Wrap(ferr.KindMetaRid, "metastore: decode replica id", err)
		}
		rid, err := cid.RidFromBytes(raw)
		if err != nil {
			return nil, ferr.Wrap(ferr.KindMetaRid, "metastore: decode replica id", err)
		}
		out = append(out, rid)
	}
	return out, nil
}

// Head returns the head Cid recorded for (remote, rid).
func (s *Store) Head(remote string, rid cid.Rid) (cid.Cid, error) {
	key := keyFor(remote, rid)
	exists, err := s.backing.Exists(key)
	if err != nil {
		return cid.Cid{}, ferr.Wrap(ferr.KindMetaStorage, "metastore: check head", err)
	}
	if !exists {
		return cid.Cid{}, ferr.New(ferr.KindNotFound, "metastore: no head for replica").WithPath(key)
	}
	buf, err := s.backing.Get(key)
	if err != nil {
		return cid.Cid{}, ferr.Wrap(ferr.KindMetaStorage, "metastore: get head", err)
	}
	encoded, err := cid.DecodeBase32HexLower(string(buf))
	if err != nil {
		return cid.Cid{}, ferr.Wrap(ferr.KindMetaCid, "metastore: decode head cid", err)
	}
	c, err := cid.FromBytes(encoded)
	if err != nil {
		return cid.Cid{}, ferr.Wrap(ferr.KindMetaCid, "metastore: decode head cid", err)
	}
	return c, nil
}

// Heads returns every (rid, head) pair recorded under remote.
func (s *Store) Heads(remote string) (map[cid.Rid]cid.Cid, error) {
	rids, err := s.Replicas(remote)
	if err != nil {
		return nil, err
	}
	out := make(map[cid.Rid]cid.Cid, len(rids))
	for _, rid := range rids {
		c, err := s.Head(remote, rid)
		if err != nil {
			return nil, err
		}
		out[rid] = c
	}
	return out, nil
}

// SetHead records c as the head for (remote, rid).
func (s *Store) SetHead(remote string, rid cid.Rid, c cid.Cid) error {
	key := keyFor(remote, rid)
	encoded := cid.EncodeBase32HexLower(c.AsBytes())
	if err := s.backing.Put(key, []byte(encoded)); err != nil {
		return ferr.Wrap(ferr.KindMetaStorage, "metastore: set head", err)
	}
	return nil
}
