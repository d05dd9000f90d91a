// Package content implements fixity's immutable content store (spec.md
// §4.B): a write-once Cid -> bytes space, grounded on the teacher's
// file-based CAS (two-level sharded directories, atomic temp-then-rename
// writes) but generalized over afero.Fs so the same code backs both an
// on-disk store and an in-memory one used in tests.
package content

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
)

// Store is the immutable content store contract. Implementations never
// need to support update or delete: a Cid, once written, names the same
// bytes forever (spec.md §4.B).
type Store interface {
	// Exists reports whether c's bytes are already stored.
	Exists(c cid.Cid) (bool, error)

	// ReadUnchecked returns the bytes stored under c, without re-hashing
	// them to verify the Cid (callers that need that guarantee should wrap
	// the store in Verifying).
	ReadUnchecked(c cid.Cid) ([]byte, error)

	// WriteUnchecked stores buf under the Cid the caller supplies, without
	// verifying that buf actually hashes to c. Callers normally derive c via
	// a Hasher before calling this; Write (below) does that for them.
	WriteUnchecked(c cid.Cid, buf []byte) error
}

// Hasher computes the Cid of a buffer (internal/cid.DefaultHasher in
// production, swappable in tests).
type Hasher interface {
	Hash(buf []byte) cid.Cid
}

// Write hashes buf with h and stores it, returning the derived Cid. This is
// the normal write path; WriteUnchecked exists for stores layered on top
// (e.g. a cache warming itself from a read) that already know the Cid.
func Write(s Store, h Hasher, buf []byte) (cid.Cid, error) {
	c := h.Hash(buf)
	ok, err := s.Exists(c)
	if err != nil {
		return cid.Cid{}, err
	}
	if ok {
		return c, nil
	}
	if err := s.WriteUnchecked(c, buf); err != nil {
		return cid.Cid{}, err
	}
	return c, nil
}

// errNotFound classifies a missing-Cid read, matching spec.md §7's NotFound
// kind.
func errNotFound(c cid.Cid) error {
	return ferr.New(ferr.KindNotFound, "content not found").WithAddr(c.String())
}
