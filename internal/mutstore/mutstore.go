// Package mutstore implements fixity's mutable keyed store (spec.md §4.C):
// a path -> bytes space supporting overwrite, used beneath the meta store
// (replica/branch refs) and the path resolver's leaf writes. Grounded on
// the teacher's git-like refs/heads and HEAD file layout (pkg/branch),
// generalized from "branch name -> commit hash" to an arbitrary key/value
// space with prefix listing.
package mutstore

import "github.com/fixitydb/fixity/internal/ferr"

// Store is the mutable keyed store contract. Unlike content.Store, keys are
// caller-chosen strings and values may be overwritten.
type Store interface {
	// Get returns the bytes stored at key.
	Get(key string) ([]byte, error)

	// Put stores buf at key, overwriting any previous value.
	Put(key string, buf []byte) error

	// Exists reports whether key has a value.
	Exists(key string) (bool, error)

	// List returns every key with the given prefix. If delimiter is
	// non-empty, keys are truncated at the first delimiter occurrence after
	// the prefix and deduplicated, mirroring the "directory listing" mode
	// used by spec.md §4.C for hierarchical meta-store layouts (e.g.
	// listing replicas under a remote, or branches under a repo).
	List(prefix, delimiter string) ([]string, error)

	// Delete removes key, succeeding even if it does not exist.
	Delete(key string) error
}

func errNotFound(key string) error {
	return ferr.New(ferr.KindNotFound, "key not found").WithPath(key)
}
