package cid

import "lukechampine.com/blake3"

// Hasher computes a Cid for a byte sequence (spec.md §4.A). The default and
// only algorithm is Blake3-256; the interface exists so a verifying store
// wrapper (4.B) and tests can substitute a stub hasher.
type Hasher interface {
	Hash(buf []byte) Cid
}

// Blake3Hasher is the default ContentHasher: deterministic, byte-exact
// across platforms, as required by spec.md §4.A.
type Blake3Hasher struct{}

// Hash implements Hasher.
func (Blake3Hasher) Hash(buf []byte) Cid {
	digest := blake3.Sum256(buf)
	c, err := FromHash(digest[:])
	if err != nil {
		// digest is always exactly DigestLen bytes from blake3.Sum256.
		panic(err)
	}
	return c
}

// DefaultHasher is the package-level default, matching spec.md's
// "default hasher is Blake3-256".
var DefaultHasher Hasher = Blake3Hasher{}
