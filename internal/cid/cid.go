// Package cid implements fixity's content identifier (spec.md §3, §4.A):
// a fixed-width digest of stored bytes, multihash-tagged and displayed in
// base58btc, plus the sibling Rid (replica identifier) namespace.
package cid

import (
	"bytes"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/fixitydb/fixity/internal/ferr"
)

// DigestLen is the length of the default Blake3-256 digest.
const DigestLen = 32

// Len is the total encoded length of a Cid: a multihash header (code +
// length varints, 2 bytes for Blake3-256) plus the 32-byte digest. Fixed at
// 34 bytes per spec.md §3.
const Len = 34

// Cid is fixity's content identifier: a fixed-length digest of stored
// bytes. Equality/ordering-comparable, immutable after creation.
type Cid struct {
	raw [Len]byte
	n   int
}

// Rid is a replica identifier: same shape as Cid, semantically distinct
// namespace (identifies a writer, not content).
type Rid struct {
	raw [Len]byte
	n   int
}

// FromHash builds a Cid from a raw digest by multihash-tagging it with the
// Blake3-256 code. Fails with InvalidInput when the digest length does not
// match the chosen algorithm's digest length.
func FromHash(digest []byte) (Cid, error) {
	if len(digest) != DigestLen {
		return Cid{}, ferr.New(ferr.KindInvalidInput,
			"FromHash: digest length mismatch for blake3-256").
			WithPath("len")
	}
	encoded, err := multihash.Encode(digest, multihash.BLAKE3)
	if err != nil {
		return Cid{}, ferr.Wrap(ferr.KindInternal, "multihash encode", err)
	}
	var c Cid
	c.n = copy(c.raw[:], encoded)
	return c, nil
}

// FromBytes reinterprets a previously-encoded multihash buffer (e.g. one
// read back from a store) as a Cid, without re-hashing.
func FromBytes(b []byte) (Cid, error) {
	if len(b) == 0 || len(b) > Len {
		return Cid{}, ferr.New(ferr.KindInvalidInput, "cid: invalid byte length")
	}
	if _, _, err := multihash.MHFromBytes(b); err != nil {
		return Cid{}, ferr.Wrap(ferr.KindDeser, "cid: not a valid multihash", err)
	}
	var c Cid
	c.n = copy(c.raw[:], b)
	return c, nil
}

// IsZero reports whether c is the zero value (no commit parent, etc).
func (c Cid) IsZero() bool { return c.n == 0 }

// AsBytes returns the raw multihash-tagged bytes of c.
func (c Cid) AsBytes() []byte { return c.raw[:c.n] }

// Digest returns just the 32-byte hash digest, stripping the multihash
// header.
func (c Cid) Digest() []byte {
	if c.n < DigestLen {
		return nil
	}
	return c.raw[c.n-DigestLen : c.n]
}

// Encode renders c as base58btc multibase text.
func (c Cid) Encode() string {
	s, err := multibase.Encode(multibase.Base58BTC, c.AsBytes())
	if err != nil {
		// AsBytes is always a valid multihash produced by FromHash/FromBytes.
		panic(err)
	}
	return s
}

func (c Cid) String() string { return c.Encode() }

// Compare gives a total order over Cids (used for Branch child ordering
// tie-breaks and deterministic test fixtures; tree ordering itself is by
// Key, not Cid).
func (c Cid) Compare(o Cid) int { return bytes.Compare(c.AsBytes(), o.AsBytes()) }

// Equal reports structural equality.
func (c Cid) Equal(o Cid) bool { return bytes.Equal(c.AsBytes(), o.AsBytes()) }

// Decode parses base58btc multibase text produced by Encode back into a
// Cid.
func Decode(s string) (Cid, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return Cid{}, ferr.Wrap(ferr.KindDeser, "cid: multibase decode", err)
	}
	return FromBytes(data)
}

// --- Rid mirrors Cid's shape exactly; kept as a distinct type so the two
// namespaces cannot be confused at compile time (spec.md §3). ---

// RidFromBytes reinterprets a previously-encoded multihash buffer as a Rid.
func RidFromBytes(b []byte) (Rid, error) {
	c, err := FromBytes(b)
	if err != nil {
		return Rid{}, err
	}
	return Rid{raw: c.raw, n: c.n}, nil
}

// NewRid multihash-tags a raw identifier the same way FromHash does for
// Cid; replica ids are typically random, not content hashes, but share the
// encoding so they can live in the same meta-store path layout.
func NewRid(raw []byte) (Rid, error) {
	c, err := FromHash(raw)
	if err != nil {
		return Rid{}, err
	}
	return Rid{raw: c.raw, n: c.n}, nil
}

func (r Rid) IsZero() bool    { return r.n == 0 }
func (r Rid) AsBytes() []byte { return r.raw[:r.n] }
func (r Rid) Encode() string {
	s, err := multibase.Encode(multibase.Base58BTC, r.AsBytes())
	if err != nil {
		panic(err)
	}
	return s
}
func (r Rid) String() string         { return r.Encode() }
func (r Rid) Compare(o Rid) int      { return bytes.Compare(r.AsBytes(), o.AsBytes()) }
func (r Rid) Equal(o Rid) bool       { return bytes.Equal(r.AsBytes(), o.AsBytes()) }
func RidDecode(s string) (Rid, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return Rid{}, ferr.Wrap(ferr.KindMetaRid, "rid: multibase decode", err)
	}
	return RidFromBytes(data)
}

// EncodeBase32HexLower renders a Cid or Rid byte slice using the encoding
// fixity's meta store uses for path components (spec.md §4.M / §6): lowercase
// base32hex, which is filesystem- and URL-safe without escaping.
func EncodeBase32HexLower(b []byte) string {
	s, err := multibase.Encode(multibase.Base32hex, b)
	if err != nil {
		panic(err)
	}
	return s
}

// DecodeBase32HexLower is the inverse of EncodeBase32HexLower.
func DecodeBase32HexLower(s string) ([]byte, error) {
	_, data, err := multibase.Decode(s)
	if err != nil {
		return nil, err
	}
	return data, nil
}
