package content

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
)

// Verifying wraps a Store and re-hashes every read value, rejecting a read
// whose bytes do not hash back to the requested Cid. Use it whenever
// content may come from an untrusted replica (spec.md §4.B's "a store may
// choose to verify").
type Verifying struct {
	inner  Store
	hasher Hasher
}

// NewVerifying wraps inner with re-hash-on-read verification using h.
func NewVerifying(inner Store, h Hasher) *Verifying {
	return &Verifying{inner: inner, hasher: h}
}

func (v *Verifying) Exists(c cid.Cid) (bool, error) { return v.inner.Exists(c) }

func (v *Verifying) ReadUnchecked(c cid.Cid) ([]byte, error) {
	buf, err := v.inner.ReadUnchecked(c)
	if err != nil {
		return nil, err
	}
	if got := v.hasher.Hash(buf); !got.Equal(c) {
		return nil, ferr.New(ferr.KindDeser, "content: hash mismatch on read").
			WithAddr(c.String())
	}
	return buf, nil
}

func (v *Verifying) WriteUnchecked(c cid.Cid, buf []byte) error {
	if got := v.hasher.Hash(buf); !got.Equal(c) {
		return ferr.New(ferr.KindInvalidInput, "content: hash mismatch on write").
			WithAddr(c.String())
	}
	return v.inner.WriteUnchecked(c, buf)
}
