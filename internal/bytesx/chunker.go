// Package bytesx implements fixity's byte stream chunker (spec.md §4.H):
// FastCDC-style content-defined chunking over the §4.E rolling hash,
// writing each chunk to the content store and assembling the chunk Cids
// into a Prolly List. The teacher has no byte-blob concept (it only ever
// stores KV pairs), so the streaming shape here is grounded on the
// teacher's CAS write discipline plus FastCDC's well-known size-gated
// boundary rule, applied to this repo's own rolling hash rather than a
// borrowed one.
package bytesx

import (
	"bufio"
	"io"

	"github.com/fixitydb/fixity/internal/cache"
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/prolly"
	"github.com/fixitydb/fixity/internal/roller"
	"github.com/fixitydb/fixity/internal/value"
)

const (
	// MinChunkSize, AvgChunkSize, MaxChunkSize follow spec.md §4.H's FastCDC
	// parameters. Changing any of these changes every Cid derived from byte
	// content written through this chunker.
	MinChunkSize = 16 * 1024
	AvgChunkSize = 32 * 1024
	MaxChunkSize = 64 * 1024

	// avgSizePattern gives roughly AvgChunkSize-byte chunks: a 15-bit mask
	// (2^15 = 32768 == AvgChunkSize) matches the roller's boundary rule
	// "state & pattern == pattern" with probability 1/2^15 per byte.
	avgSizePattern uint32 = (1 << 15) - 1
)

// Write streams r, cutting content-defined chunks, storing each in store,
// and returns the root Cid of a Prolly List over the chunk Cids in order.
func Write(store content.Store, hasher content.Hasher, c *cache.Cache, r io.Reader) (cid.Cid, uint64, error) {
	br := bufio.NewReaderSize(r, MaxChunkSize)
	rh := roller.New(roller.DefaultWindow, avgSizePattern)

	list := prolly.NewList(store, hasher, c)
	var chunkRefs []value.Value
	var current []byte
	var total uint64

	flush := func() error {
		if len(current) == 0 {
			return nil
		}
		chunkCid, err := content.Write(store, hasher, current)
		if err != nil {
			return err
		}
		chunkRefs = append(chunkRefs, value.Addr(chunkCid))
		total += uint64(len(current))
		current = nil
		rh.Reset()
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cid.Cid{}, 0, ferr.Wrap(ferr.KindIO, "bytesx: read", err)
		}
		current = append(current, b)
		boundary := rh.RollByte(b)

		switch {
		case len(current) >= MaxChunkSize:
			if err := flush(); err != nil {
				return cid.Cid{}, 0, err
			}
		case len(current) >= MinChunkSize && boundary:
			if err := flush(); err != nil {
				return cid.Cid{}, 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return cid.Cid{}, 0, err
	}

	root, err := list.Create(chunkRefs)
	if err != nil {
		return cid.Cid{}, 0, err
	}
	return root, total, nil
}

// Read walks the Prolly List rooted at root in order, writing each chunk's
// bytes to w, and returns the total number of bytes written. Any
// non-Addr element is an UnexpectedValueVariant error: a byte-stream list
// must contain only chunk Cids.
func Read(store content.Store, c *cache.Cache, root cid.Cid, w io.Writer) (uint64, error) {
	list := prolly.NewList(store, nil, c)
	values, err := list.ToVec(root)
	if err != nil {
		return 0, err
	}

	var total uint64
	for _, v := range values {
		chunkCid, ok := v.AsAddr()
		if !ok {
			return total, ferr.New(ferr.KindUnexpectedValueVariant,
				"bytesx: expected Addr element in byte-stream list")
		}
		buf, err := store.ReadUnchecked(chunkCid)
		if err != nil {
			return total, err
		}
		n, err := w.Write(buf)
		if err != nil {
			return total, ferr.Wrap(ferr.KindIO, "bytesx: write", err)
		}
		total += uint64(n)
	}
	return total, nil
}
