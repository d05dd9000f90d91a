// Package commitlog implements fixity's commit log (spec.md §4.J): a
// content-addressed chain of entries, each pointing at its predecessor by
// Cid, stored one entry per content-store write. Grounded on the teacher's
// CommitManager (pkg/store/commit.go), which walks a parent-hash chain back
// to a zero hash; generalized here from the teacher's JSON Commit{RootHash,
// Message, Parent, Timestamp} to fixity's CBOR-encoded serial.CommitEntry.
// Log works on serial.CommitEntry only; internal/replicalog has its own,
// separate Log type.
package commitlog

import (
	"time"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/serial"
)

// Log appends and walks a chain of serial.CommitEntry values over a content
// store, each entry's Previous field linking to its predecessor's Cid.
type Log struct {
	store  content.Store
	hasher content.Hasher
}

// New constructs a Log handle over store.
func New(store content.Store, hasher content.Hasher) *Log {
	return &Log{store: store, hasher: hasher}
}

// Append writes a new commit pointing at contentCid, chaining it onto
// previous (nil for the first commit in a branch), and returns the new
// entry's Cid.
func (l *Log) Append(contentCid cid.Cid, previous *cid.Cid) (cid.Cid, error) {
	entry := serial.CommitEntry{
		ContentCid: contentCid,
		Timestamp:  time.Now().UTC(),
		Previous:   previous,
	}
	buf, err := serial.EncodeCommitEntry(entry)
	if err != nil {
		return cid.Cid{}, err
	}
	return content.Write(l.store, l.hasher, buf)
}

// Get reads back the commit entry stored at c.
func (l *Log) Get(c cid.Cid) (serial.CommitEntry, error) {
	buf, err := l.store.ReadUnchecked(c)
	if err != nil {
		return serial.CommitEntry{}, err
	}
	return serial.DecodeCommitEntry(buf)
}

// First returns the entry's content Cid, the thing a commit actually
// points at (spec.md's workspace uses this to dereference a branch tip
// down to its Prolly Tree root).
func (l *Log) First(c cid.Cid) (cid.Cid, error) {
	entry, err := l.Get(c)
	if err != nil {
		return cid.Cid{}, err
	}
	return entry.ContentCid, nil
}

// Walk returns the full chain of commit entries reachable from tip, newest
// first, matching the teacher's CommitManager.Log order.
func (l *Log) Walk(tip cid.Cid) ([]serial.CommitEntry, error) {
	var out []serial.CommitEntry
	current := tip
	for !current.IsZero() {
		entry, err := l.Get(current)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
		if entry.Previous == nil {
			break
		}
		current = *entry.Previous
	}
	return out, nil
}
