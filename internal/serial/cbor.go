package serial

import (
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
)

// encMode is the canonical CBOR encoding mode used for every metadata type
// in this file. Deterministic map-key ordering and integer encoding matter
// here for the same reason node framing is hand-rolled: these bytes are
// themselves sometimes content-addressed (a Commit's own Cid is the hash of
// its encoded form), so two semantically-identical values must always
// encode to the same bytes.
var encMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(err) // CanonicalEncOptions() is always a valid EncMode
	}
	return m
}()

// CommitEntry is one node of the append-only commit log (spec.md §4.K): the
// Cid of a committed root Value plus a wall-clock timestamp, chained to the
// previous commit.
type CommitEntry struct {
	ContentCid cid.Cid   `cbor:"content_cid"`
	Timestamp  time.Time `cbor:"timestamp"`
	Previous   *cid.Cid  `cbor:"previous,omitempty"`
}

// EncodeCommitEntry serializes a CommitEntry to canonical CBOR.
func EncodeCommitEntry(c CommitEntry) ([]byte, error) {
	b, err := encMode.Marshal(cborCommitEntry{
		ContentCid: c.ContentCid.AsBytes(),
		Timestamp:  c.Timestamp.UnixNano(),
		Previous:   cidBytesPtr(c.Previous),
	})
	if err != nil {
		return nil, ferr.Wrap(ferr.KindInternal, "encode commit entry", err)
	}
	return b, nil
}

// DecodeCommitEntry parses bytes produced by EncodeCommitEntry.
func DecodeCommitEntry(buf []byte) (CommitEntry, error) {
	var raw cborCommitEntry
	if err := cbor.Unmarshal(buf, &raw); err != nil {
		return CommitEntry{}, ferr.Wrap(ferr.KindDeser, "decode commit entry", err)
	}
	c, err := cid.FromBytes(raw.ContentCid)
	if err != nil {
		return CommitEntry{}, ferr.Wrap(ferr.KindDeser, "decode commit entry content cid", err)
	}
	entry := CommitEntry{
		ContentCid: c,
		Timestamp:  time.Unix(0, raw.Timestamp).UTC(),
	}
	if raw.Previous != nil {
		prev, err := cid.FromBytes(raw.Previous)
		if err != nil {
			return CommitEntry{}, ferr.Wrap(ferr.KindDeser, "decode commit entry previous", err)
		}
		entry.Previous = &prev
	}
	return entry, nil
}

// cborCommitEntry is CommitEntry's wire shape: raw byte slices instead of
// Cid, since cbor has no notion of our multihash-tagged type.
type cborCommitEntry struct {
	ContentCid []byte `cbor:"content_cid"`
	Timestamp  int64  `cbor:"timestamp"`
	Previous   []byte `cbor:"previous,omitempty"`
}

// Repo is one repository's state inside a ReplicaLogEntry: the current
// branch tip plus every named branch (spec.md §4.N).
type Repo struct {
	BranchTip cid.Cid
	Branches  map[string]cid.Cid
}

// ReplicaLogEntry is a single append-only node of a replica's log (spec.md
// §4.N): the previous entry, the set of known repositories, and an optional
// identity Rid. It has no default-config field.
type ReplicaLogEntry struct {
	Previous *cid.Cid
	Repos    map[string]Repo
	Identity *cid.Rid
}

type cborRepo struct {
	BranchTip []byte            `cbor:"branch_tip"`
	Branches  map[string][]byte `cbor:"branches"`
}

type cborReplicaLogEntry struct {
	Previous []byte              `cbor:"previous,omitempty"`
	Repos    map[string]cborRepo `cbor:"repos"`
	Identity []byte              `cbor:"identity,omitempty"`
}

// EncodeReplicaLogEntry serializes a ReplicaLogEntry to canonical CBOR.
func EncodeReplicaLogEntry(e ReplicaLogEntry) ([]byte, error) {
	repos := make(map[string]cborRepo, len(e.Repos))
	for name, r := range e.Repos {
		branches := make(map[string][]byte, len(r.Branches))
		for bname, c := range r.Branches {
			branches[bname] = c.AsBytes()
		}
		repos[name] = cborRepo{BranchTip: r.BranchTip.AsBytes(), Branches: branches}
	}
	raw := cborReplicaLogEntry{
		Previous: cidBytesPtr(e.Previous),
		Repos:    repos,
	}
	if e.Identity != nil {
		raw.Identity = e.Identity.AsBytes()
	}
	b, err := encMode.Marshal(raw)
	if err != nil {
		return nil, ferr.Wrap(ferr.KindInternal, "encode replica log entry", err)
	}
	return b, nil
}

// DecodeReplicaLogEntry parses bytes produced by EncodeReplicaLogEntry.
func DecodeReplicaLogEntry(buf []byte) (ReplicaLogEntry, error) {
	var raw cborReplicaLogEntry
	if err := cbor.Unmarshal(buf, &raw); err != nil {
		return ReplicaLogEntry{}, ferr.Wrap(ferr.KindDeser, "decode replica log entry", err)
	}
	entry := ReplicaLogEntry{Repos: make(map[string]Repo, len(raw.Repos))}
	if raw.Previous != nil {
		prev, err := cid.FromBytes(raw.Previous)
		if err != nil {
			return ReplicaLogEntry{}, ferr.Wrap(ferr.KindDeser, "decode replica log entry previous", err)
		}
		entry.Previous = &prev
	}
	if raw.Identity != nil {
		id, err := cid.RidFromBytes(raw.Identity)
		if err != nil {
			return ReplicaLogEntry{}, ferr.Wrap(ferr.KindMetaRid, "decode replica log entry identity", err)
		}
		entry.Identity = &id
	}
	for name, r := range raw.Repos {
		tip, err := cid.FromBytes(r.BranchTip)
		if err != nil {
			return ReplicaLogEntry{}, ferr.Wrap(ferr.KindDeser, "decode repo branch tip", err)
		}
		branches := make(map[string]cid.Cid, len(r.Branches))
		for bname, raw := range r.Branches {
			c, err := cid.FromBytes(raw)
			if err != nil {
				return ReplicaLogEntry{}, ferr.Wrap(ferr.KindDeser, "decode repo branch", err)
			}
			branches[bname] = c
		}
		entry.Repos[name] = Repo{BranchTip: tip, Branches: branches}
	}
	return entry, nil
}

func cidBytesPtr(c *cid.Cid) []byte {
	if c == nil {
		return nil
	}
	return c.AsBytes()
}
