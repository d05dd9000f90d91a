// Package replicalog implements fixity's replica log container (spec.md
// §4.N): content-addressed ReplicaLogEntry nodes recording the set of known
// repositories and their branch tips. The teacher
// has no multi-repo/replica concept at all, so this package is wholly new,
// grounded on spec.md §4.N's field shapes (Previous/Repos/Identity) and
// original_source's meta_store.rs remote/repo/branch naming. Log only saves
// and opens single entries and shares no code with internal/commitlog;
// entries are chained by passing the previous entry's Cid to SetCommit.
package replicalog

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/content"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/serial"
)

// Log appends and reads serial.ReplicaLogEntry nodes over a content store.
type Log struct {
	store  content.Store
	hasher content.Hasher
}

// New constructs a Log handle over store.
func New(store content.Store, hasher content.Hasher) *Log {
	return &Log{store: store, hasher: hasher}
}

// Open loads the entry stored at c.
func (l *Log) Open(c cid.Cid) (serial.ReplicaLogEntry, error) {
	buf, err := l.store.ReadUnchecked(c)
	if err != nil {
		return serial.ReplicaLogEntry{}, err
	}
	return serial.DecodeReplicaLogEntry(buf)
}

// Save writes entry to the content store, returning its Cid.
func (l *Log) Save(entry serial.ReplicaLogEntry) (cid.Cid, error) {
	buf, err := serial.EncodeReplicaLogEntry(entry)
	if err != nil {
		return cid.Cid{}, err
	}
	return content.Write(l.store, l.hasher, buf)
}

// SetCommit returns a copy of entry with repo's branch tip and named
// branch both set to commit, chained onto previous.
func SetCommit(previous *cid.Cid, base serial.ReplicaLogEntry, repo, branch string, commit cid.Cid) serial.ReplicaLogEntry {
	repos := make(map[string]serial.Repo, len(base.Repos))
	for name, r := range base.Repos {
		branches := make(map[string]cid.Cid, len(r.Branches))
		for bname, c := range r.Branches {
			branches[bname] = c
		}
		repos[name] = serial.Repo{BranchTip: r.BranchTip, Branches: branches}
	}
	r, ok := repos[repo]
	if !ok {
		r = serial.Repo{Branches: make(map[string]cid.Cid)}
	}
	r.BranchTip = commit
	r.Branches[branch] = commit
	repos[repo] = r

	return serial.ReplicaLogEntry{
		Previous: previous,
		Repos:    repos,
		Identity: base.Identity,
	}
}

// Merge combines two replica log entries descended from a shared history
// into one, per repo/branch tip. fixity's replica logs only ever carry Cid
// pointers (no mergeable content of their own), so a genuine three-way
// merge of conflicting branch tips has no defined semantics — spec.md §7
// calls this out as ferr.KindUnmergableType rather than silently picking a
// winner.
func Merge(a, b serial.ReplicaLogEntry) (serial.ReplicaLogEntry, error) {
	return serial.ReplicaLogEntry{}, ferr.New(ferr.KindUnmergableType,
		"replicalog: replica log entries have no defined merge; reconcile repos/branches explicitly")
}

// Diff is undefined for the same reason Merge is: a replica log entry is a
// snapshot of pointers, not a content tree that supports structural diff.
func Diff(a, b serial.ReplicaLogEntry) error {
	return ferr.New(ferr.KindUndiffableType,
		"replicalog: replica log entries are not diffable; compare Repos directly")
}
