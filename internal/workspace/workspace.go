package workspace

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/commitlog"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/mutstore"
)

// branchRefKey holds the branch's last committed tip; stagedRefKey holds
// content staged but not yet committed. Both are ordinary mutstore keys, so
// InitStaged/Staged status survives a process restart the same way Clean
// does (spec.md §6's HEAD persisted-layout note), rather than only Commit
// persisting anything.
const (
	branchRefKey = "HEAD"
	stagedRefKey = "STAGED"
)

// Workspace tracks one branch's working Status, persisting the branch's
// committed tip as raw Cid bytes under the HEAD key of its mutstore.Store
// (one store per workspace; there is no refs/heads/<branch> entry),
// generalizing the teacher's BranchManager.writeBranchRef single-file
// persistence. Mutation is only valid while holding
// the Guard returned by Lock.
type Workspace struct {
	mu     sync.Mutex
	inUse  atomic.Bool
	refs   mutstore.Store
	log    *commitlog.Log
	status Status
	logger *zap.Logger
	// branch is immutable for the Workspace's lifetime, unlike status, so
	// Lock's contention log can read it without holding mu.
	branch string
}

// Open loads (or initializes) the workspace for branch, reconstructing its
// Status from whichever of the HEAD (committed tip) and STAGED (staged
// content) refs are present: InitStaged/Staged pick up right where a prior
// process left off.
func Open(refs mutstore.Store, log *commitlog.Log, branch string) (*Workspace, error) {
	hasHead, head, err := readCidRef(refs, branchRefKey)
	if err != nil {
		return nil, err
	}
	hasStaged, staged, err := readCidRef(refs, stagedRefKey)
	if err != nil {
		return nil, err
	}

	var status Status
	switch {
	case !hasHead && !hasStaged:
		status = NewInit(branch)
	case !hasHead && hasStaged:
		status = NewInitStaged(branch, staged)
	case hasHead && !hasStaged:
		status = NewClean(branch, head)
	default:
		status = NewStaged(branch, staged, head)
	}
	return &Workspace{refs: refs, log: log, status: status, logger: zap.NewNop(), branch: branch}, nil
}

// OpenDetached builds a read-only Workspace fixed at a specific commit, not
// tied to any branch ref (spec.md's Detached status).
func OpenDetached(refs mutstore.Store, log *commitlog.Log, commit cid.Cid) *Workspace {
	return &Workspace{refs: refs, log: log, status: NewDetached(commit), logger: zap.NewNop()}
}

// SetLogger installs l as the workspace's logger, used to record lock
// contention and stage/commit transitions. A freshly Open'd Workspace logs
// nothing until SetLogger is called.
func (w *Workspace) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	w.logger = l
}

func readCidRef(refs mutstore.Store, key string) (bool, cid.Cid, error) {
	exists, err := refs.Exists(key)
	if err != nil || !exists {
		return false, cid.Cid{}, err
	}
	buf, err := refs.Get(key)
	if err != nil {
		return false, cid.Cid{}, err
	}
	c, err := cid.FromBytes(buf)
	if err != nil {
		return false, cid.Cid{}, ferr.Wrap(ferr.KindDeser, "workspace: decode ref", err).WithPath(key)
	}
	return true, c, nil
}

// Status returns the current Status. It does not take a Guard, but it does
// take the Workspace's internal mutex, which a held Guard keeps locked from
// Lock to Unlock: while any Guard is held, Status waits for its release.
func (w *Workspace) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// ContentAddr resolves the currently-reachable content Cid.
func (w *Workspace) ContentAddr() (cid.Cid, bool, error) {
	return w.Status().ContentAddr(w.log)
}

// Guard is an exclusive mutation handle on a Workspace, released by
// Unlock. Only one Guard may be held at a time; a second Lock call fails
// fast with ferr.KindWorkspaceInUse instead of blocking (spec.md §5's
// fail-fast ordering guarantee).
type Guard struct {
	ws       *Workspace
	released bool
}

// Lock acquires the Workspace's exclusive guard, failing immediately
// (rather than blocking) if it's already held.
func (w *Workspace) Lock() (*Guard, error) {
	if !w.inUse.CompareAndSwap(false, true) {
		w.logger.Warn("workspace lock contention", zap.String("branch", w.branch))
		return nil, ferr.New(ferr.KindWorkspaceInUse, "workspace: already locked")
	}
	w.mu.Lock()
	return &Guard{ws: w}, nil
}

// Unlock releases the guard. Calling Unlock more than once is a no-op.
func (g *Guard) Unlock() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.ws.inUse.Store(false)
	g.ws.mu.Unlock()
}

// Status returns the guarded workspace's current Status.
func (g *Guard) Status() Status { return g.ws.status }

// ContentAddr resolves the currently-reachable content Cid under the
// guard, using the same commit log the Workspace was opened with.
func (g *Guard) ContentAddr() (cid.Cid, bool, error) {
	return g.ws.status.ContentAddr(g.ws.log)
}

// Stage applies spec.md 4.L's stage(x) transition under the guard,
// persisting x through the STAGED ref so the new status survives a fresh
// Open even if the process exits before a Commit.
func (g *Guard) Stage(x cid.Cid) error {
	next, err := g.ws.status.Stage(x)
	if err != nil {
		return err
	}
	if err := g.ws.refs.Put(stagedRefKey, x.AsBytes()); err != nil {
		return err
	}
	g.ws.status = next
	g.ws.logger.Debug("staged content",
		zap.String("branch", g.ws.branch), zap.String("content", x.String()))
	return nil
}

// Commit appends a commit-log entry over the currently staged content and
// moves the branch tip, applying spec.md 4.L's commit(k) transition,
// persisting the new tip through refs, and clearing the STAGED ref now that
// its content has a commit entry of its own.
func (g *Guard) Commit() (cid.Cid, error) {
	if g.ws.status.Kind != InitStaged && g.ws.status.Kind != Staged {
		// CommitTo reports CommitEmptyStage for Init/Clean and DetachedHead
		// for Detached, before anything is appended to the log.
		_, err := g.ws.status.CommitTo(cid.Cid{})
		return cid.Cid{}, err
	}
	var previous *cid.Cid
	if g.ws.status.Kind == Staged {
		p := g.ws.status.Commit
		previous = &p
	}
	entryCid, err := g.ws.log.Append(g.ws.status.StagedContent, previous)
	if err != nil {
		return cid.Cid{}, err
	}
	next, err := g.ws.status.CommitTo(entryCid)
	if err != nil {
		return cid.Cid{}, err
	}
	if err := g.ws.refs.Put(branchRefKey, entryCid.AsBytes()); err != nil {
		return cid.Cid{}, err
	}
	if err := g.ws.refs.Delete(stagedRefKey); err != nil {
		return cid.Cid{}, err
	}
	g.ws.status = next
	g.ws.logger.Info("committed",
		zap.String("branch", g.ws.branch), zap.String("commit", entryCid.String()))
	return entryCid, nil
}
