// Package workspace implements fixity's git-like working-surface state
// machine (spec.md §4.L): a branch name plus a Status that tracks staged
// content against the last commit, and a fail-fast lock guarding mutation.
// Grounded on the teacher's branch.BranchManager (pkg/branch/manager.go) for
// the branch-ref-file shape and its atomic temp-file-then-rename write
// discipline, generalized from a flat hash pointer to the five-variant
// Status sum type spec.md §4.L specifies.
package workspace

import (
	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/commitlog"
	"github.com/fixitydb/fixity/internal/ferr"
)

// Kind enumerates the five Status variants of spec.md §4.L.
type Kind int

const (
	Init Kind = iota
	InitStaged
	Clean
	Staged
	Detached
)

func (k Kind) String() string {
	switch k {
	case Init:
		return "Init"
	case InitStaged:
		return "InitStaged"
	case Clean:
		return "Clean"
	case Staged:
		return "Staged"
	case Detached:
		return "Detached"
	default:
		return "Unknown"
	}
}

// Status is the workspace's current state: which variant it's in, plus the
// fields that variant carries. Not every field is meaningful for every
// Kind; see the per-Kind constructors below, which are the only supported
// way to build a Status.
type Status struct {
	Kind          Kind
	Branch        string
	StagedContent cid.Cid
	Commit        cid.Cid
}

func NewInit(branch string) Status { return Status{Kind: Init, Branch: branch} }
func NewInitStaged(branch string, staged cid.Cid) Status {
	return Status{Kind: InitStaged, Branch: branch, StagedContent: staged}
}
func NewClean(branch string, commit cid.Cid) Status {
	return Status{Kind: Clean, Branch: branch, Commit: commit}
}
func NewStaged(branch string, staged, commit cid.Cid) Status {
	return Status{Kind: Staged, Branch: branch, StagedContent: staged, Commit: commit}
}
func NewDetached(commit cid.Cid) Status { return Status{Kind: Detached, Commit: commit} }

// Stage applies spec.md 4.L's stage(x) transition, returning the next
// Status or the ferr.Kind transition error.
func (s Status) Stage(x cid.Cid) (Status, error) {
	switch s.Kind {
	case Init:
		return NewInitStaged(s.Branch, x), nil
	case InitStaged:
		return NewInitStaged(s.Branch, x), nil
	case Clean:
		return NewStaged(s.Branch, x, s.Commit), nil
	case Staged:
		return NewStaged(s.Branch, x, s.Commit), nil
	case Detached:
		return Status{}, ferr.New(ferr.KindDetachedHead, "workspace: cannot stage on a detached head")
	default:
		return Status{}, ferr.New(ferr.KindInternal, "workspace: unknown status kind")
	}
}

// CommitTo applies spec.md 4.L's commit(k) transition.
func (s Status) CommitTo(k cid.Cid) (Status, error) {
	switch s.Kind {
	case InitStaged:
		return NewClean(s.Branch, k), nil
	case Staged:
		return NewClean(s.Branch, k), nil
	case Init:
		return Status{}, ferr.New(ferr.KindCommitEmptyStage, "workspace: nothing staged to commit")
	case Clean:
		return Status{}, ferr.New(ferr.KindCommitEmptyStage, "workspace: nothing staged to commit")
	case Detached:
		return Status{}, ferr.New(ferr.KindDetachedHead, "workspace: cannot commit on a detached head")
	default:
		return Status{}, ferr.New(ferr.KindInternal, "workspace: unknown status kind")
	}
}

// ContentAddr resolves the content Cid reachable for s: staged content if
// present, else (for Clean) the commit log's contained content Cid, else
// (Init) no content yet, else (Detached) an error — spec.md 4.L's
// Status::content_addr.
func (s Status) ContentAddr(log *commitlog.Log) (cid.Cid, bool, error) {
	switch s.Kind {
	case InitStaged, Staged:
		return s.StagedContent, true, nil
	case Clean:
		c, err := log.First(s.Commit)
		if err != nil {
			return cid.Cid{}, false, err
		}
		return c, true, nil
	case Init:
		return cid.Cid{}, false, nil
	case Detached:
		return cid.Cid{}, false, ferr.New(ferr.KindDetachedHead, "workspace: detached head has no addressable branch content")
	default:
		return cid.Cid{}, false, ferr.New(ferr.KindInternal, "workspace: unknown status kind")
	}
}
