// Package ferr defines the closed set of error kinds that cross layer
// boundaries in fixity, following spec.md §7.
package ferr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of structured error kinds propagated across
// fixity's layers. Callers should switch on Kind rather than comparing
// error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindInternal
	KindIO
	KindDeser
	KindProlly
	KindUnexpectedValueVariant
	KindCommitEmptyStage
	KindDetachedHead
	KindNoStageToCommit
	KindNoChangesToWrite
	KindCannotReplaceRootMap
	KindDanglingAddr
	KindRepositoryNotFound
	KindWorkspaceInUse
	KindMetaRid
	KindMetaCid
	KindMetaStorage
	KindMetaOther
	KindNotModified
	KindUnmergableType
	KindUndiffableType
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInternal:
		return "Internal"
	case KindIO:
		return "Io"
	case KindDeser:
		return "Deser"
	case KindProlly:
		return "Prolly"
	case KindUnexpectedValueVariant:
		return "Type::UnexpectedValueVariant"
	case KindCommitEmptyStage:
		return "CommitEmptyStage"
	case KindDetachedHead:
		return "DetachedHead"
	case KindNoStageToCommit:
		return "NoStageToCommit"
	case KindNoChangesToWrite:
		return "NoChangesToWrite"
	case KindCannotReplaceRootMap:
		return "CannotReplaceRootMap"
	case KindDanglingAddr:
		return "DanglingAddr"
	case KindRepositoryNotFound:
		return "RepositoryNotFound"
	case KindWorkspaceInUse:
		return "Workspace::InUse"
	case KindMetaRid:
		return "MetaStore::Rid"
	case KindMetaCid:
		return "MetaStore::Cid"
	case KindMetaStorage:
		return "MetaStore::Storage"
	case KindMetaOther:
		return "MetaStore::Other"
	case KindNotModified:
		return "Store::NotModified"
	case KindUnmergableType:
		return "Store::UnmergableType"
	case KindUndiffableType:
		return "Store::UndiffableType"
	default:
		return "Unknown"
	}
}

// Error is the single error type used across fixity's layers. A Kind
// classifies the failure; Path/Addr are optional context used by facades
// translating shape mismatches (spec.md §7's "path and Cid context").
type Error struct {
	Kind    Kind
	Message string
	Path    string
	Addr    string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path=%s)", msg, e.Path)
	}
	if e.Addr != "" {
		msg = fmt.Sprintf("%s (addr=%s)", msg, e.Addr)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, ferr.New(KindNotFound, "")) style matching on
// Kind alone.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New constructs an *Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error that preserves cause for errors.Unwrap/Is/As.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithPath attaches path context and returns a new *Error (the receiver is
// not mutated, so shared sentinel-ish errors remain safe to reuse).
func (e *Error) WithPath(path string) *Error {
	n := *e
	n.Path = path
	return &n
}

// WithAddr attaches Cid/Rid text context.
func (e *Error) WithAddr(addr string) *Error {
	n := *e
	n.Addr = addr
	return &n
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, else
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
