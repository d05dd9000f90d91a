package prolly

import "github.com/fixitydb/fixity/internal/value"

// BoundKind classifies one end of a range query.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Cursor is one end (start or end) of a key range passed to Iter. The zero
// value is Unbounded.
type Cursor struct {
	Kind BoundKind
	Key  value.Key
}

// IncludedKey builds a Cursor that includes k itself.
func IncludedKey(k value.Key) Cursor { return Cursor{Kind: Included, Key: k} }

// ExcludedKey builds a Cursor that excludes k itself.
func ExcludedKey(k value.Key) Cursor { return Cursor{Kind: Excluded, Key: k} }

// UnboundedCursor has no lower/upper limit.
func UnboundedCursor() Cursor { return Cursor{Kind: Unbounded} }

// satisfiesLower reports whether k passes the lower Cursor c.
func (c Cursor) satisfiesLower(k value.Key) bool {
	switch c.Kind {
	case Unbounded:
		return true
	case Included:
		return k.Compare(c.Key) >= 0
	case Excluded:
		return k.Compare(c.Key) > 0
	default:
		return false
	}
}

// satisfiesUpper reports whether k passes the upper Cursor c.
func (c Cursor) satisfiesUpper(k value.Key) bool {
	switch c.Kind {
	case Unbounded:
		return true
	case Included:
		return k.Compare(c.Key) <= 0
	case Excluded:
		return k.Compare(c.Key) < 0
	default:
		return false
	}
}
