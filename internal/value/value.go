// Package value implements fixity's Value sum type and the Key wrapper
// used wherever ordering matters (spec.md §3).
package value

import (
	"bytes"
	"fmt"

	"github.com/fixitydb/fixity/internal/cid"
)

// Tag identifies which variant a Value holds.
type Tag uint8

const (
	TagAddr Tag = iota + 1
	TagUint32
	TagString
	TagVec
)

// Value is the sum of {Addr(Cid), Uint32(u32), String(utf-8), Vec(seq of
// scalar)}, matching spec.md §3 exactly.
type Value struct {
	tag    Tag
	addr   cid.Cid
	u32    uint32
	str    string
	vec    []Value
}

func Addr(c cid.Cid) Value    { return Value{tag: TagAddr, addr: c} }
func Uint32(u uint32) Value   { return Value{tag: TagUint32, u32: u} }
func String(s string) Value   { return Value{tag: TagString, str: s} }
func Vec(vs ...Value) Value   { return Value{tag: TagVec, vec: vs} }

func (v Value) Tag() Tag { return v.tag }

// AsAddr returns the Cid and true if v holds the Addr variant.
func (v Value) AsAddr() (cid.Cid, bool) {
	if v.tag != TagAddr {
		return cid.Cid{}, false
	}
	return v.addr, true
}

// AsUint32 returns the uint32 and true if v holds the Uint32 variant.
func (v Value) AsUint32() (uint32, bool) {
	if v.tag != TagUint32 {
		return 0, false
	}
	return v.u32, true
}

// AsString returns the string and true if v holds the String variant.
func (v Value) AsString() (string, bool) {
	if v.tag != TagString {
		return "", false
	}
	return v.str, true
}

// AsVec returns the elements and true if v holds the Vec variant.
func (v Value) AsVec() ([]Value, bool) {
	if v.tag != TagVec {
		return nil, false
	}
	return v.vec, true
}

// Compare gives a total order over Values: first by Tag, then by the
// variant's natural order. Vec compares element-wise, shorter-prefix-first.
func (v Value) Compare(o Value) int {
	if v.tag != o.tag {
		if v.tag < o.tag {
			return -1
		}
		return 1
	}
	switch v.tag {
	case TagAddr:
		return v.addr.Compare(o.addr)
	case TagUint32:
		switch {
		case v.u32 < o.u32:
			return -1
		case v.u32 > o.u32:
			return 1
		default:
			return 0
		}
	case TagString:
		return bytes.Compare([]byte(v.str), []byte(o.str))
	case TagVec:
		n := len(v.vec)
		if len(o.vec) < n {
			n = len(o.vec)
		}
		for i := 0; i < n; i++ {
			if c := v.vec[i].Compare(o.vec[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(v.vec) < len(o.vec):
			return -1
		case len(v.vec) > len(o.vec):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func (v Value) Equal(o Value) bool { return v.Compare(o) == 0 }

func (v Value) String() string {
	switch v.tag {
	case TagAddr:
		return fmt.Sprintf("addr:%s", v.addr)
	case TagUint32:
		return fmt.Sprintf("u32:%d", v.u32)
	case TagString:
		return fmt.Sprintf("str:%s", v.str)
	case TagVec:
		return fmt.Sprintf("vec:%v", v.vec)
	default:
		return "invalid"
	}
}

// Key wraps a Value and is used only where ordering is required (tree
// keys). Keys compare lexicographically via Value ordering (spec.md §3).
type Key struct{ V Value }

func NewKey(v Value) Key            { return Key{V: v} }
func (k Key) Compare(o Key) int      { return k.V.Compare(o.V) }
func (k Key) Equal(o Key) bool       { return k.V.Equal(o.V) }
func (k Key) String() string         { return k.V.String() }
