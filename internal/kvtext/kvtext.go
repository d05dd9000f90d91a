// Package kvtext implements fixity's CLI key/value text syntax and path
// segment syntax (spec.md §6): `u32:<decimal>`, `str:<utf8>`, `addr:
// <base58>` typed tokens with an untyped numeric-else-string fallback, and
// `/`-separated path segments with `\/` escaping. The teacher's CLI
// (examples/demo/main.go) talks to its store through Go call sites
// directly, never through a text encoding, so this package has no direct
// teacher analogue; it's grounded on spec.md §6's literal grammar and
// follows the teacher's plain-error-return style (no parser-combinator
// library — the grammar is three prefixes and a fallback, not worth one).
package kvtext

import (
	"strconv"
	"strings"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/value"
)

// ParseValue parses one key/value text token into a value.Value, following
// spec.md §6's grammar: u32:/str:/addr: typed prefixes, else numeric
// fallback to Uint32, else String.
func ParseValue(token string) (value.Value, error) {
	switch {
	case strings.HasPrefix(token, "u32:"):
		n, err := strconv.ParseUint(token[len("u32:"):], 10, 32)
		if err != nil {
			return value.Value{}, ferr.Wrap(ferr.KindInvalidInput, "kvtext: invalid u32 token", err)
		}
		return value.Uint32(uint32(n)), nil
	case strings.HasPrefix(token, "str:"):
		return value.String(token[len("str:"):]), nil
	case strings.HasPrefix(token, "addr:"):
		c, err := cid.Decode(token[len("addr:"):])
		if err != nil {
			return value.Value{}, ferr.Wrap(ferr.KindInvalidInput, "kvtext: invalid addr token", err)
		}
		return value.Addr(c), nil
	default:
		if n, err := strconv.ParseUint(token, 10, 32); err == nil {
			return value.Uint32(uint32(n)), nil
		}
		return value.String(token), nil
	}
}

// FormatValue renders v back to its text form, the inverse of ParseValue
// for the typed prefixes (round-tripping the untyped fallback as str: or
// u32: explicitly, since the original token's typedness can't be
// recovered from the Value alone).
func FormatValue(v value.Value) string {
	switch v.Tag() {
	case value.TagUint32:
		n, _ := v.AsUint32()
		return "u32:" + strconv.FormatUint(uint64(n), 10)
	case value.TagString:
		s, _ := v.AsString()
		return "str:" + s
	case value.TagAddr:
		c, _ := v.AsAddr()
		return "addr:" + c.Encode()
	default:
		return v.String()
	}
}

// ParsePath splits a `/`-separated path string into its segments,
// unescaping `\/` within a segment, per spec.md §6.
func ParsePath(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var segments []string
	var current strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '/':
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		return nil, ferr.New(ferr.KindInvalidInput, "kvtext: trailing escape character in path")
	}
	segments = append(segments, current.String())
	return segments, nil
}
