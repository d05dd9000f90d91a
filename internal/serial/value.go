// Package serial is fixity's serialization layer (spec.md §4.D). It owns
// the wire types for tree nodes (byte-exact, hand-rolled framing so the
// content-addressing invariant holds: same serialized bytes -> same Cid)
// and the CBOR-backed metadata types (Commit, ReplicaLog entries) that sit
// outside the chunking-sensitive hot path.
package serial

import (
	"encoding/binary"
	"fmt"

	"github.com/fixitydb/fixity/internal/cid"
	"github.com/fixitydb/fixity/internal/ferr"
	"github.com/fixitydb/fixity/internal/value"
)

const (
	valueTagAddr   byte = 1
	valueTagUint32 byte = 2
	valueTagString byte = 3
	valueTagVec    byte = 4
)

// EncodeValue appends the framed encoding of v to buf and returns the
// result.
func EncodeValue(buf []byte, v value.Value) []byte {
	switch v.Tag() {
	case value.TagAddr:
		addr, _ := v.AsAddr()
		raw := addr.AsBytes()
		buf = append(buf, valueTagAddr)
		buf = appendUint32(buf, uint32(len(raw)))
		buf = append(buf, raw...)
	case value.TagUint32:
		u, _ := v.AsUint32()
		buf = append(buf, valueTagUint32)
		buf = appendUint32(buf, u)
	case value.TagString:
		s, _ := v.AsString()
		buf = append(buf, valueTagString)
		buf = appendUint32(buf, uint32(len(s)))
		buf = append(buf, s...)
	case value.TagVec:
		elems, _ := v.AsVec()
		buf = append(buf, valueTagVec)
		buf = appendUint32(buf, uint32(len(elems)))
		for _, e := range elems {
			buf = EncodeValue(buf, e)
		}
	default:
		panic(fmt.Sprintf("serial: unknown value tag %d", v.Tag()))
	}
	return buf
}

// DecodeValue parses a single framed Value from the front of buf, returning
// the value and the number of bytes consumed.
func DecodeValue(buf []byte) (value.Value, int, error) {
	if len(buf) < 1 {
		return value.Value{}, 0, deserErr("empty buffer for value tag")
	}
	tag := buf[0]
	pos := 1
	switch tag {
	case valueTagAddr:
		n, np, err := readUint32(buf, pos)
		if err != nil {
			return value.Value{}, 0, err
		}
		pos = np
		if pos+int(n) > len(buf) {
			return value.Value{}, 0, deserErr("truncated addr value")
		}
		c, err := cid.FromBytes(buf[pos : pos+int(n)])
		if err != nil {
			return value.Value{}, 0, ferr.Wrap(ferr.KindDeser, "decode addr value", err)
		}
		pos += int(n)
		return value.Addr(c), pos, nil
	case valueTagUint32:
		u, np, err := readUint32(buf, pos)
		if err != nil {
			return value.Value{}, 0, err
		}
		return value.Uint32(u), np, nil
	case valueTagString:
		n, np, err := readUint32(buf, pos)
		if err != nil {
			return value.Value{}, 0, err
		}
		pos = np
		if pos+int(n) > len(buf) {
			return value.Value{}, 0, deserErr("truncated string value")
		}
		s := string(buf[pos : pos+int(n)])
		pos += int(n)
		return value.String(s), pos, nil
	case valueTagVec:
		count, np, err := readUint32(buf, pos)
		if err != nil {
			return value.Value{}, 0, err
		}
		pos = np
		elems := make([]value.Value, 0, count)
		for i := uint32(0); i < count; i++ {
			e, consumed, err := DecodeValue(buf[pos:])
			if err != nil {
				return value.Value{}, 0, err
			}
			elems = append(elems, e)
			pos += consumed
		}
		return value.Vec(elems...), pos, nil
	default:
		return value.Value{}, 0, deserErr(fmt.Sprintf("unknown value tag %d", tag))
	}
}

func appendUint32(buf []byte, u uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], u)
	return append(buf, tmp[:]...)
}

func readUint32(buf []byte, pos int) (uint32, int, error) {
	if pos+4 > len(buf) {
		return 0, 0, deserErr("truncated uint32")
	}
	return binary.BigEndian.Uint32(buf[pos : pos+4]), pos + 4, nil
}

func deserErr(msg string) *ferr.Error {
	return ferr.New(ferr.KindDeser, msg)
}
