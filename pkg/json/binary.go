// Copyright 2017 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package json

import (
	"encoding/binary"
	"math"

	"github.com/pingcap/errors"
)

// Encode serializes a DOM tree to the binary form of spec.md §4.3: a
// leading type byte followed by the value's payload. Grounded on the
// teacher's appendBinaryJSON family (pkg/types/json_binary.go), but
// restores the small/large container split TiDB's own code collapsed
// (it always emits the large encoding): here each container picks
// whichever encoding is sufficient to address its own bytes, decided
// independently of its parent and children, per spec.md invariant 8.
func Encode(v *Value) ([]byte, error) {
	if v.Depth() > MaxDepth {
		return nil, errors.Trace(ErrJSONDocumentTooDeep)
	}
	typeCode, payload, err := encodeValue(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(payload)+1)
	out = append(out, typeCode)
	return append(out, payload...), nil
}

// encodeValue returns the wire type code and the payload bytes that
// follow it. The payload never repeats the type byte: inside a
// container the type byte lives in the value-entry, separate from the
// bytes (inline or offset-addressed) it describes.
func encodeValue(v *Value) (byte, []byte, error) {
	switch v.kind {
	case KindNull:
		return typeCodeLiteral, []byte{literalNil}, nil
	case KindBool:
		if v.b {
			return typeCodeLiteral, []byte{literalTrue}, nil
		}
		return typeCodeLiteral, []byte{literalFalse}, nil
	case KindInt64:
		tc, b := encodeFixedInt(v.i64)
		return tc, b, nil
	case KindUint64:
		tc, b := encodeFixedUint(v.u64)
		return tc, b, nil
	case KindDouble:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, math.Float64bits(v.f64))
		return typeCodeDouble, b, nil
	case KindDecimal:
		return typeCodeOpaque, encodeOpaque(OpaqueFieldDecimal, []byte(v.dec.String())), nil
	case KindString:
		return typeCodeString, appendVarlen(nil, v.str), nil
	case KindOpaque:
		return typeCodeOpaque, encodeOpaque(v.opaqueType, v.opaqueBuf), nil
	case KindDate:
		return typeCodeDate, encodeTemporal(v.temporal), nil
	case KindTime:
		return typeCodeTime, encodeTemporal(v.temporal), nil
	case KindDatetime:
		return typeCodeDatetime, encodeTemporal(v.temporal), nil
	case KindTimestamp:
		return typeCodeTimestamp, encodeTemporal(v.temporal), nil
	case KindArray:
		b, err := encodeContainer(v)
		if err != nil {
			return 0, nil, err
		}
		// encodeContainer only falls back to the large encoding when the
		// body does not fit in 16 bits, so the body length tells which it chose.
		return containerTypeCode(v, len(b) > math.MaxUint16), b, nil
	case KindObject:
		b, err := encodeContainer(v)
		if err != nil {
			return 0, nil, err
		}
		return containerTypeCode(v, len(b) > math.MaxUint16), b, nil
	default:
		return 0, nil, errors.Errorf("json: cannot encode kind %v", v.kind)
	}
}

func containerTypeCode(v *Value, large bool) byte {
	switch {
	case v.kind == KindArray && !large:
		return typeCodeSmallArray
	case v.kind == KindArray && large:
		return typeCodeLargeArray
	case v.kind == KindObject && !large:
		return typeCodeSmallObject
	default:
		return typeCodeLargeObject
	}
}

func encodeTemporal(t Temporal) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(t))
	return b
}

func encodeOpaque(fieldType byte, buf []byte) []byte {
	out := make([]byte, 0, len(buf)+6)
	out = append(out, fieldType)
	return appendVarlen(out, buf)
}

func appendVarlen(dst, data []byte) []byte {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(data)))
	dst = append(dst, lenBuf[:n]...)
	return append(dst, data...)
}

// encodeFixedInt narrows i to the smallest of int16/int32/int64 that
// represents it exactly, per spec.md's "inlineable scalars" wording.
// Whether the resulting width actually gets inlined in a value-entry,
// rather than written at an offset, is decided later by encodeContainer
// against that container's own width.
func encodeFixedInt(i int64) (byte, []byte) {
	switch {
	case i >= math.MinInt16 && i <= math.MaxInt16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(int16(i)))
		return typeCodeInt16, b
	case i >= math.MinInt32 && i <= math.MaxInt32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(int32(i)))
		return typeCodeInt32, b
	default:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(i))
		return typeCodeInt64, b
	}
}

func encodeFixedUint(u uint64) (byte, []byte) {
	switch {
	case u <= math.MaxUint16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(u))
		return typeCodeUint16, b
	case u <= math.MaxUint32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(u))
		return typeCodeUint32, b
	default:
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, u)
		return typeCodeUint64, b
	}
}

// fixedWidth reports the byte width a scalar type code occupies when
// written in full (not inlined): 1 for a literal, 2/4/8 for narrowed
// integers, 8 for double and every temporal. Variable-length kinds
// (string, opaque) are never inlineable and report 0, which inlineable
// treats as "not inlineable".
func fixedWidth(typeCode byte) int {
	switch typeCode {
	case typeCodeLiteral:
		return 1
	case typeCodeInt16, typeCodeUint16:
		return 2
	case typeCodeInt32, typeCodeUint32:
		return 4
	case typeCodeInt64, typeCodeUint64, typeCodeDouble,
		typeCodeDate, typeCodeTime, typeCodeDatetime, typeCodeTimestamp:
		return 8
	default:
		return 0
	}
}

func inlineable(typeCode byte, large bool) bool {
	w := fixedWidth(typeCode)
	return w > 0 && w <= countOrSizeWidth(large)
}

// encodeContainer builds the full body of an ARRAY or OBJECT (element
// count, size, entry tables, keys, values), trying the small encoding
// first and falling back to large if the count or total byte size
// overflows a 16-bit field (spec.md invariant 8). Grounded on
// appendBinaryArray/appendBinaryObject in pkg/types/json_binary.go.
func encodeContainer(v *Value) ([]byte, error) {
	children, keys, err := containerChildren(v)
	if err != nil {
		return nil, err
	}
	small, err := buildContainer(v.kind == KindObject, keys, children, false)
	if err == nil && len(small) <= math.MaxUint16 && len(children) <= math.MaxUint16 {
		return small, nil
	}
	return buildContainer(v.kind == KindObject, keys, children, true)
}

func containerChildren(v *Value) (children []*Value, keys [][]byte, err error) {
	switch v.kind {
	case KindArray:
		return v.arr, nil, nil
	case KindObject:
		return v.objVals, v.objKeys, nil
	default:
		return nil, nil, errors.Errorf("json: %v is not a container", v.kind)
	}
}

// buildContainer lays out one container assuming the given width
// (small: 16-bit count/size/offset fields; large: 32-bit). It encodes
// every child independently first (each child container is fully
// self-contained, with its own small/large choice and offsets relative
// to its own start), so a child's encoded bytes are the same at either
// width; only their placement in the entry table differs.
func buildContainer(isObject bool, keys [][]byte, children []*Value, large bool) ([]byte, error) {
	n := len(children)
	width := countOrSizeWidth(large)

	type encoded struct {
		typeCode byte
		payload  []byte
	}
	encChildren := make([]encoded, n)
	for i, c := range children {
		tc, payload, err := encodeValue(c)
		if err != nil {
			return nil, err
		}
		encChildren[i] = encoded{tc, payload}
	}

	buf := make([]byte, 0, 64)
	buf = putUintWidth(buf, uint64(n), width)
	sizeAt := len(buf)
	buf = putUintWidth(buf, 0, width) // size patched below

	if isObject {
		keyEntryAt := len(buf)
		buf = append(buf, make([]byte, n*keyEntrySize(large))...)
		valEntryAt := len(buf)
		buf = append(buf, make([]byte, n*valEntrySize(large))...)
		for i, k := range keys {
			if len(k) > math.MaxUint16 {
				return nil, errors.Trace(ErrJSONObjectKeyTooLong)
			}
			off := len(buf)
			buf = append(buf, k...)
			e := keyEntryAt + i*keyEntrySize(large)
			buf = putUintWidthAt(buf, e, uint64(off), width)
			binary.LittleEndian.PutUint16(buf[e+width:], uint16(len(k)))
		}
		for i, c := range encChildren {
			e := valEntryAt + i*valEntrySize(large)
			buf[e] = c.typeCode
			if inlineable(c.typeCode, large) {
				copy(buf[e+1:e+1+width], c.payload)
				continue
			}
			off := len(buf)
			buf = append(buf, c.payload...)
			buf = putUintWidthAt(buf, e+1, uint64(off), width)
		}
	} else {
		valEntryAt := len(buf)
		buf = append(buf, make([]byte, n*valEntrySize(large))...)
		for i, c := range encChildren {
			e := valEntryAt + i*valEntrySize(large)
			buf[e] = c.typeCode
			if inlineable(c.typeCode, large) {
				copy(buf[e+1:e+1+width], c.payload)
				continue
			}
			off := len(buf)
			buf = append(buf, c.payload...)
			buf = putUintWidthAt(buf, e+1, uint64(off), width)
		}
	}

	buf = putUintWidthAt(buf, sizeAt, uint64(len(buf)), width)
	return buf, nil
}

func putUintWidth(dst []byte, v uint64, width int) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, width)...)
	putUintWidthAt(dst, start, v, width)
	return dst
}

func putUintWidthAt(dst []byte, at int, v uint64, width int) []byte {
	if width == 2 {
		binary.LittleEndian.PutUint16(dst[at:], uint16(v))
	} else {
		binary.LittleEndian.PutUint32(dst[at:], uint32(v))
	}
	return dst
}
