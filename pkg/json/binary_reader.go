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
	"github.com/shopspring/decimal"
)

// Reader is a view over the binary form of spec.md §4.3: its accessors
// index directly into the byte slice it was built from and return
// sub-slices of it without copying. Two methods do allocate: RawBinary
// returns a fresh copy with the type byte prepended, and ToDOM builds a
// new DOM tree. Grounded on the teacher's BinaryJSON struct and
// its objectGetKey/objectGetVal/valEntryGet/ArrayGetElem helpers
// (pkg/types/json_binary.go), generalized to the small/large container
// split those helpers collapsed away.
type Reader struct {
	typeCode byte
	data     []byte // payload; excludes the leading type byte
}

// NewReader builds a Reader over a complete type-byte-prefixed value,
// as produced by Encode.
func NewReader(raw []byte) (Reader, error) {
	if len(raw) == 0 {
		return Reader{}, errors.Trace(ErrInvalidBinaryJSON)
	}
	return Reader{typeCode: raw[0], data: raw[1:]}, nil
}

// TypeCode returns the wire type code.
func (r Reader) TypeCode() byte { return r.typeCode }

// Kind maps the wire type code back to the logical Kind, collapsing
// the small/large container distinction and the narrowed integer
// widths that have no DOM-level counterpart.
func (r Reader) Kind() Kind {
	switch r.typeCode {
	case typeCodeSmallObject, typeCodeLargeObject:
		return KindObject
	case typeCodeSmallArray, typeCodeLargeArray:
		return KindArray
	case typeCodeLiteral:
		switch r.data[0] {
		case literalNil:
			return KindNull
		default:
			return KindBool
		}
	case typeCodeInt16, typeCodeInt32, typeCodeInt64:
		return KindInt64
	case typeCodeUint16, typeCodeUint32, typeCodeUint64:
		return KindUint64
	case typeCodeDouble:
		return KindDouble
	case typeCodeString:
		return KindString
	case typeCodeOpaque:
		if r.data[0] == OpaqueFieldDecimal {
			return KindDecimal
		}
		return KindOpaque
	case typeCodeDate:
		return KindDate
	case typeCodeTime:
		return KindTime
	case typeCodeDatetime:
		return KindDatetime
	case typeCodeTimestamp:
		return KindTimestamp
	default:
		return KindError
	}
}

func (r Reader) isLarge() bool {
	return r.typeCode == typeCodeLargeObject || r.typeCode == typeCodeLargeArray
}

func (r Reader) isObject() bool {
	return r.typeCode == typeCodeSmallObject || r.typeCode == typeCodeLargeObject
}

func (r Reader) width() int { return countOrSizeWidth(r.isLarge()) }

func (r Reader) getUintWidth(at int) uint64 {
	if r.width() == 2 {
		return uint64(binary.LittleEndian.Uint16(r.data[at:]))
	}
	return uint64(binary.LittleEndian.Uint32(r.data[at:]))
}

// ElementCount returns the number of members (OBJECT) or elements
// (ARRAY) in a container value.
func (r Reader) ElementCount() int { return int(r.getUintWidth(0)) }

// Size returns the total encoded byte size of a container's body (the
// count+size+entries+keys+values run, not including the type byte).
func (r Reader) Size() int { return int(r.getUintWidth(r.width())) }

func (r Reader) valEntryBase() int {
	base := 2 * r.width()
	if r.isObject() {
		base += r.ElementCount() * keyEntrySize(r.isLarge())
	}
	return base
}

// Key returns the i-th member's key, in comparator order (compareKeys).
func (r Reader) Key(i int) []byte {
	w := r.width()
	e := 2*w + i*keyEntrySize(r.isLarge())
	off := int(r.getUintWidth(e))
	klen := int(binary.LittleEndian.Uint16(r.data[e+w:]))
	return r.data[off : off+klen]
}

// Element returns a Reader over the i-th array element, or the i-th
// member's value for an object, in comparator order.
func (r Reader) Element(i int) Reader {
	large := r.isLarge()
	e := r.valEntryBase() + i*valEntrySize(large)
	typeCode := r.data[e]
	if inlineable(typeCode, large) {
		fw := fixedWidth(typeCode)
		return Reader{typeCode: typeCode, data: r.data[e+1 : e+1+fw]}
	}
	off := int(r.getUintWidth(e + 1))
	return Reader{typeCode: typeCode, data: r.data[off:]}
}

// Lookup binary-searches an object's key table for key, the way the
// DOM's objIndex does (same compareKeys comparator, so both
// representations agree on member order).
func (r Reader) Lookup(key []byte) (Reader, bool) {
	n := r.ElementCount()
	i := 0
	j := n
	for i < j {
		mid := (i + j) / 2
		if compareKeys(r.Key(mid), key) < 0 {
			i = mid + 1
		} else {
			j = mid
		}
	}
	if i < n && compareKeys(r.Key(i), key) == 0 {
		return r.Element(i), true
	}
	return Reader{}, false
}

// RawBinary returns the type-byte-prefixed encoding of this value,
// suitable for feeding back into NewReader or storing as a column
// value in its own right.
func (r Reader) RawBinary() []byte {
	var n int
	switch {
	case r.typeCode == typeCodeSmallObject || r.typeCode == typeCodeSmallArray ||
		r.typeCode == typeCodeLargeObject || r.typeCode == typeCodeLargeArray:
		n = r.Size()
	case r.typeCode == typeCodeString:
		l, sz := binary.Uvarint(r.data)
		n = sz + int(l)
	case r.typeCode == typeCodeOpaque:
		l, sz := binary.Uvarint(r.data[1:])
		n = 1 + sz + int(l)
	default:
		n = fixedWidth(r.typeCode)
	}
	out := make([]byte, 0, n+1)
	out = append(out, r.typeCode)
	return append(out, r.data[:n]...)
}

// GetInt64 returns the scalar payload as a signed integer. The caller
// must have checked Kind() first.
func (r Reader) GetInt64() int64 {
	switch r.typeCode {
	case typeCodeInt16:
		return int64(int16(binary.LittleEndian.Uint16(r.data)))
	case typeCodeInt32:
		return int64(int32(binary.LittleEndian.Uint32(r.data)))
	default:
		return int64(binary.LittleEndian.Uint64(r.data))
	}
}

// GetUint64 returns the scalar payload as an unsigned integer.
func (r Reader) GetUint64() uint64 {
	switch r.typeCode {
	case typeCodeUint16:
		return uint64(binary.LittleEndian.Uint16(r.data))
	case typeCodeUint32:
		return uint64(binary.LittleEndian.Uint32(r.data))
	default:
		return binary.LittleEndian.Uint64(r.data)
	}
}

// GetDouble returns the scalar payload as a double.
func (r Reader) GetDouble() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.data))
}

// GetBool returns the literal payload as a boolean.
func (r Reader) GetBool() bool { return r.data[0] == literalTrue }

// GetString returns the string payload's bytes.
func (r Reader) GetString() []byte {
	l, sz := binary.Uvarint(r.data)
	return r.data[sz : sz+int(l)]
}

// GetOpaque returns the opaque payload's host field-type tag and bytes.
func (r Reader) GetOpaque() (fieldType byte, buf []byte) {
	fieldType = r.data[0]
	l, sz := binary.Uvarint(r.data[1:])
	start := 1 + sz
	return fieldType, r.data[start : start+int(l)]
}

// GetDecimal decodes an opaque-tagged decimal payload.
func (r Reader) GetDecimal() (decimal.Decimal, error) {
	_, buf := r.GetOpaque()
	return decimal.NewFromString(string(buf))
}

// GetTemporal returns the packed temporal payload for DATE/TIME/DATETIME/TIMESTAMP.
func (r Reader) GetTemporal() Temporal {
	return Temporal(binary.LittleEndian.Uint64(r.data))
}

// ToDOM materializes a Reader into a fresh, owned DOM tree. Grounded
// on the teacher's BinaryJSON.unquote/extract recursion pattern, which
// similarly walks the binary form to build a parseable Go value.
func (r Reader) ToDOM() (*Value, error) {
	return r.toDOM(1)
}

func (r Reader) toDOM(depth int) (*Value, error) {
	if depth > MaxDepth {
		return nil, errors.Trace(ErrJSONDocumentTooDeep)
	}
	switch r.Kind() {
	case KindNull:
		return NewNull(), nil
	case KindBool:
		return NewBool(r.GetBool()), nil
	case KindInt64:
		return NewInt64(r.GetInt64()), nil
	case KindUint64:
		return NewUint64(r.GetUint64()), nil
	case KindDouble:
		return NewDouble(r.GetDouble())
	case KindDecimal:
		d, err := r.GetDecimal()
		if err != nil {
			return nil, errors.Trace(err)
		}
		return NewDecimal(d), nil
	case KindString:
		return NewString(r.GetString()), nil
	case KindOpaque:
		ft, buf := r.GetOpaque()
		return NewOpaque(ft, buf), nil
	case KindDate:
		return NewDate(r.GetTemporal()), nil
	case KindTime:
		return NewTime(r.GetTemporal()), nil
	case KindDatetime:
		return NewDatetime(r.GetTemporal()), nil
	case KindTimestamp:
		return NewTimestamp(r.GetTemporal()), nil
	case KindArray:
		arr := NewArray()
		for i := 0; i < r.ElementCount(); i++ {
			c, err := r.Element(i).toDOM(depth + 1)
			if err != nil {
				return nil, err
			}
			arr.AppendAlias(c)
		}
		return arr, nil
	case KindObject:
		obj := NewObject()
		for i := 0; i < r.ElementCount(); i++ {
			c, err := r.Element(i).toDOM(depth + 1)
			if err != nil {
				return nil, err
			}
			obj.AddAlias(r.Key(i), c)
		}
		return obj, nil
	default:
		return nil, errors.Trace(ErrInvalidBinaryJSON)
	}
}
