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

// Package json implements the JSON value core of a relational database's
// JSON column type: a mutable DOM built from parsed text, a compact
// self-describing binary form that can be inspected and mutated in place,
// and the path/compare/sort-key/coerce operations that work over either
// representation.
package json

/*
The binary form of a JSON value is laid out as <type-byte><payload>.

	type ::=
	    0x00 | // small JSON object
	    0x01 | // large JSON object
	    0x02 | // small JSON array
	    0x03 | // large JSON array
	    0x04 | // literal (null/true/false)
	    0x05 | // int16
	    0x06 | // uint16
	    0x07 | // int32
	    0x08 | // uint32
	    0x09 | // int64
	    0x0a | // uint64
	    0x0b | // double
	    0x0c | // utf8mb4 string
	    0x0d | // opaque value (decimal, or a host-tagged blob)
	    0x0e | // date
	    0x0f | // datetime
	    0x10 | // timestamp
	    0x11   // time

	object ::= element-count size key-entry* value-entry* key* value*
	array  ::= element-count size value-entry* value*

	element-count ::= uint16 (small) | uint32 (large)
	size          ::= uint16 (small) | uint32 (large), total bytes of the container

	key-entry ::= key-offset key-length
	key-offset  ::= uint16 (small) | uint32 (large)
	key-length  ::= uint16 // always 16 bits, independent of container width

	value-entry ::= type-byte offset-or-inlined-value
	offset-or-inlined-value ::= uint16 (small) | uint32 (large)

	literal ::= 0x00 (null) | 0x01 (true) | 0x02 (false)
	string  ::= data-length utf8mb4-data
	opaque  ::= field-type-id data-length byte*
	data-length ::= uint8* // 7-bit continuation varint, as in encoding/binary.Uvarint

Inlineable scalars (literals, and small integers that fit in the
offset-or-inlined-value field) are stored directly in the value-entry
instead of at a separate payload offset. A container picks the small
or large encoding at write time, whichever is sufficient to address
its own bytes; see binary.go.
*/

// Kind identifies the dynamic type of a JSON value, matching the 14
// concrete kinds of the data model plus the ERROR sentinel.
type Kind byte

// The 14 JSON value kinds plus the ERROR sentinel. This enum's order is
// not the comparison order; see precedenceOf in compare.go for the
// cross-kind precedence table.
const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindDouble
	KindDecimal
	KindString
	KindOpaque
	KindDate
	KindTime
	KindDatetime
	KindTimestamp
	KindArray
	KindObject
	KindError
)

// String renders a Kind the way the teacher's BinaryJSON.Type() / DOM's
// json_type() render it: an upper-case type name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBool:
		return "BOOLEAN"
	case KindInt64:
		return "INTEGER"
	case KindUint64:
		return "UNSIGNED INTEGER"
	case KindDouble:
		return "DOUBLE"
	case KindDecimal:
		return "DECIMAL"
	case KindString:
		return "STRING"
	case KindOpaque:
		return "OPAQUE"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindDatetime:
		return "DATETIME"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindArray:
		return "ARRAY"
	case KindObject:
		return "OBJECT"
	default:
		return "ERROR"
	}
}

// Binary wire type codes. These are the literal bytes that appear in the
// serialized form and in value-entry type fields; they are distinct from
// Kind because integers are narrowed to several widths, containers have
// small and large forms, and OPAQUE carries both host blobs and DECIMAL
// (DECIMAL is the only kind physically carried as OPAQUE; the temporal
// kinds have type codes of their own).
const (
	typeCodeSmallObject byte = 0x00
	typeCodeLargeObject byte = 0x01
	typeCodeSmallArray  byte = 0x02
	typeCodeLargeArray  byte = 0x03
	typeCodeLiteral     byte = 0x04
	typeCodeInt16       byte = 0x05
	typeCodeUint16      byte = 0x06
	typeCodeInt32       byte = 0x07
	typeCodeUint32      byte = 0x08
	typeCodeInt64       byte = 0x09
	typeCodeUint64      byte = 0x0a
	typeCodeDouble      byte = 0x0b
	typeCodeString      byte = 0x0c
	typeCodeOpaque      byte = 0x0d
	typeCodeDate        byte = 0x0e
	typeCodeDatetime    byte = 0x0f
	typeCodeTimestamp   byte = 0x10
	typeCodeTime        byte = 0x11
)

const (
	literalNil   byte = 0x00
	literalTrue  byte = 0x01
	literalFalse byte = 0x02
)

// OpaqueFieldDecimal is the host field-type tag this core uses to mark an
// opaque payload as carrying a DECIMAL value (spec.md invariant 5: DECIMAL
// is physically OPAQUE in the binary form but surfaces as a distinct kind
// through the Wrapper). Hosts are free to use other tags for their own
// opaque payloads; this core only interprets this one tag specially.
const OpaqueFieldDecimal byte = 0xf0

// MaxDepth is the maximum nesting depth a DOM (or the binary form it
// serializes to) may reach, enforced during parsing, merge, binary-to-DOM
// materialization and encoding (spec.md invariant 2).
const MaxDepth = 100

// header/entry sizes, parameterized by small vs large container width.
const (
	keyLenSize   = 2 // key-length is always a 16-bit field
	valTypeSize  = 1
	smallIntSize = 2 // uint16 count/size/offset field width
	largeIntSize = 4 // uint32 count/size/offset field width
)

func headerSize(large bool) int {
	if large {
		return 2 * largeIntSize
	}
	return 2 * smallIntSize
}

func countOrSizeWidth(large bool) int {
	if large {
		return largeIntSize
	}
	return smallIntSize
}

func keyEntrySize(large bool) int {
	return countOrSizeWidth(large) + keyLenSize
}

func valEntrySize(large bool) int {
	return valTypeSize + countOrSizeWidth(large)
}
