// Copyright 2015 PingCAP, Inc.
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
	"math"

	"github.com/pingcap/errors"
	"github.com/shopspring/decimal"
)

// Value is the DOM node: a closed tagged variant over the 14 JSON kinds
// (spec.md §9: "model as a tagged variant... dispatch on kind with an
// exhaustive match"), in the spirit of the teacher's BinaryJSON struct
// (TypeCode + Value []byte) but holding a live, mutable tree instead of
// bytes. Containers exclusively own their children (arr/objVals); parent
// is a non-owning back-pointer, nil at the root, kept consistent by every
// mutating method in dom_array.go/dom_object.go.
type Value struct {
	kind   Kind
	parent *Value

	b   bool
	i64 int64
	u64 uint64
	f64 float64
	dec decimal.Decimal
	str []byte

	opaqueType byte
	opaqueBuf  []byte

	temporal Temporal

	arr     []*Value
	objKeys [][]byte
	objVals []*Value
}

// Kind reports the value's dynamic type.
func (v *Value) Kind() Kind { return v.kind }

// Parent returns the owning container, or nil at the root.
func (v *Value) Parent() *Value { return v.parent }

// Depth returns 1 for scalars and 1+max(child depth) for containers,
// per spec.md §4.1.
func (v *Value) Depth() int {
	switch v.kind {
	case KindArray:
		max := 0
		for _, c := range v.arr {
			if d := c.Depth(); d > max {
				max = d
			}
		}
		return 1 + max
	case KindObject:
		max := 0
		for _, c := range v.objVals {
			if d := c.Depth(); d > max {
				max = d
			}
		}
		return 1 + max
	default:
		return 1
	}
}

// Clone performs a deep copy; the returned node's parent is nil until the
// caller attaches it (spec.md §4.1: "new nodes have no parent until
// attached").
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	clone := &Value{
		kind:       v.kind,
		b:          v.b,
		i64:        v.i64,
		u64:        v.u64,
		f64:        v.f64,
		dec:        v.dec,
		opaqueType: v.opaqueType,
		temporal:   v.temporal,
	}
	if v.str != nil {
		clone.str = append([]byte(nil), v.str...)
	}
	if v.opaqueBuf != nil {
		clone.opaqueBuf = append([]byte(nil), v.opaqueBuf...)
	}
	switch v.kind {
	case KindArray:
		clone.arr = make([]*Value, len(v.arr))
		for i, c := range v.arr {
			clone.arr[i] = c.Clone()
			clone.arr[i].parent = clone
		}
	case KindObject:
		clone.objKeys = make([][]byte, len(v.objKeys))
		clone.objVals = make([]*Value, len(v.objVals))
		for i, k := range v.objKeys {
			clone.objKeys[i] = append([]byte(nil), k...)
			clone.objVals[i] = v.objVals[i].Clone()
			clone.objVals[i].parent = clone
		}
	}
	return clone
}

// Scalar constructors.

// NewNull builds a JSON null.
func NewNull() *Value { return &Value{kind: KindNull} }

// NewBool builds a JSON boolean.
func NewBool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// NewInt64 builds a signed 64-bit integer value.
func NewInt64(i int64) *Value { return &Value{kind: KindInt64, i64: i} }

// NewUint64 builds an unsigned 64-bit integer value.
func NewUint64(u uint64) *Value { return &Value{kind: KindUint64, u64: u} }

// NewDouble builds a DOUBLE value. Per spec.md invariant 4, NaN and ±Inf
// are rejected.
func NewDouble(f float64) (*Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Annotatef(ErrInvalidJSONText, "JSON double must be finite, got %v", f)
	}
	return &Value{kind: KindDouble, f64: f}, nil
}

// NewDecimal builds a DECIMAL value.
func NewDecimal(d decimal.Decimal) *Value { return &Value{kind: KindDecimal, dec: d} }

// NewString builds a STRING value from a byte sequence.
func NewString(s []byte) *Value { return &Value{kind: KindString, str: append([]byte(nil), s...)} }

// NewOpaque builds an OPAQUE value carrying a host field-type tag and raw
// bytes (spec.md invariant 5).
func NewOpaque(fieldType byte, buf []byte) *Value {
	return &Value{kind: KindOpaque, opaqueType: fieldType, opaqueBuf: append([]byte(nil), buf...)}
}

// NewDate builds a DATE value from a packed temporal.
func NewDate(t Temporal) *Value { return &Value{kind: KindDate, temporal: t} }

// NewTime builds a TIME value from a packed temporal.
func NewTime(t Temporal) *Value { return &Value{kind: KindTime, temporal: t} }

// NewDatetime builds a DATETIME value from a packed temporal.
func NewDatetime(t Temporal) *Value { return &Value{kind: KindDatetime, temporal: t} }

// NewTimestamp builds a TIMESTAMP value from a packed temporal.
func NewTimestamp(t Temporal) *Value { return &Value{kind: KindTimestamp, temporal: t} }

// NewArray builds an empty ARRAY value.
func NewArray() *Value { return &Value{kind: KindArray} }

// NewObject builds an empty OBJECT value.
func NewObject() *Value { return &Value{kind: KindObject} }

// Scalar accessors. Callers must check Kind() first; these do not check
// the kind and on a mismatch return whatever the unused payload field
// holds (normally its zero value), the same way the teacher's
// BinaryJSON.GetInt64/GetString assume the caller already checked TypeCode.

// AsBool returns the boolean payload.
func (v *Value) AsBool() bool { return v.b }

// AsInt64 returns the signed integer payload.
func (v *Value) AsInt64() int64 { return v.i64 }

// AsUint64 returns the unsigned integer payload.
func (v *Value) AsUint64() uint64 { return v.u64 }

// AsDouble returns the double payload.
func (v *Value) AsDouble() float64 { return v.f64 }

// AsDecimal returns the decimal payload.
func (v *Value) AsDecimal() decimal.Decimal { return v.dec }

// AsString returns the string payload's bytes (not copied; callers must
// not mutate them).
func (v *Value) AsString() []byte { return v.str }

// AsOpaque returns the opaque field-type tag and raw bytes.
func (v *Value) AsOpaque() (fieldType byte, buf []byte) { return v.opaqueType, v.opaqueBuf }

// AsTemporal returns the packed temporal payload for DATE/TIME/DATETIME/TIMESTAMP.
func (v *Value) AsTemporal() Temporal { return v.temporal }
