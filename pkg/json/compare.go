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
	"bytes"
	"math/big"

	"github.com/shopspring/decimal"
)

// precedenceOf implements the fixed cross-kind ordering of spec.md §4.6:
// NULL < numeric < STRING < OBJECT < ARRAY < BOOL < DATE < TIME <
// DATETIME==TIMESTAMP < OPAQUE. Grounded on jsonTypePrecedences in the
// teacher's json_binary_search.go, but with DATETIME/TIMESTAMP and the
// four numeric kinds folded into shared classes rather than distinct
// per-type-code slots, and the decimal tie-break requirement kept
// instead of the teacher's epsilon-based float comparison.
func precedenceOf(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindInt64, KindUint64, KindDouble, KindDecimal:
		return 1
	case KindString:
		return 2
	case KindObject:
		return 3
	case KindArray:
		return 4
	case KindBool:
		return 5
	case KindDate:
		return 6
	case KindTime:
		return 7
	case KindDatetime, KindTimestamp:
		return 8
	default: // KindOpaque
		return 9
	}
}

// Compare implements the total order of spec.md §4.6: a negative, zero,
// or positive result mirrors a<b, a==b, a>b respectively, and
// Compare(a, b) == -Compare(b, a) holds across all 14 kinds.
func Compare(a, b *Value) int {
	pa, pb := precedenceOf(a.kind), precedenceOf(b.kind)
	if pa != pb {
		return pa - pb
	}
	switch pa {
	case 0: // NULL
		return 0
	case 1: // numeric
		return compareNumeric(a, b)
	case 2: // STRING
		return bytes.Compare(a.str, b.str)
	case 3: // OBJECT
		return compareObjects(a, b)
	case 4: // ARRAY
		return compareArrays(a, b)
	case 5: // BOOL
		return boolToInt(a.b) - boolToInt(b.b)
	case 6, 7: // DATE, TIME (each only ever compared to its own kind here)
		return compareUint64(uint64(a.temporal), uint64(b.temporal))
	case 8: // DATETIME / TIMESTAMP
		return compareUint64(uint64(a.temporal), uint64(b.temporal))
	default: // OPAQUE
		return bytes.Compare(a.opaqueBuf, b.opaqueBuf)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func compareObjects(a, b *Value) int {
	if c := len(a.objKeys) - len(b.objKeys); c != 0 {
		return c
	}
	for i := range a.objKeys {
		if c := bytes.Compare(a.objKeys[i], b.objKeys[i]); c != 0 {
			return c
		}
		if c := Compare(a.objVals[i], b.objVals[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareArrays(a, b *Value) int {
	n := len(a.arr)
	if len(b.arr) < n {
		n = len(b.arr)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a.arr[i], b.arr[i]); c != 0 {
			return c
		}
	}
	return len(a.arr) - len(b.arr)
}

// compareNumeric dispatches the 4x4 cross-type numeric comparison.
// Same-kind pairs compare directly; cross-kind pairs use the exact
// routines below, which re-break float ties through decimal instead of
// accepting the precision loss (spec.md §9 "Numeric comparison across
// kinds").
func compareNumeric(a, b *Value) int {
	switch a.kind {
	case KindInt64:
		switch b.kind {
		case KindInt64:
			return compareInt64(a.i64, b.i64)
		case KindUint64:
			return compareInt64Uint64(a.i64, b.u64)
		case KindDouble:
			return -compareDoubleInt64(b.f64, a.i64)
		default: // KindDecimal
			return decimalFromInt64(a.i64).Cmp(b.dec)
		}
	case KindUint64:
		switch b.kind {
		case KindInt64:
			return -compareInt64Uint64(b.i64, a.u64)
		case KindUint64:
			return compareUint64(a.u64, b.u64)
		case KindDouble:
			return -compareDoubleUint64(b.f64, a.u64)
		default:
			return decimalFromUint64(a.u64).Cmp(b.dec)
		}
	case KindDouble:
		switch b.kind {
		case KindInt64:
			return compareDoubleInt64(a.f64, b.i64)
		case KindUint64:
			return compareDoubleUint64(a.f64, b.u64)
		case KindDouble:
			return compareFloat64(a.f64, b.f64)
		default:
			return decimal.NewFromFloat(a.f64).Cmp(b.dec)
		}
	default: // KindDecimal
		switch b.kind {
		case KindInt64:
			return a.dec.Cmp(decimalFromInt64(b.i64))
		case KindUint64:
			return a.dec.Cmp(decimalFromUint64(b.u64))
		case KindDouble:
			return a.dec.Cmp(decimal.NewFromFloat(b.f64))
		default:
			return a.dec.Cmp(b.dec)
		}
	}
}

func decimalFromInt64(i int64) decimal.Decimal  { return decimal.NewFromInt(i) }
func decimalFromUint64(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func compareInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareUint64(x, y uint64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareFloat64(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareInt64Uint64(x int64, y uint64) int {
	if x < 0 {
		return -1
	}
	return compareUint64(uint64(x), y)
}

// compareDoubleInt64 compares a double to a signed integer exactly:
// first as floats, then, if that reports equality, by converting the
// integer to decimal and comparing decimally. This recovers precision
// lost when |i| exceeds 2^53 and d == float64(i) by rounding.
func compareDoubleInt64(d float64, i int64) int {
	if c := compareFloat64(d, float64(i)); c != 0 {
		return c
	}
	// d equals float64(i), so it is integral and converts to big.Int exactly.
	di, _ := new(big.Float).SetFloat64(d).Int(nil)
	return decimal.NewFromBigInt(di, 0).Cmp(decimalFromInt64(i))
}

func compareDoubleUint64(d float64, u uint64) int {
	if c := compareFloat64(d, float64(u)); c != 0 {
		return c
	}
	du, _ := new(big.Float).SetFloat64(d).Int(nil)
	return decimal.NewFromBigInt(du, 0).Cmp(decimalFromUint64(u))
}
