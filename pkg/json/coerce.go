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
	"errors"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Clock supplies the host's "time-to-datetime" promotion used by
// CoerceDate. Kept as a narrow, locally defined interface (rather than
// importing pkg/jsonhost) so this package has no dependency on the
// host collaborator package; pkg/jsonhost.Session satisfies it.
type Clock interface {
	TimeToDatetime(Temporal) Temporal
}

// CoerceInt converts v to a signed integer, per spec.md §4.8:
// numerics convert directly (DOUBLE rounds and saturates at the
// int64 bounds), strings parse as signed decimal text, booleans
// become 0/1, and temporals/containers warn and return 0.
// Grounded on Json_wrapper::coerce_int in json_dom.cc.
func CoerceInt(v *Value) (int64, *Warning) {
	switch v.kind {
	case KindInt64:
		return v.i64, nil
	case KindUint64:
		return int64(v.u64), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindDecimal:
		i := v.dec.Round(0)
		iv, ok := int64FromDecimal(i)
		if !ok {
			return iv, WarnOutOfRange
		}
		return iv, nil
	case KindDouble:
		f := v.f64
		switch {
		case f <= math.MinInt64:
			return math.MinInt64, WarnOutOfRange
		case f >= math.MaxInt64:
			return math.MaxInt64, WarnOutOfRange
		default:
			return int64(math.RoundToEven(f)), nil
		}
	case KindString:
		i, err := strconv.ParseInt(string(v.str), 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return i, WarnOutOfRange
			}
			return i, WarnInvalidCast
		}
		return i, nil
	default:
		return 0, WarnInvalidCast
	}
}

func int64FromDecimal(d decimal.Decimal) (int64, bool) {
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return math.MaxInt64, false
	}
	if d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return math.MinInt64, false
	}
	return d.IntPart(), true
}

// CoerceReal converts v to a double, per spec.md §4.8. Grounded on
// Json_wrapper::coerce_real.
func CoerceReal(v *Value) (float64, *Warning) {
	switch v.kind {
	case KindDouble:
		return v.f64, nil
	case KindInt64:
		return float64(v.i64), nil
	case KindUint64:
		return float64(v.u64), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindDecimal:
		f, _ := v.dec.Float64()
		return f, nil
	case KindString:
		f, err := strconv.ParseFloat(string(v.str), 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return f, WarnOutOfRange
			}
			return f, WarnInvalidCast
		}
		return f, nil
	default:
		return 0, WarnInvalidCast
	}
}

// CoerceDecimal converts v to a DECIMAL, per spec.md §4.8. Grounded on
// Json_wrapper::coerce_decimal.
func CoerceDecimal(v *Value) (decimal.Decimal, *Warning) {
	switch v.kind {
	case KindDecimal:
		return v.dec, nil
	case KindInt64:
		return decimal.NewFromInt(v.i64), nil
	case KindUint64:
		return decimalFromUint64(v.u64), nil
	case KindDouble:
		return decimal.NewFromFloat(v.f64), nil
	case KindBool:
		if v.b {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case KindString:
		d, err := decimal.NewFromString(string(v.str))
		if err != nil {
			return decimal.Zero, WarnInvalidCast
		}
		return d, nil
	default:
		return decimal.Zero, WarnInvalidCast
	}
}

// CoerceTime returns the packed temporal payload for any of the four
// temporal kinds, warning and returning the zero Temporal otherwise.
// Grounded on Json_wrapper::coerce_time.
func CoerceTime(v *Value) (Temporal, *Warning) {
	switch v.kind {
	case KindDate, KindTime, KindDatetime, KindTimestamp:
		return v.temporal, nil
	default:
		return 0, WarnInvalidCast
	}
}

// CoerceDate is CoerceTime, except a bare TIME value is promoted to a
// DATETIME via clock.TimeToDatetime, since TIME alone has no calendar
// date component. Grounded on Json_wrapper::coerce_date.
func CoerceDate(v *Value, clock Clock) (Temporal, *Warning) {
	t, warn := CoerceTime(v)
	if warn != nil {
		return t, warn
	}
	if v.kind == KindTime {
		return clock.TimeToDatetime(t), nil
	}
	return t, nil
}
