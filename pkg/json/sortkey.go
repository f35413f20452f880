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
	"math/big"

	"github.com/pingcap/log"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sort-key type identifiers. Types with lower identifiers sort before
// types with higher identifiers; grounded on JSON_KEY_* in json_dom.cc.
const (
	sortKeyNull        byte = 0x00
	sortKeyNumberNeg    byte = 0x01
	sortKeyNumberZero  byte = 0x02
	sortKeyNumberPos   byte = 0x03
	sortKeyString      byte = 0x04
	sortKeyObject      byte = 0x05
	sortKeyArray       byte = 0x06
	sortKeyFalse       byte = 0x07
	sortKeyTrue        byte = 0x08
	sortKeyDate        byte = 0x09
	sortKeyTime        byte = 0x0a
	sortKeyDatetime    byte = 0x0b
	sortKeyOpaque      byte = 0x0c
)

// numberSortPad is the fixed width a numeric sort key is padded to
// (sign byte + 2-byte exponent + digits), so that two equal numbers
// with a different count of trailing zeros still sort key-equal.
// Mirrors MAX_NUMBER_SORT_PAD (DECIMAL_MAX_POSSIBLE_PRECISION + a
// 4-byte length prefix + 3).
const numberSortPad = 72

type sortKeyBuilder struct {
	buf []byte
	max int
}

func (b *sortKeyBuilder) remaining() int { return b.max - len(b.buf) }

func (b *sortKeyBuilder) appendByte(c byte) {
	if len(b.buf) < b.max {
		b.buf = append(b.buf, c)
	}
}

func (b *sortKeyBuilder) appendBytes(p []byte) {
	n := len(p)
	if r := b.remaining(); n > r {
		n = r
	}
	if n > 0 {
		b.buf = append(b.buf, p[:n]...)
	}
}

func (b *sortKeyBuilder) padTill(padChar byte, target int) {
	n := target - len(b.buf)
	if n <= 0 {
		return
	}
	if r := b.remaining(); n > r {
		n = r
	}
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, padChar)
	}
}

// Warner receives a non-fatal Warning, the narrow seam MakeSortKey's
// non-scalar case needs without requiring a full pkg/jsonhost.Session
// (see Clock in coerce.go for the same pattern). A Session satisfies
// this structurally.
type Warner interface {
	Warn(w *Warning)
}

// logWarner routes a Warning through pingcap/log + zap, the default a
// caller with no host session gets.
type logWarner struct{}

func (logWarner) Warn(w *Warning) {
	log.Warn("json: "+w.Error(), zap.Bool("json_warning", true))
}

// MakeSortKey builds a memcmp-orderable byte string for v, truncated to
// at most maxLen bytes. Grounded on Json_wrapper::make_sort_key and
// make_json_numeric_sort_key in json_dom.cc. Per spec.md §9 (open
// question 1), the asymmetry with Compare on containers is preserved
// rather than fixed: an OBJECT/ARRAY sort key encodes only its length,
// so memcmp order can disagree with Compare for containers of equal
// length; this function raises WarnSortKeyNotSupported (via logWarner)
// the first time that happens in a call. Use MakeSortKeyChecked to
// route the same warning through a host session instead.
func MakeSortKey(v *Value, maxLen int) []byte {
	return makeSortKey(v, maxLen, logWarner{})
}

// MakeSortKeyChecked is MakeSortKey, but raises WarnSortKeyNotSupported
// through sink.Warn (typically a pkg/jsonhost.Session) rather than the
// package logger, for a caller that already carries a host session.
func MakeSortKeyChecked(v *Value, maxLen int, sink Warner) []byte {
	return makeSortKey(v, maxLen, sink)
}

func makeSortKey(v *Value, maxLen int, sink Warner) []byte {
	b := &sortKeyBuilder{buf: make([]byte, 0, maxLen), max: maxLen}
	switch v.kind {
	case KindNull:
		b.appendByte(sortKeyNull)
	case KindBool:
		if v.b {
			b.appendByte(sortKeyTrue)
		} else {
			b.appendByte(sortKeyFalse)
		}
	case KindInt64:
		appendNumericSortKey(b, decimal.NewFromInt(v.i64))
	case KindUint64:
		appendNumericSortKey(b, decimal.NewFromBigInt(new(big.Int).SetUint64(v.u64), 0))
	case KindDouble:
		appendNumericSortKey(b, decimal.NewFromFloat(v.f64))
	case KindDecimal:
		appendNumericSortKey(b, v.dec)
	case KindString:
		b.appendByte(sortKeyString)
		appendStrAndLen(b, v.str)
	case KindObject:
		sink.Warn(WarnSortKeyNotSupported)
		b.appendByte(sortKeyObject)
		appendOrderedUint32(b, uint32(v.Len()))
	case KindArray:
		sink.Warn(WarnSortKeyNotSupported)
		b.appendByte(sortKeyArray)
		appendOrderedUint32(b, uint32(v.Len()))
	case KindDate:
		b.appendByte(sortKeyDate)
		appendOrderedUint64(b, uint64(v.temporal))
	case KindTime:
		b.appendByte(sortKeyTime)
		appendOrderedUint64(b, uint64(v.temporal))
	case KindDatetime, KindTimestamp:
		b.appendByte(sortKeyDatetime)
		appendOrderedUint64(b, uint64(v.temporal))
	case KindOpaque:
		b.appendByte(sortKeyOpaque)
		b.appendByte(v.opaqueType)
		appendStrAndLen(b, v.opaqueBuf)
	}
	return b.buf
}

// appendNumericSortKey encodes d as: sign byte, 2-byte memcmp-orderable
// exponent, significant digits (inverted for negatives), padded to
// numberSortPad so trailing zeros don't change the key.
func appendNumericSortKey(b *sortKeyBuilder, d decimal.Decimal) {
	if d.IsZero() {
		b.appendByte(sortKeyNumberZero)
		return
	}
	negative := d.Sign() < 0
	coeff := new(big.Int).Abs(d.Coefficient())
	digits := coeff.String()
	exp := len(digits) - 1 + int(d.Exponent())

	if negative {
		b.appendByte(sortKeyNumberNeg)
		exp = -exp
	} else {
		b.appendByte(sortKeyNumberPos)
	}
	b.appendBytes(orderedInt16(int16(exp)))

	padChar := byte('0')
	if negative {
		padChar = '9'
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if negative {
			c = '9' - c + '0'
		}
		b.appendByte(c)
	}
	b.padTill(padChar, numberSortPad)
}

// appendStrAndLen appends the string contents followed by a 4-byte
// memcmp-orderable length, truncating the contents (and, if there is
// no room at all, the length suffix too) to fit maxLen.
func appendStrAndLen(b *sortKeyBuilder, s []byte) {
	spaceForLen := 4
	if spaceForLen > b.remaining() {
		spaceForLen = b.remaining()
	}
	spaceForStr := b.remaining() - spaceForLen
	n := len(s)
	if n > spaceForStr {
		n = spaceForStr
	}
	b.appendBytes(s[:n])
	if spaceForLen > 0 {
		b.appendBytes(orderedUint32(uint32(len(s))))
	}
}

func orderedInt16(v int16) []byte {
	u := uint16(v) ^ 0x8000
	return []byte{byte(u >> 8), byte(u)}
}

func orderedUint32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func appendOrderedUint32(b *sortKeyBuilder, v uint32) { b.appendBytes(orderedUint32(v)) }

func appendOrderedUint64(b *sortKeyBuilder, v uint64) {
	b.appendBytes([]byte{
		byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32),
		byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v),
	})
}
