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
)

// hashAccumulator folds bytes into a rolling checksum, the same
// "cribbed from sql_executor.cc/unique_hash" CRC-style fold the
// teacher's HashValue (pkg/types/json_binary.go) and json_dom.cc's
// Wrapper_hash_key both use.
type hashAccumulator struct {
	crc uint64
}

func (h *hashAccumulator) addByte(c byte) {
	h.crc = (h.crc<<8 + uint64(c)) + (h.crc >> (64 - 8))
}

func (h *hashAccumulator) addBytes(p []byte) {
	for _, c := range p {
		h.addByte(c)
	}
}

func (h *hashAccumulator) addDouble(f float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(normalizeZero(f)))
	h.addBytes(b[:])
}

// normalizeZero folds -0.0 into +0.0 so the two hash identically, per
// spec.md §4.7 and invariant/property 5.
func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}

// MakeHashKey folds v into a 64-bit hash starting from seed. Grounded
// on Json_wrapper::make_hash_key in json_dom.cc: numerics hash through
// their double representation (so INT, UINT, DOUBLE and DECIMAL that
// compare numerically equal also hash equal whenever the value fits
// exactly in a double's 52-bit mantissa); containers recursively fold
// each child's hash, seeded from the running accumulator so that
// element order affects the result. seed lets callers (partition
// hashing, multi-column hash joins) fold several values into one
// running hash rather than each starting cold at zero.
func MakeHashKey(v *Value, seed uint64) uint64 {
	h := &hashAccumulator{crc: seed}
	hashInto(h, v)
	return h.crc
}

func hashInto(h *hashAccumulator, v *Value) {
	switch v.kind {
	case KindNull:
		h.addByte(sortKeyNull)
	case KindBool:
		if v.b {
			h.addByte(sortKeyTrue)
		} else {
			h.addByte(sortKeyFalse)
		}
	case KindInt64:
		h.addDouble(float64(v.i64))
	case KindUint64:
		h.addDouble(float64(v.u64))
	case KindDouble:
		h.addDouble(v.f64)
	case KindDecimal:
		f, _ := v.dec.Float64()
		h.addDouble(f)
	case KindString:
		h.addBytes(v.str)
	case KindOpaque:
		h.addBytes(v.opaqueBuf)
	case KindDate, KindTime, KindDatetime, KindTimestamp:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.temporal))
		h.addBytes(b[:])
	case KindObject:
		h.addByte(sortKeyObject)
		for i, key := range v.objKeys {
			h.addBytes(key)
			hashInto(h, v.objVals[i])
		}
	case KindArray:
		h.addByte(sortKeyArray)
		for _, c := range v.arr {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], MakeHashKey(c, h.crc))
			h.addBytes(b[:])
		}
	}
}
