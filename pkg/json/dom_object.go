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
	"bytes"
	"sort"
)

// compareKeys orders object member keys the way spec.md §3 requires:
// shorter key first; keys of equal length compare by unsigned byte order.
// This single comparator backs both the DOM Object's member order and the
// binary form's key table, so Reader.Lookup's binary search agrees with
// how the DOM itself orders members (SPEC_FULL.md "supplemented
// features", point 3).
func compareKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// Len returns the number of members (for OBJECT) or elements (for ARRAY).
func (v *Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.objVals)
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// KeyAt returns the key of the i-th member of an OBJECT, in comparator order.
func (v *Value) KeyAt(i int) []byte { return v.objKeys[i] }

// ValueAt returns the value of the i-th member of an OBJECT, in comparator order.
func (v *Value) ValueAt(i int) *Value { return v.objVals[i] }

func (v *Value) objIndex(key []byte) (idx int, found bool) {
	n := len(v.objKeys)
	i := sort.Search(n, func(i int) bool {
		return compareKeys(v.objKeys[i], key) >= 0
	})
	if i < n && compareKeys(v.objKeys[i], key) == 0 {
		return i, true
	}
	return i, false
}

// Get returns the member stored under key, or (nil, false) if absent.
func (v *Value) Get(key []byte) (*Value, bool) {
	i, found := v.objIndex(key)
	if !found {
		return nil, false
	}
	return v.objVals[i], true
}

// AddAlias inserts child under key, transferring ownership. Per spec.md
// §4.1 ("Object operations"), if key is already present the operation
// silently drops the new value (first-write-wins) and reports false.
func (v *Value) AddAlias(key []byte, child *Value) bool {
	i, found := v.objIndex(key)
	if found {
		return false
	}
	k := append([]byte(nil), key...)
	v.objKeys = append(v.objKeys, nil)
	copy(v.objKeys[i+1:], v.objKeys[i:])
	v.objKeys[i] = k
	v.objVals = append(v.objVals, nil)
	copy(v.objVals[i+1:], v.objVals[i:])
	v.objVals[i] = child
	child.parent = v
	return true
}

// AddClone clones child before inserting it under key.
func (v *Value) AddClone(key []byte, child *Value) bool {
	return v.AddAlias(key, child.Clone())
}

// Remove deletes the member stored under key, if any.
func (v *Value) Remove(key []byte) bool {
	i, found := v.objIndex(key)
	if !found {
		return false
	}
	v.objVals[i].parent = nil
	v.objKeys = append(v.objKeys[:i], v.objKeys[i+1:]...)
	v.objVals = append(v.objVals[:i], v.objVals[i+1:]...)
	return true
}
