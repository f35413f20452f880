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

// Index returns the i-th element of an ARRAY.
func (v *Value) Index(i int) *Value { return v.arr[i] }

// AppendAlias appends child to an ARRAY, transferring ownership.
func (v *Value) AppendAlias(child *Value) {
	child.parent = v
	v.arr = append(v.arr, child)
}

// AppendClone clones child before appending it to an ARRAY.
func (v *Value) AppendClone(child *Value) {
	v.AppendAlias(child.Clone())
}

// InsertAlias inserts child at index i, transferring ownership. Per
// spec.md §4.1, if i >= size the value is appended.
func (v *Value) InsertAlias(i int, child *Value) {
	if i >= len(v.arr) {
		v.AppendAlias(child)
		return
	}
	if i < 0 {
		i = 0
	}
	child.parent = v
	v.arr = append(v.arr, nil)
	copy(v.arr[i+1:], v.arr[i:])
	v.arr[i] = child
}

// InsertClone clones child before inserting it at index i.
func (v *Value) InsertClone(i int, child *Value) {
	v.InsertAlias(i, child.Clone())
}

// RemoveAt deletes the element at index i, shifting later elements down.
func (v *Value) RemoveAt(i int) {
	v.arr[i].parent = nil
	v.arr = append(v.arr[:i], v.arr[i+1:]...)
}

// ReplaceChild replaces the child identical to old (by pointer identity)
// with newChild, destroying old and setting newChild's parent. Returns
// false if old is not a direct child of v.
func (v *Value) ReplaceChild(old, newChild *Value) bool {
	switch v.kind {
	case KindArray:
		for i, c := range v.arr {
			if c == old {
				old.parent = nil
				newChild.parent = v
				v.arr[i] = newChild
				return true
			}
		}
	case KindObject:
		for i, c := range v.objVals {
			if c == old {
				old.parent = nil
				newChild.parent = v
				v.objVals[i] = newChild
				return true
			}
		}
	}
	return false
}
