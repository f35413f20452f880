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

import "github.com/pingcap/errors"

// wrapInArray auto-wraps a non-container value in a single-element array,
// the "make_mergeable"/"wrap_in_array" step of json_dom.cc's merge_doms.
func wrapInArray(v *Value) *Value {
	a := NewArray()
	a.AppendAlias(v)
	return a
}

func makeMergeable(v *Value) *Value {
	switch v.kind {
	case KindArray, KindObject:
		return v
	default:
		return wrapInArray(v)
	}
}

// MergeValues merges l and r into a single root, consuming both inputs
// (spec.md §4.1): if both sides are objects, merge recursively by key;
// otherwise each side is auto-wrapped into a single-element array and the
// two arrays are concatenated. Grounded on merge_doms/Json_object::consume/
// Json_array::consume in json_dom.cc. Enforces spec.md invariant 2
// (MaxDepth) on the resulting tree, since merging is one of the
// operations that may extend depth.
func MergeValues(l, r *Value) (*Value, error) {
	merged := mergeValues(l, r)
	if merged.Depth() > MaxDepth {
		return nil, errors.Trace(ErrJSONDocumentTooDeep)
	}
	return merged, nil
}

func mergeValues(l, r *Value) *Value {
	l = makeMergeable(l)
	r = makeMergeable(r)

	if l.kind == KindArray || r.kind == KindArray {
		if l.kind != KindArray {
			l = wrapInArray(l)
		}
		if r.kind != KindArray {
			r = wrapInArray(r)
		}
		return consumeArray(l, r)
	}
	return consumeObject(l, r)
}

// consumeArray appends every element of r onto l (Json_array::consume).
func consumeArray(l, r *Value) *Value {
	for _, c := range r.arr {
		l.AppendAlias(c)
	}
	r.arr = nil
	return l
}

// consumeObject merges r's members into l, recursing into merge_doms on
// key collisions (Json_object::consume).
func consumeObject(l, r *Value) *Value {
	for i, key := range r.objKeys {
		val := r.objVals[i]
		if existing, found := l.Get(key); found {
			merged := mergeValues(existing, val)
			l.ReplaceChild(existing, merged)
		} else {
			l.AddAlias(key, val)
		}
	}
	r.objKeys = nil
	r.objVals = nil
	return l
}
