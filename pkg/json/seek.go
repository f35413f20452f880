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

// Seek evaluates path against root and returns the matched values in
// document order (spec.md §4.5). With onlyNeedOne it stops as soon as
// one full match is found. autoWrap controls whether array_cell(0) and
// cell-wildcard legs treat a non-array node as a single-element array;
// spec.md §4.6 calls this off during the parent-seek step of in-place
// update/remove.
//
// Grounded on find_child_doms's leg-kind dispatch in json_dom.cc: the
// recursion below mirrors it one for one, including the "emit node,
// then recurse into each structural child with the same leg" shape for
// ellipsis.
func Seek(root *Value, path PathExpression, autoWrap, onlyNeedOne bool) []*Value {
	var out []*Value
	var seen map[*Value]bool
	if path.HasEllipsis() {
		seen = make(map[*Value]bool)
	}
	seekLegs(root, path.Legs, autoWrap, onlyNeedOne, seen, &out)
	return out
}

func seekLegs(node *Value, legs []PathLeg, autoWrap, onlyNeedOne bool, seen map[*Value]bool, out *[]*Value) {
	if len(legs) == 0 {
		emit(node, seen, out)
		return
	}
	leg := legs[0]
	rest := legs[1:]

	if leg.Kind == LegEllipsis {
		seekLegs(node, rest, autoWrap, onlyNeedOne, seen, out)
		if onlyNeedOne && len(*out) > 0 {
			return
		}
		for _, child := range structuralChildren(node) {
			seekLegs(child, legs, autoWrap, onlyNeedOne, seen, out)
			if onlyNeedOne && len(*out) > 0 {
				return
			}
		}
		return
	}

	for _, m := range evalLeg(node, leg, autoWrap) {
		seekLegs(m, rest, autoWrap, onlyNeedOne, seen, out)
		if onlyNeedOne && len(*out) > 0 {
			return
		}
	}
}

func emit(node *Value, seen map[*Value]bool, out *[]*Value) {
	if seen != nil {
		if seen[node] {
			return
		}
		seen[node] = true
	}
	*out = append(*out, node)
}

// structuralChildren returns node's children in document order, or nil
// for a scalar (ellipsis's recursion base case).
func structuralChildren(node *Value) []*Value {
	switch node.kind {
	case KindArray:
		return node.arr
	case KindObject:
		return node.objVals
	default:
		return nil
	}
}

// evalLeg matches a single non-ellipsis leg against node, returning
// the (possibly empty) list of values it selects.
func evalLeg(node *Value, leg PathLeg, autoWrap bool) []*Value {
	switch leg.Kind {
	case LegMember:
		if node.kind != KindObject {
			return nil
		}
		if v, ok := node.Get([]byte(leg.Member)); ok {
			return []*Value{v}
		}
		return nil
	case LegMemberWildcard:
		if node.kind != KindObject {
			return nil
		}
		return append([]*Value(nil), node.objVals...)
	case LegArrayCell:
		if node.kind == KindArray {
			i := leg.Cell.Resolve(node.Len())
			if i < 0 || i >= node.Len() {
				return nil
			}
			return []*Value{node.Index(i)}
		}
		if autoWrap && leg.IsAutoWrapEligible() {
			return []*Value{node}
		}
		return nil
	case LegArrayCellWildcard:
		if node.kind == KindArray {
			return append([]*Value(nil), node.arr...)
		}
		if autoWrap {
			return []*Value{node}
		}
		return nil
	case LegArrayRange:
		if node.kind != KindArray {
			return nil
		}
		n := node.Len()
		begin := leg.RangeBegin.Resolve(n)
		end := leg.RangeEnd.Resolve(n)
		if begin < 0 {
			begin = 0
		}
		if end >= n {
			end = n - 1
		}
		var out []*Value
		for i := begin; i <= end; i++ {
			out = append(out, node.Index(i))
		}
		return out
	default:
		return nil
	}
}

// GetLocation walks v's parent back-pointers to produce the canonical
// path to it (spec.md §4.5: get_location()), grounded on
// Json_dom::container_child_location / seek path reconstruction.
func GetLocation(v *Value) PathExpression {
	var legs []PathLeg
	cur := v
	for cur.parent != nil {
		p := cur.parent
		switch p.kind {
		case KindObject:
			for i, c := range p.objVals {
				if c == cur {
					legs = append(legs, PathLeg{Kind: LegMember, Member: string(p.objKeys[i])})
					break
				}
			}
		case KindArray:
			for i, c := range p.arr {
				if c == cur {
					legs = append(legs, PathLeg{Kind: LegArrayCell, Cell: ArrayIndex{N: i}})
					break
				}
			}
		}
		cur = p
	}
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
	return PathExpression{Legs: legs}
}
