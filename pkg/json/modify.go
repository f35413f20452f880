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

	"github.com/pingcap/errors"
)

// UpdateOutcome reports what UpdateInPlace/RemoveInPlace actually did,
// per spec.md §4.9's three-way result: the path could not be handled
// without a full rewrite (Declined), the path resolved but there was
// nothing to change (NotReplaced), or the binary was mutated
// (Replaced).
type UpdateOutcome int

const (
	// Declined means the caller must fall back to a full DOM rewrite.
	// This is not an error: the binary was left untouched.
	Declined UpdateOutcome = iota
	// NotReplaced means the operation completed successfully but found
	// nothing to update/remove (e.g. the key is absent).
	NotReplaced
	// Replaced means the binary was mutated in place.
	Replaced
)

// chainFrame records one step of a binary-form descent: the container
// Reader at that step and its absolute byte offset within the buffer
// being mutated, so RemoveInPlace can walk back up and fix every
// ancestor's size field and any entry offset that now points past the
// spliced region.
type chainFrame struct {
	offset int
	reader Reader
}

// isDeterministic reports whether leg addresses exactly one child,
// which every leg in an update/remove path must do: spec.md §4.9's
// in-place path has no notion of fanning out to several slots at once.
func isDeterministic(leg PathLeg) bool {
	return leg.Kind == LegMember || leg.Kind == LegArrayCell
}

// descend walks legs against root, returning the chain of containers
// visited (root first) and the final located Reader. missing reports a
// leg that didn't resolve (absent key, out-of-range index, or a
// kind/leg mismatch) — spec.md §4.9 step 2's "no parent matched".
// unsupported reports a wildcard/range/ellipsis leg, which this path
// can never honor without a full rewrite.
func descend(buf []byte, rootOffset int, root Reader, legs []PathLeg) (chain []chainFrame, final Reader, missing, unsupported bool) {
	chain = []chainFrame{{offset: rootOffset, reader: root}}
	cur := root
	curOffset := rootOffset
	for _, leg := range legs {
		if !isDeterministic(leg) {
			return chain, Reader{}, false, true
		}
		switch leg.Kind {
		case LegMember:
			if !cur.isObject() {
				return chain, Reader{}, true, false
			}
			idx, found := lookupIndex(cur, []byte(leg.Member))
			if !found {
				return chain, Reader{}, true, false
			}
			childOffset := curOffset + entryValueOffset(cur, idx)
			cur = cur.Element(idx)
			curOffset = childOffset
		case LegArrayCell:
			if cur.typeCode != typeCodeSmallArray && cur.typeCode != typeCodeLargeArray {
				return chain, Reader{}, true, false
			}
			n := cur.ElementCount()
			idx := leg.Cell.Resolve(n)
			if idx < 0 || idx >= n {
				return chain, Reader{}, true, false
			}
			childOffset := curOffset + entryValueOffset(cur, idx)
			cur = cur.Element(idx)
			curOffset = childOffset
		}
		chain = append(chain, chainFrame{offset: curOffset, reader: cur})
	}
	return chain, cur, false, false
}

// entryValueOffset returns the offset (relative to r's own data start)
// of the i-th element's payload, whether inline or offset-addressed;
// for an inline scalar this is the position of the inline field itself
// since it carries the value directly (UpdateInPlace declines rather
// than write a non-inline payload into such a field).
func entryValueOffset(r Reader, i int) int {
	large := r.isLarge()
	e := r.valEntryBase() + i*valEntrySize(large)
	typeCode := r.data[e]
	if inlineable(typeCode, large) {
		return e + 1
	}
	return int(r.getUintWidth(e + 1))
}

func lookupIndex(r Reader, key []byte) (int, bool) {
	n := r.ElementCount()
	i, j := 0, n
	for i < j {
		mid := (i + j) / 2
		if compareKeys(r.Key(mid), key) < 0 {
			i = mid + 1
		} else {
			j = mid
		}
	}
	if i < n && compareKeys(r.Key(i), key) == 0 {
		return i, true
	}
	return 0, false
}

// selfByteSpan reports how many bytes (after the type byte) r's value
// occupies: its container Size(), a string/opaque's varint-prefixed
// length, or a fixed scalar width.
func selfByteSpan(r Reader) int {
	switch {
	case r.typeCode == typeCodeSmallObject || r.typeCode == typeCodeSmallArray ||
		r.typeCode == typeCodeLargeObject || r.typeCode == typeCodeLargeArray:
		return r.Size()
	case r.typeCode == typeCodeString:
		l, sz := binary.Uvarint(r.data)
		return sz + int(l)
	case r.typeCode == typeCodeOpaque:
		l, sz := binary.Uvarint(r.data[1:])
		return 1 + sz + int(l)
	default:
		return fixedWidth(r.typeCode)
	}
}

// UpdateInPlace implements spec.md §4.9's update algorithm against a
// type-byte-prefixed binary value. On Replaced it returns the mutated
// copy; callers must swap it in for raw (the original raw is left
// untouched, the "shadow copy" guarantee of spec.md §4.9/§5: concurrent
// readers of raw observe a consistent document throughout).
//
// Simplification: unlike the teacher's storage layer, this core tracks
// no reserved trailing free space per column value (that concept
// belongs to the host's on-disk row format, out of this core's scope
// per SPEC_FULL.md); "has space" here means the new payload fits
// within the slot's existing payload span, which is the same contract
// (never grow the buffer) without a separate free-space ledger.
func UpdateInPlace(raw []byte, path PathExpression, newValue *Value, replace bool) (UpdateOutcome, []byte, error) {
	if len(path.Legs) == 0 {
		return Declined, raw, nil
	}
	if _, err := NewReader(raw); err != nil {
		return Declined, raw, err
	}
	parentLegs, lastLeg := path.Legs[:len(path.Legs)-1], path.Legs[len(path.Legs)-1]
	if !isDeterministic(lastLeg) {
		return Declined, raw, nil
	}

	shadow := append([]byte(nil), raw...)
	sroot, _ := NewReader(shadow)
	chain, parent, missing, unsupported := descend(shadow, 0, sroot, parentLegs)
	if unsupported {
		return Declined, raw, nil
	}
	if missing {
		return NotReplaced, raw, nil
	}

	var idx int
	var found bool
	switch {
	case lastLeg.Kind == LegMember && parent.isObject():
		idx, found = lookupIndex(parent, []byte(lastLeg.Member))
		if !found {
			if replace {
				return NotReplaced, raw, nil
			}
			return Declined, raw, nil
		}
	case lastLeg.Kind == LegArrayCell && (parent.typeCode == typeCodeSmallArray || parent.typeCode == typeCodeLargeArray):
		n := parent.ElementCount()
		idx = lastLeg.Cell.Resolve(n)
		if idx < 0 || idx >= n {
			if replace {
				return NotReplaced, raw, nil
			}
			return Declined, raw, nil
		}
		found = true
	default:
		// Mismatched parent/leg kind: a member leg into an array or a
		// cell leg into an object needs auto-wrap, which SET would
		// require and REPLACE never performs.
		if replace {
			return NotReplaced, raw, nil
		}
		return Declined, raw, nil
	}
	if !found {
		return NotReplaced, raw, nil
	}

	large := parent.isLarge()
	w := countOrSizeWidth(large)
	e := parentOffset(chain) + 1 + parent.valEntryBase() + idx*valEntrySize(large)

	newTypeCode, payload, err := encodeValue(newValue)
	if err != nil {
		return Declined, raw, err
	}

	if inlineable(newTypeCode, large) {
		shadow[e] = newTypeCode
		for i := 0; i < w; i++ {
			shadow[e+1+i] = 0
		}
		copy(shadow[e+1:e+1+len(payload)], payload)
		return Replaced, shadow, nil
	}

	oldEntry := parent.Element(idx)
	if inlineable(oldEntry.typeCode, large) {
		// An inline slot has no payload region of its own to reuse.
		return Declined, raw, nil
	}
	oldSpan := selfByteSpan(oldEntry)
	if len(payload) > oldSpan {
		return Declined, raw, nil
	}
	relOff := entryValueOffset(parent, idx)
	absOff := parentOffset(chain) + 1 + relOff
	copy(shadow[absOff:absOff+len(payload)], payload)
	shadow[e] = newTypeCode
	writeUintAt(shadow, e+1, uint64(relOff), w)
	return Replaced, shadow, nil
}

func parentOffset(chain []chainFrame) int { return chain[len(chain)-1].offset }

func writeUintAt(buf []byte, at int, v uint64, width int) {
	if width == 2 {
		binary.LittleEndian.PutUint16(buf[at:], uint16(v))
	} else {
		binary.LittleEndian.PutUint32(buf[at:], uint32(v))
	}
}

func readUintAt(buf []byte, at int, width int) uint64 {
	if width == 2 {
		return uint64(binary.LittleEndian.Uint16(buf[at:]))
	}
	return uint64(binary.LittleEndian.Uint32(buf[at:]))
}

// RemoveInPlace implements spec.md §4.9's remove algorithm: it always
// succeeds once the target is located (removal only frees space, so
// there is no size check), rebuilding the direct parent container
// without the removed entry and cascading the resulting length delta
// up through every ancestor's size field and any sibling offset that
// pointed after the removed region.
func RemoveInPlace(raw []byte, path PathExpression) (UpdateOutcome, []byte, error) {
	if len(path.Legs) == 0 {
		return Declined, raw, nil
	}
	parentLegs, lastLeg := path.Legs[:len(path.Legs)-1], path.Legs[len(path.Legs)-1]
	if !isDeterministic(lastLeg) {
		return Declined, raw, nil
	}

	shadow := append([]byte(nil), raw...)
	sroot, err := NewReader(shadow)
	if err != nil {
		return Declined, raw, err
	}
	chain, parent, missing, unsupported := descend(shadow, 0, sroot, parentLegs)
	if unsupported {
		return Declined, raw, nil
	}
	if missing {
		return NotReplaced, raw, nil
	}

	var idx int
	var found bool
	switch {
	case lastLeg.Kind == LegMember && parent.isObject():
		idx, found = lookupIndex(parent, []byte(lastLeg.Member))
	case lastLeg.Kind == LegArrayCell && (parent.typeCode == typeCodeSmallArray || parent.typeCode == typeCodeLargeArray):
		n := parent.ElementCount()
		i := lastLeg.Cell.Resolve(n)
		if i >= 0 && i < n {
			idx, found = i, true
		}
	}
	if !found {
		return NotReplaced, raw, nil
	}

	children, keys, err := readerChildren(parent, idx, true)
	if err != nil {
		return Declined, raw, err
	}
	newBody, err := buildContainer(parent.isObject(), keys, children, parent.isLarge())
	if err != nil {
		return Declined, raw, err
	}

	parentAbs := parentOffset(chain)
	oldSpan := parent.Size()
	spliceStart := parentAbs + 1
	newShadow := spliceBytes(shadow, spliceStart, oldSpan, newBody)
	delta := len(newBody) - oldSpan
	if delta != 0 {
		adjustAncestors(newShadow, chain[:len(chain)-1], spliceStart, delta)
	}
	return Replaced, newShadow, nil
}

// readerChildren returns a container's current children as *Value
// nodes (decoded from the binary form), optionally dropping the entry
// at dropIdx, ready to feed back into buildContainer.
func readerChildren(r Reader, dropIdx int, drop bool) (children []*Value, keys [][]byte, err error) {
	n := r.ElementCount()
	for i := 0; i < n; i++ {
		if drop && i == dropIdx {
			continue
		}
		child, derr := r.Element(i).ToDOM()
		if derr != nil {
			return nil, nil, derr
		}
		children = append(children, child)
		if r.isObject() {
			keys = append(keys, append([]byte(nil), r.Key(i)...))
		}
	}
	return children, keys, nil
}

func spliceBytes(buf []byte, start, oldLen int, newBytes []byte) []byte {
	out := make([]byte, 0, len(buf)-oldLen+len(newBytes))
	out = append(out, buf[:start]...)
	out = append(out, newBytes...)
	out = append(out, buf[start+oldLen:]...)
	return out
}

// UpdateInPlace is the full end-to-end contract of spec.md §4.9: it
// tries the package-level UpdateInPlace fast path first (hence the
// shared name — this method is that operation's public entry point)
// while the Wrapper holds binary, and falls back to mutating the DOM
// directly (via the same parent/leg dispatch, materialized for real
// since a DOM rewrite has no byte-budget constraint) whenever the
// binary path declines. A path whose last leg is multivalued
// (wildcard, range, or ellipsis) is rejected outright, matching
// MySQL's own restriction that JSON_SET/JSON_REPLACE target exactly
// one location.
func (w *Wrapper) UpdateInPlace(path PathExpression, newValue *Value, replace bool) error {
	for _, leg := range path.Legs {
		if !isDeterministic(leg) {
			return errors.Trace(ErrInvalidJSONPath)
		}
	}
	if len(path.Legs) == 0 {
		w.dom = newValue.Clone()
		w.owns = true
		w.binary = nil
		return nil
	}
	if w.IsBinary() {
		outcome, newRaw, err := UpdateInPlace(w.binary, path, newValue, replace)
		if err != nil {
			return err
		}
		switch outcome {
		case Replaced:
			w.binary = newRaw
			return nil
		case NotReplaced:
			return nil
		}
		// Declined: fall through to a full DOM rewrite below.
	}
	dom, err := w.OwnedDOM()
	if err != nil {
		return err
	}
	setInDOM(dom, path.Legs, newValue, replace)
	w.binary = nil
	return nil
}

// RemoveInPlace is the package-level RemoveInPlace fast path's public
// entry point, with the same in-place-then-DOM-fallback shape as
// UpdateInPlace.
func (w *Wrapper) RemoveInPlace(path PathExpression) error {
	for _, leg := range path.Legs {
		if !isDeterministic(leg) {
			return errors.Trace(ErrInvalidJSONPath)
		}
	}
	if len(path.Legs) == 0 {
		return errors.Trace(ErrInvalidJSONPath)
	}
	if w.IsBinary() {
		outcome, newRaw, err := RemoveInPlace(w.binary, path)
		if err != nil {
			return err
		}
		switch outcome {
		case Replaced:
			w.binary = newRaw
			return nil
		case NotReplaced:
			return nil
		}
	}
	dom, err := w.OwnedDOM()
	if err != nil {
		return err
	}
	removeFromDOM(dom, path.Legs)
	w.binary = nil
	return nil
}

// setInDOM mirrors UpdateInPlace's dispatch (parent-seek without
// auto-wrap, then member/cell/mismatch disposition) but mutates an
// owned DOM directly via ReplaceChild/AddAlias, which never declines
// for space since a DOM has no fixed byte budget.
func setInDOM(root *Value, legs []PathLeg, newValue *Value, replace bool) {
	parentLegs, lastLeg := legs[:len(legs)-1], legs[len(legs)-1]
	matches := Seek(root, PathExpression{Legs: parentLegs}, false, true)
	if len(matches) == 0 {
		return
	}
	parent := matches[0]
	switch {
	case lastLeg.Kind == LegMember && parent.kind == KindObject:
		if old, ok := parent.Get([]byte(lastLeg.Member)); ok {
			parent.ReplaceChild(old, newValue.Clone())
			return
		}
		if !replace {
			parent.AddClone([]byte(lastLeg.Member), newValue)
		}
	case lastLeg.Kind == LegArrayCell && parent.kind == KindArray:
		idx := lastLeg.Cell.Resolve(parent.Len())
		if idx >= 0 && idx < parent.Len() {
			parent.ReplaceChild(parent.Index(idx), newValue.Clone())
		}
		// Out of range: left as "not replaced", same disposition as
		// UpdateInPlace, rather than MySQL's separate array-extend
		// behavior (JSON_ARRAY_APPEND's gap-filling is out of scope).
	}
	// Mismatched parent/leg kind: no-op, same as UpdateInPlace.
}

func removeFromDOM(root *Value, legs []PathLeg) {
	parentLegs, lastLeg := legs[:len(legs)-1], legs[len(legs)-1]
	matches := Seek(root, PathExpression{Legs: parentLegs}, false, true)
	if len(matches) == 0 {
		return
	}
	parent := matches[0]
	switch {
	case lastLeg.Kind == LegMember && parent.kind == KindObject:
		parent.Remove([]byte(lastLeg.Member))
	case lastLeg.Kind == LegArrayCell && parent.kind == KindArray:
		idx := lastLeg.Cell.Resolve(parent.Len())
		if idx >= 0 && idx < parent.Len() {
			parent.RemoveAt(idx)
		}
	}
}

// adjustAncestors patches every ancestor container's size field and
// any value-entry offset that pointed strictly after spliceStart, by
// delta bytes. It walks the chain bottom-up, since each ancestor's own
// span grows/shrinks by the same delta its child did.
func adjustAncestors(buf []byte, chain []chainFrame, spliceStart, delta int) {
	for i := len(chain) - 1; i >= 0; i-- {
		frame := chain[i]
		large := frame.reader.isLarge()
		w := countOrSizeWidth(large)
		sizeField := frame.offset + 1 + w
		oldSize := readUintAt(buf, sizeField, w)
		writeUintAt(buf, sizeField, uint64(int(oldSize)+delta), w)

		n := frame.reader.ElementCount()
		base := frame.reader.valEntryBase()
		for k := 0; k < n; k++ {
			entryAbs := frame.offset + 1 + base + k*valEntrySize(large)
			typeCode := buf[entryAbs]
			if inlineable(typeCode, large) {
				continue
			}
			relOff := readUintAt(buf, entryAbs+1, w)
			absOff := frame.offset + 1 + int(relOff)
			// The on-path child's entry has absOff == spliceStart exactly:
			// its body is replaced in place and does not move, so it must
			// be excluded here; only entries strictly after the spliced
			// region shift.
			if absOff > spliceStart {
				writeUintAt(buf, entryAbs+1, uint64(int(relOff)+delta), w)
			}
		}
	}
}
