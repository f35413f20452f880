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

package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

func encodeText(t *testing.T, text string) []byte {
	t.Helper()
	dom, err := jsonpkg.ParseText([]byte(text), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	raw, err := jsonpkg.Encode(dom)
	require.NoError(t, err)
	return raw
}

func decodeRaw(t *testing.T, raw []byte) *jsonpkg.Value {
	t.Helper()
	r, err := jsonpkg.NewReader(raw)
	require.NoError(t, err)
	v, err := r.ToDOM()
	require.NoError(t, err)
	return v
}

func mustPath(t *testing.T, s string) jsonpkg.PathExpression {
	t.Helper()
	p, err := jsonpkg.ParsePathExpression(s)
	require.NoError(t, err)
	return p
}

func TestUpdateInPlaceInlineReplacementSameSlot(t *testing.T) {
	raw := encodeText(t, `{"a":1,"b":2}`)
	outcome, newRaw, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.a"), jsonpkg.NewInt64(99), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)

	v := decodeRaw(t, newRaw)
	a, ok := v.Get([]byte("a"))
	require.True(t, ok)
	require.EqualValues(t, 99, a.AsInt64())
	b, ok := v.Get([]byte("b"))
	require.True(t, ok)
	require.EqualValues(t, 2, b.AsInt64())
}

func TestUpdateInPlaceArrayCell(t *testing.T) {
	raw := encodeText(t, `[1,2,3]`)
	outcome, newRaw, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$[1]"), jsonpkg.NewInt64(42), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)
	v := decodeRaw(t, newRaw)
	require.EqualValues(t, 42, v.Index(1).AsInt64())
}

func TestUpdateInPlaceDeclinesWhenPayloadGrowsPastSlot(t *testing.T) {
	raw := encodeText(t, `{"a":"x"}`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.a"), jsonpkg.NewString([]byte("a very much longer replacement string value")), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Declined, outcome)
}

func TestUpdateInPlaceOffsetAddressedShrinkSucceeds(t *testing.T) {
	raw := encodeText(t, `{"a":"a very much longer original string value"}`)
	outcome, newRaw, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.a"), jsonpkg.NewString([]byte("short")), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)
	v := decodeRaw(t, newRaw)
	a, ok := v.Get([]byte("a"))
	require.True(t, ok)
	require.Equal(t, "short", string(a.AsString()))
}

func TestUpdateInPlaceSetOnAbsentKeyDeclines(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.b"), jsonpkg.NewInt64(2), false)
	require.NoError(t, err)
	// The object's entry table must be resized to add a new key, which
	// the in-place path can never do without a full container rebuild.
	require.Equal(t, jsonpkg.Declined, outcome)
}

func TestUpdateInPlaceReplaceOnAbsentKeyIsNotReplaced(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	outcome, newRaw, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.b"), jsonpkg.NewInt64(2), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.NotReplaced, outcome)
	require.Equal(t, raw, newRaw)
}

func TestUpdateInPlaceOutOfRangeArrayCellDeclines(t *testing.T) {
	raw := encodeText(t, `[1,2,3]`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$[10]"), jsonpkg.NewInt64(9), false)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Declined, outcome)
}

func TestUpdateInPlaceMemberLegIntoArrayDeclines(t *testing.T) {
	raw := encodeText(t, `[1,2,3]`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.a"), jsonpkg.NewInt64(9), false)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Declined, outcome)
}

func TestUpdateInPlaceMissingAncestorIsNotReplaced(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.missing.b"), jsonpkg.NewInt64(9), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.NotReplaced, outcome)
}

func TestUpdateInPlaceWildcardLastLegDeclines(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	outcome, _, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$[*]"), jsonpkg.NewInt64(9), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Declined, outcome)
}

func TestRemoveInPlaceObjectKey(t *testing.T) {
	raw := encodeText(t, `{"a":1,"b":2,"c":3}`)
	outcome, newRaw, err := jsonpkg.RemoveInPlace(raw, mustPath(t, "$.b"))
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)
	v := decodeRaw(t, newRaw)
	require.Equal(t, 2, v.Len())
	_, ok := v.Get([]byte("b"))
	require.False(t, ok)
	a, ok := v.Get([]byte("a"))
	require.True(t, ok)
	require.EqualValues(t, 1, a.AsInt64())
}

func TestRemoveInPlaceArrayCell(t *testing.T) {
	raw := encodeText(t, `[1,2,3]`)
	outcome, newRaw, err := jsonpkg.RemoveInPlace(raw, mustPath(t, "$[1]"))
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)
	v := decodeRaw(t, newRaw)
	require.Equal(t, 2, v.Len())
	require.EqualValues(t, 1, v.Index(0).AsInt64())
	require.EqualValues(t, 3, v.Index(1).AsInt64())
}

func TestUpdateInPlaceThreeLevelsDeep(t *testing.T) {
	raw := encodeText(t, `{"a":{"b":{"c":1,"d":2}}}`)
	outcome, newRaw, err := jsonpkg.UpdateInPlace(raw, mustPath(t, "$.a.b.c"), jsonpkg.NewInt64(77), true)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)

	v := decodeRaw(t, newRaw)
	a, ok := v.Get([]byte("a"))
	require.True(t, ok)
	b, ok := a.Get([]byte("b"))
	require.True(t, ok)
	c, ok := b.Get([]byte("c"))
	require.True(t, ok)
	require.EqualValues(t, 77, c.AsInt64())
	d, ok := b.Get([]byte("d"))
	require.True(t, ok)
	require.EqualValues(t, 2, d.AsInt64())
}

func TestRemoveInPlaceThreeLevelsDeep(t *testing.T) {
	raw := encodeText(t, `{"a":{"b":{"c":1,"d":"a reasonably long string value to remove","e":3}}}`)
	outcome, newRaw, err := jsonpkg.RemoveInPlace(raw, mustPath(t, "$.a.b.d"))
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)

	v := decodeRaw(t, newRaw)
	a, ok := v.Get([]byte("a"))
	require.True(t, ok)
	b, ok := a.Get([]byte("b"))
	require.True(t, ok)
	require.Equal(t, 2, b.Len())
	c, ok := b.Get([]byte("c"))
	require.True(t, ok)
	require.EqualValues(t, 1, c.AsInt64())
	e, ok := b.Get([]byte("e"))
	require.True(t, ok)
	require.EqualValues(t, 3, e.AsInt64())
}

func TestRemoveInPlaceNestedCascadesAncestorSizes(t *testing.T) {
	raw := encodeText(t, `{"outer":{"a":1,"b":"a much longer value to remove here","c":3}}`)
	outcome, newRaw, err := jsonpkg.RemoveInPlace(raw, mustPath(t, "$.outer.b"))
	require.NoError(t, err)
	require.Equal(t, jsonpkg.Replaced, outcome)

	v := decodeRaw(t, newRaw)
	outer, ok := v.Get([]byte("outer"))
	require.True(t, ok)
	require.Equal(t, 2, outer.Len())
	a, ok := outer.Get([]byte("a"))
	require.True(t, ok)
	require.EqualValues(t, 1, a.AsInt64())
	c, ok := outer.Get([]byte("c"))
	require.True(t, ok)
	require.EqualValues(t, 3, c.AsInt64())
}

func TestRemoveInPlaceAbsentKeyIsNotReplaced(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	outcome, newRaw, err := jsonpkg.RemoveInPlace(raw, mustPath(t, "$.missing"))
	require.NoError(t, err)
	require.Equal(t, jsonpkg.NotReplaced, outcome)
	require.Equal(t, raw, newRaw)
}

func TestWrapperUpdateInPlaceFallsBackToDOMWhenDeclined(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	w := jsonpkg.WrapBinary(raw)
	err := w.UpdateInPlace(mustPath(t, "$.b"), jsonpkg.NewInt64(2), false)
	require.NoError(t, err)
	require.False(t, w.IsBinary())

	dom, err := w.ToDOM()
	require.NoError(t, err)
	b, ok := dom.Get([]byte("b"))
	require.True(t, ok)
	require.EqualValues(t, 2, b.AsInt64())
}

func TestWrapperUpdateInPlaceStaysBinaryWhenFastPathApplies(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	w := jsonpkg.WrapBinary(raw)
	err := w.UpdateInPlace(mustPath(t, "$.a"), jsonpkg.NewInt64(7), true)
	require.NoError(t, err)
	require.True(t, w.IsBinary())

	dom, err := w.ToDOM()
	require.NoError(t, err)
	a, ok := dom.Get([]byte("a"))
	require.True(t, ok)
	require.EqualValues(t, 7, a.AsInt64())
}

func TestWrapperUpdateInPlaceRejectsWildcardPath(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	w := jsonpkg.WrapBinary(raw)
	err := w.UpdateInPlace(mustPath(t, "$[*]"), jsonpkg.NewInt64(7), true)
	require.Error(t, err)
}

func TestWrapperRemoveInPlaceRemovesNestedMember(t *testing.T) {
	raw := encodeText(t, `{"outer":{"a":1,"b":"a much longer value to force a decline here maybe"}}`)
	w := jsonpkg.WrapBinary(raw)
	err := w.RemoveInPlace(mustPath(t, "$.outer.a"))
	require.NoError(t, err)

	dom, err := w.ToDOM()
	require.NoError(t, err)
	outer, ok := dom.Get([]byte("outer"))
	require.True(t, ok)
	_, ok = outer.Get([]byte("a"))
	require.False(t, ok)
	b, ok := outer.Get([]byte("b"))
	require.True(t, ok)
	require.NotEmpty(t, b.AsString())
}

func TestWrapperUpdateInPlaceRootPathReplacesWholeValue(t *testing.T) {
	raw := encodeText(t, `{"a":1}`)
	w := jsonpkg.WrapBinary(raw)
	err := w.UpdateInPlace(jsonpkg.PathExpression{}, jsonpkg.NewInt64(5), true)
	require.NoError(t, err)
	dom, err := w.ToDOM()
	require.NoError(t, err)
	require.Equal(t, jsonpkg.KindInt64, dom.Kind())
	require.EqualValues(t, 5, dom.AsInt64())
}
