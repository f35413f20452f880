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

package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

func TestParsePathExpressionLegs(t *testing.T) {
	p, err := jsonpkg.ParsePathExpression("$.a.b[0][*]")
	require.NoError(t, err)
	require.Len(t, p.Legs, 4)
	require.Equal(t, jsonpkg.LegMember, p.Legs[0].Kind)
	require.Equal(t, "a", p.Legs[0].Member)
	require.Equal(t, jsonpkg.LegMember, p.Legs[1].Kind)
	require.Equal(t, "b", p.Legs[1].Member)
	require.Equal(t, jsonpkg.LegArrayCell, p.Legs[2].Kind)
	require.Equal(t, jsonpkg.LegArrayCellWildcard, p.Legs[3].Kind)
}

func TestParsePathExpressionRejectsMissingDollar(t *testing.T) {
	_, err := jsonpkg.ParsePathExpression(".a.b")
	require.Error(t, err)
}

func TestParsePathExpressionEllipsis(t *testing.T) {
	p, err := jsonpkg.ParsePathExpression("$..a")
	require.NoError(t, err)
	require.True(t, p.HasEllipsis())
	require.Len(t, p.Legs, 2)
	require.Equal(t, jsonpkg.LegEllipsis, p.Legs[0].Kind)
	require.Equal(t, jsonpkg.LegMember, p.Legs[1].Kind)
	require.Equal(t, "a", p.Legs[1].Member)
}

func TestArrayIndexResolveFromEnd(t *testing.T) {
	idx := jsonpkg.ArrayIndex{FromEnd: true, N: 0}
	require.Equal(t, 4, idx.Resolve(5))
	idx = jsonpkg.ArrayIndex{FromEnd: true, N: 2}
	require.Equal(t, 2, idx.Resolve(5))
}

func TestSeekEllipsisIsDocumentOrderAndDeduplicated(t *testing.T) {
	root, err := jsonpkg.ParseText([]byte(`{"a":[1,{"a":2}],"b":{"a":3}}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	path, err := jsonpkg.ParsePathExpression("$..a")
	require.NoError(t, err)

	got := jsonpkg.Seek(root, path, false, false)
	require.Len(t, got, 3)
	require.Equal(t, jsonpkg.KindArray, got[0].Kind())
	require.EqualValues(t, 2, got[1].AsInt64())
	require.EqualValues(t, 3, got[2].AsInt64())
}

func TestSeekOnlyNeedOneStopsEarly(t *testing.T) {
	root, err := jsonpkg.ParseText([]byte(`{"a":[1,2,3]}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	path, err := jsonpkg.ParsePathExpression("$.a[*]")
	require.NoError(t, err)
	got := jsonpkg.Seek(root, path, false, true)
	require.Len(t, got, 1)
	require.EqualValues(t, 1, got[0].AsInt64())
}

func TestSeekAutoWrapTreatsScalarAsSingletonArray(t *testing.T) {
	root, err := jsonpkg.ParseText([]byte(`{"a":5}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	path, err := jsonpkg.ParsePathExpression("$.a[0]")
	require.NoError(t, err)
	got := jsonpkg.Seek(root, path, true, false)
	require.Len(t, got, 1)
	require.EqualValues(t, 5, got[0].AsInt64())
}
