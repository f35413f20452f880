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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

func TestSortKeyOrdersLikeCompare(t *testing.T) {
	values := []*jsonpkg.Value{
		jsonpkg.NewInt64(-5),
		jsonpkg.NewInt64(-1),
		jsonpkg.NewInt64(0),
		jsonpkg.NewInt64(1),
		jsonpkg.NewInt64(100),
	}
	for i := 0; i < len(values)-1; i++ {
		lo := jsonpkg.MakeSortKey(values[i], 1024)
		hi := jsonpkg.MakeSortKey(values[i+1], 1024)
		require.Negativef(t, bytes.Compare(lo, hi), "index %d", i)
	}
}

func TestSortKeyEqualNumbersAcrossKinds(t *testing.T) {
	i := jsonpkg.NewInt64(7)
	f, err := jsonpkg.NewDouble(7.0)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.MakeSortKey(i, 1024), jsonpkg.MakeSortKey(f, 1024))
}

func TestSortKeyTrailingZerosDoNotAffectKey(t *testing.T) {
	a, err := jsonpkg.NewDouble(1.5)
	require.NoError(t, err)
	b, err := jsonpkg.NewDouble(1.500)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.MakeSortKey(a, 1024), jsonpkg.MakeSortKey(b, 1024))
}

func TestSortKeyRespectsMaxLen(t *testing.T) {
	s := jsonpkg.NewString(bytes.Repeat([]byte("x"), 200))
	key := jsonpkg.MakeSortKey(s, 16)
	require.LessOrEqual(t, len(key), 16)
}

func TestSortKeyNullSortsBeforeNumbers(t *testing.T) {
	n := jsonpkg.MakeSortKey(jsonpkg.NewNull(), 1024)
	z := jsonpkg.MakeSortKey(jsonpkg.NewInt64(0), 1024)
	require.Negative(t, bytes.Compare(n, z))
}

type recordingWarner struct {
	warned *jsonpkg.Warning
}

func (w *recordingWarner) Warn(warn *jsonpkg.Warning) { w.warned = warn }

func TestMakeSortKeyCheckedRoutesNonScalarWarningToSink(t *testing.T) {
	obj, err := jsonpkg.ParseText([]byte(`{"a":1}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	sink := &recordingWarner{}
	jsonpkg.MakeSortKeyChecked(obj, 1024, sink)
	require.Equal(t, jsonpkg.WarnSortKeyNotSupported, sink.warned)
}

func TestMakeSortKeyCheckedDoesNotWarnForScalars(t *testing.T) {
	sink := &recordingWarner{}
	jsonpkg.MakeSortKeyChecked(jsonpkg.NewInt64(1), 1024, sink)
	require.Nil(t, sink.warned)
}

func TestHashKeyEqualForEqualNumericValuesAcrossKinds(t *testing.T) {
	i := jsonpkg.NewInt64(42)
	u := jsonpkg.NewUint64(42)
	f, err := jsonpkg.NewDouble(42.0)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.MakeHashKey(i, 0), jsonpkg.MakeHashKey(u, 0))
	require.Equal(t, jsonpkg.MakeHashKey(i, 0), jsonpkg.MakeHashKey(f, 0))
}

func TestHashKeyNormalizesNegativeZero(t *testing.T) {
	pos, err := jsonpkg.NewDouble(0.0)
	require.NoError(t, err)
	neg, err := jsonpkg.NewDouble(-0.0)
	require.NoError(t, err)
	require.Equal(t, jsonpkg.MakeHashKey(pos, 0), jsonpkg.MakeHashKey(neg, 0))
}

func TestHashKeyOrderSensitiveForArrays(t *testing.T) {
	a, err := jsonpkg.ParseText([]byte(`[1,2]`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	b, err := jsonpkg.ParseText([]byte(`[2,1]`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.NotEqual(t, jsonpkg.MakeHashKey(a, 0), jsonpkg.MakeHashKey(b, 0))
}

func TestHashKeyObjectKeyOrderIndependentOfInsertionOrder(t *testing.T) {
	a, err := jsonpkg.ParseText([]byte(`{"a":1,"b":2}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	b, err := jsonpkg.ParseText([]byte(`{"b":2,"a":1}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, jsonpkg.MakeHashKey(a, 0), jsonpkg.MakeHashKey(b, 0))
}

func TestHashKeyDifferentSeedsDifferentResult(t *testing.T) {
	v := jsonpkg.NewInt64(42)
	require.NotEqual(t, jsonpkg.MakeHashKey(v, 0), jsonpkg.MakeHashKey(v, 1))
}
