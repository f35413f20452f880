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

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

func TestCompareCrossTypeNumericEquality(t *testing.T) {
	one, err := jsonpkg.NewDouble(1.0)
	require.NoError(t, err)
	require.Equal(t, 0, jsonpkg.Compare(one, jsonpkg.NewInt64(1)))
	require.Equal(t, 0, jsonpkg.Compare(jsonpkg.NewInt64(1), one))
}

func TestCompareCrossTypeNumericExactNotEpsilon(t *testing.T) {
	almost, err := jsonpkg.NewDouble(1.0000000000001)
	require.NoError(t, err)
	require.NotEqual(t, 0, jsonpkg.Compare(almost, jsonpkg.NewInt64(1)))
	require.Greater(t, jsonpkg.Compare(almost, jsonpkg.NewInt64(1)), 0)
}

func TestCompareDecimalAgainstDouble(t *testing.T) {
	d := jsonpkg.NewDecimal(decimal.NewFromFloat(1.5))
	f, err := jsonpkg.NewDouble(1.5)
	require.NoError(t, err)
	require.Equal(t, 0, jsonpkg.Compare(d, f))
}

func TestComparePrecedenceAcrossKinds(t *testing.T) {
	require.Less(t, jsonpkg.Compare(jsonpkg.NewNull(), jsonpkg.NewInt64(0)), 0)
	require.Less(t, jsonpkg.Compare(jsonpkg.NewInt64(0), jsonpkg.NewString([]byte("a"))), 0)
	require.Less(t, jsonpkg.Compare(jsonpkg.NewString([]byte("z")), jsonpkg.NewObject()), 0)
	require.Less(t, jsonpkg.Compare(jsonpkg.NewObject(), jsonpkg.NewArray()), 0)
	require.Less(t, jsonpkg.Compare(jsonpkg.NewArray(), jsonpkg.NewBool(false)), 0)
}

func TestCompareIsAntisymmetric(t *testing.T) {
	a := jsonpkg.NewInt64(3)
	b := jsonpkg.NewInt64(7)
	require.Equal(t, -jsonpkg.Compare(a, b), jsonpkg.Compare(b, a))
}

func TestCompareObjectsByKeyCountThenKeysThenValues(t *testing.T) {
	a, err := jsonpkg.ParseText([]byte(`{"a":1}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	b, err := jsonpkg.ParseText([]byte(`{"a":1,"b":2}`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Less(t, jsonpkg.Compare(a, b), 0)
}

func TestCompareArraysLexicographic(t *testing.T) {
	a, err := jsonpkg.ParseText([]byte(`[1,2]`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	b, err := jsonpkg.ParseText([]byte(`[1,3]`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Less(t, jsonpkg.Compare(a, b), 0)
}
