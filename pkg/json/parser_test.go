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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

func TestParseTextScalars(t *testing.T) {
	cases := []struct {
		text string
		kind jsonpkg.Kind
	}{
		{"null", jsonpkg.KindNull},
		{"true", jsonpkg.KindBool},
		{"false", jsonpkg.KindBool},
		{"1", jsonpkg.KindInt64},
		{"18446744073709551615", jsonpkg.KindUint64},
		{"1.5", jsonpkg.KindDouble},
		{`"hello"`, jsonpkg.KindString},
		{"[1,2,3]", jsonpkg.KindArray},
		{`{"a":1}`, jsonpkg.KindObject},
	}
	for _, c := range cases {
		v, err := jsonpkg.ParseText([]byte(c.text), jsonpkg.ParseOptions{})
		require.NoErrorf(t, err, "text=%q", c.text)
		require.Equalf(t, c.kind, v.Kind(), "text=%q", c.text)
	}
}

func TestParseTextRejectsTrailingGarbage(t *testing.T) {
	_, err := jsonpkg.ParseText([]byte("1 2"), jsonpkg.ParseOptions{})
	require.Error(t, err)
	var synErr *jsonpkg.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestParseTextRejectsExcessiveDepthAsDepthExceeded(t *testing.T) {
	text := strings.Repeat("[", jsonpkg.MaxDepth+1) + strings.Repeat("]", jsonpkg.MaxDepth+1)
	_, err := jsonpkg.ParseText([]byte(text), jsonpkg.ParseOptions{})
	require.Error(t, err)
	require.True(t, errors.Is(err, jsonpkg.ErrJSONDocumentTooDeep))
	var synErr *jsonpkg.SyntaxError
	require.False(t, errors.As(err, &synErr))
}

func TestParseTextStringEscapes(t *testing.T) {
	v, err := jsonpkg.ParseText([]byte(`"a\nbA"`), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, "a\nbA", string(v.AsString()))
}

func TestParseTextEmptyContainers(t *testing.T) {
	v, err := jsonpkg.ParseText([]byte("[]"), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, v.Len())

	v, err = jsonpkg.ParseText([]byte("{}"), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, v.Len())
}

func TestParseTextRejectsUnterminatedObject(t *testing.T) {
	_, err := jsonpkg.ParseText([]byte(`{"a":1`), jsonpkg.ParseOptions{})
	require.Error(t, err)
}

func TestParseTextNegativeAndExponent(t *testing.T) {
	v, err := jsonpkg.ParseText([]byte("-1"), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, jsonpkg.KindInt64, v.Kind())
	require.EqualValues(t, -1, v.AsInt64())

	v, err = jsonpkg.ParseText([]byte("1e10"), jsonpkg.ParseOptions{})
	require.NoError(t, err)
	require.Equal(t, jsonpkg.KindDouble, v.Kind())
}
