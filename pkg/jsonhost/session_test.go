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

package jsonhost_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
	"github.com/martina6hall/mysql-8.0/pkg/jsonhost"
)

func TestNopSessionUnboundedByDefault(t *testing.T) {
	s := jsonhost.NopSession{}
	require.NoError(t, s.CheckStackDepth(1000000))
	require.Greater(t, s.MaxAllowedPacket(), int64(0))
}

func TestNopSessionEnforcesConfiguredDepth(t *testing.T) {
	s := jsonhost.NopSession{MaxDepth: 5}
	require.NoError(t, s.CheckStackDepth(5))
	require.Error(t, s.CheckStackDepth(6))
}

func TestNopSessionReportsConfiguredPacketLimit(t *testing.T) {
	s := jsonhost.NopSession{MaxPacket: 1024}
	require.EqualValues(t, 1024, s.MaxAllowedPacket())
}

func TestNopSessionTimeToDatetimeFillsTodaysDate(t *testing.T) {
	s := jsonhost.NopSession{}
	tm := jsonpkg.PackDateTime(0, 0, 0, 10, 30, 0, 0)
	dt := s.TimeToDatetime(tm)
	year, month, day, hour, minute, second, micro := dt.Unpack()
	require.Greater(t, year, 2000)
	require.GreaterOrEqual(t, int(month), 1)
	require.GreaterOrEqual(t, int(day), 1)
	require.EqualValues(t, 10, hour)
	require.EqualValues(t, 30, minute)
	require.EqualValues(t, 0, second)
	require.EqualValues(t, 0, micro)
}

func TestNopSessionWarnDoesNotPanic(t *testing.T) {
	s := jsonhost.NopSession{}
	require.NotPanics(t, func() {
		s.Warn(jsonpkg.WarnInvalidCast)
	})
}
