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

// Package jsonhost defines the narrow seam between pkg/json and a host
// that embeds it: a running session's stack-depth budget, its
// max_allowed_packet limit, its warning sink, and its clock for
// promoting a bare TIME to a DATETIME. pkg/json never imports this
// package; it declares the interfaces it needs locally (see
// pkg/json.Clock) so a Session merely has to satisfy them structurally.
package jsonhost

import (
	"time"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	jsonpkg "github.com/martina6hall/mysql-8.0/pkg/json"
)

// Session is the host collaborator a JSON operation may need beyond the
// value itself: how much recursion budget is left on the call stack,
// how large a serialized result the connection will accept, where to
// send a non-fatal warning, and how to fill in a calendar date for a
// bare TIME value. Grounded on json_dom.cc's habit of always taking a
// `const THD *thd` parameter rather than reaching for global state, and
// on spec.md §1/§5's call-out of "host session context" as an external
// collaborator this core only consumes through an interface.
type Session interface {
	// CheckStackDepth reports an error if depth has exceeded the
	// session's configured recursion limit, the way THD::check_stack_size
	// does before json_dom.cc recurses into a child value.
	CheckStackDepth(depth int) error
	// MaxAllowedPacket is the session's max_allowed_packet system
	// variable, the ceiling a serialized JSON result must not exceed.
	MaxAllowedPacket() int64
	// Warn records a non-fatal condition (spec.md §7's Warning kinds)
	// against the session, the way THD::raise_warning does.
	Warn(w *jsonpkg.Warning)
	// TimeToDatetime promotes a bare TIME value to a DATETIME by
	// supplying a calendar date, satisfying pkg/json.Clock.
	TimeToDatetime(t jsonpkg.Temporal) jsonpkg.Temporal
}

// NopSession is a minimal Session for callers with no surrounding
// connection: unless its fields are set, it imposes no depth limit and
// reports an effectively unbounded packet size; it logs warnings through pingcap/log instead of a
// connection-scoped sink, and promotes TIME values against the current
// date in UTC.
type NopSession struct {
	// MaxDepth bounds CheckStackDepth; zero means unbounded.
	MaxDepth int
	// MaxPacket bounds MaxAllowedPacket; zero means unbounded
	// (reported as math.MaxInt64).
	MaxPacket int64
}

// CheckStackDepth implements Session.
func (s NopSession) CheckStackDepth(depth int) error {
	if s.MaxDepth > 0 && depth > s.MaxDepth {
		return jsonpkg.ErrJSONDocumentTooDeep
	}
	return nil
}

// MaxAllowedPacket implements Session.
func (s NopSession) MaxAllowedPacket() int64 {
	if s.MaxPacket > 0 {
		return s.MaxPacket
	}
	return 1<<63 - 1
}

// Warn implements Session by logging through pingcap/log, the same
// structured logger the rest of this core uses for non-fatal
// conditions (see sortkey.go).
func (s NopSession) Warn(w *jsonpkg.Warning) {
	log.Warn("json: warning", zap.String("warning", w.Error()))
}

// TimeToDatetime implements Session by pairing the TIME's
// hour/minute/second/microsecond with today's date in UTC, the way
// MySQL's Item_func_time_to_sec family fills in "today" for a bare
// TIME value promoted to DATETIME context.
func (s NopSession) TimeToDatetime(t jsonpkg.Temporal) jsonpkg.Temporal {
	_, _, _, hour, minute, second, microsecond := t.Unpack()
	now := time.Now().UTC()
	year, month, day := now.Date()
	return jsonpkg.PackDateTime(year, int(month), day, hour, minute, second, microsecond)
}

var _ Session = NopSession{}
