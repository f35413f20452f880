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

import "github.com/pingcap/errors"

// Surfaced errors (spec.md §7: SyntaxError, DepthExceeded, InvalidBinary).
var (
	// ErrInvalidJSONText is returned when the text parser rejects the input.
	ErrInvalidJSONText = errors.New("invalid JSON text")
	// ErrJSONDocumentTooDeep is returned when a document's nesting exceeds MaxDepth.
	ErrJSONDocumentTooDeep = errors.New("JSON document exceeds the maximum allowed depth")
	// ErrJSONObjectKeyTooLong is returned when an object key exceeds the 16-bit key-length field.
	ErrJSONObjectKeyTooLong = errors.New("JSON object member key is too long")
	// ErrInvalidBinaryJSON is returned when the binary reader detects truncation or a type mismatch.
	ErrInvalidBinaryJSON = errors.New("invalid binary JSON representation")
	// ErrInvalidJSONPath is returned by Wrapper.UpdateInPlace/RemoveInPlace
	// for a path they cannot apply: a wildcard, range or ellipsis leg, or
	// an empty path for removal. ParsePathExpression reports its own
	// syntax errors separately.
	ErrInvalidJSONPath = errors.New("invalid JSON path expression")
	// ErrJSONResultTooLarge is returned when a serialized result exceeds
	// the host's max_allowed_packet, mirroring json_dom.cc's
	// Json_wrapper::to_binary returning true (failure) rather than a
	// truncated buffer once that check trips.
	ErrJSONResultTooLarge = errors.New("JSON result exceeds max_allowed_packet")
)

// Warning kinds (spec.md §7: OutOfRange, InvalidCast, PacketOverflow,
// NotSupportedYet). These are not returned as the function's error value.
// The coercion functions return them as a side value; MakeSortKeyChecked
// and ToBinaryChecked pass them to a caller-supplied sink's Warn method
// (a jsonhost.Session satisfies both sink interfaces).
type Warning struct {
	msg string
}

func (w *Warning) Error() string { return w.msg }

func newWarning(msg string) *Warning { return &Warning{msg: msg} }

var (
	// WarnOutOfRange is raised when a coercion's numeric result would overflow the target type.
	WarnOutOfRange = newWarning("value out of range")
	// WarnInvalidCast is raised when a value cannot be cast to the requested scalar type.
	WarnInvalidCast = newWarning("invalid value for cast")
	// WarnPacketOverflow is raised when serialized output exceeds the host's max_allowed_packet.
	WarnPacketOverflow = newWarning("serialized JSON exceeds max_allowed_packet")
	// WarnSortKeyNotSupported is raised when a sort key is requested for a non-scalar value.
	WarnSortKeyNotSupported = newWarning("JSON sort key for objects and arrays only compares by length")
)
