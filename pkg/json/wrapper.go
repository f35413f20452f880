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

import "github.com/pingcap/errors"

// Wrapper is the facade most callers hold: it is either a DOM value
// (owned or merely aliased from a larger tree) or a binary-form blob,
// and defers materializing the other representation until asked. This
// mirrors the teacher's Json_wrapper (json_dom.h), which similarly
// holds either a DOM pointer with an ownership flag, or a
// json_binary::Value, and only parses between the two representations
// on demand.
type Wrapper struct {
	dom    *Value
	owns   bool
	binary []byte // type-byte-prefixed, per Encode
}

// WrapDOM builds a Wrapper around an owned DOM tree: the Wrapper now
// owns dom and the caller must not mutate it through another handle.
func WrapDOM(dom *Value) Wrapper { return Wrapper{dom: dom, owns: true} }

// AliasDOM builds a Wrapper around a DOM tree the Wrapper does not own;
// mutating methods on the Wrapper will clone before writing.
func AliasDOM(dom *Value) Wrapper { return Wrapper{dom: dom, owns: false} }

// WrapBinary builds a Wrapper around an already-encoded binary value.
func WrapBinary(raw []byte) Wrapper { return Wrapper{binary: raw} }

// IsBinary reports whether the Wrapper currently holds the binary
// representation rather than a DOM.
func (w Wrapper) IsBinary() bool { return w.dom == nil }

// ToDOM returns a DOM view of the value, decoding from binary the
// first time it is needed and caching the result so repeated calls are
// free. The returned *Value must not be mutated unless the Wrapper
// owns it (see OwnedDOM).
func (w *Wrapper) ToDOM() (*Value, error) {
	if w.dom != nil {
		return w.dom, nil
	}
	r, err := NewReader(w.binary)
	if err != nil {
		return nil, err
	}
	v, err := r.ToDOM()
	if err != nil {
		return nil, err
	}
	w.dom = v
	w.owns = true
	return w.dom, nil
}

// OwnedDOM returns a DOM the caller may freely mutate, cloning first if
// the Wrapper only held an aliased or binary representation.
func (w *Wrapper) OwnedDOM() (*Value, error) {
	if w.dom != nil && w.owns {
		return w.dom, nil
	}
	v, err := w.ToDOM()
	if err != nil {
		return nil, err
	}
	if !w.owns {
		v = v.Clone()
		w.dom = v
		w.owns = true
	}
	w.binary = nil
	return w.dom, nil
}

// ToBinary returns the binary-form encoding, encoding from the DOM the
// first time it is needed and caching the result.
func (w *Wrapper) ToBinary() ([]byte, error) {
	if w.binary != nil {
		return w.binary, nil
	}
	if w.dom == nil {
		return nil, errors.Trace(ErrInvalidBinaryJSON)
	}
	b, err := Encode(w.dom)
	if err != nil {
		return nil, err
	}
	w.binary = b
	return w.binary, nil
}

// PacketSink supplies the host's max_allowed_packet ceiling and its
// warning sink for ToBinaryChecked. Kept narrow and locally defined,
// the same way Clock (coerce.go) and Warner (sortkey.go) are, so
// pkg/json never imports pkg/jsonhost; a Session satisfies it
// structurally.
type PacketSink interface {
	MaxAllowedPacket() int64
	Warn(w *Warning)
}

// ToBinaryChecked is ToBinary, but enforces sink's max_allowed_packet
// ceiling the way Json_wrapper::to_binary does in json_dom.cc: a
// result that would exceed the limit raises WarnPacketOverflow on sink
// and fails with ErrJSONResultTooLarge instead of being returned.
func (w *Wrapper) ToBinaryChecked(sink PacketSink) ([]byte, error) {
	raw, err := w.ToBinary()
	if err != nil {
		return nil, err
	}
	if limit := sink.MaxAllowedPacket(); limit > 0 && int64(len(raw)) > limit {
		sink.Warn(WarnPacketOverflow)
		return nil, errors.Trace(ErrJSONResultTooLarge)
	}
	return raw, nil
}

// CloneDOM returns an independent deep copy of the value as a DOM,
// regardless of which representation the Wrapper currently holds.
func (w *Wrapper) CloneDOM() (*Value, error) {
	v, err := w.ToDOM()
	if err != nil {
		return nil, err
	}
	return v.Clone(), nil
}

// Kind reports the value's dynamic type without fully materializing a
// DOM when the Wrapper holds binary.
func (w Wrapper) Kind() Kind {
	if w.dom != nil {
		return w.dom.Kind()
	}
	r, err := NewReader(w.binary)
	if err != nil {
		return KindError
	}
	return r.Kind()
}

// Length reports the number of members/elements for a container, and 1
// for a scalar, matching json_wrapper.cc's Json_wrapper::length, which
// treats every scalar as a length-1 sequence for path purposes.
func (w Wrapper) Length() int {
	if w.dom != nil {
		switch w.dom.Kind() {
		case KindArray, KindObject:
			return w.dom.Len()
		default:
			return 1
		}
	}
	r, err := NewReader(w.binary)
	if err != nil {
		return 1
	}
	switch r.Kind() {
	case KindArray, KindObject:
		return r.ElementCount()
	default:
		return 1
	}
}
