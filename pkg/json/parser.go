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

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/pingcap/errors"
)

// ParseOptions configures the text parser.
type ParseOptions struct {
	// NumbersAsDouble parses every numeric token as a DOUBLE, bypassing
	// the INT/UINT classification entirely. Mirrors the compatibility
	// knob described in spec.md §4.2/§6; the resulting precision loss is
	// intentional (spec.md §9 "open questions").
	NumbersAsDouble bool
}

// SyntaxError reports where and why the text parser rejected its input
// (spec.md §4.2/§7: SyntaxError(offset, msg)).
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("json syntax error at offset %d: %s", e.Offset, e.Msg)
}

// ParseText parses standard JSON text into a DOM, per spec.md §4.2/§6.
// The parser is an event-driven scanner whose recursive descent plays the
// role of the explicit "{Container, current_key?} frame stack" design
// spec.md §9 describes as an equivalent to a push-parser-driven state
// machine: each recursive call is one frame, and the call stack itself is
// the frame stack.
func ParseText(data []byte, opts ParseOptions) (*Value, error) {
	p := &parser{data: data, opts: opts}
	p.skipSpace()
	v, err := p.parseValue(1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.data) {
		return nil, p.errorf("the document root must not be followed by other values")
	}
	return v, nil
}

type parser struct {
	data []byte
	pos  int
	opts ParseOptions
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

// parseValue implements the "expect_anything" state: a value may be an
// object, array, string, number, or one of the three literals.
func (p *parser) parseValue(depth int) (*Value, error) {
	if depth > MaxDepth {
		return nil, errors.Annotatef(ErrJSONDocumentTooDeep, "at offset %d: maximum allowed depth is %d", p.pos, MaxDepth)
	}
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch {
	case c == '{':
		return p.parseObject(depth)
	case c == '[':
		return p.parseArray(depth)
	case c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case c == 't':
		return p.parseLiteral("true", NewBool(true))
	case c == 'f':
		return p.parseLiteral("false", NewBool(false))
	case c == 'n':
		return p.parseLiteral("null", NewNull())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseLiteral(lit string, v *Value) (*Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return nil, p.errorf("invalid literal, expected %q", lit)
	}
	p.pos += len(lit)
	return v, nil
}

// parseObject implements the "expect_object_key"/"expect_object_value"
// states. Depth is charged on entry and the increment is undone by
// returning, mirroring json_dom.cc: "on { or [, depth is incremented
// after the container is placed; on matching close, depth is
// decremented."
func (p *parser) parseObject(depth int) (*Value, error) {
	p.pos++ // consume '{'
	obj := NewObject()
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok || c != '"' {
			return nil, p.errorf("expected an object member key")
		}
		key, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if c, ok := p.peek(); !ok || c != ':' {
			return nil, p.errorf("expected ':' after object key")
		}
		p.pos++
		p.skipSpace()
		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		// First-write-wins: AddAlias silently drops val on a duplicate key
		// (spec.md §4.1/§6).
		obj.AddAlias(key, val)
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return nil, p.errorf("unterminated object")
		}
		if c == ',' {
			p.pos++
			continue
		}
		if c == '}' {
			p.pos++
			return obj, nil
		}
		return nil, p.errorf("expected ',' or '}' in object")
	}
}

// parseArray implements the "expect_array_value" state.
func (p *parser) parseArray(depth int) (*Value, error) {
	p.pos++ // consume '['
	arr := NewArray()
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return arr, nil
	}
	for {
		p.skipSpace()
		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		arr.AppendAlias(val)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated array")
		}
		if c == ',' {
			p.pos++
			continue
		}
		if c == ']' {
			p.pos++
			return arr, nil
		}
		return nil, p.errorf("expected ',' or ']' in array")
	}
}

func (p *parser) parseStringLiteral() ([]byte, error) {
	start := p.pos
	p.pos++ // consume opening quote
	var buf []byte
	for {
		if p.pos >= len(p.data) {
			return nil, p.errorf("unterminated string starting at offset %d", start)
		}
		c := p.data[p.pos]
		if c == '"' {
			p.pos++
			return buf, nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.data) {
				return nil, p.errorf("unterminated escape sequence")
			}
			esc := p.data[p.pos]
			switch esc {
			case '"', '\\', '/':
				buf = append(buf, esc)
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'u':
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return nil, err
				}
				buf = appendRune(buf, r)
				continue
			default:
				return nil, p.errorf("invalid escape character %q", esc)
			}
			p.pos++
			continue
		}
		buf = append(buf, c)
		p.pos++
	}
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	if p.pos+4 >= len(p.data) {
		return 0, p.errorf("invalid unicode escape")
	}
	hi, err := strconv.ParseUint(string(p.data[p.pos+1:p.pos+5]), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape")
	}
	p.pos += 5
	r := rune(hi)
	if r >= 0xd800 && r <= 0xdbff {
		if p.pos+5 < len(p.data) && p.data[p.pos] == '\\' && p.data[p.pos+1] == 'u' {
			lo, err := strconv.ParseUint(string(p.data[p.pos+2:p.pos+6]), 16, 32)
			if err == nil && lo >= 0xdc00 && lo <= 0xdfff {
				r = ((r - 0xd800) << 10) + (rune(lo) - 0xdc00) + 0x10000
				p.pos += 6
			}
		}
	}
	return r, nil
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}

// parseNumber implements the int64 -> uint64 -> double classification
// cascade spec.md §4.2 describes, grounded on the same cascade in the
// teacher's appendBinaryNumber (pkg/types/json_binary.go), adapted to
// operate on raw bytes instead of a post-decode json.Number.
func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	if c, _ := p.peek(); c == '-' {
		p.pos++
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	isFloat := false
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	tok := string(p.data[start:p.pos])
	if tok == "" || tok == "-" {
		return nil, p.errorf("invalid number literal")
	}

	if p.opts.NumbersAsDouble {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, p.errorf("invalid number literal %q", tok)
		}
		return mustDouble(f, p, start)
	}

	if !isFloat {
		if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return NewInt64(i), nil
		}
		if u, err := strconv.ParseUint(tok, 10, 64); err == nil {
			return NewUint64(u), nil
		}
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, p.errorf("invalid number literal %q", tok)
	}
	return mustDouble(f, p, start)
}

func mustDouble(f float64, p *parser, start int) (*Value, error) {
	v, err := NewDouble(f)
	if err != nil {
		return nil, &SyntaxError{Offset: start, Msg: "JSON number is not finite"}
	}
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
