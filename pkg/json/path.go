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
)

// LegKind identifies one of the six path leg kinds of spec.md §4.5.
type LegKind int

const (
	LegMember LegKind = iota
	LegMemberWildcard
	LegArrayCell
	LegArrayCellWildcard
	LegArrayRange
	LegEllipsis
)

// ArrayIndex is an array index that may be counted from the end, e.g.
// "last" or "last-2" in path text.
type ArrayIndex struct {
	FromEnd bool
	N       int
}

// Resolve turns an ArrayIndex into a concrete 0-based index against an
// array of the given length. The result may be out of [0, length) and
// callers must bounds-check it.
func (a ArrayIndex) Resolve(length int) int {
	if a.FromEnd {
		return length - 1 - a.N
	}
	return a.N
}

// PathLeg is one step of a path expression.
type PathLeg struct {
	Kind        LegKind
	Member      string
	Cell        ArrayIndex
	RangeBegin  ArrayIndex
	RangeEnd    ArrayIndex
}

// IsAutoWrapEligible reports whether this leg treats a non-array value
// as a single-element array when auto-wrap is requested: only a
// literal cell index of 0, or a cell wildcard (spec.md §4.5).
func (l PathLeg) IsAutoWrapEligible() bool {
	switch l.Kind {
	case LegArrayCellWildcard:
		return true
	case LegArrayCell:
		return !l.Cell.FromEnd && l.Cell.N == 0
	default:
		return false
	}
}

// PathExpression is a parsed JSON path: a sequence of legs applied in
// order starting from the document root.
type PathExpression struct {
	Legs []PathLeg
}

// HasEllipsis reports whether any leg is a recursive-descent ellipsis,
// the condition under which Seek must track visited nodes to suppress
// duplicates (spec.md §4.5).
func (p PathExpression) HasEllipsis() bool {
	for _, l := range p.Legs {
		if l.Kind == LegEllipsis {
			return true
		}
	}
	return false
}

// ParsePathExpression parses path text of the form
// "$.a.b[0][*][1 to 3]..c" into a PathExpression. Grounded on the
// enum_json_path_leg_type grammar json_path.cc parses, restricted to
// the leg kinds spec.md §4.5 enumerates.
func ParsePathExpression(s string) (PathExpression, error) {
	if len(s) == 0 || s[0] != '$' {
		return PathExpression{}, fmt.Errorf("json path must start with '$'")
	}
	pp := &pathParser{s: s, pos: 1}
	return pp.parse()
}

type pathParser struct {
	s   string
	pos int
}

func (pp *pathParser) parse() (PathExpression, error) {
	var legs []PathLeg
	for pp.pos < len(pp.s) {
		switch pp.s[pp.pos] {
		case '.':
			if pp.pos+1 < len(pp.s) && pp.s[pp.pos+1] == '.' {
				legs = append(legs, PathLeg{Kind: LegEllipsis})
				pp.pos += 2
				leg, ok, err := pp.tryBareMemberLeg()
				if err != nil {
					return PathExpression{}, err
				}
				if ok {
					legs = append(legs, leg)
				}
				continue
			}
			pp.pos++
			leg, err := pp.parseDottedLeg()
			if err != nil {
				return PathExpression{}, err
			}
			legs = append(legs, leg)
		case '[':
			leg, err := pp.parseArrayLeg()
			if err != nil {
				return PathExpression{}, err
			}
			legs = append(legs, leg)
		default:
			return PathExpression{}, fmt.Errorf("unexpected character %q at offset %d", pp.s[pp.pos], pp.pos)
		}
	}
	return PathExpression{Legs: legs}, nil
}

// tryBareMemberLeg handles the member leg directly following "..",
// where the leading '.' that a member leg normally requires has
// already been consumed as part of the ellipsis token.
func (pp *pathParser) tryBareMemberLeg() (PathLeg, bool, error) {
	if pp.pos >= len(pp.s) {
		return PathLeg{}, false, nil
	}
	c := pp.s[pp.pos]
	if c == '*' {
		pp.pos++
		return PathLeg{Kind: LegMemberWildcard}, true, nil
	}
	if isIdentStart(c) || c == '"' {
		name, err := pp.parseMemberName()
		if err != nil {
			return PathLeg{}, false, err
		}
		return PathLeg{Kind: LegMember, Member: name}, true, nil
	}
	return PathLeg{}, false, nil
}

func (pp *pathParser) parseDottedLeg() (PathLeg, error) {
	if pp.pos < len(pp.s) && pp.s[pp.pos] == '*' {
		pp.pos++
		return PathLeg{Kind: LegMemberWildcard}, nil
	}
	name, err := pp.parseMemberName()
	if err != nil {
		return PathLeg{}, err
	}
	return PathLeg{Kind: LegMember, Member: name}, nil
}

func (pp *pathParser) parseMemberName() (string, error) {
	if pp.pos < len(pp.s) && pp.s[pp.pos] == '"' {
		start := pp.pos
		pp.pos++
		var buf []byte
		for pp.pos < len(pp.s) && pp.s[pp.pos] != '"' {
			if pp.s[pp.pos] == '\\' && pp.pos+1 < len(pp.s) {
				pp.pos++
			}
			buf = append(buf, pp.s[pp.pos])
			pp.pos++
		}
		if pp.pos >= len(pp.s) {
			return "", fmt.Errorf("unterminated quoted member name starting at offset %d", start)
		}
		pp.pos++ // closing quote
		return string(buf), nil
	}
	start := pp.pos
	for pp.pos < len(pp.s) && isIdentPart(pp.s[pp.pos]) {
		pp.pos++
	}
	if pp.pos == start {
		return "", fmt.Errorf("expected a member name at offset %d", start)
	}
	return pp.s[start:pp.pos], nil
}

func (pp *pathParser) parseArrayLeg() (PathLeg, error) {
	pp.pos++ // consume '['
	pp.skipSpace()
	if pp.pos < len(pp.s) && pp.s[pp.pos] == '*' {
		pp.pos++
		pp.skipSpace()
		if err := pp.expect(']'); err != nil {
			return PathLeg{}, err
		}
		return PathLeg{Kind: LegArrayCellWildcard}, nil
	}
	begin, err := pp.parseArrayIndex()
	if err != nil {
		return PathLeg{}, err
	}
	pp.skipSpace()
	if pp.hasKeyword("to") {
		pp.pos += 2
		pp.skipSpace()
		end, err := pp.parseArrayIndex()
		if err != nil {
			return PathLeg{}, err
		}
		pp.skipSpace()
		if err := pp.expect(']'); err != nil {
			return PathLeg{}, err
		}
		return PathLeg{Kind: LegArrayRange, RangeBegin: begin, RangeEnd: end}, nil
	}
	if err := pp.expect(']'); err != nil {
		return PathLeg{}, err
	}
	return PathLeg{Kind: LegArrayCell, Cell: begin}, nil
}

func (pp *pathParser) parseArrayIndex() (ArrayIndex, error) {
	if pp.hasKeyword("last") {
		pp.pos += 4
		idx := ArrayIndex{FromEnd: true}
		pp.skipSpace()
		if pp.pos < len(pp.s) && pp.s[pp.pos] == '-' {
			pp.pos++
			pp.skipSpace()
			n, err := pp.parseInt()
			if err != nil {
				return ArrayIndex{}, err
			}
			idx.N = n
		}
		return idx, nil
	}
	n, err := pp.parseInt()
	if err != nil {
		return ArrayIndex{}, err
	}
	return ArrayIndex{N: n}, nil
}

func (pp *pathParser) parseInt() (int, error) {
	start := pp.pos
	for pp.pos < len(pp.s) && pp.s[pp.pos] >= '0' && pp.s[pp.pos] <= '9' {
		pp.pos++
	}
	if pp.pos == start {
		return 0, fmt.Errorf("expected a number at offset %d", start)
	}
	return strconv.Atoi(pp.s[start:pp.pos])
}

func (pp *pathParser) hasKeyword(kw string) bool {
	return pp.pos+len(kw) <= len(pp.s) && pp.s[pp.pos:pp.pos+len(kw)] == kw
}

func (pp *pathParser) skipSpace() {
	for pp.pos < len(pp.s) && pp.s[pp.pos] == ' ' {
		pp.pos++
	}
}

func (pp *pathParser) expect(c byte) error {
	if pp.pos >= len(pp.s) || pp.s[pp.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, pp.pos)
	}
	pp.pos++
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
