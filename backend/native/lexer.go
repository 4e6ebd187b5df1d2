/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package native

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenOpenBrace
	tokenCloseBrace
	tokenOperator // = == < > <= >= !=
	tokenWord     // bare identifier, number or date
	tokenString   // quoted string, quotes stripped
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer tokenizes the script syntax: key = value pairs, brace-delimited
// blocks, # comments to end of line, quoted strings and bare words.
type lexer struct {
	input string
	pos   int
	line  int
}

func newLexer(input string) *lexer {
	// strip a UTF-8 BOM so the first key lexes cleanly
	input = strings.TrimPrefix(input, "\uFEFF")
	return &lexer{input: input, line: 1}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, line: l.line}, nil
	}

	start := l.line
	c := l.input[l.pos]
	switch {
	case c == '{':
		l.pos++
		return token{kind: tokenOpenBrace, text: "{", line: start}, nil
	case c == '}':
		l.pos++
		return token{kind: tokenCloseBrace, text: "}", line: start}, nil
	case c == '=':
		l.pos++
		if l.peekByte() == '=' {
			l.pos++
			return token{kind: tokenOperator, text: "==", line: start}, nil
		}
		return token{kind: tokenOperator, text: "=", line: start}, nil
	case c == '<' || c == '>':
		op := string(c)
		l.pos++
		if l.peekByte() == '=' {
			op += "="
			l.pos++
		}
		return token{kind: tokenOperator, text: op, line: start}, nil
	case c == '!':
		l.pos++
		if l.peekByte() != '=' {
			return token{}, fmt.Errorf("line %d: unexpected character %q", start, "!")
		}
		l.pos++
		return token{kind: tokenOperator, text: "!=", line: start}, nil
	case c == '"':
		return l.lexString(start)
	default:
		return l.lexWord(start)
	}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == ';':
			l.pos++
		case c == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) lexString(line int) (token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case '"':
			l.pos++
			return token{kind: tokenString, text: sb.String(), line: line}, nil
		case '\\':
			if l.pos+1 < len(l.input) && (l.input[l.pos+1] == '"' || l.input[l.pos+1] == '\\') {
				sb.WriteByte(l.input[l.pos+1])
				l.pos += 2
				continue
			}
			sb.WriteByte(c)
			l.pos++
		case '\n':
			l.line++
			sb.WriteByte(c)
			l.pos++
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return token{}, fmt.Errorf("line %d: unterminated string", line)
}

// isWordRune reports whether r may appear in a bare word. The set follows
// what the script files actually contain: identifiers, numbers, dates,
// scope-prefixed names (root.owner), variables (@var) and event targets.
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == ':', r == '@', r == '.', r == '-', r == '^',
		r == '\'', r == '/', r == '%', r == '+', r == '|':
		return true
	default:
		// accented and cyrillic letters show up in some bare identifiers
		return r > utf8.RuneSelf
	}
}

func (l *lexer) lexWord(line int) (token, error) {
	start := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isWordRune(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		return token{}, fmt.Errorf("line %d: unexpected character %q", line, string(r))
	}
	return token{kind: tokenWord, text: l.input[start:l.pos], line: line}, nil
}
