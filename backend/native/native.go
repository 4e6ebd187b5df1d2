/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package native provides an in-process grammar backend for the script
// syntax, as an alternative to shelling out to the external tool. It
// produces the same Tree shape: duplicate sibling keys grouped into ordered
// lists, blocks of bare values as lists, blocks of assignments as nested
// Trees.
//
// The grammar coverage is the subset the data files actually use: key =
// value pairs with comparison operators, nested brace blocks, # comments,
// quoted strings, numbers, dates and yes/no booleans. Blocks that mix bare
// values with assignments are rejected.
package native

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/EliaValkyr/pdxscript/backend"
	"github.com/EliaValkyr/pdxscript/tree"
)

// Backend parses script files in process.
type Backend struct{}

// New creates a native backend.
func New() *Backend {
	return &Backend{}
}

// Parse reads and parses the file at path. Syntax errors are surfaced as
// *backend.ParseError carrying the path and a line-numbered diagnostic, the
// same error shape the external tool produces.
func (b *Backend) Parse(ctx context.Context, path string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	t, err := ParseString(string(data))
	if err != nil {
		return nil, &backend.ParseError{Path: path, Message: err.Error()}
	}
	return t, nil
}

// ParseString parses script text into a Tree. The document root must consist
// of assignments.
func ParseString(input string) (*tree.Tree, error) {
	p := &parser{lex: newLexer(input)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBody(tokenEOF)
	if err != nil {
		return nil, err
	}
	t, ok := body.(*tree.Tree)
	if !ok {
		return nil, fmt.Errorf("line 1: document root must be key/value pairs")
	}
	return t, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// parseBody parses statements until the closing token (tokenCloseBrace for
// blocks, tokenEOF for the document). It returns a *tree.Tree when the body
// holds assignments, a []any when it holds bare values, and an empty Tree
// when it holds nothing.
func (p *parser) parseBody(until tokenKind) (any, error) {
	node := newNodeBuilder()
	var items []any

	for p.cur.kind != until {
		switch p.cur.kind {
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unexpected end of file", p.cur.line)
		case tokenCloseBrace:
			return nil, fmt.Errorf("line %d: unexpected }", p.cur.line)
		case tokenOpenBrace:
			// bare nested block, as in lists of coordinate pairs
			if err := p.advance(); err != nil {
				return nil, err
			}
			value, err := p.parseBody(tokenCloseBrace)
			if err != nil {
				return nil, err
			}
			if err := p.advance(); err != nil { // consume }
				return nil, err
			}
			items = append(items, value)
		case tokenWord, tokenString:
			first := p.cur
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokenOperator {
				if err := p.advance(); err != nil {
					return nil, err
				}
				value, err := p.parseValue()
				if err != nil {
					return nil, err
				}
				node.add(first.text, value)
			} else {
				items = append(items, scalar(first))
			}
		default:
			return nil, fmt.Errorf("line %d: unexpected token %q", p.cur.line, p.cur.text)
		}
	}

	switch {
	case node.tree.Len() > 0 && len(items) > 0:
		return nil, fmt.Errorf("line %d: block mixes bare values with assignments", p.cur.line)
	case len(items) > 0:
		return items, nil
	default:
		return node.tree, nil
	}
}

// parseValue parses the right-hand side of an assignment: a scalar or a
// brace block.
func (p *parser) parseValue() (any, error) {
	switch p.cur.kind {
	case tokenOpenBrace:
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseBody(tokenCloseBrace)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil { // consume }
			return nil, err
		}
		return value, nil
	case tokenWord, tokenString:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return scalar(tok), nil
	default:
		return nil, fmt.Errorf("line %d: expected a value, got %q", p.cur.line, p.cur.text)
	}
}

// scalar converts a word token to its typed value: yes/no to bool, integral
// numbers to int64, fractional numbers to float64, everything else (dates,
// identifiers, quoted strings) stays a string.
func scalar(tok token) any {
	if tok.kind == tokenString {
		return tok.text
	}
	switch tok.text {
	case "yes":
		return true
	case "no":
		return false
	}
	if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok.text, 64); err == nil {
		return f
	}
	return tok.text
}

// nodeBuilder accumulates assignments, grouping duplicate keys into ordered
// lists. The grouped set tells genuine list values apart from lists created
// by grouping, so a repeated list-valued key nests correctly.
type nodeBuilder struct {
	tree    *tree.Tree
	grouped map[string]bool
}

func newNodeBuilder() *nodeBuilder {
	return &nodeBuilder{tree: tree.New(), grouped: make(map[string]bool)}
}

func (n *nodeBuilder) add(key string, value any) {
	existing, ok := n.tree.Lookup(key)
	if !ok {
		n.tree.Set(key, value)
		return
	}
	if n.grouped[key] {
		n.tree.Set(key, append(existing.([]any), value))
		return
	}
	n.tree.Set(key, []any{existing, value})
	n.grouped[key] = true
}
