/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package workaround provides pre-parse text rewrites that change script
// files into a form the external grammar tool can parse. They are only
// needed in rare cases.
//
// A workaround is a named, ordered set of regex pattern/replacement pairs.
// Workarounds are stateless and idempotent: applying one to already
// rewritten text produces no further change.
package workaround

import (
	"fmt"
	"regexp"
)

// Rule is one pattern/replacement pair. Replacement uses regexp expansion
// syntax (${1} references the first capture group).
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Workaround rewrites file text before it is handed to the grammar backend.
type Workaround struct {
	name  string
	rules []compiledRule
}

// New compiles the rules into a Workaround. An invalid pattern is a
// configuration error and fails here, never during Apply.
func New(name string, rules ...Rule) (*Workaround, error) {
	w := &Workaround{name: name}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("workaround %q: %w", name, err)
		}
		w.rules = append(w.rules, compiledRule{pattern: re, replacement: r.Replacement})
	}
	return w, nil
}

// MustNew is like New but panics on an invalid pattern. It is intended for
// package-level workaround definitions.
func MustNew(name string, rules ...Rule) *Workaround {
	w, err := New(name, rules...)
	if err != nil {
		panic(err)
	}
	return w
}

// Name returns the workaround's name.
func (w *Workaround) Name() string {
	return w.name
}

// Apply substitutes every rule across the entire text, in rule order. Rules
// that do not match are no-ops.
func (w *Workaround) Apply(text string) string {
	for _, r := range w.rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}

// Apply runs each workaround over the text in order and returns the result.
func Apply(workarounds []*Workaround, text string) string {
	for _, w := range workarounds {
		text = w.Apply(text)
	}
	return text
}

// ByName looks up a built-in workaround by its name.
func ByName(name string) (*Workaround, bool) {
	w, ok := builtin[name]
	return w, ok
}

// UnmarkedList replaces statements like
//
//	pattern = list "christian_emblems_list"
//
// with
//
//	pattern = { list "christian_emblems_list" }
//
// because the grammar cannot parse the unbraced form.
var UnmarkedList = MustNew("unmarked-list",
	Rule{Pattern: `(=\s*)(list\s+[^#{}=\n]+)`, Replacement: `${1}{ ${2} }`},
)

var builtin = map[string]*Workaround{
	UnmarkedList.Name(): UnmarkedList,
}
