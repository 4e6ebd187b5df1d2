/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package backend defines the grammar backend: the component that turns a
// script file into a Tree. The primary implementation shells out to an
// external grammar tool; backend/native provides an in-process alternative.
// The orchestrator only depends on the Backend interface, so backends can be
// swapped without touching the tree model or the orchestrator.
package backend

import (
	"context"
	"fmt"

	"github.com/EliaValkyr/pdxscript/tree"
)

// Backend parses one script file into a Tree. Duplicate sibling keys at any
// nesting level must be grouped into an ordered list under the single key.
type Backend interface {
	Parse(ctx context.Context, path string) (*tree.Tree, error)
}

// Func adapts a function to the Backend interface. Useful for tests.
type Func func(ctx context.Context, path string) (*tree.Tree, error)

// Parse implements Backend.
func (f Func) Parse(ctx context.Context, path string) (*tree.Tree, error) {
	return f(ctx, path)
}

// ParseError reports that the grammar backend rejected a specific file. It
// carries the originating path and the backend's diagnostic text. A parse
// failure is never retried; it propagates and aborts the remaining work of
// the call that triggered it.
type ParseError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("error reading %q: %s", e.Path, e.Message)
}
