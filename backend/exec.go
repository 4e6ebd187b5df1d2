/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/EliaValkyr/pdxscript/tree"
)

// ErrNoExecutable indicates the external grammar executable path was not
// configured.
var ErrNoExecutable = errors.New("external grammar executable not configured")

// ExecBackend invokes an external grammar tool (such as the rakaly CLI) as a
// child process. The tool is asked to group duplicate keys, so its JSON
// output already encodes repeated sibling keys as arrays.
//
// Invocation form: <executable> json --duplicate-keys group <file>. Success
// is exit code 0 with JSON on stdout; failure is a non-zero exit with a
// diagnostic on stderr.
type ExecBackend struct {
	executable string
	timeout    time.Duration
}

// ExecOption configures an ExecBackend.
type ExecOption func(*ExecBackend)

// WithTimeout bounds each invocation with a context deadline. The zero value
// leaves invocations unbounded.
func WithTimeout(d time.Duration) ExecOption {
	return func(b *ExecBackend) {
		b.timeout = d
	}
}

// NewExec creates a backend that invokes the grammar tool at executable.
// An empty executable path is a configuration error and fails here, not at
// parse time.
func NewExec(executable string, opts ...ExecOption) (*ExecBackend, error) {
	if executable == "" {
		return nil, ErrNoExecutable
	}
	b := &ExecBackend{executable: executable}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Parse runs the external tool on path and lifts its JSON output into a
// Tree. A non-zero exit is surfaced as a *ParseError carrying the path and
// the tool's stderr with its trailing newline trimmed. Failure to start the
// process at all (missing binary, cancelled context) is reported as a plain
// wrapped error instead.
func (b *ExecBackend) Parse(ctx context.Context, path string) (*tree.Tree, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, b.executable, "json", "--duplicate-keys", "group", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// don't wait on orphaned grandchildren holding the pipes after a kill
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("invoking %s on %q: %w", b.executable, path, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ParseError{
				Path:    path,
				Message: strings.TrimSuffix(stderr.String(), "\n"),
			}
		}
		return nil, fmt.Errorf("invoking %s on %q: %w", b.executable, path, err)
	}

	t, err := tree.DecodeJSON(&stdout)
	if err != nil {
		return nil, fmt.Errorf("reading output for %q: %w", path, err)
	}
	return t, nil
}
