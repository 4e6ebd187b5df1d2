/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser orchestrates script parsing: single files, globs of files,
// or whole folders merged into one Tree.
//
// All multi-file entry points process files in lexicographically sorted path
// order, never in filesystem enumeration order, so results are
// deterministic. Files are parsed strictly one at a time; the folder merge
// is a sequential fold whose later steps depend on earlier ones.
package parser

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/EliaValkyr/pdxscript/backend"
	pdxfs "github.com/EliaValkyr/pdxscript/fs"
	"github.com/EliaValkyr/pdxscript/tree"
	"github.com/EliaValkyr/pdxscript/workaround"
)

// Parser parses script files under a base folder with a grammar backend.
// The backend is injected explicitly; there is no process-wide default.
type Parser struct {
	baseFolder string
	backend    backend.Backend
	fs         pdxfs.FileSystem
}

// Option configures a Parser.
type Option func(*Parser)

// WithFileSystem replaces the OS filesystem, mainly for tests.
func WithFileSystem(filesystem pdxfs.FileSystem) Option {
	return func(p *Parser) {
		p.fs = filesystem
	}
}

// New creates a Parser. The various parse methods expect their path
// parameters to be relative to baseFolder.
func New(baseFolder string, b backend.Backend, opts ...Option) *Parser {
	p := &Parser{
		baseFolder: baseFolder,
		backend:    b,
		fs:         pdxfs.NewOSFileSystem(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileTree pairs a parsed file's path with its Tree.
type FileTree struct {
	Path string
	Tree *tree.Tree
}

// ParseFile parses one file into a Tree. Duplicate keys at any nesting level
// are grouped into lists; unwrap them with Tree.FindAll or fold them with
// Tree.MergeDuplicateKeys.
func (p *Parser) ParseFile(ctx context.Context, relativePath string, workarounds ...*workaround.Workaround) (*tree.Tree, error) {
	return p.parseOne(ctx, filepath.Join(p.baseFolder, relativePath), workarounds)
}

// ParseFiles parses all files under the base folder that match the glob
// pattern (doublestar syntax, so ** crosses directories), in sorted path
// order. Files are parsed on demand as the sequence is advanced. The first
// failure is yielded with a zero Tree and halts further production.
func (p *Parser) ParseFiles(ctx context.Context, pattern string, workarounds ...*workaround.Workaround) iter.Seq2[FileTree, error] {
	return func(yield func(FileTree, error) bool) {
		paths, err := p.matchFiles(p.baseFolder, pattern)
		if err != nil {
			yield(FileTree{}, err)
			return
		}
		for _, path := range paths {
			t, err := p.parseOne(ctx, path, workarounds)
			if err != nil {
				yield(FileTree{Path: path}, err)
				return
			}
			if !yield(FileTree{Path: path, Tree: t}, nil) {
				return
			}
		}
	}
}

// FolderOptions configures ParseFolderAsOneFile.
type FolderOptions struct {
	// Recursive includes subfolders. Defaults to true.
	Recursive bool

	// FileExtension selects which files to parse. Defaults to "txt".
	FileExtension string

	// Workarounds are applied to each file's text before parsing.
	Workarounds []*workaround.Workaround

	// OverwriteDuplicateToplevelKeys controls how duplicate top-level keys
	// from different files combine. When true, later files overwrite keys
	// from earlier files wholesale. When false the behavior depends on the
	// existing value: Trees are merged one level deep (new keys overwrite
	// inside that Tree), lists are appended to, and anything else becomes a
	// two-element list. Defaults to true.
	OverwriteDuplicateToplevelKeys bool
}

// DefaultFolderOptions returns the FolderOptions defaults.
func DefaultFolderOptions() FolderOptions {
	return FolderOptions{
		Recursive:                      true,
		FileExtension:                  "txt",
		OverwriteDuplicateToplevelKeys: true,
	}
}

// ParseFolderAsOneFile parses every matching file in folder and merges the
// per-file Trees into one result Tree, folding files in sorted path order.
func (p *Parser) ParseFolderAsOneFile(ctx context.Context, folder string, opts FolderOptions) (*tree.Tree, error) {
	ext := opts.FileExtension
	if ext == "" {
		ext = "txt"
	}
	pattern := "*." + ext
	if opts.Recursive {
		pattern = "**/" + pattern
	}

	root := filepath.Join(p.baseFolder, folder)
	paths, err := p.matchFiles(root, pattern)
	if err != nil {
		return nil, err
	}

	result := tree.New()
	for _, path := range paths {
		t, err := p.parseOne(ctx, path, opts.Workarounds)
		if err != nil {
			return nil, err
		}
		mergeInto(result, t, opts.OverwriteDuplicateToplevelKeys)
	}
	return result, nil
}

// parseOne hands a single file to the backend. When workarounds are given,
// the rewritten text goes through a private temporary file which is removed
// on every exit path.
func (p *Parser) parseOne(ctx context.Context, path string, workarounds []*workaround.Workaround) (*tree.Tree, error) {
	if len(workarounds) == 0 {
		return p.backend.Parse(ctx, path)
	}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	rewritten := workaround.Apply(workarounds, string(data))

	temp, err := p.fs.CreateTemp("", "pdxscript-workaround-*.txt")
	if err != nil {
		return nil, fmt.Errorf("creating temp file for %q: %w", path, err)
	}
	defer p.fs.Remove(temp)

	if err := p.fs.WriteFile(temp, []byte(rewritten), 0o600); err != nil {
		return nil, fmt.Errorf("writing temp file for %q: %w", path, err)
	}
	return p.backend.Parse(ctx, temp)
}

// matchFiles walks root and returns the files whose root-relative path
// matches pattern, sorted lexicographically. Glob order from the filesystem
// is never used directly.
func (p *Parser) matchFiles(root, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	var matches []string
	err := fs.WalkDir(p.fs, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, root)
		rel = strings.TrimPrefix(rel, string(filepath.Separator))
		rel = strings.TrimPrefix(rel, "/")

		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", root, err)
	}

	sort.Strings(matches)
	return matches, nil
}
