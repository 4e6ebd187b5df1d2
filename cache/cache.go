/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cache stores parsed Trees on disk so repeated runs skip the parse
// step. The cache assumes a result does not change as long as the game
// version stays the same; bump the version or clear the directory when that
// assumption breaks.
package cache

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	pdxfs "github.com/EliaValkyr/pdxscript/fs"
	"github.com/EliaValkyr/pdxscript/internal/logger"
	"github.com/EliaValkyr/pdxscript/tree"
)

// Store is a per-game-version disk cache of parsed Trees.
type Store struct {
	fs      pdxfs.FileSystem
	dir     string
	version string
}

// New creates a Store rooted at dir, keyed by the game version. An empty dir
// disables the cache: every Fetch runs its miss function.
func New(filesystem pdxfs.FileSystem, dir, gameVersion string) *Store {
	return &Store{fs: filesystem, dir: dir, version: gameVersion}
}

// Enabled reports whether the cache is active.
func (s *Store) Enabled() bool {
	return s.dir != ""
}

// Fetch returns the Tree cached under name, or computes it with miss and
// stores the result. Cache read or write problems never fail the fetch:
// a corrupt entry is recomputed and a failed write is logged and ignored.
func (s *Store) Fetch(name string, miss func() (*tree.Tree, error)) (*tree.Tree, error) {
	if !s.Enabled() {
		return miss()
	}

	path := s.entryPath(name)
	if data, err := s.fs.ReadFile(path); err == nil {
		t, err := tree.DecodeJSON(bytes.NewReader(data))
		if err == nil {
			return t, nil
		}
		logger.Warn("discarding corrupt cache entry %s: %v", path, err)
	}

	t, err := miss()
	if err != nil {
		return nil, err
	}
	s.store(path, t)
	return t, nil
}

func (s *Store) entryPath(name string) string {
	return filepath.Join(s.dir, s.version, name+".json")
}

func (s *Store) store(path string, t *tree.Tree) {
	data, err := json.Marshal(t)
	if err != nil {
		logger.Warn("not caching %s: %v", path, err)
		return
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("not caching %s: %v", path, err)
		return
	}
	if err := s.fs.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("not caching %s: %v", path, err)
	}
}
