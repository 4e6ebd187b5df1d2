/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tree provides the generic ordered key/value node produced by parsing
// game script files.
//
// A Tree maps string keys to values, where a value is a scalar (string, int64,
// float64, bool or nil), a []any list, or a nested *Tree. Keys keep their
// first-seen insertion order for iteration; lookup is by exact, case-sensitive
// match. Duplicate sibling keys in the source are grouped into an ordered list
// under the single key, so no information is dropped at parse time. Consumers
// disambiguate with FindAll or MergeDuplicateKeys.
//
// Trees are read-only from the consumer's perspective. The documented
// exceptions are Set (used by the decoders and the folder merge) and
// MergeDuplicateKeys, which mutate in place.
package tree

import (
	"fmt"
	"iter"
)

// Tree is an insertion-ordered mapping from string keys to parsed values.
type Tree struct {
	keys   []string
	values map[string]any
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Keys returns the top-level keys in insertion order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Has reports whether key is present.
func (t *Tree) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Lookup returns the value for key and whether it is present.
func (t *Tree) Lookup(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Get returns the value for key, or an error wrapping ErrKeyNotFound if the
// key is absent. Callers that can tolerate absence should use GetOrDefault.
func (t *Tree) Get(key string) (any, error) {
	v, ok := t.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return v, nil
}

// GetOrDefault returns the value for key, or def if the key is absent.
func (t *Tree) GetOrDefault(key string, def any) any {
	if v, ok := t.values[key]; ok {
		return v
	}
	return def
}

// GetTree returns the value for key as a nested Tree. It returns an error
// wrapping ErrKeyNotFound if the key is absent, or ErrNotATree if the value
// is a scalar or list.
func (t *Tree) GetTree(key string) (*Tree, error) {
	v, err := t.Get(key)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Tree)
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %T", ErrNotATree, key, v)
	}
	return sub, nil
}

// Set binds key to value, overwriting any previous value. An overwritten key
// keeps its original position in the iteration order. Set is the documented
// mutation point used by the decoders and the folder merge.
func (t *Tree) Set(key string, value any) {
	if t.values == nil {
		t.values = make(map[string]any)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// All iterates over (key, value) pairs in insertion order.
func (t *Tree) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// FindAll iterates over the values bound to key. An absent key yields
// nothing. A grouped duplicate-key list yields each element in original
// order; any other value yields once. Each call returns a fresh sequence.
//
// This is most useful for files which may or may not contain the same key
// multiple times.
func (t *Tree) FindAll(key string) iter.Seq[any] {
	return func(yield func(any) bool) {
		v, ok := t.values[key]
		if !ok {
			return
		}
		if list, isList := v.([]any); isList {
			for _, item := range list {
				if !yield(item) {
					return
				}
			}
			return
		}
		yield(v)
	}
}

// FindAllRecursively is like FindAll, but searches the whole Tree in
// depth-first pre-order, descending into nested Trees and into lists of
// Trees. Values are yielded in traversal order.
func (t *Tree) FindAllRecursively(key string) iter.Seq[any] {
	return func(yield func(any) bool) {
		t.findAllRecursively(key, yield)
	}
}

func (t *Tree) findAllRecursively(key string, yield func(any) bool) bool {
	for _, k := range t.keys {
		v := t.values[k]
		if k == key {
			if !yield(v) {
				return false
			}
			continue
		}
		switch val := v.(type) {
		case *Tree:
			if !val.findAllRecursively(key, yield) {
				return false
			}
		case []any:
			for _, item := range val {
				if sub, ok := item.(*Tree); ok {
					if !sub.findAllRecursively(key, yield) {
						return false
					}
				}
			}
		}
	}
	return true
}

// MergeDuplicateKeys folds every top-level duplicate-key group whose entries
// are all Trees into a single Tree, applying each entry's keys onto an
// accumulator in list order. Later entries overwrite earlier ones on key
// collision. Lists containing non-Tree values are left alone.
//
// The fold is one level deep: duplicate groups nested inside the merged
// values are not folded. MergeDuplicateKeys mutates the receiver and returns
// it to allow chaining.
func (t *Tree) MergeDuplicateKeys() *Tree {
	for _, key := range t.keys {
		list, ok := t.values[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if !allTrees(list) {
			continue
		}
		merged := New()
		for _, item := range list {
			for k, v := range item.(*Tree).All() {
				merged.Set(k, v)
			}
		}
		t.values[key] = merged
	}
	return t
}

func allTrees(list []any) bool {
	for _, item := range list {
		if _, ok := item.(*Tree); !ok {
			return false
		}
	}
	return true
}
