/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import "github.com/EliaValkyr/pdxscript/tree"

// mergeInto folds src's top-level keys onto dst. Keys present in only one
// side pass through unchanged.
//
// With overwrite true, src's value replaces dst's value wholesale; there is
// no recursive merge. With overwrite false, a colliding key is resolved by
// the existing value: two Trees merge one level deep (src's keys overwrite
// inside the nested Tree), an existing list gets the new value appended, and
// anything else is promoted to a two-element [old, new] list.
func mergeInto(dst, src *tree.Tree, overwrite bool) {
	for key, value := range src.All() {
		if overwrite {
			dst.Set(key, value)
			continue
		}

		existing, ok := dst.Lookup(key)
		if !ok {
			dst.Set(key, value)
			continue
		}

		switch old := existing.(type) {
		case *tree.Tree:
			if newTree, isTree := value.(*tree.Tree); isTree {
				for k, v := range newTree.All() {
					old.Set(k, v)
				}
				continue
			}
			dst.Set(key, []any{existing, value})
		case []any:
			dst.Set(key, append(old, value))
		default:
			dst.Set(key, []any{existing, value})
		}
	}
}
