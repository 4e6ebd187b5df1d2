/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

import "errors"

// Sentinel errors for tree operations.
var (
	// ErrKeyNotFound indicates a Get lookup found no matching key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotATree indicates a value was expected to be a nested Tree but is not.
	ErrNotATree = errors.New("value is not a tree")
)
