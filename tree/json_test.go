/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree_test

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/EliaValkyr/pdxscript/tree"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	// deliberately not alphabetical
	input := `{"zulu": 1, "alpha": 2, "mike": 3}`

	tr, err := tree.DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if got := tr.Keys(); !slices.Equal(got, []string{"zulu", "alpha", "mike"}) {
		t.Errorf("Keys() = %v, want source order [zulu alpha mike]", got)
	}
}

func TestDecodeJSON_Values(t *testing.T) {
	input := `{
		"count": 42,
		"rate": 0.25,
		"name": "steppe_horde",
		"enabled": true,
		"disabled": false,
		"empty": null,
		"modifiers": [1, 2, 3],
		"nested": {"inner": "value"}
	}`

	tr, err := tree.DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	if v := tr.GetOrDefault("count", nil); v != int64(42) {
		t.Errorf("count = %v (%T), want int64 42", v, v)
	}
	if v := tr.GetOrDefault("rate", nil); v != 0.25 {
		t.Errorf("rate = %v (%T), want float64 0.25", v, v)
	}
	if v := tr.GetOrDefault("name", nil); v != "steppe_horde" {
		t.Errorf("name = %v, want steppe_horde", v)
	}
	if v := tr.GetOrDefault("enabled", nil); v != true {
		t.Errorf("enabled = %v, want true", v)
	}
	if v := tr.GetOrDefault("disabled", true); v != false {
		t.Errorf("disabled = %v, want false", v)
	}
	if v := tr.GetOrDefault("empty", "set"); v != nil {
		t.Errorf("empty = %v, want nil", v)
	}

	list, ok := tr.GetOrDefault("modifiers", nil).([]any)
	if !ok {
		t.Fatal("modifiers is not a list")
	}
	if !slices.Equal(list, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("modifiers = %v, want [1 2 3]", list)
	}

	nested, err := tr.GetTree("nested")
	if err != nil {
		t.Fatalf("nested: %v", err)
	}
	if v := nested.GetOrDefault("inner", nil); v != "value" {
		t.Errorf("nested.inner = %v, want value", v)
	}
}

func TestDecodeJSON_DuplicateKeyGroups(t *testing.T) {
	// the external tool encodes duplicate sibling keys as arrays
	input := `{"x": [1, 2]}`

	tr, err := tree.DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	var got []any
	for v := range tr.FindAll("x") {
		got = append(got, v)
	}
	if !slices.Equal(got, []any{int64(1), int64(2)}) {
		t.Errorf("FindAll(x) = %v, want [1 2]", got)
	}

	// Get returns the whole group, never silently the last value
	v, err := tr.Get("x")
	if err != nil {
		t.Fatalf("Get(x) error = %v", err)
	}
	if list, ok := v.([]any); !ok || len(list) != 2 {
		t.Errorf("Get(x) = %v, want the 2-element list", v)
	}
}

func TestDecodeJSON_RejectsNonObjectRoot(t *testing.T) {
	for _, input := range []string{`[1, 2]`, `"scalar"`, `42`, ``} {
		if _, err := tree.DecodeJSON(strings.NewReader(input)); err == nil {
			t.Errorf("DecodeJSON(%q) succeeded, want error", input)
		}
	}
}

func TestMarshalJSON_OrderRoundTrip(t *testing.T) {
	input := `{"b":{"z":1,"a":2},"a":[true,"x",1.5],"c":"end"}`

	tr, err := tree.DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}

	out, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != input {
		t.Errorf("Marshal() = %s, want %s", out, input)
	}
}
