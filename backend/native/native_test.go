/*
Copyright 2026 Elia Valkyr. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package native_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/EliaValkyr/pdxscript/backend"
	"github.com/EliaValkyr/pdxscript/backend/native"
	"github.com/EliaValkyr/pdxscript/testutil"
	"github.com/EliaValkyr/pdxscript/tree"
)

func parse(t *testing.T, input string) *tree.Tree {
	t.Helper()
	tr, err := native.ParseString(input)
	if err != nil {
		t.Fatalf("ParseString() error = %v\ninput:\n%s", err, input)
	}
	return tr
}

func TestParseString_Scalars(t *testing.T) {
	tr := parse(t, `
		name = steppe_horde
		title = "The Great Khan"
		amount = 42
		rate = -0.5
		active = yes
		hidden = no
		start_date = 1444.11.11
	`)

	tests := []struct {
		key  string
		want any
	}{
		{"name", "steppe_horde"},
		{"title", "The Great Khan"},
		{"amount", int64(42)},
		{"rate", -0.5},
		{"active", true},
		{"hidden", false},
		{"start_date", "1444.11.11"},
	}
	for _, tt := range tests {
		if got := tr.GetOrDefault(tt.key, nil); got != tt.want {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.key, got, got, tt.want, tt.want)
		}
	}
}

func TestParseString_NestedBlocks(t *testing.T) {
	tr := parse(t, `
		building_mill = {
			cost = 500
			modifier = {
				local_production = 0.1
			}
		}
	`)

	mill, err := tr.GetTree("building_mill")
	if err != nil {
		t.Fatalf("building_mill: %v", err)
	}
	if v := mill.GetOrDefault("cost", nil); v != int64(500) {
		t.Errorf("cost = %v, want 500", v)
	}
	modifier, err := mill.GetTree("modifier")
	if err != nil {
		t.Fatalf("modifier: %v", err)
	}
	if v := modifier.GetOrDefault("local_production", nil); v != 0.1 {
		t.Errorf("local_production = %v, want 0.1", v)
	}
}

func TestParseString_BareValueLists(t *testing.T) {
	tr := parse(t, `color = { 0.5 0.3 0.1 }
		tags = { TAG1 TAG2 }
		empty = {}
	`)

	color, ok := tr.GetOrDefault("color", nil).([]any)
	if !ok {
		t.Fatal("color is not a list")
	}
	if !slices.Equal(color, []any{0.5, 0.3, 0.1}) {
		t.Errorf("color = %v, want [0.5 0.3 0.1]", color)
	}

	tags, ok := tr.GetOrDefault("tags", nil).([]any)
	if !ok || !slices.Equal(tags, []any{"TAG1", "TAG2"}) {
		t.Errorf("tags = %v, want [TAG1 TAG2]", tr.GetOrDefault("tags", nil))
	}

	if _, err := tr.GetTree("empty"); err != nil {
		t.Errorf("empty block is not an empty tree: %v", err)
	}
}

func TestParseString_DuplicateKeysGroup(t *testing.T) {
	// x = 1 followed by x = 2 groups to [1, 2]; nothing is dropped
	tr := parse(t, `
		x = 1
		x = 2
	`)

	var got []any
	for v := range tr.FindAll("x") {
		got = append(got, v)
	}
	if !slices.Equal(got, []any{int64(1), int64(2)}) {
		t.Errorf("FindAll(x) = %v, want [1 2]", got)
	}

	v, err := tr.Get("x")
	if err != nil {
		t.Fatalf("Get(x) error = %v", err)
	}
	if list, ok := v.([]any); !ok || len(list) != 2 {
		t.Errorf("Get(x) = %v, want the grouped list", v)
	}
}

func TestParseString_DuplicateKeysAtDepth(t *testing.T) {
	tr := parse(t, `
		ideas = {
			idea = { cost = 1 }
			idea = { cost = 2 }
			idea = { cost = 3 }
		}
	`)

	ideas, err := tr.GetTree("ideas")
	if err != nil {
		t.Fatalf("ideas: %v", err)
	}
	var costs []any
	for v := range ideas.FindAll("idea") {
		costs = append(costs, v.(*tree.Tree).GetOrDefault("cost", nil))
	}
	if !slices.Equal(costs, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("idea costs = %v, want [1 2 3]", costs)
	}
}

func TestParseString_DuplicateListValues(t *testing.T) {
	// a repeated list-valued key nests: [[1 2] [3]]
	tr := parse(t, `
		a = { 1 2 }
		a = { 3 }
	`)

	v, err := tr.Get("a")
	if err != nil {
		t.Fatalf("Get(a) error = %v", err)
	}
	group, ok := v.([]any)
	if !ok || len(group) != 2 {
		t.Fatalf("a = %v, want a 2-element group", v)
	}
	first, ok := group[0].([]any)
	if !ok || !slices.Equal(first, []any{int64(1), int64(2)}) {
		t.Errorf("a[0] = %v, want [1 2]", group[0])
	}
	second, ok := group[1].([]any)
	if !ok || !slices.Equal(second, []any{int64(3)}) {
		t.Errorf("a[1] = %v, want [3]", group[1])
	}
}

func TestParseString_CommentsAndBOM(t *testing.T) {
	tr := parse(t, "\uFEFF# header comment\nkey = value # trailing comment\n# full line\nother = 2\n")

	if v := tr.GetOrDefault("key", nil); v != "value" {
		t.Errorf("key = %v, want value", v)
	}
	if v := tr.GetOrDefault("other", nil); v != int64(2) {
		t.Errorf("other = %v, want 2", v)
	}
}

func TestParseString_Operators(t *testing.T) {
	tr := parse(t, `
		trigger = {
			num_of_cities > 3
			stability >= 1
			war_exhaustion < 5
			age != 20
		}
	`)

	trigger, err := tr.GetTree("trigger")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if v := trigger.GetOrDefault("num_of_cities", nil); v != int64(3) {
		t.Errorf("num_of_cities = %v, want 3", v)
	}
	if v := trigger.GetOrDefault("age", nil); v != int64(20) {
		t.Errorf("age = %v, want 20", v)
	}
}

func TestParseString_KeyOrder(t *testing.T) {
	tr := parse(t, "zeta = 1\nalpha = 2\nmike = 3\n")
	if got := tr.Keys(); !slices.Equal(got, []string{"zeta", "alpha", "mike"}) {
		t.Errorf("Keys() = %v, want source order", got)
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated block", "a = {\nb = 1\n"},
		{"unterminated string", `a = "no closing quote`},
		{"stray closing brace", "a = 1\n}\n"},
		{"bare scalar at root", "just_a_word\n"},
		{"mixed block", "a = { 1 2 b = 3 }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := native.ParseString(tt.input); err == nil {
				t.Errorf("ParseString(%q) succeeded, want error", tt.input)
			}
		})
	}
}

func TestBackend_Parse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.txt")
	if err := os.WriteFile(path, []byte("KHA = { government = steppe_horde }\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tr, err := native.New().Parse(context.Background(), path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	kha, err := tr.GetTree("KHA")
	if err != nil {
		t.Fatalf("KHA: %v", err)
	}
	if v := kha.GetOrDefault("government", nil); v != "steppe_horde" {
		t.Errorf("government = %v, want steppe_horde", v)
	}
}

func TestBackend_Parse_SyntaxErrorIsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	if err := os.WriteFile(path, []byte("a = {\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := native.New().Parse(context.Background(), path)
	var parseErr *backend.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if parseErr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, path)
	}
	if !strings.Contains(parseErr.Message, "line") {
		t.Errorf("ParseError.Message = %q, want a line diagnostic", parseErr.Message)
	}
}

func TestParseString_AchievementsFixture(t *testing.T) {
	src := testutil.LoadFixtureFile(t, "achievements.txt")
	tr := parse(t, string(src))

	if got := tr.Keys(); !slices.Equal(got, []string{"ach_bought_the_dip", "ach_the_turtle_moves"}) {
		t.Fatalf("Keys() = %v, want both achievements in source order", got)
	}

	dip, err := tr.GetTree("ach_bought_the_dip")
	if err != nil {
		t.Fatalf("ach_bought_the_dip: %v", err)
	}
	happened, err := dip.GetTree("happened")
	if err != nil {
		t.Fatalf("happened: %v", err)
	}
	if v := happened.GetOrDefault("gold_reserves", nil); v != int64(100000) {
		t.Errorf("gold_reserves = %v, want 100000", v)
	}
	building, err := happened.GetTree("any_scope_building")
	if err != nil {
		t.Fatalf("any_scope_building: %v", err)
	}
	if v := building.GetOrDefault("level", nil); v != int64(10) {
		t.Errorf("level = %v, want 10", v)
	}
}

// The external tool and the native backend must produce the same tree for
// the same input. The tool's output shape is pinned here as the JSON the
// native result must marshal to.
func TestParseString_MatchesExternalToolOutput(t *testing.T) {
	script := `
		country = {
			tag = KHA
			tag = HOR
			capital = 1234
			development = 3.5
			is_horde = yes
			ideas = { idea_1 idea_2 }
		}
	`
	toolJSON := `{"country":{"tag":["KHA","HOR"],"capital":1234,"development":3.5,"is_horde":true,"ideas":["idea_1","idea_2"]}}`

	parsed := parse(t, script)
	nativeJSON, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(nativeJSON) != toolJSON {
		t.Errorf("native output diverges from the external tool:\nnative: %s\ntool:   %s", nativeJSON, toolJSON)
	}

	decoded, err := tree.DecodeJSON(strings.NewReader(toolJSON))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	decodedJSON, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(decodedJSON) != string(nativeJSON) {
		t.Errorf("decoded tool output diverges:\ndecoded: %s\nnative:  %s", decodedJSON, nativeJSON)
	}
}
