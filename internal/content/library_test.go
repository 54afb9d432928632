package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinSets(t *testing.T) {
	lib := Builtin()
	want := map[string]int{"english": 8, "math": 5, "capitals": 3, "science": 2}

	sets := lib.Sets()
	if len(sets) != len(want) {
		t.Fatalf("got %d sets, want %d", len(sets), len(want))
	}
	for _, s := range sets {
		if n, ok := want[s.Name]; !ok || len(s.Pairs) != n {
			t.Errorf("set %q has %d pairs, want %d", s.Name, len(s.Pairs), n)
		}
	}

	english, err := lib.Set("English")
	if err != nil {
		t.Fatal(err)
	}
	if p := english.Pairs[0]; p.ID != 1 || p.Prompt != "Apple" || p.Answer != "Elma" {
		t.Errorf("first english pair = %+v", p)
	}
	math, _ := lib.Set("math")
	if math.Pairs[4].Prompt != "3²" {
		t.Errorf("math pair 5 prompt = %q", math.Pairs[4].Prompt)
	}
}

func TestLookup(t *testing.T) {
	lib := Builtin()
	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"1", "english", false},
		{"4", "science", false},
		{"capitals", "capitals", false},
		{" MATH ", "math", false},
		{"0", "", true},
		{"5", "", true},
		{"history", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			s, err := lib.Lookup(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", s.Name)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if s.Name != tt.want {
				t.Fatalf("got %q, want %q", s.Name, tt.want)
			}
		})
	}
}

func TestParseRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no sets", "sets: []", "no sets"},
		{"unnamed", "sets:\n  - pairs: [{id: 1, prompt: a, answer: b}]", "no name"},
		{"empty set", "sets:\n  - name: x", "no pairs"},
		{"duplicate set", "sets:\n  - {name: x, pairs: [{id: 1, prompt: a, answer: b}]}\n  - {name: X, pairs: [{id: 1, prompt: a, answer: b}]}", "duplicate set"},
		{"duplicate pair", "sets:\n  - {name: x, pairs: [{id: 1, prompt: a, answer: b}, {id: 1, prompt: c, answer: d}]}", "duplicate pair"},
		{"missing answer", "sets:\n  - {name: x, pairs: [{id: 1, prompt: a}]}", "needs a prompt"},
		{"not yaml", "sets: [", "parse content YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.yaml")
	data := "sets:\n  - name: colors\n    title: Colors\n    pairs:\n      - {id: 1, prompt: Red, answer: Kırmızı}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := lib.SetByNumber(1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != "Colors" || len(s.Pairs) != 1 || s.Pairs[0].Answer != "Kırmızı" {
		t.Fatalf("unexpected set %+v", s)
	}

	if lib, err := Load(""); err != nil || len(lib.Sets()) != 4 {
		t.Fatalf("empty path should load built-in sets, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
