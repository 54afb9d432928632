// Package content loads the named pair sets a match is dealt from.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Darkprix/Memora-Duel/internal/game"
)

//go:embed builtin.yaml
var builtinYAML []byte

// File represents the top-level YAML structure.
type File struct {
	Sets []SetEntry `yaml:"sets"`
}

// SetEntry represents a single named set in the YAML file.
type SetEntry struct {
	Name  string      `yaml:"name"`
	Title string      `yaml:"title"`
	Pairs []PairEntry `yaml:"pairs"`
}

// PairEntry represents one prompt/answer pair.
type PairEntry struct {
	ID     int    `yaml:"id"`
	Prompt string `yaml:"prompt"`
	Answer string `yaml:"answer"`
}

// Set is a validated, named list of pair definitions.
type Set struct {
	Name  string
	Title string
	Pairs []game.CardDefinition
}

// Library holds sets in file order.
type Library struct {
	sets   []Set
	byName map[string]int
}

// Parse decodes and validates a YAML set file.
func Parse(data []byte) (*Library, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse content YAML: %w", err)
	}
	if len(f.Sets) == 0 {
		return nil, fmt.Errorf("content has no sets")
	}

	lib := &Library{byName: make(map[string]int)}
	for i, entry := range f.Sets {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" {
			return nil, fmt.Errorf("set %d has no name", i+1)
		}
		if _, dup := lib.byName[name]; dup {
			return nil, fmt.Errorf("duplicate set %q", name)
		}
		if len(entry.Pairs) == 0 {
			return nil, fmt.Errorf("set %q has no pairs", name)
		}

		set := Set{Name: name, Title: entry.Title}
		if set.Title == "" {
			set.Title = entry.Name
		}
		ids := make(map[int]bool)
		for _, p := range entry.Pairs {
			if ids[p.ID] {
				return nil, fmt.Errorf("set %q: duplicate pair id %d", name, p.ID)
			}
			if p.Prompt == "" || p.Answer == "" {
				return nil, fmt.Errorf("set %q: pair %d needs a prompt and an answer", name, p.ID)
			}
			ids[p.ID] = true
			set.Pairs = append(set.Pairs, game.CardDefinition{ID: p.ID, Prompt: p.Prompt, Answer: p.Answer})
		}

		lib.byName[name] = len(lib.sets)
		lib.sets = append(lib.sets, set)
	}
	return lib, nil
}

// LoadFile reads a YAML set file from disk.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Builtin returns the sets shipped with the binary.
func Builtin() *Library {
	lib, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("builtin content: %v", err))
	}
	return lib
}

// Load returns the sets in path, or the built-in sets when path is empty.
func Load(path string) (*Library, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}

// Sets returns every set in file order.
func (l *Library) Sets() []Set {
	out := make([]Set, len(l.sets))
	copy(out, l.sets)
	return out
}

// Set looks up a set by name, case-insensitively.
func (l *Library) Set(name string) (Set, error) {
	i, ok := l.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Set{}, fmt.Errorf("set %q not found", name)
	}
	return l.sets[i], nil
}

// SetByNumber returns the Nth set (1-indexed).
func (l *Library) SetByNumber(n int) (Set, error) {
	if n < 1 || n > len(l.sets) {
		return Set{}, fmt.Errorf("set %d not found (have %d sets)", n, len(l.sets))
	}
	return l.sets[n-1], nil
}

// Lookup resolves a set by name or by 1-based number.
func (l *Library) Lookup(ref string) (Set, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		return l.SetByNumber(n)
	}
	return l.Set(ref)
}
