// Package prefs persists UI choices across restarts in
// ~/.config/debugview/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultPrefsPath = "~/.config/debugview/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Prefs is the contents of prefs.toml.
type Prefs struct {
	Theme       string   `toml:"theme"`
	HiddenTags  []string `toml:"hidden_tags"`
	Environment string   `toml:"environment"`
}

// Hidden returns HiddenTags as a set.
func (p Prefs) Hidden() map[string]bool {
	set := make(map[string]bool, len(p.HiddenTags))
	for _, tag := range p.HiddenTags {
		set[tag] = true
	}
	return set
}

// SetHidden replaces HiddenTags with the tags marked true in set, sorted.
// It allocates a new slice, so copies of p keep their own list.
func (p *Prefs) SetHidden(set map[string]bool) {
	tags := make([]string, 0, len(set))
	for tag, hidden := range set {
		if hidden {
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	p.HiddenTags = tags
}

// DefaultPath is where prefs live when no path is given.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads prefs from path, or the default location when path is empty.
// A missing or unreadable file is not an error: the user just starts over
// with defaults.
func Load(path string) (Prefs, error) {
	p := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return p, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p, nil
	}
	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return p, nil
	}

	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		p.Theme = theme
	}
	p.Environment = strings.TrimSpace(stored.Environment)
	p.HiddenTags = cleanTags(stored.HiddenTags)
	return p, nil
}

// Save writes p to path, creating parent directories.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// cleanTags drops blank and repeated tags from a hand-edited file.
func cleanTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPrefsPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
