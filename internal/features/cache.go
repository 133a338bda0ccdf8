package features

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// MemoryCache keeps values in memory only.
type MemoryCache struct {
	mu     sync.Mutex
	values map[string]map[string]bool
}

// Load returns a copy of the mapping stored under storageKey.
func (c *MemoryCache) Load(storageKey string) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyValues(c.values[storageKey]), nil
}

// Save replaces the mapping stored under storageKey.
func (c *MemoryCache) Save(storageKey string, values map[string]bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]map[string]bool)
	}
	c.values[storageKey] = copyValues(values)
	return nil
}

// TOMLCache stores each mapping as a table in a TOML file:
//
//	[features]
//	"new-checkout" = true
type TOMLCache struct {
	Path string

	mu sync.Mutex
}

// Load reads the table for storageKey. A missing file yields an empty map.
func (c *TOMLCache) Load(storageKey string) (map[string]bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	all, err := c.read()
	if err != nil {
		return nil, err
	}
	return copyValues(all[storageKey]), nil
}

// Save rewrites the table for storageKey, keeping other tables intact.
func (c *TOMLCache) Save(storageKey string, values map[string]bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	all, err := c.read()
	if err != nil {
		all = make(map[string]map[string]bool)
	}
	all[storageKey] = copyValues(values)

	path, err := expandPath(c.Path)
	if err != nil {
		return fmt.Errorf("resolve cache path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := toml.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

func (c *TOMLCache) read() (map[string]map[string]bool, error) {
	path, err := expandPath(c.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve cache path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]map[string]bool), nil
		}
		return nil, fmt.Errorf("read cache: %w", err)
	}
	all := make(map[string]map[string]bool)
	if err := toml.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}
	return all, nil
}

func copyValues(values map[string]bool) map[string]bool {
	out := make(map[string]bool, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
