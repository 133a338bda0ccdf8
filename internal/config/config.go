package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/debugview/internal/features"
	"github.com/five82/debugview/internal/probe"
)

// Flag cache backends.
const (
	FlagCacheTOML   = "toml"
	FlagCacheSQLite = "sqlite"
	FlagCacheMemory = "memory"
)

// Environment is a named base URL the host can switch between.
type Environment struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Config captures the inspector settings.
type Config struct {
	Color           bool
	Theme           string
	PollSeconds     int
	FeaturesEnabled bool
	FlagCache       string
	FlagCachePath   string
	Features        []features.Feature
	Environments    []Environment
	Probes          []probe.Target
	Watch           []string
	WatchBackfill   int // lines of existing content to load per watched file
}

const (
	defaultConfigPath  = "~/.config/debugview/config.toml"
	defaultDataDir     = "~/.local/share/debugview"
	defaultPollSeconds = 2
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PollSeconds:     defaultPollSeconds,
		FeaturesEnabled: true,
		FlagCache:       FlagCacheTOML,
		FlagCachePath:   mustExpand(defaultCachePath(FlagCacheTOML)),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Color           bool               `toml:"color"`
		Theme           string             `toml:"theme"`
		PollSeconds     int                `toml:"poll_seconds"`
		FeaturesEnabled *bool              `toml:"features_enabled"`
		FlagCache       string             `toml:"flag_cache"`
		FlagCachePath   string             `toml:"flag_cache_path"`
		Features        []features.Feature `toml:"features"`
		Environments    []Environment      `toml:"environments"`
		Probes          []probe.Target     `toml:"probes"`
		Watch           []string           `toml:"watch"`
		WatchBackfill   int                `toml:"watch_backfill"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	cfg.Color = raw.Color
	cfg.Theme = strings.TrimSpace(raw.Theme)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if raw.FeaturesEnabled != nil {
		cfg.FeaturesEnabled = *raw.FeaturesEnabled
	}

	cfg.FlagCache = strings.ToLower(strings.TrimSpace(raw.FlagCache))
	switch cfg.FlagCache {
	case "":
		cfg.FlagCache = FlagCacheTOML
	case FlagCacheTOML, FlagCacheSQLite, FlagCacheMemory:
	default:
		return Config{}, fmt.Errorf("parse config: unknown flag_cache %q", raw.FlagCache)
	}
	cfg.FlagCachePath = strings.TrimSpace(raw.FlagCachePath)
	if cfg.FlagCachePath == "" {
		cfg.FlagCachePath = defaultCachePath(cfg.FlagCache)
	}
	cfg.FlagCachePath = mustExpand(cfg.FlagCachePath)

	for _, f := range raw.Features {
		f.Key = strings.TrimSpace(f.Key)
		if f.Key == "" {
			return Config{}, fmt.Errorf("parse config: feature without key")
		}
		if strings.TrimSpace(f.Title) == "" {
			f.Title = f.Key
		}
		cfg.Features = append(cfg.Features, f)
	}
	for _, env := range raw.Environments {
		env.URL = strings.TrimSpace(env.URL)
		if env.URL == "" {
			continue
		}
		if strings.TrimSpace(env.Name) == "" {
			env.Name = env.URL
		}
		cfg.Environments = append(cfg.Environments, env)
	}
	for _, p := range raw.Probes {
		if strings.TrimSpace(p.URL) != "" {
			cfg.Probes = append(cfg.Probes, p)
		}
	}
	if raw.WatchBackfill > 0 {
		cfg.WatchBackfill = raw.WatchBackfill
	}
	for _, pattern := range raw.Watch {
		if strings.TrimSpace(pattern) != "" {
			cfg.Watch = append(cfg.Watch, mustExpand(pattern))
		}
	}

	return cfg, nil
}

// ColorSupported resolves the color-support signal: the COLORIZED_OUTPUT
// environment variable when set, otherwise the config's color field.
func (c Config) ColorSupported() bool {
	for _, name := range []string{"COLORIZED_OUTPUT", "Colorized_Output"} {
		if v, ok := os.LookupEnv(name); ok {
			return strings.EqualFold(strings.TrimSpace(v), "true")
		}
	}
	return c.Color
}

func defaultCachePath(backend string) string {
	if backend == FlagCacheSQLite {
		return defaultDataDir + "/flags.db"
	}
	return defaultDataDir + "/flags.toml"
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
