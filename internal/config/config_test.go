package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/five82/debugview/internal/features"
	"github.com/five82/debugview/internal/probe"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
	if cfg.FlagCache != FlagCacheTOML || !cfg.FeaturesEnabled {
		t.Fatalf("FlagCache, FeaturesEnabled = %q, %v, want toml, true", cfg.FlagCache, cfg.FeaturesEnabled)
	}
	want := filepath.Join(home, ".local", "share", "debugview", "flags.toml")
	if cfg.FlagCachePath != want {
		t.Fatalf("FlagCachePath = %q, want %q", cfg.FlagCachePath, want)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
color = true
theme = "  Slate  "
poll_seconds = 5
features_enabled = false
flag_cache = " SQLite "
watch = ["~/logs/*.log", "  "]

[[features]]
key = "checkout"
title = "New checkout"
enabled = true

[[features]]
key = "dark"

[[environments]]
name = "staging"
url = " https://staging.example.com "

[[environments]]
url = "http://localhost:8080"

[[environments]]
name = "empty"

[[probes]]
method = "GET"
url = "/health"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.Color || cfg.Theme != "Slate" || cfg.PollSeconds != 5 || cfg.FeaturesEnabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.FlagCache != FlagCacheSQLite {
		t.Fatalf("FlagCache = %q, want sqlite", cfg.FlagCache)
	}
	if cfg.FlagCachePath != filepath.Join(home, ".local", "share", "debugview", "flags.db") {
		t.Fatalf("FlagCachePath = %q", cfg.FlagCachePath)
	}

	wantFeatures := []features.Feature{
		{Key: "checkout", Title: "New checkout", Enabled: true},
		{Key: "dark", Title: "dark"},
	}
	if !reflect.DeepEqual(cfg.Features, wantFeatures) {
		t.Fatalf("Features = %+v, want %+v", cfg.Features, wantFeatures)
	}

	wantEnvs := []Environment{
		{Name: "staging", URL: "https://staging.example.com"},
		{Name: "http://localhost:8080", URL: "http://localhost:8080"},
	}
	if !reflect.DeepEqual(cfg.Environments, wantEnvs) {
		t.Fatalf("Environments = %+v, want %+v", cfg.Environments, wantEnvs)
	}
	if !reflect.DeepEqual(cfg.Probes, []probe.Target{{Method: "GET", URL: "/health"}}) {
		t.Fatalf("Probes = %+v", cfg.Probes)
	}
	if len(cfg.Watch) != 1 || !strings.HasPrefix(cfg.Watch[0], home) {
		t.Fatalf("Watch = %v, want one pattern under HOME", cfg.Watch)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
poll_seconds = 0
flag_cache = ""
flag_cache_path = "   "
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.PollSeconds != def.PollSeconds || cfg.FlagCache != def.FlagCache || cfg.FlagCachePath != def.FlagCachePath {
		t.Fatalf("cfg = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `poll_seconds = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown cache", `flag_cache = "redis"`},
		{"feature without key", "[[features]]\ntitle = \"x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
		})
	}
}

func TestColorSupported(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		color bool
		want  bool
	}{
		{"config only", nil, true, true},
		{"nothing set", nil, false, false},
		{"env true", map[string]string{"COLORIZED_OUTPUT": "TRUE"}, false, true},
		{"env false beats config", map[string]string{"COLORIZED_OUTPUT": "false"}, true, false},
		{"mixed case name", map[string]string{"Colorized_Output": "true"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"COLORIZED_OUTPUT", "Colorized_Output"} {
				t.Setenv(name, "")
				_ = os.Unsetenv(name)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := (Config{Color: tt.color}).ColorSupported(); got != tt.want {
				t.Fatalf("ColorSupported = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLoad_WatchBackfill(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, "watch = [\"/var/log/app.log\"]\nwatch_backfill = 50\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WatchBackfill != 50 {
		t.Fatalf("WatchBackfill = %d, want 50", cfg.WatchBackfill)
	}

	cfg, err = Load(writeConfig(t, "watch_backfill = -3\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WatchBackfill != 0 {
		t.Fatalf("negative WatchBackfill = %d, want 0", cfg.WatchBackfill)
	}
}
