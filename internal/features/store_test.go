package features

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type failingCache struct {
	loads int
	saves int
}

func (c *failingCache) Load(string) (map[string]bool, error) {
	c.loads++
	return nil, errors.New("disk gone")
}

func (c *failingCache) Save(string, map[string]bool) error {
	c.saves++
	return errors.New("disk gone")
}

type countingCache struct {
	MemoryCache
	loads int
}

func (c *countingCache) Load(key string) (map[string]bool, error) {
	c.loads++
	return c.MemoryCache.Load(key)
}

func sampleFeatures() []Feature {
	return []Feature{
		{Key: "checkout", Title: "New checkout"},
		{Key: "dark", Title: "Dark mode", Enabled: true},
	}
}

func TestIsEnabled_GateOff(t *testing.T) {
	s := New(sampleFeatures(), Options{Enabled: false})
	if s.IsEnabled("dark") {
		t.Fatal("IsEnabled(dark) = true with gate off")
	}
	s.SetEnabled(true, "checkout")
	s.SetGate(true)
	if s.IsEnabled("checkout") {
		t.Fatal("SetEnabled applied while gate was off")
	}
	if !s.IsEnabled("dark") {
		t.Fatal("IsEnabled(dark) = false, want default true once gate is on")
	}
}

func TestSetEnabled_PersistsAndNotifies(t *testing.T) {
	cache := &MemoryCache{}
	var updates []Feature
	s := New(sampleFeatures(), Options{
		Enabled:  true,
		Cache:    cache,
		OnUpdate: func(f Feature) { updates = append(updates, f) },
	})

	ch, cancel := s.Subscribe()
	defer cancel()

	s.SetEnabled(true, "checkout")
	if !s.IsEnabled("checkout") {
		t.Fatal("IsEnabled(checkout) = false after SetEnabled(true)")
	}

	want := []Feature{{Key: "checkout", Title: "New checkout", Enabled: true}}
	if !reflect.DeepEqual(updates, want) {
		t.Fatalf("updates = %+v, want %+v", updates, want)
	}

	stored, _ := cache.Load(StorageKey)
	if !reflect.DeepEqual(stored, map[string]bool{"checkout": true, "dark": true}) {
		t.Fatalf("stored = %v, want full mapping", stored)
	}

	select {
	case <-ch:
	default:
		t.Fatal("no change signal")
	}
}

func TestSetEnabled_UnknownKeyIgnored(t *testing.T) {
	cache := &MemoryCache{}
	called := false
	s := New(sampleFeatures(), Options{Enabled: true, Cache: cache, OnUpdate: func(Feature) { called = true }})

	s.SetEnabled(true, "missing")
	if called {
		t.Fatal("OnUpdate called for unknown key")
	}
	if s.IsEnabled("missing") {
		t.Fatal("IsEnabled(missing) = true")
	}
	if stored, _ := cache.Load(StorageKey); len(stored) != 0 {
		t.Fatalf("stored = %v, want nothing saved", stored)
	}
}

func TestLoad_OverridesAppliedOnce(t *testing.T) {
	cache := &countingCache{}
	_ = cache.Save(StorageKey, map[string]bool{"checkout": true, "dark": false, "stale": true})

	s := New(sampleFeatures(), Options{Enabled: true, Cache: cache})
	if !s.IsEnabled("checkout") || s.IsEnabled("dark") {
		t.Fatalf("overrides not applied: %+v", s.List())
	}
	s.IsEnabled("dark")
	s.List()
	s.SetEnabled(true, "dark")
	if cache.loads != 1 {
		t.Fatalf("loads = %d, want 1", cache.loads)
	}
	if s.IsEnabled("stale") {
		t.Fatal("cached key without a feature became enabled")
	}
}

func TestCacheFailuresIgnored(t *testing.T) {
	cache := &failingCache{}
	s := New(sampleFeatures(), Options{Enabled: true, Cache: cache})

	if !s.IsEnabled("dark") {
		t.Fatal("in-memory default lost after load failure")
	}
	s.SetEnabled(true, "checkout")
	if !s.IsEnabled("checkout") {
		t.Fatal("in-memory value lost after save failure")
	}
	if cache.loads != 1 || cache.saves != 1 {
		t.Fatalf("loads, saves = %d, %d, want 1, 1", cache.loads, cache.saves)
	}
}

func TestToggle(t *testing.T) {
	s := New(sampleFeatures(), Options{Enabled: true})
	if !s.Toggle("checkout") {
		t.Fatal("Toggle(checkout) = false, want true")
	}
	if s.Toggle("checkout") {
		t.Fatal("second Toggle(checkout) = true, want false")
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New(sampleFeatures(), Options{Enabled: true})
	list := s.List()
	list[0].Enabled = true
	if s.IsEnabled("checkout") {
		t.Fatal("mutating List result changed the store")
	}
}

func TestTOMLCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flags.toml")
	c := &TOMLCache{Path: path}

	empty, err := c.Load(StorageKey)
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Load missing file = %v, want empty", empty)
	}

	values := map[string]bool{"plain": true, "with space": false, "dotted.key": true}
	if err := c.Save(StorageKey, values); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save("other", map[string]bool{"x": true}); err != nil {
		t.Fatalf("Save other: %v", err)
	}

	reopened := &TOMLCache{Path: path}
	got, err := reopened.Load(StorageKey)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("Load = %v, want %v", got, values)
	}
}

func TestTOMLCache_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c := &TOMLCache{Path: "~/.config/debugview/flags.toml"}
	if err := c.Save(StorageKey, map[string]bool{"a": true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".config", "debugview", "flags.toml")); err != nil {
		t.Fatalf("cache file not under HOME: %v", err)
	}
}

func TestTOMLCache_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	c := &TOMLCache{Path: path}
	if _, err := c.Load(StorageKey); err == nil {
		t.Fatal("Load corrupt file: want error")
	}

	s := New(sampleFeatures(), Options{Enabled: true, Cache: c})
	if !s.IsEnabled("dark") {
		t.Fatal("store lost defaults over a corrupt cache")
	}
}

func TestSQLiteCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.db")
	c, err := OpenSQLiteCache(path)
	if err != nil {
		t.Fatalf("OpenSQLiteCache: %v", err)
	}

	values := map[string]bool{"a": true, "b": false, "ключ": true}
	if err := c.Save(StorageKey, values); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.Save(StorageKey, map[string]bool{"a": false}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(StorageKey)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, map[string]bool{"a": false}) {
		t.Fatalf("Load = %v, want only the last saved mapping", got)
	}

	s := New(sampleFeatures(), Options{Enabled: true, Cache: reopened})
	s.SetEnabled(true, "checkout")
	again, _ := reopened.Load(StorageKey)
	if !again["checkout"] || !again["dark"] {
		t.Fatalf("stored = %v, want checkout and dark enabled", again)
	}
}
