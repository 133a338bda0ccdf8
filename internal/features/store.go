package features

import (
	"log"
	"sync"

	"github.com/five82/debugview/internal/queue"
)

// StorageKey names the persisted mapping in a Cache.
const StorageKey = "features"

// Feature is a toggle the host application can query at runtime.
type Feature struct {
	Key     string `toml:"key"`
	Title   string `toml:"title"`
	Enabled bool   `toml:"enabled"`
}

// Cache persists the key to enabled mapping across restarts.
type Cache interface {
	Load(storageKey string) (map[string]bool, error)
	Save(storageKey string, values map[string]bool) error
}

// Options configures a Store.
type Options struct {
	// Enabled is the global gate. While false every feature reads as off
	// and SetEnabled is ignored.
	Enabled bool
	// Cache persists overrides. Nil keeps everything in memory.
	Cache Cache
	// OnUpdate is called with the feature after each successful SetEnabled.
	OnUpdate func(Feature)
}

// Store is a small toggle registry, safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	features []Feature
	gate     bool
	loaded   bool
	cache    Cache
	onUpdate func(Feature)

	changes queue.Notifier
}

// New creates a store over the host-supplied feature list.
func New(list []Feature, opts Options) *Store {
	return &Store{
		features: append([]Feature(nil), list...),
		gate:     opts.Enabled,
		cache:    opts.Cache,
		onUpdate: opts.OnUpdate,
	}
}

// Gate reports whether the store is switched on.
func (s *Store) Gate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gate
}

// SetGate switches the whole store on or off.
func (s *Store) SetGate(on bool) {
	s.mu.Lock()
	s.gate = on
	s.mu.Unlock()
	s.changes.Notify()
}

// IsEnabled reports whether key is on. Unknown keys are off.
func (s *Store) IsEnabled(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gate {
		return false
	}
	s.loadLocked()
	for _, f := range s.features {
		if f.Key == key {
			return f.Enabled
		}
	}
	return false
}

// SetEnabled turns key on or off and persists every flag. Unknown keys and
// calls made while the gate is off are ignored.
func (s *Store) SetEnabled(enabled bool, key string) {
	s.mu.Lock()
	if !s.gate {
		s.mu.Unlock()
		return
	}
	s.loadLocked()
	idx := -1
	for i := range s.features {
		if s.features[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.features[idx].Enabled = enabled
	updated := s.features[idx]
	s.saveLocked()
	onUpdate := s.onUpdate
	s.mu.Unlock()

	s.changes.Notify()
	if onUpdate != nil {
		onUpdate(updated)
	}
}

// Toggle flips key and returns its new state.
func (s *Store) Toggle(key string) bool {
	next := !s.IsEnabled(key)
	s.SetEnabled(next, key)
	return s.IsEnabled(key)
}

// List returns a copy of the features with persisted overrides applied.
func (s *Store) List() []Feature {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return append([]Feature(nil), s.features...)
}

// Subscribe returns a channel signalled after each change, and a func to
// stop listening.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.changes.Subscribe()
}

func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.cache == nil {
		return
	}
	values, err := s.cache.Load(StorageKey)
	if err != nil {
		log.Printf("features: load cache: %v", err)
		return
	}
	for i := range s.features {
		if v, ok := values[s.features[i].Key]; ok {
			s.features[i].Enabled = v
		}
	}
}

func (s *Store) saveLocked() {
	if s.cache == nil {
		return
	}
	values := make(map[string]bool, len(s.features))
	for _, f := range s.features {
		values[f.Key] = f.Enabled
	}
	if err := s.cache.Save(StorageKey, values); err != nil {
		log.Printf("features: save cache: %v", err)
	}
}
