package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/debugview/internal/jsontree"
	"github.com/five82/debugview/internal/queue"
)

// Snapshot is the host state shown on the State tab.
type Snapshot struct {
	Value               jsontree.Value
	HasValue            bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed refreshes
}

// IsOffline returns true when the host has failed to refresh multiple times
// in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	changes queue.Notifier
}

// Publish replaces the state with v, encoded as JSON. It is Update without
// an error.
func (s *Store) Publish(v any) {
	s.Update(v, nil)
}

// Update replaces the stored value. When err is non-nil the previous value is
// kept but the error is recorded for visibility.
func (s *Store) Update(v any, err error) {
	var value jsontree.Value
	if err == nil {
		value = jsontree.FromValue(v)
	}

	s.mu.Lock()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.Value = value
		s.snapshot.HasValue = true
		s.snapshot.LastError = nil
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures = 0
	}
	s.mu.Unlock()

	s.changes.Notify()
}

// Snapshot returns a copy of the current snapshot. Values are immutable, so
// only the error needs copying.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Subscribe returns a channel signalled after each update, and a func to
// stop listening.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.changes.Subscribe()
}
