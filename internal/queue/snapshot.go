package queue

import "sync/atomic"

// Snapshot publishes an immutable slice. The writer replaces the slice as a
// whole; readers get whatever was published last and must not modify it.
type Snapshot[T any] struct {
	p atomic.Pointer[[]T]
}

// Load returns the last published slice, or nil.
func (s *Snapshot[T]) Load() []T {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return nil
}

// Store publishes items.
func (s *Snapshot[T]) Store(items []T) {
	s.p.Store(&items)
}
