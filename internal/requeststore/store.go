package requeststore

import (
	"strings"
	"time"

	"github.com/five82/debugview/internal/queue"
)

// Store holds request records, most recent first. Begin, Complete and Clear
// may be called from any goroutine; they are applied in order on the store's
// writer queue.
type Store struct {
	q       *queue.Serial
	records queue.Snapshot[Record]
	changes queue.Notifier
}

// New creates a store and starts its writer queue.
func New() *Store {
	return &Store{q: queue.NewSerial("requeststore")}
}

// Begin records a new pending request at the front of the list.
func (s *Store) Begin(id Identity, req Request, requestedAt time.Time) {
	s.q.Enqueue(func() {
		cur := s.records.Load()
		next := make([]Record, 0, len(cur)+1)
		next = append(next, Record{ID: id, Request: req, RequestedAt: requestedAt})
		next = append(next, cur...)
		s.publish(next)
	})
}

// Complete fills in the outcome of the most recent record with a matching
// identity. If there is none, Complete does nothing.
func (s *Store) Complete(id Identity, resp *Response, errMsg string, completedAt time.Time) {
	s.q.Enqueue(func() {
		cur := s.records.Load()
		for i := range cur {
			if cur[i].ID != id {
				continue
			}
			next := make([]Record, len(cur))
			copy(next, cur)
			next[i].Response = resp
			next[i].Error = errMsg
			next[i].CompletedAt = completedAt
			s.publish(next)
			return
		}
	})
}

// Clear removes every record.
func (s *Store) Clear() {
	s.q.Enqueue(func() {
		s.publish(nil)
	})
}

func (s *Store) publish(records []Record) {
	s.records.Store(records)
	s.changes.Notify()
}

// Snapshot returns the current records, most recent first. The slice is
// shared and must not be modified.
func (s *Store) Snapshot() []Record {
	return s.records.Load()
}

// Len reports the number of records.
func (s *Store) Len() int {
	return len(s.records.Load())
}

// Subscribe returns a channel signalled after each change, and a func to
// stop listening.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.changes.Subscribe()
}

// Flush waits until every call issued before it has been applied.
func (s *Store) Flush() {
	s.q.Flush()
}

// Close drains pending calls and stops the writer.
func (s *Store) Close() {
	s.q.Close()
}

// Filter keeps records whose path and method contain query, ignoring case.
// An empty query keeps everything.
func Filter(records []Record, query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.FilterText()), q) {
			out = append(out, r)
		}
	}
	return out
}
