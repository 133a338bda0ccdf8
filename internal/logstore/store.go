package logstore

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/debugview/internal/queue"
)

// Placeholder replaces any value the formatter cannot render.
const Placeholder = "<unrepresentable value>"

// Formatter turns an arbitrary value into display text. Colored output uses
// SGR escape sequences.
type Formatter interface {
	Format(v any, colored bool) (string, error)
}

// Displayer is implemented by values that render themselves. The store
// prefers it over the Formatter.
type Displayer interface {
	DisplayString(colored bool) string
}

// Options configures a Store.
type Options struct {
	// Formatter renders logged values. Nil falls back to fmt.Sprint.
	Formatter Formatter
	// Color reports whether the host terminal renders escape codes. When
	// false every entry also carries a plain copy of its message.
	Color bool
	// Echo, when set, receives each entry as text after it is stored.
	Echo io.Writer
	// Now stamps entries. Defaults to time.Now.
	Now func() time.Time
}

// Store is an append-only log of entries. Append may be called from any
// goroutine; formatting and insertion happen on the store's own queue.
type Store struct {
	opts    Options
	q       *queue.Serial
	entries queue.Snapshot[Entry]
	changes queue.Notifier

	// seq is only touched on the queue goroutine.
	seq uint64
}

// New creates a store and starts its writer queue.
func New(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{opts: opts, q: queue.NewSerial("logstore")}
}

// Append formats values and stores them as one entry. It returns without
// waiting for the formatting to finish. Values are read on the writer
// goroutine, so callers must not mutate them afterwards.
func (s *Store) Append(tag string, values []any, comment string, src Source) {
	now := s.opts.Now()
	values = append([]any(nil), values...)
	s.q.Enqueue(func() {
		s.insert(tag, values, comment, src, now)
	})
}

func (s *Store) insert(tag string, values []any, comment string, src Source, now time.Time) {
	s.seq++
	e := Entry{
		ID:        newID(),
		Seq:       s.seq,
		Tag:       tag,
		Message:   s.render(values, true),
		Comment:   comment,
		Timestamp: now,
		Source:    src,
	}
	if !s.opts.Color {
		e.Plain = s.render(values, false)
	}

	// Only this goroutine appends, and readers never look past the length
	// they loaded, so growing the shared backing array in place is safe.
	s.entries.Store(append(s.entries.Load(), e))
	s.changes.Notify()

	if s.opts.Echo != nil {
		line := e.String()
		if s.opts.Color {
			line = e.ColoredString()
		}
		_, _ = fmt.Fprintln(s.opts.Echo, line)
	}
}

func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// render formats and joins values. Multi-line values force newline joins.
func (s *Store) render(values []any, colored bool) string {
	parts := make([]string, len(values))
	multiline := false
	for i, v := range values {
		parts[i] = strings.TrimSuffix(s.formatOne(v, colored), "\n")
		if strings.Contains(parts[i], "\n") {
			multiline = true
		}
	}
	sep := " "
	if multiline {
		sep = "\n"
	}
	return strings.Join(parts, sep)
}

func (s *Store) formatOne(v any, colored bool) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = Placeholder
		}
	}()
	if d, ok := v.(Displayer); ok {
		return d.DisplayString(colored)
	}
	if s.opts.Formatter == nil {
		return fmt.Sprint(v)
	}
	text, err := s.opts.Formatter.Format(v, colored)
	if err != nil {
		return Placeholder
	}
	return text
}

// Snapshot returns the entries stored so far, oldest first. The slice is
// shared and must not be modified.
func (s *Store) Snapshot() []Entry {
	return s.entries.Load()
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries.Load())
}

// Subscribe returns a channel signalled after each new entry, and a func to
// stop listening.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.changes.Subscribe()
}

// Flush waits until every Append issued before the call is visible in
// Snapshot.
func (s *Store) Flush() {
	s.q.Flush()
}

// Close drains pending appends and stops the writer. Appends after Close
// are dropped.
func (s *Store) Close() {
	s.q.Close()
}
