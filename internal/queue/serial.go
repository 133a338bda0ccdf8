package queue

import (
	"log"
	"runtime/debug"
	"sync"
)

// Serial runs submitted work one item at a time, in submission order, on a
// single background goroutine. Enqueue never blocks on the work itself.
type Serial struct {
	name string

	mu      sync.Mutex
	pending []func()
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewSerial starts a serial queue. The name only shows up in panic reports.
func NewSerial(name string) *Serial {
	q := &Serial{
		name: name,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Enqueue schedules fn. It returns false once the queue has been closed.
func (q *Serial) Enqueue(fn func()) bool {
	if fn == nil {
		return true
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Flush blocks until everything enqueued before the call has run.
func (q *Serial) Flush() {
	barrier := make(chan struct{})
	if !q.Enqueue(func() { close(barrier) }) {
		<-q.done
		return
	}
	select {
	case <-barrier:
	case <-q.done:
	}
}

// Close drains pending work and stops the goroutine. Later Enqueue calls are
// rejected. Close is safe to call more than once.
func (q *Serial) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	q.mu.Unlock()
	<-q.done
}

func (q *Serial) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			q.run(fn)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}

func (q *Serial) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s: panic in queued work: %v\n%s", q.name, r, debug.Stack())
		}
	}()
	fn()
}
