package offload

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("offload: pool closed")

// Func is the work to run. It should stop early once ctx is done.
type Func func(ctx context.Context) (any, error)

// Result carries the outcome of one submission.
type Result struct {
	Slot  string
	Token uint64
	Value any
	Err   error
}

// Pool runs expensive work off the caller's goroutine with bounded
// concurrency. Work is grouped by slot, a name for the display area the
// result will fill. Submitting to a slot supersedes anything still running
// for it: the older work is cancelled and its result is never delivered.
type Pool struct {
	sem     chan struct{}
	results chan Result
	done    chan struct{}

	mu      sync.Mutex
	closed  bool
	next    uint64
	latest  map[string]uint64
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a pool running at most workers jobs at once.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		sem:     make(chan struct{}, workers),
		results: make(chan Result),
		done:    make(chan struct{}),
		latest:  make(map[string]uint64),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Results delivers completed work. Only results that were current when sent
// arrive here, but a newer Submit may race the receive, so consumers should
// still check IsCurrent.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Submit schedules fn for slot and returns its token. Tokens increase
// monotonically across the pool. Submit never blocks.
func (p *Pool) Submit(slot string, fn Func) (uint64, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, ErrClosed
	}
	p.next++
	token := p.next
	if cancel, ok := p.cancels[slot]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.latest[slot] = token
	p.cancels[slot] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(ctx, slot, token, fn)
	return token, nil
}

// Cancel drops whatever is pending for slot.
func (p *Pool) Cancel(slot string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cancel, ok := p.cancels[slot]; ok {
		cancel()
		delete(p.cancels, slot)
	}
	p.next++
	p.latest[slot] = p.next
}

// Latest returns the most recent token handed out for slot.
func (p *Pool) Latest(slot string) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest[slot]
}

// IsCurrent reports whether r belongs to the latest submission for its slot.
func (p *Pool) IsCurrent(r Result) bool {
	return p.Latest(r.Slot) == r.Token
}

// Close cancels running work, waits for it to finish and closes Results.
// Pending results are dropped.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, cancel := range p.cancels {
		cancel()
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
	close(p.results)
}

func (p *Pool) run(ctx context.Context, slot string, token uint64, fn Func) {
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return
	case <-p.done:
		return
	}
	value, err := call(ctx, fn)
	<-p.sem

	if ctx.Err() != nil || p.Latest(slot) != token {
		return
	}
	select {
	case p.results <- Result{Slot: slot, Token: token, Value: value, Err: err}:
	case <-ctx.Done():
	case <-p.done:
	}

	p.mu.Lock()
	if p.latest[slot] == token {
		if cancel, ok := p.cancels[slot]; ok {
			cancel()
			delete(p.cancels, slot)
		}
	}
	p.mu.Unlock()
}

func call(ctx context.Context, fn Func) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("offload: panic: %v", r)
		}
	}()
	return fn(ctx)
}
