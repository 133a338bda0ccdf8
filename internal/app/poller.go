package app

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/five82/debugview/internal/config"
	"github.com/five82/debugview/internal/probe"
	"github.com/five82/debugview/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// Counter reports how many records a store holds.
type Counter interface {
	Len() int
}

// Poller probes the configured targets and publishes the outcome, with the
// current environment and process stats, to the State tab.
type Poller struct {
	State    *state.Store
	Prober   probe.Prober
	Targets  []probe.Target
	Interval time.Duration
	Logs     Counter
	Requests Counter

	started time.Time

	mu  sync.Mutex
	env config.Environment

	wakeOnce sync.Once
	wake     chan struct{}
}

// SetEnvironment records env as current and triggers an immediate refresh.
func (p *Poller) SetEnvironment(env config.Environment) {
	p.mu.Lock()
	p.env = env
	p.mu.Unlock()
	p.Trigger()
}

// Trigger asks a running poller to refresh now. It never blocks.
func (p *Poller) Trigger() {
	select {
	case p.wakeChan() <- struct{}{}:
	default:
	}
}

func (p *Poller) wakeChan() chan struct{} {
	p.wakeOnce.Do(func() {
		p.wake = make(chan struct{}, 1)
	})
	return p.wake
}

// Run refreshes until ctx is cancelled. Consecutive failures back off
// exponentially.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if p.started.IsZero() {
		p.started = time.Now()
	}
	wake := p.wakeChan()

	failures := 0
	for {
		if err := p.refresh(ctx); err != nil {
			failures++
		} else {
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// refresh runs one probe round. A failed round keeps the last published
// value and records the error.
func (p *Poller) refresh(ctx context.Context) error {
	var results []probe.Result
	if p.Prober != nil && len(p.Targets) > 0 {
		var err error
		results, err = p.Prober.ProbeAll(ctx, p.Targets)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.State.Update(nil, err)
			log.Printf("poll: %v", err)
			return err
		}
	}
	p.State.Publish(p.document(results))
	return nil
}

// document assembles the published state.
func (p *Poller) document(results []probe.Result) map[string]any {
	p.mu.Lock()
	env := p.env
	p.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	rt := map[string]any{
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"heap_alloc": mem.HeapAlloc,
		"num_gc":     mem.NumGC,
	}
	if !p.started.IsZero() {
		rt["uptime"] = time.Since(p.started).Round(time.Second).String()
	}
	if p.Logs != nil {
		rt["log_entries"] = p.Logs.Len()
	}
	if p.Requests != nil {
		rt["requests"] = p.Requests.Len()
	}

	if results == nil {
		results = []probe.Result{}
	}
	return map[string]any{
		"environment": map[string]string{"name": env.Name, "url": env.URL},
		"probes":      results,
		"runtime":     rt,
	}
}
