// Package state holds the host application state shown on the State tab.
//
// # Overview
//
// The host publishes whatever it wants to inspect (a session, a cache
// summary, the results of its last health probes) as any JSON-encodable
// value. The Store converts it to an immutable jsontree.Value at publish
// time, so later mutations by the host never leak into the display.
//
// # Architecture
//
//	Producer (host / poller):      Consumer (UI):
//	┌──────────────────┐          ┌──────────────────┐
//	│ build state      │          │                  │
//	│      ↓           │          │                  │
//	│ store.Publish(v) │─────────→│ store.Snapshot() │
//	│      ↓           │ (mutex + │      ↓           │
//	│  repeat...       │  notify) │  render tree     │
//	└──────────────────┘          └──────────────────┘
//
// # Update Semantics
//
//	// Success case: replace the value
//	store.Update(v, nil)
//	→ snapshot.Value = jsontree.FromValue(v)
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error case: keep the old value, record the error
//	store.Update(nil, err)
//	→ snapshot.Value = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Publish(v) is shorthand for Update(v, nil). Values that cannot be encoded
// become null rather than failing.
//
// # Concurrency Model
//
// Update takes the write lock only to swap fields; JSON conversion happens
// before the lock is taken. Snapshot takes the read lock and copies the
// error so callers never share it. Subscribe delivers a coalesced signal
// after each update, so the UI redraws without polling.
//
// # Testing Considerations
//
// The zero Store is ready to use and its Snapshot holds a null value with
// HasValue false.
package state
