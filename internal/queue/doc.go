// Package queue provides the single-writer plumbing shared by the capture
// stores.
//
// # Overview
//
// Every store that accepts records from arbitrary goroutines owns exactly one
// Serial queue. Producers enqueue a closure and return immediately; the
// queue's goroutine runs closures one at a time in submission order, so the
// store's mutable state is only ever touched from that goroutine.
//
// Readers never take the writer's lock. After each mutation the writer
// publishes a fresh immutable slice through a Snapshot, and readers load it
// atomically. A reader therefore sees either the state before a mutation or
// the state after it, never a partial update.
//
//	Producer A ──┐
//	Producer B ──┼──> Serial (one goroutine) ──> Snapshot.Store ──> Notifier.Notify
//	Producer C ──┘                                     │
//	                                                   └──> UI: Snapshot.Load
//
// # Ordering
//
// Closures from one producer run in the order that producer enqueued them.
// Closures from different producers interleave in arrival order, which is
// otherwise unspecified.
//
// # Notifications
//
// Notifier delivers coalescing change signals. Each subscriber owns a
// channel with a buffer of one; a burst of changes collapses into a single
// pending signal, so a slow subscriber never blocks the writer.
//
// # Tests
//
// Flush is a barrier: it returns once everything enqueued before it has run.
// Tests use it instead of sleeping.
package queue
