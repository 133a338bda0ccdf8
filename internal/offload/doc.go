// Package offload moves slow formatting work off the UI goroutine.
//
// Each submission names a slot, the place its result will be displayed.
// Submitting again to the same slot cancels the older work and bumps the
// slot's token; only the newest submission's result is ever delivered.
//
//	UI goroutine              Pool                     Results()
//	------------              ----                     ---------
//	Submit("body", f1) -----> run f1 (token 7)
//	Submit("body", f2) -----> cancel f1, run f2 (8)
//	                          f1 finishes: stale, drop
//	                          f2 finishes: current ----> Result{body, 8}
//	IsCurrent(r) <------------------------------------------+
//
// A consumer must still check IsCurrent on receipt, because a new Submit
// can happen between the send and the receive.
package offload
