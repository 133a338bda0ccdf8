// Package logstore keeps the inspector's log entries.
//
// Producers call Append from any goroutine. Each call is queued on the
// store's serial writer, which formats the values, stamps an Entry and
// publishes a new snapshot. Readers call Snapshot and get an immutable,
// oldest-first slice that never changes underneath them.
//
// Values are rendered through an injected Formatter. Values that implement
// Displayer render themselves instead. Rendering never fails: errors and
// panics produce Placeholder.
//
// When the terminal does not support color, each entry carries a plain copy
// of its message as well as the colorized one.
package logstore
