// Package features is a runtime toggle registry.
//
// The host supplies the list of features at construction. A global gate
// switches the whole store off, in which case every feature reads as
// disabled. Persisted overrides are loaded lazily, once, on first access.
// Every SetEnabled writes the full key to enabled mapping back to the Cache.
//
// Cache failures never reach the caller; they are logged and the in-memory
// value stands. TOMLCache and SQLiteCache are the two on-disk backends.
package features
