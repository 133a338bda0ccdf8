// Package requeststore tracks outgoing requests from start to completion.
//
// There is no shared handle between the code that sends a request and the
// code that sees its response, so records are correlated by Identity: the
// call site plus the URL. Begin inserts a pending record at the front and
// Complete updates the first match scanning from the front. Two identical
// requests in flight at once therefore resolve last in, first out.
//
// Every mutation replaces the published slice, so a Snapshot never shows a
// half-updated record.
package requeststore
