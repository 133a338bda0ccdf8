// Package capture connects a host application's existing outputs to the
// inspector's stores.
//
//   - Transport wraps an http.RoundTripper and records each request with
//     its call site, headers and bodies. Response bodies are copied as the
//     host reads them, so streams are never held back.
//   - Writer is an io.Writer for log.SetOutput; every line becomes an entry.
//   - SlogHandler does the same for log/slog, keeping attributes as a
//     structured value.
//   - Watcher tails plain-text log files matched by glob patterns.
//
// None of these fail the host: capture problems are logged and the
// original traffic or output goes through unchanged.
package capture
