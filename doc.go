// Package debugview is an in-process inspector for a running Go program. It
// captures outgoing HTTP requests, log statements, published application
// state and feature flags, and shows them in a terminal UI with one tab each.
//
// # Capture
//
// An Inspector owns the stores. Hosts feed them from any goroutine; no call
// blocks on formatting or returns an error:
//
//	insp := debugview.New(debugview.Options{Color: true})
//	defer insp.Close()
//
//	insp.Info("starting", cfg)
//	client := &http.Client{Transport: insp.Transport(nil)}
//	log.SetOutput(insp.Writer(debugview.TagDebug))
//	slog.SetDefault(slog.New(insp.SlogHandler(slog.LevelInfo)))
//	insp.PublishState(session)
//
// Requests made outside an http.Client can be recorded by hand with
// BeginRequest and CompleteRequest. A request is identified by the call site
// of BeginRequest and its URL; when the same line has several identical
// requests in flight, completions resolve the most recent one first.
//
// # Inspector UI
//
// Run takes over the terminal until the user quits or the context ends:
//
//	err := insp.Run(ctx, debugview.RunOptions{})
//
// The cmd/debugview program is a standalone host that probes configured
// endpoints and tails log files through the same API.
package debugview
