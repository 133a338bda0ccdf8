// Package app is the composition root of the debugview command.
//
// # Overview
//
// Run wires configuration, the feature cache, the capture adapters and the
// poller around one debugview.Inspector, then hands the terminal to the UI.
// The command is its own host: everything it does shows up in the inspector
// it runs.
//
// # Startup
//
//  1. Load ~/.config/debugview/config.toml and the prefs file
//  2. Open the flag cache named by flag_cache (toml, sqlite or memory)
//  3. Create the Inspector and point the standard logger at its Logs tab
//  4. Build a probe client on capture.Transport for the saved environment
//  5. Start the file watcher when watch patterns are configured
//  6. Start the poller and run the UI until the user quits
//
// # Polling
//
// Each round probes the configured targets and publishes one document to
// the State tab:
//
//	{
//	  "environment": {"name": ..., "url": ...},
//	  "probes":      [ probe results ],
//	  "runtime":     {"goroutines": ..., "heap_alloc": ..., "uptime": ...}
//	}
//
// A failed round keeps the previous document and records the error; two
// failures in a row mark the header OFFLINE. Consecutive failures back off
// exponentially from the poll interval up to 30 seconds. Switching the
// environment in the UI re-targets the client and refreshes at once.
//
// # Error Handling
//
// Configuration and flag cache errors are fatal and returned from Run.
// Probe and watcher failures are logged with the standard log package,
// which while the UI runs means they appear as DEBUG entries in the Logs tab.
package app
