// Package ui provides the terminal inspector for debugview.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds the stores it displays and a
// small view model per tab; Update reacts to keys, window size changes and
// store notifications; View renders the header, the command bar and the
// active tab inside a titled box.
//
// # Tabs
//
//   - Network: captured requests, newest first. Pending requests show a
//     spinner; completed rows are green on success and red on failure.
//     Enter opens the detail pane with call site, headers, query
//     parameters and both bodies as JSON trees.
//   - State: the last value published to state.Store as a collapsible
//     tree. The search box takes a JMESPath expression.
//   - Logs: captured entries with tag chips. Hidden tags persist in prefs.
//   - Features: the feature flag list with per-flag toggles and the
//     global on/off gate.
//
// The search box ("/") filters whichever tab is active and is cleared on
// every tab change.
//
// # Event Flow
//
//  1. New subscribes to every store it was given.
//  2. Init starts one waiting command per subscription and one for the
//     offload pool.
//  3. A store signal arrives as changedMsg; the tab's view model is
//     rebuilt from a fresh snapshot and the wait command is re-armed.
//  4. Body decoding runs on the offload pool. Results that are no longer
//     the latest for their slot are dropped.
//
// # Themes
//
// Nightfox, Kanagawa and Slate; T cycles and the choice is saved to prefs.
// JSON and tag colors are derived with go-colorful.
package ui
