// Package config loads the debugview configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/debugview/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/debugview/config.toml
//   - Poll interval: 2 seconds
//   - Feature gate: on
//   - Flag cache: toml at ~/.local/share/debugview/flags.toml
//     (flags.db when flag_cache = "sqlite")
//
// # TOML Format
//
//	color = true
//	theme = "Kanagawa"
//	poll_seconds = 5
//	features_enabled = true
//	flag_cache = "sqlite"            # toml | sqlite | memory
//	flag_cache_path = "~/flags.db"
//	watch = ["~/app/logs/**/*.log"]
//
//	[[features]]
//	key = "new-checkout"
//	title = "New checkout flow"
//
//	[[environments]]
//	name = "staging"
//	url = "https://staging.example.com"
//
//	[[probes]]
//	method = "GET"
//	url = "/health"
//
// Every field is optional. Tilde expansion is performed on the cache path
// and the watch patterns. Environments without a URL and probes without a
// URL are skipped; features without a key are an error.
//
// # Color Support
//
// ColorSupported resolves the color-support signal once for the process.
// The COLORIZED_OUTPUT environment variable wins when set ("true" in any
// case enables color); otherwise the color field decides.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors and invalid values
//
// Missing config files are NOT an error. The inspector works out of the
// box without configuration.
package config
