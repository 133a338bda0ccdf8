// Package probe polls HTTP endpoints of the host's current environment.
//
// The demo host uses it to generate realistic traffic: every request goes
// through whatever RoundTripper the Client was built with, normally
// capture.Transport, so probes show up in the Network tab. Results are
// published to the State tab as JSON.
//
// Environments are switched at runtime with SetBase; relative target URLs
// resolve against the current one.
package probe
