package debugview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/five82/debugview/internal/capture"
	"github.com/five82/debugview/internal/config"
	"github.com/five82/debugview/internal/features"
	"github.com/five82/debugview/internal/logstore"
	"github.com/five82/debugview/internal/prefs"
	"github.com/five82/debugview/internal/pretty"
	"github.com/five82/debugview/internal/requeststore"
	"github.com/five82/debugview/internal/state"
	"github.com/five82/debugview/internal/ui"
)

type (
	// Feature is a runtime toggle shown on the Features tab.
	Feature = features.Feature
	// FeatureCache persists feature overrides.
	FeatureCache = features.Cache
	// Environment is a named base URL the inspector can switch to.
	Environment = config.Environment
)

// Options configures an Inspector.
type Options struct {
	// Color reports whether the host terminal renders escape codes.
	Color bool
	// Formatter renders logged values. Nil uses colorized JSON.
	Formatter logstore.Formatter
	// Echo receives every log entry as text, in addition to the store.
	Echo io.Writer
	// Now stamps log entries and requests. Defaults to time.Now.
	Now func() time.Time

	Features        []Feature
	FeaturesEnabled bool
	FeatureCache    FeatureCache
	OnFeatureUpdate func(Feature)
}

// Inspector owns one set of stores and the adapters that feed them.
type Inspector struct {
	logs     *logstore.Store
	requests *requeststore.Store
	features *features.Store
	state    *state.Store
	now      func() time.Time
	color    bool
}

// New creates an Inspector with empty stores.
func New(opts Options) *Inspector {
	if opts.Formatter == nil {
		opts.Formatter = pretty.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Inspector{
		logs: logstore.New(logstore.Options{
			Formatter: opts.Formatter,
			Color:     opts.Color,
			Echo:      opts.Echo,
			Now:       opts.Now,
		}),
		requests: requeststore.New(),
		features: features.New(opts.Features, features.Options{
			Enabled:  opts.FeaturesEnabled,
			Cache:    opts.FeatureCache,
			OnUpdate: opts.OnFeatureUpdate,
		}),
		state: &state.Store{},
		now:   opts.Now,
		color: opts.Color,
	}
}

// Logs returns the Log store.
func (i *Inspector) Logs() *logstore.Store { return i.logs }

// Requests returns the Request store.
func (i *Inspector) Requests() *requeststore.Store { return i.requests }

// Features returns the Feature store.
func (i *Inspector) Features() *features.Store { return i.features }

// State returns the store behind the State tab.
func (i *Inspector) State() *state.Store { return i.state }

// IsEnabled reports whether the feature key is on.
func (i *Inspector) IsEnabled(key string) bool {
	return i.features.IsEnabled(key)
}

// PublishState replaces the value shown on the State tab.
func (i *Inspector) PublishState(v any) {
	i.state.Publish(v)
}

// Transport wraps base so every request it carries is recorded. A nil base
// uses http.DefaultTransport.
func (i *Inspector) Transport(base http.RoundTripper) http.RoundTripper {
	return &capture.Transport{Base: base, Recorder: i.requests, Now: i.now}
}

// Writer returns an io.Writer that turns each written line into a log entry
// tagged tag. It suits log.SetOutput.
func (i *Inspector) Writer(tag string) io.Writer {
	return &capture.Writer{Logs: i.logs, Tag: tag}
}

// SlogHandler returns a slog.Handler that appends records at or above level.
func (i *Inspector) SlogHandler(level slog.Leveler) slog.Handler {
	return capture.NewSlogHandler(i.logs, level)
}

// Flush waits until every capture call made so far is visible in the
// stores' snapshots.
func (i *Inspector) Flush() {
	i.logs.Flush()
	i.requests.Flush()
}

// Close stops the stores' writer goroutines after draining them.
func (i *Inspector) Close() {
	i.logs.Close()
	i.requests.Close()
}

// RunOptions configures the terminal inspector.
type RunOptions struct {
	Environments  []Environment
	OnEnvironment func(Environment)

	// ThemeName overrides the theme saved in prefs.
	ThemeName string
	// PrefsPath is the prefs file. Empty uses ~/.config/debugview/prefs.toml.
	PrefsPath string
	PollTick  time.Duration
}

// Run shows the inspector in the terminal until the user quits or ctx is
// cancelled.
func (i *Inspector) Run(ctx context.Context, opts RunOptions) error {
	if i == nil {
		return errors.New("debugview: nil inspector")
	}
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}
	return ui.Run(ui.Options{
		Context:       ctx,
		Logs:          i.logs,
		Requests:      i.requests,
		Features:      i.features,
		State:         i.state,
		Environments:  opts.Environments,
		OnEnvironment: opts.OnEnvironment,
		Color:         i.color,
		PollTick:      opts.PollTick,
		ThemeName:     opts.ThemeName,
		PrefsPath:     opts.PrefsPath,
		Prefs:         userPrefs,
	})
}
