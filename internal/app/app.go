package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/five82/debugview"
	"github.com/five82/debugview/internal/capture"
	"github.com/five82/debugview/internal/config"
	"github.com/five82/debugview/internal/features"
	"github.com/five82/debugview/internal/logstore"
	"github.com/five82/debugview/internal/prefs"
	"github.com/five82/debugview/internal/probe"
)

// Options configure the debugview application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/debugview/prefs.toml
	PollEvery  int    // seconds; zero uses the config value
}

// Run boots the inspector until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	cache, closeCache, err := openFlagCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	insp := debugview.New(debugview.Options{
		Color:           cfg.ColorSupported(),
		Features:        cfg.Features,
		FeaturesEnabled: cfg.FeaturesEnabled,
		FeatureCache:    cache,
		OnFeatureUpdate: func(f features.Feature) {
			log.Printf("features: %s set to %v", f.Key, f.Enabled)
		},
	})
	defer insp.Close()

	// The UI owns the terminal; diagnostics go to the Logs tab instead.
	restore := redirectLog(insp.Writer(logstore.TagDebug))
	defer restore()

	env := selectEnvironment(cfg.Environments, userPrefs.Environment)
	client, err := probe.NewClient(env.URL, insp.Transport(nil))
	if err != nil {
		return fmt.Errorf("init probe client: %w", err)
	}

	if len(cfg.Watch) > 0 {
		w, err := capture.NewWatcher(cfg.Watch, insp.Logs())
		if err != nil {
			log.Printf("watch: %v", err)
		} else {
			w.Backfill(cfg.WatchBackfill)
			go w.Start(ctx)
		}
	}

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := &Poller{
		State:    insp.State(),
		Prober:   client,
		Targets:  cfg.Probes,
		Interval: interval,
		Logs:     insp.Logs(),
		Requests: insp.Requests(),
	}
	poller.SetEnvironment(env)
	go poller.Run(ctx)

	return insp.Run(ctx, debugview.RunOptions{
		Environments: cfg.Environments,
		OnEnvironment: func(env config.Environment) {
			if err := client.SetBase(env.URL); err != nil {
				log.Printf("environment %s: %v", env.Name, err)
				return
			}
			poller.SetEnvironment(env)
		},
		ThemeName: cfg.Theme,
		PrefsPath: opts.PrefsPath,
		PollTick:  interval,
	})
}

// selectEnvironment returns the environment saved in prefs, or the first
// configured one.
func selectEnvironment(envs []config.Environment, saved string) config.Environment {
	for _, env := range envs {
		if env.Name == saved {
			return env
		}
	}
	if len(envs) > 0 {
		return envs[0]
	}
	return config.Environment{}
}

// openFlagCache builds the configured feature cache. The returned func
// releases it.
func openFlagCache(cfg config.Config) (features.Cache, func(), error) {
	switch cfg.FlagCache {
	case config.FlagCacheSQLite:
		c, err := features.OpenSQLiteCache(cfg.FlagCachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open flag cache: %w", err)
		}
		return c, func() { _ = c.Close() }, nil
	case config.FlagCacheMemory:
		return &features.MemoryCache{}, func() {}, nil
	default:
		return &features.TOMLCache{Path: cfg.FlagCachePath}, func() {}, nil
	}
}

// redirectLog points the standard logger at w and returns a func that
// restores the previous output and flags.
func redirectLog(w io.Writer) func() {
	prevOut := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(w)
	log.SetFlags(log.Lshortfile)
	return func() {
		if s, ok := w.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}
}
