package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/five82/debugview/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(app.Run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "debugview: %v\n", err)
		return 1
	}
	return 0
}

// newRootCmd builds the command line. Every flag can also be set with a
// DEBUGVIEW_ environment variable; flags win.
func newRootCmd(runApp func(context.Context, app.Options) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("debugview")
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "debugview",
		Short: "Inspect requests, logs, state and feature flags in the terminal",
		Long: `debugview probes the endpoints listed in its config through a capturing
HTTP transport, tails the configured log files, and shows everything it
captured in a terminal inspector.

Configuration is read from ~/.config/debugview/config.toml.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(v)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "config file (default ~/.config/debugview/config.toml)")
	flags.String("prefs", "", "prefs file (default ~/.config/debugview/prefs.toml)")
	flags.Int("poll", 0, "refresh interval in seconds (default from config, 2s)")
	for _, name := range []string{"config", "prefs", "poll"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}

func resolveOptions(v *viper.Viper) (app.Options, error) {
	poll := v.GetInt("poll")
	if poll < 0 {
		return app.Options{}, fmt.Errorf("poll must not be negative, got %d", poll)
	}
	return app.Options{
		ConfigPath: v.GetString("config"),
		PrefsPath:  v.GetString("prefs"),
		PollEvery:  poll,
	}, nil
}
