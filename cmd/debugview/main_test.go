package main

import (
	"context"
	"testing"

	"github.com/five82/debugview/internal/app"
)

func execute(t *testing.T, args ...string) (app.Options, error) {
	t.Helper()
	var got app.Options
	cmd := newRootCmd(func(_ context.Context, opts app.Options) error {
		got = opts
		return nil
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestFlags(t *testing.T) {
	opts, err := execute(t, "--config", "/tmp/c.toml", "--prefs", "/tmp/p.toml", "--poll", "5")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := app.Options{ConfigPath: "/tmp/c.toml", PrefsPath: "/tmp/p.toml", PollEvery: 5}
	if opts != want {
		t.Fatalf("options = %+v, want %+v", opts, want)
	}
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("DEBUGVIEW_CONFIG", "/env/config.toml")
	t.Setenv("DEBUGVIEW_POLL", "7")

	opts, err := execute(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if opts.ConfigPath != "/env/config.toml" {
		t.Fatalf("ConfigPath = %q, want /env/config.toml", opts.ConfigPath)
	}
	if opts.PollEvery != 7 {
		t.Fatalf("PollEvery = %d, want 7", opts.PollEvery)
	}
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("DEBUGVIEW_POLL", "7")
	opts, err := execute(t, "--poll", "3")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if opts.PollEvery != 3 {
		t.Fatalf("PollEvery = %d, want 3", opts.PollEvery)
	}
}

func TestNegativePollRejected(t *testing.T) {
	if _, err := execute(t, "--poll", "-1"); err == nil {
		t.Fatal("expected an error for a negative poll interval")
	}
}

func TestRejectsArguments(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Fatal("expected an error for positional arguments")
	}
}
