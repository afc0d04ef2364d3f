// Package app wires one probe invocation: configuration, logging, the runtime
// startup phase and dispatch.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jandubois/injector-probe/internal/config"
	"github.com/jandubois/injector-probe/internal/dispatch"
	"github.com/jandubois/injector-probe/internal/logging"
	"github.com/jandubois/injector-probe/internal/startup"
	"github.com/jandubois/injector-probe/internal/state"
	"github.com/jandubois/injector-probe/internal/variant"
)

// Options carries the process-level collaborators of an invocation.
type Options struct {
	Env    state.Env
	Stdout io.Writer
	Stderr io.Writer
}

// Main runs v against the real process environment and standard streams.
func Main(v *variant.Variant, args []string) int {
	logging.Setup(config.Load(), os.Stderr)
	return Run(v, args, Options{
		Env:    state.OSEnv{},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}

// Run executes one invocation and returns its exit code.
func Run(v *variant.Variant, args []string, opts Options) int {
	proc := &state.Process{
		Env:     opts.Env,
		Globals: v.Globals(),
	}

	logEnvironment(v, opts.Env)

	if v.Startup != nil {
		ctx := startup.Context{Env: proc.Env, Globals: proc.Globals.Injector()}
		if err := v.Startup(ctx); err != nil {
			// A failing agent must not change what the harness observes.
			slog.Debug("runtime startup failed", "runtime", v.Name, "error", err)
		}
	}

	return dispatch.New(v, proc, opts.Stdout, opts.Stderr).Run(args)
}

func logEnvironment(v *variant.Variant, env state.Env) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	environ := env.Environ()
	summary := state.Summarize(environ)
	slog.Debug("inherited environment",
		"runtime", v.Name,
		"vars", summary.Vars,
		"size", summary.HumanSize(),
	)
	for _, name := range state.InjectionNames(environ) {
		value, _ := env.LookupEnv(name)
		slog.Debug("injection-relevant variable", "name", name, "value", value)
	}
}
