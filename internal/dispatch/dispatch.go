// Package dispatch runs a single probe invocation: argument parsing, command
// lookup, observation and output.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jandubois/injector-probe/internal/command"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/state"
	"github.com/jandubois/injector-probe/internal/variant"
)

// Exit codes reported to the harness.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ErrMissingCommand is returned when no command argument is given. The
// message, spelling included, is matched by the harness.
var ErrMissingCommand = errors.New("not enough arguments, the command for the app under test needs to be specifed")

// Dispatcher maps a command line to one observation of process state.
type Dispatcher struct {
	variant *variant.Variant
	process *state.Process
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a Dispatcher for one invocation.
func New(v *variant.Variant, p *state.Process, stdout, stderr io.Writer) *Dispatcher {
	return &Dispatcher{
		variant: v,
		process: p,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Resolve parses args and looks up the command. It returns the remaining
// arguments for parameterized commands.
func (d *Dispatcher) Resolve(args []string) (command.Command, []string, error) {
	if len(args) == 0 || args[0] == "" {
		return command.Command{}, nil, ErrMissingCommand
	}
	c, err := d.variant.Commands.Lookup(args[0])
	if err != nil {
		return command.Command{}, nil, err
	}
	return c, args[1:], nil
}

// Observe reads every target of c and renders the output line without terminator.
func (d *Dispatcher) Observe(c command.Command, extra []string) string {
	targets := c.Targets(extra)
	fragments := make([]string, 0, len(targets))
	for _, t := range targets {
		r := d.process.Read(t)
		slog.Debug("observed target", "kind", t.Kind, "name", t.Name, "present", r.Present())
		fragments = append(fragments, probe.Format(t.Name, r))
	}
	return probe.Join(fragments...)
}

// Run executes one invocation and returns the process exit code.
func (d *Dispatcher) Run(args []string) int {
	c, extra, err := d.Resolve(args)
	if err != nil {
		d.fail(err)
		return ExitFailure
	}

	slog.Debug("dispatching command", "runtime", d.variant.Name, "command", c.Name)
	if _, err := io.WriteString(d.stdout, d.Observe(c, extra)+d.variant.Terminator); err != nil {
		slog.Error("failed to write result", "command", c.Name, "error", err)
		return ExitFailure
	}
	return ExitOK
}

func (d *Dispatcher) fail(err error) {
	stream, prefix := d.variant.MissingStream, d.variant.MissingPrefix
	var unknown *command.UnknownCommandError
	if errors.As(err, &unknown) {
		stream, prefix = d.variant.UnknownStream, d.variant.UnknownPrefix
	}

	w := d.stdout
	if stream == variant.Stderr {
		w = d.stderr
	}
	if _, werr := fmt.Fprintln(w, prefix+err.Error()); werr != nil {
		slog.Error("failed to write error", "stream", stream, "error", werr)
	}
}
