// Package command holds the closed command tables the runtime variants dispatch on.
package command

import (
	"github.com/jandubois/injector-probe/internal/probe"
)

// UnknownCommandError is returned by Lookup for a name the registry does not list.
// Its message is part of the output contract with the test harness.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return "unknown test app command: " + e.Command
}

// Command maps a command name to the targets it reads.
type Command struct {
	Name        string
	Description string

	targets  []probe.Target
	fallback string
	param    bool
}

// Probe returns a command that reads the given targets in order.
func Probe(name, description string, targets ...probe.Target) Command {
	return Command{Name: name, Description: description, targets: targets}
}

// CustomEnvVar returns a command that reads the environment variable named by
// its first extra argument, or fallback when no extra argument is given.
func CustomEnvVar(name, description, fallback string) Command {
	return Command{Name: name, Description: description, fallback: fallback, param: true}
}

// Targets returns the targets to read for this invocation.
func (c Command) Targets(extra []string) []probe.Target {
	if c.param {
		name := c.fallback
		if len(extra) > 0 && extra[0] != "" {
			name = extra[0]
		}
		return []probe.Target{probe.EnvVar(name)}
	}
	targets := make([]probe.Target, len(c.targets))
	copy(targets, c.targets)
	return targets
}

// Spec returns the command's self-description.
func (c Command) Spec() probe.CommandSpec {
	spec := probe.CommandSpec{
		Name:          c.Name,
		Description:   c.Description,
		Parameterized: c.param,
	}
	for _, t := range c.Targets(nil) {
		spec.Targets = append(spec.Targets, probe.TargetSpec{Kind: t.Kind, Name: t.Name})
	}
	return spec
}

// Registry is an immutable name -> command table.
type Registry struct {
	byName map[string]Command
	order  []string
}

// NewRegistry builds a registry from cmds. It panics on duplicate names.
func NewRegistry(cmds ...Command) *Registry {
	r := &Registry{byName: make(map[string]Command, len(cmds))}
	for _, c := range cmds {
		if _, ok := r.byName[c.Name]; ok {
			panic("command: duplicate command " + c.Name)
		}
		r.byName[c.Name] = c
		r.order = append(r.order, c.Name)
	}
	return r
}

// Lookup returns the command with exactly this name.
func (r *Registry) Lookup(name string) (Command, error) {
	c, ok := r.byName[name]
	if !ok {
		return Command{}, &UnknownCommandError{Command: name}
	}
	return c, nil
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	cmds := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.byName[name])
	}
	return cmds
}

// Names returns the registered command names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
