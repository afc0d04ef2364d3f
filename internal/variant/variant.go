// Package variant describes a runtime adapter: its closed command registry,
// its global markers, its startup phase and its output conventions.
package variant

import (
	"github.com/jandubois/injector-probe/internal/command"
	"github.com/jandubois/injector-probe/internal/marker"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/startup"
)

// Stream selects standard output or standard error.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Conventions captures how a runtime's test application writes its output.
type Conventions struct {
	// Terminator is written after a successful result.
	Terminator string

	MissingStream Stream
	MissingPrefix string

	UnknownStream Stream
	UnknownPrefix string
}

// Variant is one runtime adapter.
type Variant struct {
	Name        string
	Description string
	Version     string

	Commands *command.Registry

	// NewGlobals returns a fresh marker registry for one invocation, or nil
	// when the runtime has no in-process global state the probe reads.
	NewGlobals func() *marker.Registry

	// Startup runs the runtime's bootstrap before dispatch.
	Startup func(ctx startup.Context) error

	Conventions
}

// Globals returns a fresh marker registry for one invocation.
func (v *Variant) Globals() *marker.Registry {
	if v.NewGlobals == nil {
		return nil
	}
	return v.NewGlobals()
}

// GetDescription returns the variant's self-description.
func (v *Variant) GetDescription() probe.Description {
	desc := probe.Description{
		Name:        v.Name,
		Description: v.Description,
		Version:     v.Version,
	}
	for _, s := range v.Globals().Slots() {
		desc.Markers = append(desc.Markers, s.Name)
	}
	for _, c := range v.Commands.Commands() {
		desc.Commands = append(desc.Commands, c.Spec())
	}
	return desc
}
