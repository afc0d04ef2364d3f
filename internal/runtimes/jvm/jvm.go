// Package jvm provides the JVM runtime variant.
package jvm

import (
	"errors"
	"log/slog"

	"github.com/jandubois/injector-probe/internal/command"
	"github.com/jandubois/injector-probe/internal/marker"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/startup"
	"github.com/jandubois/injector-probe/internal/variant"
)

// Name is the runtime subcommand name.
const Name = "jvm"

// AgentLoadedProperty is the system property the no-op agent sets in premain.
const AgentLoadedProperty = "otel.injector.jvm.no_op_agent.has_been_loaded"

// ExistingProperty is a property the application defines itself; injecting an
// agent must leave it in place.
const ExistingProperty = "some-property"

// NoOpAgent is the jar name the injector adds via -javaagent.
const NoOpAgent = "no-op-agent.jar"

var commands = command.NewRegistry(
	command.Probe("verify-javaagent-has-been-injected", "Echo the system property set by the no-op agent",
		probe.GlobalMarker(AgentLoadedProperty)),
	command.Probe("verify-javaagent-has-been-injected-and-existing-property-is-still-in-place",
		"Echo the no-op agent property and a pre-existing property",
		probe.GlobalMarker(AgentLoadedProperty), probe.GlobalMarker(ExistingProperty)),
	command.CustomEnvVar("custom-env-var", "Echo the environment variable named by the next argument",
		"CUSTOM_ENV_VAR"),
)

var agents = startup.NewAgents(startup.Agent{
	Name: NoOpAgent,
	Load: func(ctx startup.Context) error {
		return ctx.Globals.Set(AgentLoadedProperty, "true")
	},
})

// Variant returns the JVM runtime adapter.
func Variant() *variant.Variant {
	return &variant.Variant{
		Name:        Name,
		Description: "JVM test application: environment variables and system properties set by java agents",
		Version:     "1.0.0",
		Commands:    commands,
		NewGlobals: func() *marker.Registry {
			return marker.NewRegistry(
				marker.Slot{Name: AgentLoadedProperty, Description: "Set to true by the no-op java agent"},
				marker.Slot{Name: ExistingProperty, Description: "Defined by the application via -D"},
			)
		},
		Startup: Startup,
		Conventions: variant.Conventions{
			Terminator:    "\n",
			MissingStream: variant.Stderr,
			MissingPrefix: "error: ",
			UnknownStream: variant.Stdout,
			UnknownPrefix: "error: ",
		},
	}
}

// Startup applies the -D properties of JAVA_TOOL_OPTIONS and then runs the
// premain of every -javaagent, in order.
func Startup(ctx startup.Context) error {
	value, _ := ctx.Env.LookupEnv("JAVA_TOOL_OPTIONS")
	fields := startup.Fields(value)

	opts := startup.ParseJavaOptions(fields)
	for _, p := range opts.Properties {
		if err := ctx.Globals.Set(p.Key, p.Value); err != nil {
			if errors.Is(err, marker.ErrUndeclaredMarker) {
				slog.Debug("ignoring undeclared system property", "key", p.Key)
				continue
			}
			return err
		}
	}
	for _, a := range opts.Agents {
		if err := agents.Load(ctx, a.Path); err != nil {
			return err
		}
	}
	return nil
}

// GetDescription returns the runtime description.
func GetDescription() probe.Description {
	return Variant().GetDescription()
}
