// Package nodejs provides the Node.js runtime variant.
package nodejs

import (
	"github.com/jandubois/injector-probe/internal/command"
	"github.com/jandubois/injector-probe/internal/marker"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/startup"
	"github.com/jandubois/injector-probe/internal/variant"
)

// Name is the runtime subcommand name.
const Name = "nodejs"

// AgentLoadedMarker is the global the no-op agent sets when it is preloaded.
const AgentLoadedMarker = "otel_injector_nodejs_no_op_agent_has_been_loaded"

// NoOpAgent is the module name the injector preloads via NODE_OPTIONS.
const NoOpAgent = "no-op-agent.js"

var commands = command.NewRegistry(
	command.Probe("non-existing", "Echo a variable that is never set",
		probe.EnvVar("DOES_NOT_EXIST")),
	command.Probe("existing", "Echo TEST_VAR",
		probe.EnvVar("TEST_VAR")),
	command.Probe("node-options", "Echo NODE_OPTIONS",
		probe.EnvVar("NODE_OPTIONS")),
	command.Probe("node-options-twice", "Echo NODE_OPTIONS twice to detect repeated modification",
		probe.EnvVar("NODE_OPTIONS"), probe.EnvVar("NODE_OPTIONS")),
	command.Probe("verify-auto-instrumentation-agent-has-been-injected", "Echo the global set by the no-op agent",
		probe.GlobalMarker(AgentLoadedMarker)),
	command.Probe("otel-resource-attributes", "Echo OTEL_RESOURCE_ATTRIBUTES",
		probe.EnvVar("OTEL_RESOURCE_ATTRIBUTES")),
	command.Probe("java-tool-options", "Echo JAVA_TOOL_OPTIONS",
		probe.EnvVar("JAVA_TOOL_OPTIONS")),
	command.Probe("dotnet-startup-hooks", "Echo DOTNET_STARTUP_HOOKS",
		probe.EnvVar("DOTNET_STARTUP_HOOKS")),
	command.CustomEnvVar("custom-env-var", "Echo the environment variable named by the next argument",
		"CUSTOM_ENV_VAR"),
)

var agents = startup.NewAgents(startup.Agent{
	Name: NoOpAgent,
	Load: func(ctx startup.Context) error {
		return ctx.Globals.Set(AgentLoadedMarker, "true")
	},
})

// Variant returns the Node.js runtime adapter.
func Variant() *variant.Variant {
	return &variant.Variant{
		Name:        Name,
		Description: "Node.js test application: environment variables and globals set by preloaded modules",
		Version:     "1.0.0",
		Commands:    commands,
		NewGlobals: func() *marker.Registry {
			return marker.NewRegistry(marker.Slot{
				Name:        AgentLoadedMarker,
				Description: "Set to true by the no-op auto-instrumentation agent",
			})
		},
		Startup: Startup,
		Conventions: variant.Conventions{
			MissingStream: variant.Stderr,
			MissingPrefix: "error: ",
			UnknownStream: variant.Stderr,
		},
	}
}

// Startup preloads the modules NODE_OPTIONS requires.
func Startup(ctx startup.Context) error {
	value, _ := ctx.Env.LookupEnv("NODE_OPTIONS")
	fields := startup.Fields(value)
	for _, module := range startup.NodeRequires(fields) {
		if err := agents.Load(ctx, module); err != nil {
			return err
		}
	}
	return nil
}

// GetDescription returns the runtime description.
func GetDescription() probe.Description {
	return Variant().GetDescription()
}
