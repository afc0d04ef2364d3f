// Package dotnet provides the .NET runtime variant.
package dotnet

import (
	"github.com/jandubois/injector-probe/internal/command"
	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/startup"
	"github.com/jandubois/injector-probe/internal/variant"
)

// Name is the runtime subcommand name.
const Name = "dotnet"

// HookLoadedVar is the environment variable the no-op startup hook sets in-process.
const HookLoadedVar = "otel_injector_dotnet_no_op_startup_hook_has_been_loaded"

// NoOpStartupHook is the assembly name the injector adds to DOTNET_STARTUP_HOOKS.
const NoOpStartupHook = "NoOpStartupHook"

var commands = command.NewRegistry(
	command.Probe("verify-startup-hook-has-been-injected", "Echo the variable set by the no-op startup hook",
		probe.EnvVar(HookLoadedVar)),
	command.CustomEnvVar("custom-env-var", "Echo the environment variable named by the next argument",
		"CUSTOM_ENV_VAR"),
)

// Hooks resolve by assembly name, which DotnetStartupHooks already stripped.
var hooks = startup.NewAgents(startup.Agent{
	Name: NoOpStartupHook,
	Load: func(ctx startup.Context) error {
		return ctx.Env.Setenv(HookLoadedVar, "true")
	},
})

// Variant returns the .NET runtime adapter. It has no global markers: the
// startup hook signals through the process environment.
func Variant() *variant.Variant {
	return &variant.Variant{
		Name:        Name,
		Description: ".NET test application: environment variables set by startup hooks",
		Version:     "1.0.0",
		Commands:    commands,
		Startup:     Startup,
		Conventions: variant.Conventions{
			Terminator:    "\n",
			MissingStream: variant.Stdout,
			MissingPrefix: "error: ",
			UnknownStream: variant.Stdout,
			UnknownPrefix: "error: ",
		},
	}
}

// Startup runs the hooks listed in DOTNET_STARTUP_HOOKS.
func Startup(ctx startup.Context) error {
	value, _ := ctx.Env.LookupEnv("DOTNET_STARTUP_HOOKS")
	for _, hook := range startup.DotnetStartupHooks(value) {
		if err := hooks.Load(ctx, hook); err != nil {
			return err
		}
	}
	return nil
}

// GetDescription returns the runtime description.
func GetDescription() probe.Description {
	return Variant().GetDescription()
}
