package app

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"

	"github.com/jandubois/injector-probe/internal/config"
	"github.com/jandubois/injector-probe/internal/dispatch"
	"github.com/jandubois/injector-probe/internal/logging"
	"github.com/jandubois/injector-probe/internal/runtimes"
	"github.com/jandubois/injector-probe/internal/runtimes/dotnet"
	"github.com/jandubois/injector-probe/internal/runtimes/jvm"
	"github.com/jandubois/injector-probe/internal/runtimes/nodejs"
	"github.com/jandubois/injector-probe/internal/state"
	"github.com/jandubois/injector-probe/internal/variant"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"probe-nodejs": func() int { return Main(nodejs.Variant(), os.Args[1:]) },
		"probe-jvm":    func() int { return Main(jvm.Variant(), os.Args[1:]) },
		"probe-dotnet": func() int { return Main(dotnet.Variant(), os.Args[1:]) },
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}

type invocation struct {
	code   int
	stdout string
	stderr string
}

func (i invocation) combined() string {
	return i.stdout + i.stderr
}

func invoke(v *variant.Variant, env state.MapEnv, args ...string) invocation {
	var stdout, stderr bytes.Buffer
	code := Run(v, args, Options{Env: env, Stdout: &stdout, Stderr: &stderr})
	return invocation{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// The protocol properties every runtime variant must satisfy.
func TestProtocol(t *testing.T) {
	for _, v := range runtimes.All() {
		t.Run(v.Name, func(t *testing.T) {
			t.Run("no arguments", func(t *testing.T) {
				got := invoke(v, state.MapEnv{})
				assert.Equal(t, dispatch.ExitFailure, got.code)
				assert.Contains(t, got.combined(), "not enough arguments, the command for the app under test needs to be specifed")
			})

			t.Run("empty command", func(t *testing.T) {
				got := invoke(v, state.MapEnv{}, "")
				assert.Equal(t, dispatch.ExitFailure, got.code)
				assert.Contains(t, got.combined(), "not enough arguments")
			})

			for _, name := range []string{"bogus", "existing-", "CUSTOM-ENV-VAR", "--help"} {
				t.Run("unknown "+name, func(t *testing.T) {
					got := invoke(v, state.MapEnv{}, name)
					assert.Equal(t, dispatch.ExitFailure, got.code)
					assert.Contains(t, got.combined(), "unknown test app command: "+name)
				})
			}

			t.Run("unset variable", func(t *testing.T) {
				got := invoke(v, state.MapEnv{}, "custom-env-var", "V")
				assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: "V: -" + v.Terminator}, got)
			})

			t.Run("set variable", func(t *testing.T) {
				got := invoke(v, state.MapEnv{"V": "X"}, "custom-env-var", "V")
				assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: "V: X" + v.Terminator}, got)
			})

			t.Run("empty variable reads as unset", func(t *testing.T) {
				empty := invoke(v, state.MapEnv{"V": ""}, "custom-env-var", "V")
				unset := invoke(v, state.MapEnv{}, "custom-env-var", "V")
				assert.Equal(t, unset, empty)
			})

			t.Run("fallback variable", func(t *testing.T) {
				got := invoke(v, state.MapEnv{"CUSTOM_ENV_VAR": "c"}, "custom-env-var")
				assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: "CUSTOM_ENV_VAR: c" + v.Terminator}, got)
			})

			t.Run("every command succeeds", func(t *testing.T) {
				for _, name := range v.Commands.Names() {
					got := invoke(v, state.MapEnv{}, name)
					assert.Equal(t, dispatch.ExitOK, got.code, name)
					assert.Empty(t, got.stderr, name)
				}
			})
		})
	}
}

func TestNodejs(t *testing.T) {
	v := nodejs.Variant()

	tests := []struct {
		name     string
		env      state.MapEnv
		args     []string
		expected string
	}{
		{"existing", state.MapEnv{"TEST_VAR": "hello"}, []string{"existing"}, "TEST_VAR: hello"},
		{"non-existing", state.MapEnv{}, []string{"non-existing"}, "DOES_NOT_EXIST: -"},
		{"node-options", state.MapEnv{"NODE_OPTIONS": "--foo"}, []string{"node-options"}, "NODE_OPTIONS: --foo"},
		{"node-options-twice", state.MapEnv{"NODE_OPTIONS": "--foo"}, []string{"node-options-twice"}, "NODE_OPTIONS: --foo; NODE_OPTIONS: --foo"},
		{"node-options-twice unset", state.MapEnv{}, []string{"node-options-twice"}, "NODE_OPTIONS: -; NODE_OPTIONS: -"},
		{"otel-resource-attributes", state.MapEnv{"OTEL_RESOURCE_ATTRIBUTES": "k8s.pod.name=x"}, []string{"otel-resource-attributes"}, "OTEL_RESOURCE_ATTRIBUTES: k8s.pod.name=x"},
		{"java-tool-options", state.MapEnv{"JAVA_TOOL_OPTIONS": "-Xmx1g"}, []string{"java-tool-options"}, "JAVA_TOOL_OPTIONS: -Xmx1g"},
		{"dotnet-startup-hooks", state.MapEnv{}, []string{"dotnet-startup-hooks"}, "DOTNET_STARTUP_HOOKS: -"},
		{
			"agent not injected",
			state.MapEnv{},
			[]string{"verify-auto-instrumentation-agent-has-been-injected"},
			nodejs.AgentLoadedMarker + ": -",
		},
		{
			"agent injected",
			state.MapEnv{"NODE_OPTIONS": "--require /__otel_auto_instrumentation/no-op-agent.js"},
			[]string{"verify-auto-instrumentation-agent-has-been-injected"},
			nodejs.AgentLoadedMarker + ": true",
		},
		{
			"marker is not read from the environment",
			state.MapEnv{nodejs.AgentLoadedMarker: "true"},
			[]string{"verify-auto-instrumentation-agent-has-been-injected"},
			nodejs.AgentLoadedMarker + ": -",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoke(v, tt.env, tt.args...)
			assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: tt.expected}, got)
		})
	}
}

func TestNodejsErrorStreams(t *testing.T) {
	v := nodejs.Variant()

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stderr: "error: not enough arguments, the command for the app under test needs to be specifed\n",
	}, invoke(v, state.MapEnv{}))

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stderr: "unknown test app command: bogus\n",
	}, invoke(v, state.MapEnv{}, "bogus"))
}

func TestJVM(t *testing.T) {
	v := jvm.Variant()

	tests := []struct {
		name     string
		env      state.MapEnv
		args     []string
		expected string
	}{
		{
			"agent not injected",
			state.MapEnv{},
			[]string{"verify-javaagent-has-been-injected"},
			jvm.AgentLoadedProperty + ": -\n",
		},
		{
			"agent injected",
			state.MapEnv{"JAVA_TOOL_OPTIONS": "-javaagent:/__otel_auto_instrumentation/no-op-agent.jar"},
			[]string{"verify-javaagent-has-been-injected"},
			jvm.AgentLoadedProperty + ": true\n",
		},
		{
			"agent injected next to existing property",
			state.MapEnv{"JAVA_TOOL_OPTIONS": "-javaagent:/opt/no-op-agent.jar -Dsome-property=value"},
			[]string{"verify-javaagent-has-been-injected-and-existing-property-is-still-in-place"},
			jvm.AgentLoadedProperty + ": true; some-property: value\n",
		},
		{
			"existing property lost",
			state.MapEnv{"JAVA_TOOL_OPTIONS": "-javaagent:/opt/no-op-agent.jar"},
			[]string{"verify-javaagent-has-been-injected-and-existing-property-is-still-in-place"},
			jvm.AgentLoadedProperty + ": true; some-property: -\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoke(v, tt.env, tt.args...)
			assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: tt.expected}, got)
		})
	}
}

// Option values carry characters a shell would treat specially. The runtimes
// take them literally, so the agent still loads and nothing is logged.
func TestOptionValuesAreNotShellText(t *testing.T) {
	tests := []struct {
		name     string
		v        *variant.Variant
		env      state.MapEnv
		command  string
		expected string
	}{
		{
			"semicolon in a system property",
			jvm.Variant(),
			state.MapEnv{"JAVA_TOOL_OPTIONS": "-Dfoo=a;b -javaagent:/opt/no-op-agent.jar"},
			"verify-javaagent-has-been-injected",
			jvm.AgentLoadedProperty + ": true\n",
		},
		{
			"dollar sign in a system property",
			jvm.Variant(),
			state.MapEnv{"JAVA_TOOL_OPTIONS": "-Dsome-property=$value"},
			"verify-javaagent-has-been-injected-and-existing-property-is-still-in-place",
			jvm.AgentLoadedProperty + ": -; some-property: $value\n",
		},
		{
			"apostrophe in a node option",
			nodejs.Variant(),
			state.MapEnv{"NODE_OPTIONS": "--require /opt/no-op-agent.js --title=it's"},
			"verify-auto-instrumentation-agent-has-been-injected",
			nodejs.AgentLoadedMarker + ": true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(logging.New(&config.ProbeConfig{
				LogLevel:  config.DefaultLogLevel,
				LogFormat: config.DefaultLogFormat,
			}, &stderr))
			t.Cleanup(func() { slog.SetDefault(prev) })

			code := Run(tt.v, []string{tt.command}, Options{Env: tt.env, Stdout: &stdout, Stderr: &stderr})
			assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: tt.expected},
				invocation{code: code, stdout: stdout.String(), stderr: stderr.String()})
		})
	}
}

func TestJVMErrorStreams(t *testing.T) {
	v := jvm.Variant()

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stderr: "error: not enough arguments, the command for the app under test needs to be specifed\n",
	}, invoke(v, state.MapEnv{}))

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stdout: "error: unknown test app command: bogus\n",
	}, invoke(v, state.MapEnv{}, "bogus"))
}

func TestDotnet(t *testing.T) {
	v := dotnet.Variant()

	got := invoke(v, state.MapEnv{}, "verify-startup-hook-has-been-injected")
	assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: dotnet.HookLoadedVar + ": -\n"}, got)

	env := state.MapEnv{"DOTNET_STARTUP_HOOKS": "/__otel_auto_instrumentation/NoOpStartupHook.dll"}
	got = invoke(v, env, "verify-startup-hook-has-been-injected")
	assert.Equal(t, invocation{code: dispatch.ExitOK, stdout: dotnet.HookLoadedVar + ": true\n"}, got)
}

func TestDotnetErrorStreams(t *testing.T) {
	v := dotnet.Variant()

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stdout: "error: not enough arguments, the command for the app under test needs to be specifed\n",
	}, invoke(v, state.MapEnv{}))

	assert.Equal(t, invocation{
		code:   dispatch.ExitFailure,
		stdout: "error: unknown test app command: bogus\n",
	}, invoke(v, state.MapEnv{}, "bogus"))
}
