// Package startup emulates the bootstrap steps through which a runtime loads
// the agents an injector adds to its options environment variables.
package startup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/jandubois/injector-probe/internal/marker"
	"github.com/jandubois/injector-probe/internal/state"
)

// Context is what an agent may touch while the process starts.
type Context struct {
	Env     state.Env
	Globals marker.Injector
}

// Agent is a module, agent jar or startup hook bundled with the probe.
type Agent struct {
	// Name is the file base name the injector refers to the agent by.
	Name string
	Load func(ctx Context) error
}

// Agents resolves agent references by base name.
type Agents map[string]Agent

// NewAgents indexes agents by name.
func NewAgents(agents ...Agent) Agents {
	m := make(Agents, len(agents))
	for _, a := range agents {
		m[a.Name] = a
	}
	return m
}

// Load runs the agent ref resolves to. References that do not name a bundled
// agent are ignored.
func (a Agents) Load(ctx Context, ref string) error {
	agent, ok := a[filepath.Base(ref)]
	if !ok {
		slog.Debug("ignoring agent that is not bundled", "ref", ref)
		return nil
	}
	slog.Debug("loading agent", "name", agent.Name, "ref", ref)
	if err := agent.Load(ctx); err != nil {
		return fmt.Errorf("load agent %s: %w", agent.Name, err)
	}
	return nil
}

// Fields splits an options variable into words on whitespace. Single and
// double quotes group words and a backslash escapes the next character.
// Shell operators and "$" are ordinary characters. A value with an
// unterminated quote falls back to plain whitespace splitting.
func Fields(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	fields, err := shellquote.Split(value)
	if err != nil {
		slog.Debug("splitting options on whitespace", "error", err)
		return strings.Fields(value)
	}
	return fields
}

// NodeRequires returns the modules preloaded by --require / -r options.
func NodeRequires(fields []string) []string {
	var modules []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch {
		case f == "--require" || f == "-r":
			if i+1 < len(fields) {
				modules = append(modules, fields[i+1])
				i++
			}
		case strings.HasPrefix(f, "--require="):
			modules = append(modules, strings.TrimPrefix(f, "--require="))
		}
	}
	return modules
}

// Property is a -Dkey=value system property definition.
type Property struct {
	Key   string
	Value string
}

// JavaAgent is a -javaagent:path[=options] definition.
type JavaAgent struct {
	Path    string
	Options string
}

// JavaOptions is the subset of JAVA_TOOL_OPTIONS the probe honours.
type JavaOptions struct {
	Properties []Property
	Agents     []JavaAgent
}

// ParseJavaOptions extracts system properties and agents in the order given.
func ParseJavaOptions(fields []string) JavaOptions {
	var opts JavaOptions
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "-D"):
			key, value, _ := strings.Cut(strings.TrimPrefix(f, "-D"), "=")
			if key == "" {
				continue
			}
			opts.Properties = append(opts.Properties, Property{Key: key, Value: value})
		case strings.HasPrefix(f, "-javaagent:"):
			path, options, _ := strings.Cut(strings.TrimPrefix(f, "-javaagent:"), "=")
			if path == "" {
				continue
			}
			opts.Agents = append(opts.Agents, JavaAgent{Path: path, Options: options})
		}
	}
	return opts
}

// DotnetStartupHooks splits DOTNET_STARTUP_HOOKS on the path list separator
// and returns the hook names with any .dll suffix removed.
func DotnetStartupHooks(value string) []string {
	var hooks []string
	for _, entry := range strings.Split(value, string(os.PathListSeparator)) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		hooks = append(hooks, strings.TrimSuffix(filepath.Base(entry), ".dll"))
	}
	return hooks
}
