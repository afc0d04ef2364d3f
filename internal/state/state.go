// Package state reads the process state a probe reports on.
package state

import (
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/docker/go-units"

	"github.com/jandubois/injector-probe/internal/marker"
	"github.com/jandubois/injector-probe/internal/probe"
)

// Env is the process environment as seen by probes and startup hooks.
type Env interface {
	LookupEnv(name string) (string, bool)
	Setenv(name, value string) error
	Environ() []string
}

// OSEnv is the real process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(name string) (string, bool) { return os.LookupEnv(name) }
func (OSEnv) Setenv(name, value string) error      { return os.Setenv(name, value) }
func (OSEnv) Environ() []string                    { return os.Environ() }

// MapEnv is an in-memory environment.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m MapEnv) Setenv(name, value string) error {
	m[name] = value
	return nil
}

func (m MapEnv) Environ() []string {
	environ := make([]string, 0, len(m))
	for k, v := range m {
		environ = append(environ, k+"="+v)
	}
	return environ
}

// Process bundles the state one invocation observes.
type Process struct {
	Env     Env
	Globals *marker.Registry
}

// ReadEnvVar reads the named environment variable.
func (p *Process) ReadEnvVar(name string) probe.Result {
	return probe.Observed(p.Env.LookupEnv(name))
}

// ReadGlobalMarker reads the named global marker. Variants without global
// state always observe absence.
func (p *Process) ReadGlobalMarker(name string) probe.Result {
	get, ok := p.Globals.Accessor(name)
	if !ok {
		slog.Debug("global marker not declared", "name", name)
		return probe.None()
	}
	return probe.Observed(get())
}

// Read dispatches on the target kind.
func (p *Process) Read(t probe.Target) probe.Result {
	switch t.Kind {
	case probe.KindGlobalMarker:
		return p.ReadGlobalMarker(t.Name)
	default:
		return p.ReadEnvVar(t.Name)
	}
}

// InjectionPrefixes select the variables an injector is expected to touch.
var InjectionPrefixes = []string{"OTEL_", "NODE_OPTIONS", "JAVA_TOOL_OPTIONS", "DOTNET_", "LD_PRELOAD"}

// Summary describes the size of an environment block.
type Summary struct {
	Vars  int
	Bytes int
}

// Summarize counts the entries of environ and their NUL-terminated size.
func Summarize(environ []string) Summary {
	s := Summary{Vars: len(environ)}
	for _, kv := range environ {
		s.Bytes += len(kv) + 1
	}
	return s
}

// HumanSize renders the byte count the way docker reports sizes.
func (s Summary) HumanSize() string {
	return units.HumanSize(float64(s.Bytes))
}

// Names returns the variable names of environ that start with prefix.
func Names(environ []string, prefix string) []string {
	var names []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// InjectionNames returns the sorted names of environ that match one of
// InjectionPrefixes.
func InjectionNames(environ []string) []string {
	var names []string
	for _, prefix := range InjectionPrefixes {
		names = append(names, Names(environ, prefix)...)
	}
	sort.Strings(names)
	return names
}
