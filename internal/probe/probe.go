package probe

import "strings"

// Kind identifies which kind of process state a target refers to.
type Kind string

const (
	KindEnvVar       Kind = "env"
	KindGlobalMarker Kind = "global"
)

// Absent is printed in place of a value when the target is unset or empty.
const Absent = "-"

// Separator joins the fragments of a command that observes more than one target.
const Separator = "; "

// Target names the piece of process state a probe reads.
type Target struct {
	Kind Kind
	Name string
}

// EnvVar returns a target for the named environment variable.
func EnvVar(name string) Target {
	return Target{Kind: KindEnvVar, Name: name}
}

// GlobalMarker returns a target for the named process-global marker.
func GlobalMarker(name string) Target {
	return Target{Kind: KindGlobalMarker, Name: name}
}

// Result is the optional value observed for a target.
// The zero value is an absent result.
type Result struct {
	value   string
	present bool
}

// Some returns a present result. An empty value collapses to None: output
// for a variable set to "" is identical to output for an unset one.
func Some(value string) Result {
	if value == "" {
		return None()
	}
	return Result{value: value, present: true}
}

// None returns an absent result.
func None() Result {
	return Result{}
}

// Observed converts a lookup in the style of os.LookupEnv into a Result.
func Observed(value string, ok bool) Result {
	if !ok {
		return None()
	}
	return Some(value)
}

// Value returns the observed value and whether it was present.
func (r Result) Value() (string, bool) {
	return r.value, r.present
}

// Present reports whether a non-empty value was observed.
func (r Result) Present() bool {
	return r.present
}

// Format renders a result as "name: value", or "name: -" when absent.
func Format(name string, r Result) string {
	value, ok := r.Value()
	if !ok {
		value = Absent
	}
	return name + ": " + value
}

// Join concatenates formatted fragments with Separator.
func Join(fragments ...string) string {
	return strings.Join(fragments, Separator)
}

// Description is the self-description format for a runtime variant.
type Description struct {
	Name        string        `json:"name" toml:"name"`
	Description string        `json:"description" toml:"description"`
	Version     string        `json:"version" toml:"version"`
	Markers     []string      `json:"markers,omitempty" toml:"markers,omitempty"`
	Commands    []CommandSpec `json:"commands" toml:"commands"`
}

// CommandSpec describes a single command of a variant's registry.
type CommandSpec struct {
	Name          string       `json:"name" toml:"name"`
	Description   string       `json:"description" toml:"description"`
	Targets       []TargetSpec `json:"targets,omitempty" toml:"targets,omitempty"`
	Parameterized bool         `json:"parameterized,omitempty" toml:"parameterized,omitempty"`
}

// TargetSpec describes a target a command reads.
type TargetSpec struct {
	Kind Kind   `json:"kind" toml:"kind"`
	Name string `json:"name" toml:"name"`
}
