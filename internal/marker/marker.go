// Package marker provides the process-global marker slots an injected agent
// sets to signal that it ran.
package marker

import (
	"errors"
	"fmt"
)

// ErrUndeclaredMarker is returned when writing a marker the registry does not declare.
var ErrUndeclaredMarker = errors.New("undeclared marker")

// Slot declares a marker a registry exposes.
type Slot struct {
	Name        string
	Description string
}

type entry struct {
	slot  Slot
	value string
	set   bool
}

// Registry is a closed set of marker slots. Reads of undeclared names report
// absence; only an Injector can write.
type Registry struct {
	entries map[string]*entry
	order   []string
}

// NewRegistry creates a registry exposing exactly the given slots.
// It panics on duplicate slot names.
func NewRegistry(slots ...Slot) *Registry {
	r := &Registry{entries: make(map[string]*entry, len(slots))}
	for _, s := range slots {
		if _, ok := r.entries[s.Name]; ok {
			panic("marker: duplicate slot " + s.Name)
		}
		r.entries[s.Name] = &entry{slot: s}
		r.order = append(r.order, s.Name)
	}
	return r
}

// Lookup returns the value of a declared marker. A nil registry has no markers.
func (r *Registry) Lookup(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	e, ok := r.entries[name]
	if !ok || !e.set {
		return "", false
	}
	return e.value, true
}

// Accessor returns a read function bound to one declared slot.
func (r *Registry) Accessor(name string) (func() (string, bool), bool) {
	if r == nil {
		return nil, false
	}
	if _, ok := r.entries[name]; !ok {
		return nil, false
	}
	return func() (string, bool) { return r.Lookup(name) }, true
}

// Slots returns the declared slots in declaration order.
func (r *Registry) Slots() []Slot {
	if r == nil {
		return nil
	}
	slots := make([]Slot, 0, len(r.order))
	for _, name := range r.order {
		slots = append(slots, r.entries[name].slot)
	}
	return slots
}

// Injector returns the write handle handed to the startup phase.
func (r *Registry) Injector() Injector {
	return Injector{r: r}
}

// Injector writes marker slots on behalf of an injected agent.
type Injector struct {
	r *Registry
}

// Set stores value in the named slot.
func (i Injector) Set(name, value string) error {
	if i.r == nil {
		return fmt.Errorf("set %s: %w", name, ErrUndeclaredMarker)
	}
	e, ok := i.r.entries[name]
	if !ok {
		return fmt.Errorf("set %s: %w", name, ErrUndeclaredMarker)
	}
	e.value = value
	e.set = true
	return nil
}
