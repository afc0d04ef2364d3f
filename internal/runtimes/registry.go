// Package runtimes provides the built-in runtime variant registry.
package runtimes

import (
	"fmt"

	"github.com/jandubois/injector-probe/internal/probe"
	"github.com/jandubois/injector-probe/internal/runtimes/dotnet"
	"github.com/jandubois/injector-probe/internal/runtimes/jvm"
	"github.com/jandubois/injector-probe/internal/runtimes/nodejs"
	"github.com/jandubois/injector-probe/internal/variant"
)

// All returns every runtime variant.
func All() []*variant.Variant {
	return []*variant.Variant{
		dotnet.Variant(),
		jvm.Variant(),
		nodejs.Variant(),
	}
}

// Get returns the runtime variant with the given name.
func Get(name string) (*variant.Variant, error) {
	for _, v := range All() {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown runtime: %s", name)
}

// GetAllDescriptions returns descriptions of all runtime variants.
func GetAllDescriptions() []probe.Description {
	return []probe.Description{
		dotnet.GetDescription(),
		jvm.GetDescription(),
		nodejs.GetDescription(),
	}
}
