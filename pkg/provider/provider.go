// Package provider resolves placeholder keywords to concrete secret
// values. Providers are deliberately narrow: one lookup method and a
// name for error reporting. Add support for a new secrets store by
// registering a factory under a provider name.
package provider

import (
	"github.com/confseed/confseed/pkg/registry"
)

// Provider resolves a placeholder keyword to a value.
type Provider interface {
	// Name identifies the provider in error messages and logs.
	Name() string

	// Get returns the value for a placeholder keyword. A missing
	// keyword is reported with code NOT_FOUND.
	Get(keyword string) (string, error)
}

// Factory creates a provider from the secrets settings it needs.
type Factory func(dir string) (Provider, error)

var factories = registry.New[Factory]()

// Register adds a provider factory under a name.
func Register(name string, factory Factory) error {
	return factories.Register(name, factory)
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	return factories.List()
}

// New creates a provider by registered name. The dir argument is only
// meaningful for directory-backed providers and is ignored by others.
func New(name, dir string) (Provider, error) {
	factory, err := factories.Get(name)
	if err != nil {
		return nil, err
	}
	return factory(dir)
}
