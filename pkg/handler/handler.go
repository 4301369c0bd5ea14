// Package handler implements the configuration and template handlers:
// stateless accessors for the two text artifacts of a deployment, the
// templatization engine turning a configuration into a template, and
// the inverse instantiation step filling placeholders from a secrets
// provider.
//
// Handlers never cache artifact content; the configuration and its
// template live on disk and are read and written per call.
package handler

import (
	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/registry"
)

// ConfigHandler reads, templatizes, and writes configurations of one
// configuration type.
type ConfigHandler interface {
	// ConfigID returns the configuration identifier the handler is
	// bound to.
	ConfigID() string

	// Exists reports whether the configuration artifact is present.
	Exists() bool

	// Read returns the configuration text.
	Read() (string, error)

	// Write persists the configuration text.
	Write(content string) error

	// Templatize derives template text from the configuration,
	// replacing assigned values with placeholder tokens.
	Templatize() (string, *TemplatizeReport, error)
}

// TemplatizeReport records which assignment keys the engine saw where.
// It is informational only; the orchestrator logs it.
type TemplatizeReport struct {
	// Active keys were found on live lines and rewritten.
	Active []string

	// Commented keys were found only under a comment prefix and left
	// untouched.
	Commented []string

	// Appended keys were not found and added as new active lines.
	Appended []string
}

// InstantiateReport records the placeholder keywords resolved during
// instantiation, in order of appearance.
type InstantiateReport struct {
	Resolved []string
}

// Factory builds a ConfigHandler for a descriptor of its configuration
// type.
type Factory func(desc descriptor.Descriptor, settings *config.Settings) (ConfigHandler, error)

var factories = registry.New[Factory]()

// RegisterFactory adds a handler factory under a configuration type tag.
func RegisterFactory(kind string, factory Factory) error {
	return factories.Register(kind, factory)
}

// New builds the configuration handler matching the descriptor's type.
func New(desc descriptor.Descriptor, settings *config.Settings) (ConfigHandler, error) {
	factory, err := factories.Get(desc.Kind())
	if err != nil {
		return nil, errors.Newf(errors.ErrConfigTypeUnsupported,
			"no handler registered for configuration type %q", desc.Kind())
	}
	return factory(desc, settings)
}

// Token renders the placeholder token for a keyword with the
// configured delimiters.
func Token(settings *config.Settings, keyword string) string {
	return settings.Template.Prefix + keyword + settings.Template.Suffix
}
