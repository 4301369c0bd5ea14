// Package descriptor defines deployment descriptors: validated
// descriptions of one configuration-deployment unit, polymorphic over
// the configuration type. A descriptor tells the engine which
// configuration to deploy to, whether a template is derived from it or
// used directly, and which configuration variables map to which
// placeholder names.
//
// Descriptors are constructed fresh per deployment run from raw
// records and are never mutated after construction. Add support for a
// new configuration type by registering a factory for its kind tag and,
// if the type is recognizable from the identifier syntax alone, a
// classifier.
package descriptor

import (
	"github.com/confseed/confseed/pkg/errors"
)

// Kind tags for the supported configuration types.
const (
	KindIniFile = "inifile"
	KindXMLFile = "xmlfile"
)

// Descriptor is a validated deployment descriptor of a concrete
// configuration type.
type Descriptor interface {
	// Kind returns the configuration type tag.
	Kind() string

	// Common returns the fields shared by all configuration types.
	Common() *Base

	// Validate checks the descriptor's field invariants.
	Validate() error
}

// Base holds the fields shared by every configuration type. Field tags
// follow the serialization names of descriptor records, which do not
// always align with the naming used in code.
type Base struct {
	// ConfigID identifies the configuration to deploy to.
	ConfigID string `mapstructure:"config"`

	// Templatize selects between deriving a template from the existing
	// configuration (true) and using a stored template directly (false).
	Templatize bool `mapstructure:"templatize"`

	// Assignments maps configuration variable names to placeholder
	// names. Required non-empty when Templatize is set, and must be
	// absent otherwise.
	Assignments map[string]string `mapstructure:"assign"`

	// Persist controls whether the derived template is written back to
	// its storage location.
	Persist bool `mapstructure:"persist"`
}

// Common returns the shared descriptor fields.
func (b *Base) Common() *Base { return b }

// Validate checks the invariants shared by all configuration types:
// a non-empty configuration id, and the pairing between Templatize and
// Assignments.
func (b *Base) Validate() error {
	if b.ConfigID == "" {
		return errors.New(errors.ErrDescriptorInvalid, "config must not be empty")
	}
	if b.Templatize && len(b.Assignments) == 0 {
		return errors.Newf(errors.ErrDescriptorInvalid,
			"templatize requires non-empty assign for %s", b.ConfigID)
	}
	if !b.Templatize && len(b.Assignments) > 0 {
		return errors.Newf(errors.ErrDescriptorInvalid,
			"assign must be empty when templatize is false for %s", b.ConfigID)
	}
	return nil
}
