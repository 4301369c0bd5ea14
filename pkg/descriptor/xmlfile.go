package descriptor

import (
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/paths"
)

// XMLFile describes the deployment of secrets/values into an XML
// configuration file. Assignment keys are slash-separated element
// paths relative to the document root; the text content of each
// matched element is replaced by the placeholder token.
type XMLFile struct {
	Base `mapstructure:",squash"`
}

// NewXMLFile returns an XMLFile descriptor carrying the record-level
// defaults.
func NewXMLFile() *XMLFile {
	return &XMLFile{
		Base: Base{Templatize: true},
	}
}

// Kind returns the xmlfile type tag.
func (d *XMLFile) Kind() string { return KindXMLFile }

// Validate checks the shared invariants plus the configuration id
// constraint.
func (d *XMLFile) Validate() error {
	if err := d.Base.Validate(); err != nil {
		return err
	}
	if !paths.IsConfigPath(d.ConfigID) {
		return errors.Newf(errors.ErrDescriptorInvalid,
			"config %q must be an absolute local file path", d.ConfigID)
	}
	for path := range d.Assignments {
		if path == "" {
			return errors.Newf(errors.ErrDescriptorInvalid,
				"assign contains an empty element path for %s", d.ConfigID)
		}
	}
	return nil
}
