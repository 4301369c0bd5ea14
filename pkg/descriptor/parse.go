package descriptor

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/paths"
	"github.com/confseed/confseed/pkg/registry"
)

// typeField is the record field carrying the explicit configuration
// type tag. It is not a descriptor field and is stripped before decode.
const typeField = "config_type"

// Factory creates an empty descriptor of one configuration type,
// pre-populated with that type's record-level defaults.
type Factory func() Descriptor

var factories = registry.New[Factory]()

// RegisterFactory registers a descriptor factory under a configuration
// type tag. Registration of a duplicate tag fails.
func RegisterFactory(kind string, factory Factory) error {
	return factories.Register(kind, factory)
}

// Kinds returns the registered configuration type tags in sorted order.
func Kinds() []string {
	return factories.List()
}

// Classifier decides from the syntax of a configuration id alone which
// configuration type a record belongs to.
type Classifier struct {
	Kind    string
	Matches func(configID string) bool
}

// classifiers are evaluated in priority order; the first match wins.
// The xmlfile type never self-classifies: an XML deployment must name
// its type explicitly since the id syntax is the same as inifile's.
var classifiers = []Classifier{
	{Kind: KindIniFile, Matches: paths.IsConfigPath},
}

func init() {
	registry.MustRegister(factories, KindIniFile, func() Descriptor { return NewIniFile() })
	registry.MustRegister(factories, KindXMLFile, func() Descriptor { return NewXMLFile() })
}

// Classify resolves a configuration type tag from the syntax of the
// configuration id by evaluating the classifiers in order.
func Classify(configID string) (string, error) {
	for _, c := range classifiers {
		if c.Matches(configID) {
			return c.Kind, nil
		}
	}
	return "", errors.Newf(errors.ErrConfigTypeUnsupported,
		"configuration identifier %q is not supported", configID)
}

// Parse turns a single raw descriptor record into a validated
// descriptor of the according type. The type is resolved from the
// explicit config_type field when present, otherwise by classifying
// the configuration id.
func Parse(record map[string]interface{}) (Descriptor, error) {
	kind := ""
	if raw, ok := record[typeField]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, errors.New(errors.ErrDescriptorInvalid, "config_type must be a string")
		}
		kind = s
	}

	if kind == "" {
		configID, _ := record["config"].(string)
		if configID == "" {
			return nil, errors.New(errors.ErrDescriptorInvalid, "config must not be empty")
		}
		resolved, err := Classify(configID)
		if err != nil {
			return nil, err
		}
		kind = resolved
	} else if !factories.Has(kind) {
		return nil, errors.Newf(errors.ErrConfigTypeUnsupported,
			"configuration type %q is not supported", kind)
	}

	factory, err := factories.Get(kind)
	if err != nil {
		return nil, err
	}
	desc := factory()

	if err := decode(record, desc); err != nil {
		return nil, err
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// ParseAll parses a batch of records, failing fast on the first bad
// record so no partial batch is ever returned.
func ParseAll(records []map[string]interface{}) ([]Descriptor, error) {
	descs := make([]Descriptor, 0, len(records))
	for _, record := range records {
		desc, err := Parse(record)
		if err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}
	return descs, nil
}

func decode(record map[string]interface{}, desc Descriptor) error {
	fields := make(map[string]interface{}, len(record))
	for k, v := range record {
		if k == typeField {
			continue
		}
		fields[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           desc,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to build record decoder")
	}
	if err := dec.Decode(fields); err != nil {
		return errors.Wrap(err, errors.ErrDescriptorInvalid, "malformed descriptor record")
	}
	return nil
}
