package descriptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/logging"
)

// Loader loads deployment descriptors from a source.
type Loader interface {
	// Load returns the parsed descriptors. The whole load fails when
	// any single record is invalid.
	Load() ([]Descriptor, error)
}

// EnvLoader loads a descriptor document from a process environment
// variable holding JSON: either one record object or an array of them.
type EnvLoader struct {
	Variable string
}

// NewEnvLoader returns a loader reading the named environment variable.
func NewEnvLoader(variable string) *EnvLoader {
	return &EnvLoader{Variable: variable}
}

// Load implements Loader.
func (l *EnvLoader) Load() ([]Descriptor, error) {
	logger := logging.GetLogger("descriptor.envloader")

	raw, ok := os.LookupEnv(l.Variable)
	if !ok {
		return nil, errors.Newf(errors.ErrSourceUnavailable,
			"environment variable %q does not exist", l.Variable)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable,
			"environment variable %q does not hold a JSON descriptor document", l.Variable)
	}

	records, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("variable", l.Variable).Int("records", len(records)).
		Msg("Loaded descriptor document")
	return ParseAll(records)
}

// FileLoader loads a descriptor document from a file. The format is
// selected by extension: .json, .toml, .yaml or .yml. TOML documents
// carry their records under a [[deployments]] array of tables; JSON and
// YAML may use either a bare array or the same deployments wrapper.
type FileLoader struct {
	Path string
}

// NewFileLoader returns a loader reading the given descriptor file.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load implements Loader.
func (l *FileLoader) Load() ([]Descriptor, error) {
	logger := logging.GetLogger("descriptor.fileloader")

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable,
			"failed to read descriptor file %s", l.Path)
	}

	var doc interface{}
	switch strings.ToLower(filepath.Ext(l.Path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf(errors.ErrSourceUnavailable,
			"unsupported descriptor file format %q", filepath.Ext(l.Path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable,
			"failed to parse descriptor file %s", l.Path)
	}

	records, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("path", l.Path).Int("records", len(records)).
		Msg("Loaded descriptor document")
	return ParseAll(records)
}

// normalize turns a decoded descriptor document into a list of raw
// records: a bare list, a single record object, or an object wrapping
// the list under a "deployments" key.
func normalize(doc interface{}) ([]map[string]interface{}, error) {
	switch v := doc.(type) {
	case []interface{}:
		records := make([]map[string]interface{}, 0, len(v))
		for _, item := range v {
			record, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.New(errors.ErrSourceUnavailable,
					"descriptor document list may only contain record objects")
			}
			records = append(records, record)
		}
		return records, nil
	case map[string]interface{}:
		if wrapped, ok := v["deployments"]; ok && len(v) == 1 {
			return normalize(wrapped)
		}
		return []map[string]interface{}{v}, nil
	default:
		return nil, errors.New(errors.ErrSourceUnavailable,
			"descriptor document must be a record object or a list of them")
	}
}
