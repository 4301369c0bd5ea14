package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	cerr "github.com/confseed/confseed/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// SystemSettingsPath is the optional host-level settings file.
const SystemSettingsPath = "/etc/confseed.toml"

// Settings holds the process-wide constants of the templatization
// engine. These are deliberately not part of the deployment descriptor:
// delimiters and the template extension must agree between the run that
// produced a template and the run that instantiates it.
type Settings struct {
	Template TemplateSettings `koanf:"template"`
	Source   SourceSettings   `koanf:"source"`
	Secrets  SecretsSettings  `koanf:"secrets"`
}

// TemplateSettings controls the placeholder token syntax and the
// template identifier derivation.
type TemplateSettings struct {
	Prefix    string `koanf:"prefix"`
	Suffix    string `koanf:"suffix"`
	Extension string `koanf:"extension"`
}

// SourceSettings names the descriptor source environment variable.
type SourceSettings struct {
	Variable string `koanf:"variable"`
}

// SecretsSettings selects the default secrets provider.
type SecretsSettings struct {
	Provider string `koanf:"provider"`
	Dir      string `koanf:"dir"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the effective settings by layering, lowest priority
// first: embedded defaults, the system settings file (if present), and
// CONFSEED_* environment variables.
func Load() (*Settings, error) {
	return load(SystemSettingsPath)
}

func load(settingsPath string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, cerr.Wrap(err, cerr.ErrInternal, "failed to load built-in defaults")
	}

	if _, err := os.Stat(settingsPath); err == nil {
		if err := k.Load(file.Provider(settingsPath), toml.Parser()); err != nil {
			return nil, cerr.Wrapf(err, cerr.ErrInvalidInput, "failed to load settings from %s", settingsPath)
		}
	}

	// CONFSEED_TEMPLATE_EXTENSION -> template.extension etc.
	err := k.Load(env.Provider("CONFSEED_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "CONFSEED_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, cerr.Wrap(err, cerr.ErrInvalidInput, "failed to load environment overrides")
	}

	var settings Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, cerr.Wrap(err, cerr.ErrInvalidInput, "failed to unmarshal settings")
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) validate() error {
	if s.Template.Prefix == "" || s.Template.Suffix == "" {
		return cerr.New(cerr.ErrInvalidInput, "template delimiters must not be empty")
	}
	if s.Template.Extension == "" {
		return cerr.New(cerr.ErrInvalidInput, "template extension must not be empty")
	}
	if s.Source.Variable == "" {
		return cerr.New(cerr.ErrInvalidInput, "descriptor source variable must not be empty")
	}
	return nil
}
