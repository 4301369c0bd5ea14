package provider

import (
	"os"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/registry"
)

// EnvProviderName selects the environment variable provider.
const EnvProviderName = "env"

// Env resolves placeholder keywords from process environment variables.
type Env struct{}

// NewEnv returns the environment variable provider.
func NewEnv() *Env {
	return &Env{}
}

// Name implements Provider.
func (p *Env) Name() string { return EnvProviderName }

// Get implements Provider. A variable set to the empty string is a
// valid value; only an unset variable fails.
func (p *Env) Get(keyword string) (string, error) {
	value, ok := os.LookupEnv(keyword)
	if !ok {
		return "", errors.Newf(errors.ErrNotFound,
			"environment variable %q does not exist", keyword)
	}
	return value, nil
}

func init() {
	registry.MustRegister(factories, EnvProviderName, func(string) (Provider, error) {
		return NewEnv(), nil
	})
}
