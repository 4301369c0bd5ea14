package provider

import (
	"github.com/confseed/confseed/pkg/errors"
)

// StaticProviderName identifies the fixed-map provider.
const StaticProviderName = "static"

// Static resolves placeholder keywords from a fixed map. It backs
// round-trip checks and tests; it is not registered as a selectable
// provider since it carries no values outside the process.
type Static struct {
	values map[string]string
}

// NewStatic returns a provider resolving from the given map.
func NewStatic(values map[string]string) *Static {
	return &Static{values: values}
}

// Name implements Provider.
func (p *Static) Name() string { return StaticProviderName }

// Get implements Provider.
func (p *Static) Get(keyword string) (string, error) {
	value, ok := p.values[keyword]
	if !ok {
		return "", errors.Newf(errors.ErrNotFound, "keyword %q is not defined", keyword)
	}
	return value, nil
}
