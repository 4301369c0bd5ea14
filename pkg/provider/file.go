package provider

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/registry"
)

// FileProviderName selects the secrets directory provider.
const FileProviderName = "file"

// File resolves placeholder keywords from files in a secrets
// directory, one file per keyword, as container runtimes mount them
// (e.g. /run/secrets). A single trailing newline is stripped so that
// editor-created secret files behave like runtime-mounted ones.
type File struct {
	dir string
}

// NewFile returns a provider reading secrets from dir.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "secrets directory must not be empty")
	}
	return &File{dir: dir}, nil
}

// Name implements Provider.
func (p *File) Name() string { return FileProviderName }

// Get implements Provider.
func (p *File) Get(keyword string) (string, error) {
	if keyword != filepath.Base(keyword) {
		return "", errors.Newf(errors.ErrInvalidInput,
			"secret name %q must not contain path separators", keyword)
	}

	data, err := os.ReadFile(filepath.Join(p.dir, keyword))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.ErrNotFound,
				"secret file %q does not exist in %s", keyword, p.dir)
		}
		return "", errors.Wrapf(err, errors.ErrFileRead,
			"failed to read secret file %q", keyword)
	}

	value := string(data)
	value = strings.TrimSuffix(value, "\n")
	return value, nil
}

func init() {
	registry.MustRegister(factories, FileProviderName, func(dir string) (Provider, error) {
		return NewFile(dir)
	})
}
