package handler

import (
	"os"

	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/paths"
)

// fileAccess provides whole-file read/write for an artifact identified
// by a configuration-style id (absolute path, optional file:// prefix).
type fileAccess struct {
	id   string
	path string
}

func newFileAccess(id string) fileAccess {
	return fileAccess{id: id, path: paths.LocalPath(id)}
}

// Exists reports whether the artifact file is present.
func (f fileAccess) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

// Read returns the artifact text.
func (f fileAccess) Read() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", f.path)
	}
	return string(data), nil
}

// Write persists the artifact text.
func (f fileAccess) Write(content string) error {
	if err := os.WriteFile(f.path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", f.path)
	}
	return nil
}
