package paths

import (
	"regexp"
	"strings"
)

// FileURIPrefix is the accepted URI scheme for configuration ids.
// A host segment is not supported: file://host/x is rejected.
const FileURIPrefix = "file://"

// Only plain absolute paths are accepted as configuration ids. Path
// segments are limited to a conservative character set so that ids can
// be embedded verbatim in log lines and template identifiers.
var absolutePathRe = regexp.MustCompile(`^/(?:[A-Za-z0-9._+ -]+/)*[A-Za-z0-9._+ -]+$`)

// IsConfigPath reports whether id is a valid configuration identifier:
// an absolute local file path, optionally prefixed with file:// and an
// empty host component.
func IsConfigPath(id string) bool {
	if rest, ok := strings.CutPrefix(id, FileURIPrefix); ok {
		return absolutePathRe.MatchString(rest)
	}
	return absolutePathRe.MatchString(id)
}

// LocalPath returns the filesystem path for a configuration identifier,
// stripping the optional file:// prefix. The id is returned unchanged
// when it carries no scheme.
func LocalPath(id string) string {
	return strings.TrimPrefix(id, FileURIPrefix)
}
