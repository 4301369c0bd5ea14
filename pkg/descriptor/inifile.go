package descriptor

import (
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/paths"
)

// Assignment operators accepted by the line-oriented configuration type.
const (
	OpEquals = "="
	OpColon  = ":"
)

// IniFile describes the deployment of secrets/values into a
// line-oriented `key <op> value` configuration file.
type IniFile struct {
	Base `mapstructure:",squash"`

	// AssignmentOp separates a variable name from its value on a line.
	AssignmentOp string `mapstructure:"assignment_op"`

	// AllowMultiOccurrence permits a variable name to appear on more
	// than one active line.
	AllowMultiOccurrence bool `mapstructure:"allow_multi_occurrence"`

	// AssignmentShellStyle disallows whitespace around the operator
	// (KEY=value), as shells require.
	AssignmentShellStyle bool `mapstructure:"assignment_shell_style"`

	// CommentDelimiter marks a line as a comment. Occurrences under a
	// comment prefix count as known but are never rewritten. Empty
	// disables comment detection.
	CommentDelimiter string `mapstructure:"comment_delimiter"`
}

// NewIniFile returns an IniFile descriptor carrying the record-level
// defaults, ready for decoding a raw record over it.
func NewIniFile() *IniFile {
	return &IniFile{
		Base:         Base{Templatize: true},
		AssignmentOp: OpEquals,
	}
}

// Kind returns the inifile type tag.
func (d *IniFile) Kind() string { return KindIniFile }

// Validate checks the shared invariants plus the inifile-specific ones:
// a supported assignment operator and a configuration id that resolves
// to an absolute local file path.
func (d *IniFile) Validate() error {
	if err := d.Base.Validate(); err != nil {
		return err
	}
	if d.AssignmentOp != OpEquals && d.AssignmentOp != OpColon {
		return errors.Newf(errors.ErrDescriptorInvalid,
			"assignment_op must be %q or %q, got %q", OpEquals, OpColon, d.AssignmentOp)
	}
	if !paths.IsConfigPath(d.ConfigID) {
		return errors.Newf(errors.ErrDescriptorInvalid,
			"config %q must be an absolute local file path", d.ConfigID)
	}
	return nil
}
