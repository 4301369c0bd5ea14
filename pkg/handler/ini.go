package handler

import (
	"regexp"
	"sort"
	"strings"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/registry"
)

// IniFileHandler handles line-oriented `key <op> value` configuration
// files.
type IniFileHandler struct {
	fileAccess
	desc     *descriptor.IniFile
	settings *config.Settings
}

// NewIniFileHandler builds the handler for an inifile descriptor.
func NewIniFileHandler(desc *descriptor.IniFile, settings *config.Settings) *IniFileHandler {
	return &IniFileHandler{
		fileAccess: newFileAccess(desc.ConfigID),
		desc:       desc,
		settings:   settings,
	}
}

// ConfigID implements ConfigHandler.
func (h *IniFileHandler) ConfigID() string { return h.desc.ConfigID }

// keyRule holds the compiled match rules for one assignment key.
type keyRule struct {
	key       string
	active    *regexp.Regexp
	commented *regexp.Regexp
}

// compileRules builds the per-key line matchers. An active occurrence
// is the key at the start of a line (leading whitespace allowed)
// followed by the assignment operator; whitespace between key and
// operator is permitted unless the descriptor is shell-style. A
// commented occurrence has the comment delimiter as the first
// non-whitespace token before the key.
func (h *IniFileHandler) compileRules() []keyRule {
	keys := make([]string, 0, len(h.desc.Assignments))
	for key := range h.desc.Assignments {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	opPart := `\s*` + regexp.QuoteMeta(h.desc.AssignmentOp)
	if h.desc.AssignmentShellStyle {
		opPart = regexp.QuoteMeta(h.desc.AssignmentOp)
	}

	rules := make([]keyRule, 0, len(keys))
	for _, key := range keys {
		rule := keyRule{
			key:    key,
			active: regexp.MustCompile(`^\s*` + regexp.QuoteMeta(key) + opPart),
		}
		if h.desc.CommentDelimiter != "" {
			rule.commented = regexp.MustCompile(
				`^\s*` + regexp.QuoteMeta(h.desc.CommentDelimiter) +
					`\s*` + regexp.QuoteMeta(key) + opPart)
		}
		rules = append(rules, rule)
	}
	return rules
}

// Templatize implements ConfigHandler per the line-matching rules:
// first-match-wins per line, commented occurrences count as known but
// are never rewritten, keys found nowhere are appended as new active
// lines, and duplicate active occurrences fail the whole operation
// after the full pass unless the descriptor allows them.
func (h *IniFileHandler) Templatize() (string, *TemplatizeReport, error) {
	logger := logging.GetLogger("handler.inifile")

	raw, err := h.Read()
	if err != nil {
		return "", nil, err
	}

	rules := h.compileRules()
	activeCount := make(map[string]int)
	commented := make(map[string]bool)

	// Shell-style assignments cannot carry whitespace after the
	// operator, so the token follows it directly.
	sep := " "
	if h.desc.AssignmentShellStyle {
		sep = ""
	}

	var out strings.Builder
	for _, full := range strings.SplitAfter(raw, "\n") {
		if full == "" {
			continue
		}
		line := strings.TrimSuffix(full, "\n")
		ending := ""
		if strings.HasSuffix(full, "\n") {
			ending = "\n"
		}

		for _, rule := range rules {
			if match := rule.active.FindString(line); match != "" {
				line = match + sep + Token(h.settings, h.desc.Assignments[rule.key])
				activeCount[rule.key]++
				break
			}
			if rule.commented != nil && rule.commented.MatchString(line) {
				commented[rule.key] = true
				break
			}
		}

		out.WriteString(line)
		out.WriteString(ending)
	}

	report := &TemplatizeReport{}
	for _, rule := range rules {
		switch {
		case activeCount[rule.key] > 0:
			report.Active = append(report.Active, rule.key)
		case commented[rule.key]:
			report.Commented = append(report.Commented, rule.key)
		default:
			report.Appended = append(report.Appended, rule.key)
		}
	}

	// Keys found neither active nor commented become new active lines.
	if len(report.Appended) > 0 {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteString("\n")
		}
		for _, key := range report.Appended {
			token := Token(h.settings, h.desc.Assignments[key])
			if h.desc.AssignmentShellStyle {
				out.WriteString(key + h.desc.AssignmentOp + token + "\n")
			} else {
				out.WriteString(key + h.desc.AssignmentOp + " " + token + "\n")
			}
		}
	}

	logger.Info().
		Str("config", h.desc.ConfigID).
		Strs("active", report.Active).
		Strs("commented", report.Commented).
		Strs("appended", report.Appended).
		Msg("Templatized configuration")

	// The duplicate check runs after the full pass so the template is
	// fully computed before the failure surfaces.
	if !h.desc.AllowMultiOccurrence {
		var duplicates []string
		for key, count := range activeCount {
			if count > 1 {
				duplicates = append(duplicates, key)
			}
		}
		if len(duplicates) > 0 {
			sort.Strings(duplicates)
			return "", nil, errors.Newf(errors.ErrAssignmentDuplicate,
				"variable(s) occur multiple times in configuration: %s",
				strings.Join(duplicates, ", ")).
				WithDetail("keys", duplicates)
		}
	}

	return out.String(), report, nil
}

func init() {
	registry.MustRegister(factories, descriptor.KindIniFile, Factory(newIniFactory))
}

func newIniFactory(desc descriptor.Descriptor, settings *config.Settings) (ConfigHandler, error) {
	ini, ok := desc.(*descriptor.IniFile)
	if !ok {
		return nil, errors.Newf(errors.ErrInternal,
			"descriptor kind %q is not inifile", desc.Kind())
	}
	return NewIniFileHandler(ini, settings), nil
}
