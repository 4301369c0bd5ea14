package handler

import (
	"strings"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/provider"
)

// FileTemplateHandler reads and writes the template artifact of a
// file-backed configuration. The template identifier is derived
// deterministically from the configuration id by appending the
// configured extension.
type FileTemplateHandler struct {
	fileAccess
	templateID string
	settings   *config.Settings
}

// NewFileTemplateHandler builds the template handler for a
// configuration id.
func NewFileTemplateHandler(configID string, settings *config.Settings) *FileTemplateHandler {
	templateID := configID + settings.Template.Extension
	return &FileTemplateHandler{
		fileAccess: newFileAccess(templateID),
		templateID: templateID,
		settings:   settings,
	}
}

// TemplateID returns the derived template identifier.
func (h *FileTemplateHandler) TemplateID() string { return h.templateID }

// Instantiate produces configuration text from template text by
// resolving every placeholder token through the secrets provider. A
// line is assumed to contain at most one placeholder; the token is
// matched greedily within the line. The first unresolvable keyword
// fails the whole operation; callers must not persist partial output.
func Instantiate(template string, prvd provider.Provider, settings *config.Settings) (string, *InstantiateReport, error) {
	logger := logging.GetLogger("handler.template")

	prefix := settings.Template.Prefix
	suffix := settings.Template.Suffix

	report := &InstantiateReport{}
	var out strings.Builder
	for _, full := range strings.SplitAfter(template, "\n") {
		if full == "" {
			continue
		}
		line := strings.TrimSuffix(full, "\n")
		ending := ""
		if strings.HasSuffix(full, "\n") {
			ending = "\n"
		}

		if start := strings.Index(line, prefix); start >= 0 {
			rest := line[start+len(prefix):]
			if end := strings.LastIndex(rest, suffix); end >= 0 {
				keyword := rest[:end]
				value, err := prvd.Get(keyword)
				if err != nil {
					return "", nil, errors.Wrapf(err, errors.ErrPlaceholderUnresolved,
						"template keyword %q not available from secrets provider %s",
						keyword, prvd.Name())
				}
				line = line[:start] + value + rest[end+len(suffix):]
				report.Resolved = append(report.Resolved, keyword)
			}
		}

		out.WriteString(line)
		out.WriteString(ending)
	}

	logger.Info().
		Str("provider", prvd.Name()).
		Strs("resolved", report.Resolved).
		Msg("Instantiated template")

	return out.String(), report, nil
}
