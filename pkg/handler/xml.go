package handler

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/confseed/confseed/pkg/config"
	"github.com/confseed/confseed/pkg/descriptor"
	"github.com/confseed/confseed/pkg/errors"
	"github.com/confseed/confseed/pkg/logging"
	"github.com/confseed/confseed/pkg/registry"
)

// XMLFileHandler handles XML configuration files. Assignment keys are
// slash-separated element paths relative to the document root; the
// text of every element the path selects is replaced by the
// placeholder token. A path that selects nothing has its element chain
// created, mirroring the append behavior of line-oriented files.
type XMLFileHandler struct {
	fileAccess
	desc     *descriptor.XMLFile
	settings *config.Settings
}

// NewXMLFileHandler builds the handler for an xmlfile descriptor.
func NewXMLFileHandler(desc *descriptor.XMLFile, settings *config.Settings) *XMLFileHandler {
	return &XMLFileHandler{
		fileAccess: newFileAccess(desc.ConfigID),
		desc:       desc,
		settings:   settings,
	}
}

// ConfigID implements ConfigHandler.
func (h *XMLFileHandler) ConfigID() string { return h.desc.ConfigID }

// Templatize implements ConfigHandler for XML documents.
func (h *XMLFileHandler) Templatize() (string, *TemplatizeReport, error) {
	logger := logging.GetLogger("handler.xmlfile")

	raw, err := h.Read()
	if err != nil {
		return "", nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return "", nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"configuration %s is not well-formed XML", h.desc.ConfigID)
	}

	paths := make([]string, 0, len(h.desc.Assignments))
	for path := range h.desc.Assignments {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	report := &TemplatizeReport{}
	for _, path := range paths {
		token := Token(h.settings, h.desc.Assignments[path])

		elements := doc.FindElements("./" + path)
		if len(elements) == 0 {
			h.createPath(doc, path).SetText(token)
			report.Appended = append(report.Appended, path)
			continue
		}
		for _, element := range elements {
			element.SetText(token)
		}
		report.Active = append(report.Active, path)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrInternal, "failed to serialize XML template")
	}

	logger.Info().
		Str("config", h.desc.ConfigID).
		Strs("active", report.Active).
		Strs("appended", report.Appended).
		Msg("Templatized configuration")

	return out, report, nil
}

// createPath walks the element path from the document root, creating
// missing elements along the way, and returns the final element.
func (h *XMLFileHandler) createPath(doc *etree.Document, path string) *etree.Element {
	var parent *etree.Element
	for _, segment := range strings.Split(path, "/") {
		var next *etree.Element
		if parent == nil {
			next = doc.SelectElement(segment)
			if next == nil {
				next = doc.CreateElement(segment)
			}
		} else {
			next = parent.SelectElement(segment)
			if next == nil {
				next = parent.CreateElement(segment)
			}
		}
		parent = next
	}
	return parent
}

func init() {
	registry.MustRegister(factories, descriptor.KindXMLFile, Factory(newXMLFactory))
}

func newXMLFactory(desc descriptor.Descriptor, settings *config.Settings) (ConfigHandler, error) {
	xml, ok := desc.(*descriptor.XMLFile)
	if !ok {
		return nil, errors.Newf(errors.ErrInternal,
			"descriptor kind %q is not xmlfile", desc.Kind())
	}
	return NewXMLFileHandler(xml, settings), nil
}
