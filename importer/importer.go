// Package importer reads graphs written in other text formats into diagrams.
package importer

import (
	"fmt"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/layout"
)

// Result is an imported diagram plus the layout hints its source carried.
type Result struct {
	Diagram   *diagram.Diagram
	Direction layout.Direction
	// Positioned is set when the source gave every element a position.
	Positioned bool
}

// Importer interface defines methods for importing diagrams from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a diagram
	Import(content string) (*Result, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a new importer registry
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewMermaidImporter(),
			NewGraphvizImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*Result, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a named format or file extension
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*Result, error) {
	format = strings.ToLower(format)

	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp.Import(content)
		}
		for _, ext := range imp.GetFileExtensions() {
			if strings.TrimPrefix(ext, ".") == strings.TrimPrefix(format, ".") {
				return imp.Import(content)
			}
		}
	}

	return nil, fmt.Errorf("unknown format: %s", format)
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}

// builder accumulates elements and connections in first-seen order.
type builder struct {
	d       diagram.Diagram
	index   map[string]int
	nextRef int
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

// element returns the element with id, creating a rectangle if needed.
func (b *builder) element(id string) *diagram.Element {
	if i, ok := b.index[id]; ok {
		return &b.d.Elements[i]
	}
	b.index[id] = len(b.d.Elements)
	b.d.Elements = append(b.d.Elements, diagram.Element{ID: id, Type: "rectangle"})
	return &b.d.Elements[len(b.d.Elements)-1]
}

func (b *builder) has(id string) bool {
	_, ok := b.index[id]
	return ok
}

func (b *builder) connect(from, to, label string) {
	b.element(from)
	b.element(to)
	b.nextRef++
	b.d.Connections = append(b.d.Connections, diagram.Connection{
		ID:       fmt.Sprintf("c%d", b.nextRef),
		SourceID: from,
		TargetID: to,
		Label:    label,
	})
}

func (b *builder) diagram() (*diagram.Diagram, error) {
	if len(b.d.Elements) == 0 {
		return nil, fmt.Errorf("no nodes found")
	}
	// Self-loops cannot be drawn.
	conns := b.d.Connections[:0]
	for _, c := range b.d.Connections {
		if c.SourceID != c.TargetID {
			conns = append(conns, c)
		}
	}
	b.d.Connections = conns
	d := b.d
	return &d, nil
}
