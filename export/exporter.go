// Package export converts diagrams to text formats other tools can read
package export

import (
	"fmt"
	"math"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Format represents an export format
type Format string

const (
	// FormatJSON is the native diagram file format
	FormatJSON Format = "json"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports to Graphviz DOT with fixed positions
	FormatGraphviz Format = "graphviz"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a diagram to the target format
	Export(d *diagram.Diagram) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format. The registry
// supplies default sizes and frame types; nil uses element data only.
func NewExporter(format Format, reg diagram.Registry) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(reg), nil
	case FormatGraphviz:
		return NewGraphvizExporter(reg), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "graphviz", "dot", "gv":
		return FormatGraphviz, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{FormatJSON, FormatMermaid, FormatGraphviz}
}

func checkDiagram(d *diagram.Diagram) error {
	if d == nil {
		return fmt.Errorf("diagram is nil")
	}
	if len(d.Elements) == 0 {
		return fmt.Errorf("diagram has no elements")
	}
	return nil
}

// nodeIDs assigns short format-safe identifiers in element order.
func nodeIDs(d *diagram.Diagram, prefix string) map[string]string {
	ids := make(map[string]string, len(d.Elements))
	for i, e := range d.Elements {
		ids[e.ID] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return ids
}

// label returns the text shown for an element.
func label(e diagram.Element) string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}

// frameMembers maps each frame to the non-frame elements whose center lies
// inside it. An element inside several frames belongs to the smallest.
func frameMembers(d *diagram.Diagram, reg diagram.Registry) (frames []diagram.Element, members map[string][]diagram.Element) {
	members = make(map[string][]diagram.Element)
	for _, e := range d.Elements {
		if diagram.IsFrame(e, reg) {
			frames = append(frames, e)
		}
	}
	if len(frames) == 0 {
		return nil, members
	}

	for _, e := range d.Elements {
		if diagram.IsFrame(e, reg) {
			continue
		}
		c := e.Bounds(reg).Center()
		best, bestArea := "", math.Inf(1)
		for _, f := range frames {
			b := f.Bounds(reg)
			if area := b.Width * b.Height; b.Contains(c) && area < bestArea {
				best, bestArea = f.ID, area
			}
		}
		if best != "" {
			members[best] = append(members[best], e)
		}
	}
	return frames, members
}

func inFrame(members map[string][]diagram.Element, id string) bool {
	for _, els := range members {
		for _, e := range els {
			if e.ID == id {
				return true
			}
		}
	}
	return false
}

// center returns the element center in diagram units.
func center(e diagram.Element, reg diagram.Registry) geometry.Point {
	return e.Bounds(reg).Center()
}
