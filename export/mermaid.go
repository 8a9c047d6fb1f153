package export

import (
	"fmt"
	"strings"

	"diagramstudio/diagram"
)

// MermaidExporter exports diagrams to Mermaid flowchart syntax. Positions
// are dropped; Mermaid lays the graph out itself. Frames become subgraphs.
type MermaidExporter struct {
	registry diagram.Registry
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter(reg diagram.Registry) *MermaidExporter {
	return &MermaidExporter{registry: reg}
}

// Export converts the diagram to Mermaid syntax
func (e *MermaidExporter) Export(d *diagram.Diagram) (string, error) {
	if err := checkDiagram(d); err != nil {
		return "", err
	}

	ids := nodeIDs(d, "N")
	frames, members := frameMembers(d, e.registry)

	var sb strings.Builder
	sb.WriteString("flowchart LR\n")

	for _, f := range frames {
		sb.WriteString(fmt.Sprintf("    subgraph %s [\"%s\"]\n", ids[f.ID], e.escapeLabel(label(f))))
		for _, el := range members[f.ID] {
			sb.WriteString("        " + e.node(ids[el.ID], el) + "\n")
		}
		sb.WriteString("    end\n")
	}
	for _, el := range d.Elements {
		if diagram.IsFrame(el, e.registry) || inFrame(members, el.ID) {
			continue
		}
		sb.WriteString("    " + e.node(ids[el.ID], el) + "\n")
	}

	if len(d.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range d.Connections {
		from, ok := ids[c.SourceID]
		if !ok {
			continue
		}
		to, ok := ids[c.TargetID]
		if !ok {
			continue
		}
		if c.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s -->|\"%s\"| %s\n", from, e.escapeLabel(c.Label), to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	var styles []string
	for _, el := range d.Elements {
		if el.Color != "" && !diagram.IsFrame(el, e.registry) {
			styles = append(styles, fmt.Sprintf("    style %s fill:%s", ids[el.ID], el.Color))
		}
	}
	if len(styles) > 0 {
		sb.WriteString("\n" + strings.Join(styles, "\n") + "\n")
	}
	return sb.String(), nil
}

// node formats a node declaration with the shape of the element type
func (e *MermaidExporter) node(id string, el diagram.Element) string {
	text := e.escapeLabel(label(el))
	switch el.Type {
	case "ellipse":
		return fmt.Sprintf("%s((\"%s\"))", id, text)
	case "diamond":
		return fmt.Sprintf("%s{\"%s\"}", id, text)
	case "note":
		return fmt.Sprintf("%s>\"%s\"]", id, text)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, text)
	}
}

// escapeLabel makes a label safe inside a quoted Mermaid string
func (e *MermaidExporter) escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
