package export

import (
	"fmt"
	"strconv"
	"strings"

	"diagramstudio/diagram"
)

// pointsPerInch converts diagram units (treated as points) to DOT sizes.
const pointsPerInch = 72.0

// GraphvizExporter exports diagrams to Graphviz DOT syntax. Nodes carry
// pinned positions, so `neato -n` reproduces the editor layout.
type GraphvizExporter struct {
	registry diagram.Registry
}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter(reg diagram.Registry) *GraphvizExporter {
	return &GraphvizExporter{registry: reg}
}

// Export converts the diagram to Graphviz DOT syntax
func (e *GraphvizExporter) Export(d *diagram.Diagram) (string, error) {
	if err := checkDiagram(d); err != nil {
		return "", err
	}

	ids := nodeIDs(d, "N")
	frames, members := frameMembers(d, e.registry)

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  node [shape=box, fixedsize=true];\n")
	sb.WriteString("  edge [arrowhead=normal];\n\n")

	for i, f := range frames {
		sb.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i+1))
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", e.escapeLabel(label(f))))
		for _, el := range members[f.ID] {
			sb.WriteString("    " + e.node(ids[el.ID], el) + "\n")
		}
		sb.WriteString("  }\n")
	}
	for _, el := range d.Elements {
		if diagram.IsFrame(el, e.registry) || inFrame(members, el.ID) {
			continue
		}
		sb.WriteString("  " + e.node(ids[el.ID], el) + "\n")
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
		if attrs := e.edgeAttributes(c); attrs != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", from, to, attrs))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", from, to))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// node formats a node statement. DOT's y axis points up.
func (e *GraphvizExporter) node(id string, el diagram.Element) string {
	b := el.Bounds(e.registry)
	c := center(el, e.registry)
	attrs := []string{
		fmt.Sprintf("label=\"%s\"", e.escapeLabel(label(el))),
		fmt.Sprintf("pos=\"%s,%s!\"", num(c.X), num(-c.Y)),
		"width=" + num(b.Width/pointsPerInch),
		"height=" + num(b.Height/pointsPerInch),
	}
	if shape := e.mapShapeToDOT(el.Type); shape != "box" {
		attrs = append(attrs, "shape="+shape)
	}
	if el.Color != "" {
		attrs = append(attrs, fmt.Sprintf("style=filled, fillcolor=\"%s\"", el.Color))
	}
	return fmt.Sprintf("%s [%s];", id, strings.Join(attrs, ", "))
}

// edgeAttributes builds DOT attributes from the connection
func (e *GraphvizExporter) edgeAttributes(c diagram.Connection) string {
	var attrs []string
	if c.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=\"%s\"", e.escapeLabel(c.Label)))
	}
	switch c.LineStyle.Normalize() {
	case diagram.LineStep, diagram.LineStepSharp:
		attrs = append(attrs, "splines=ortho")
	case diagram.LineStraight:
		attrs = append(attrs, "splines=line")
	}
	return strings.Join(attrs, ", ")
}

// mapShapeToDOT maps element types to Graphviz shape names
func (e *GraphvizExporter) mapShapeToDOT(t string) string {
	switch t {
	case "ellipse", "diamond", "note":
		return t
	default:
		return "box"
	}
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return strings.ReplaceAll(label, "\n", `\n`)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
