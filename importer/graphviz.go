package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/layout"
)

// pointsPerInch converts DOT sizes to diagram units.
const pointsPerInch = 72.0

// GraphvizImporter imports Graphviz DOT graphs. Nodes with pos attributes
// keep their coordinates.
type GraphvizImporter struct {
	Registry diagram.Registry // Default sizes for nodes without width/height
}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{Registry: diagram.BasicRegistry()}
}

var (
	dotHeader = regexp.MustCompile(`^(strict\s+)?(di)?graph\b`)
	dotAttr   = regexp.MustCompile(`(\w+)\s*=\s*(?:"((?:[^"\\]|\\.)*)"|([^,\s\]]+))`)
	dotEdgeOp = regexp.MustCompile(`\s*(->|--)\s*`)
)

// CanImport checks if the content is a Graphviz DOT diagram
func (g *GraphvizImporter) CanImport(content string) bool {
	return dotHeader.MatchString(firstLine(content, "//"))
}

// Import converts Graphviz DOT content to a diagram
func (g *GraphvizImporter) Import(content string) (*Result, error) {
	if !g.CanImport(content) {
		return nil, fmt.Errorf("not a Graphviz graph")
	}
	res := &Result{Direction: layout.TopToBottom}
	b := newBuilder()
	centers := make(map[string]geometry.Point)

	// Open subgraph scopes; "" marks a scope that is not a cluster.
	var groups []string

	for n, line := range strings.Split(content, "\n") {
		for _, stmt := range splitStatements(strings.TrimSpace(line)) {
			switch {
			case stmt == "" || strings.HasPrefix(stmt, "//") || strings.HasPrefix(stmt, "#"):
				continue
			case strings.HasPrefix(stmt, "subgraph"), stmt == "{":
				name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(stmt, "subgraph"), "{"))
				name = unquote(name)
				if !strings.HasPrefix(name, "cluster") {
					groups = append(groups, "")
					continue
				}
				f := b.element(name)
				f.Type = diagram.FrameType
				f.GroupID = currentGroup(groups)
				groups = append(groups, name)
				continue
			case stmt == "}":
				if len(groups) > 0 {
					groups = groups[:len(groups)-1]
				}
				continue
			}

			if err := g.statement(b, stmt, groups, centers, res); err != nil {
				return nil, fmt.Errorf("line %d: %w", n+1, err)
			}
		}
	}

	d, err := b.diagram()
	if err != nil {
		return nil, err
	}

	res.Positioned = true
	for i, e := range d.Elements {
		if diagram.IsFrame(e, g.Registry) {
			continue
		}
		c, ok := centers[e.ID]
		if !ok {
			res.Positioned = false
			continue
		}
		s := e.EffectiveSize(g.Registry)
		d.Elements[i].X = round2(c.X - s.Width/2)
		d.Elements[i].Y = round2(c.Y - s.Height/2)
	}
	res.Diagram = d
	return res, nil
}

// statement handles one node, edge or attribute statement.
func (g *GraphvizImporter) statement(b *builder, stmt string, groups []string, centers map[string]geometry.Point, res *Result) error {
	body, attrText := splitAttributes(stmt)
	attrs := g.parseAttributes(attrText)
	body = strings.TrimSpace(body)

	switch body {
	case "node", "edge":
		return nil
	case "graph":
		if dir, ok := layout.ParseDirection(attrs["rankdir"]); ok && len(groups) == 0 {
			res.Direction = dir
		}
		return nil
	}

	// Graph attribute: rankdir=LR, label="Group".
	if attrText == "" && strings.Contains(body, "=") && !dotEdgeOp.MatchString(body) {
		if m := dotAttr.FindStringSubmatch(body); m != nil {
			value := unescapeDOT(m[2] + m[3])
			switch m[1] {
			case "rankdir":
				if dir, ok := layout.ParseDirection(value); ok && len(groups) == 0 {
					res.Direction = dir
				}
			case "label":
				if len(groups) > 0 && groups[len(groups)-1] != "" {
					b.element(groups[len(groups)-1]).Label = value
				}
			}
		}
		return nil
	}

	ids := dotEdgeOp.Split(body, -1)
	for i := range ids {
		ids[i] = unquote(strings.TrimSpace(ids[i]))
		if ids[i] == "" {
			return fmt.Errorf("empty node id in %q", stmt)
		}
	}

	group := currentGroup(groups)
	for _, id := range ids {
		if !b.has(id) {
			b.element(id).GroupID = group
		}
	}

	if len(ids) > 1 {
		for i := 0; i+1 < len(ids); i++ {
			b.connect(ids[i], ids[i+1], unescapeDOT(attrs["label"]))
		}
		return nil
	}

	id := ids[0]
	e := b.element(id)
	if label, ok := attrs["label"]; ok {
		e.Label = unescapeDOT(label)
	}
	if shape, ok := attrs["shape"]; ok {
		e.Type = g.normalizeShape(shape)
	}
	if fill, ok := attrs["fillcolor"]; ok && strings.HasPrefix(fill, "#") {
		e.Color = strings.ToLower(fill)
	}
	w, okW := inches(attrs["width"])
	h, okH := inches(attrs["height"])
	if okW && okH {
		e.Size = &geometry.Size{Width: w, Height: h}
	}
	if pos, ok := attrs["pos"]; ok {
		p, err := parsePos(pos)
		if err != nil {
			return fmt.Errorf("node %s: %w", id, err)
		}
		centers[id] = p
	}
	return nil
}

// currentGroup returns the innermost open cluster, or "".
func currentGroup(groups []string) string {
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] != "" {
			return groups[i]
		}
	}
	return ""
}

// parseAttributes parses DOT attribute string into a map
func (g *GraphvizImporter) parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, match := range dotAttr.FindAllStringSubmatch(attrStr, -1) {
		attrs[match[1]] = match[2] + match[3]
	}
	return attrs
}

// normalizeShape converts Graphviz shape names to element types
func (g *GraphvizImporter) normalizeShape(shape string) string {
	switch strings.ToLower(shape) {
	case "ellipse", "oval", "circle", "doublecircle", "point":
		return "ellipse"
	case "diamond":
		return "diamond"
	case "note":
		return "note"
	default:
		return "rectangle"
	}
}

// GetFormatName returns the format name
func (g *GraphvizImporter) GetFormatName() string {
	return "Graphviz"
}

// GetFileExtensions returns common file extensions
func (g *GraphvizImporter) GetFileExtensions() []string {
	return []string{".dot", ".gv"}
}

// splitStatements splits a line into statements. Braces that share a
// line with a statement, as in `digraph { a -> b }`, become statements of
// their own.
func splitStatements(line string) []string {
	var out []string
	for _, stmt := range splitSemicolons(line) {
		if dotHeader.MatchString(stmt) {
			_, after, _ := strings.Cut(stmt, "{")
			stmt = strings.TrimSpace(after)
		}
		if stmt != "}" && strings.HasSuffix(stmt, "}") {
			out = append(out, strings.TrimSpace(strings.TrimSuffix(stmt, "}")), "}")
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// splitSemicolons splits a line on semicolons outside quotes.
func splitSemicolons(line string) []string {
	var out []string
	var cur strings.Builder
	quoted, escaped := false, false
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ';' && !quoted:
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	return append(out, strings.TrimSpace(cur.String()))
}

// splitAttributes separates `A -> B [label="x"]` into body and attribute text.
func splitAttributes(stmt string) (body, attrs string) {
	quoted := false
	for i, r := range stmt {
		switch {
		case r == '"':
			quoted = !quoted
		case r == '[' && !quoted:
			end := strings.LastIndex(stmt, "]")
			if end < i {
				end = len(stmt)
			}
			return stmt[:i], stmt[i+1 : end]
		}
	}
	return stmt, ""
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return unescapeDOT(s[1 : len(s)-1])
	}
	return s
}

func unescapeDOT(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\l`, "\n", `\\`, `\`).Replace(s)
}

func inches(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, false
	}
	return round2(v * pointsPerInch), true
}

// parsePos reads "x,y" or "x,y!" and flips DOT's upward y axis.
func parsePos(s string) (geometry.Point, error) {
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(s), "!"), ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("bad pos %q", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return geometry.Point{}, fmt.Errorf("bad pos %q", s)
	}
	return geometry.Point{X: x, Y: -y}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
