package importer

import (
	"fmt"
	"regexp"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/layout"
)

// MermaidImporter imports Mermaid flowcharts
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

var (
	mermaidHeader   = regexp.MustCompile(`^(graph|flowchart)(?:\s+([A-Za-z]{2}))?\s*;?$`)
	mermaidID       = regexp.MustCompile(`^[A-Za-z0-9_]+`)
	mermaidSubgraph = regexp.MustCompile(`^subgraph\s+([A-Za-z0-9_]+)\s*(?:\[\s*"?([^"\]]*)"?\s*\])?\s*$`)
	mermaidStyle    = regexp.MustCompile(`^style\s+([A-Za-z0-9_]+)\s+(.*)$`)
	mermaidFill     = regexp.MustCompile(`fill:\s*(#[0-9A-Fa-f]{3,8})`)
	// Edge operator with an optional |label|. The second alternative is
	// the "A -- text --> B" form.
	mermaidEdge = regexp.MustCompile(`^(?:(<-->|-\.->|-\.-|==>|===|-->|---|--x|--o)|--\s*([^|>-][^>]*?)\s*-->)\s*(?:\|([^|]*)\|)?`)
)

// Node shapes, longest delimiters first.
var mermaidShapes = []struct {
	open, close, typ string
}{
	{"((", "))", "ellipse"},
	{"{{", "}}", "diamond"},
	{"[[", "]]", "rectangle"},
	{"[(", ")]", "rectangle"},
	{"([", "])", "rectangle"},
	{"[", "]", "rectangle"},
	{"(", ")", "rectangle"},
	{"{", "}", "diamond"},
	{">", "]", "note"},
}

// CanImport checks if the content is a Mermaid flowchart
func (m *MermaidImporter) CanImport(content string) bool {
	return mermaidHeader.MatchString(firstLine(content, "%%"))
}

// Import converts Mermaid content to a diagram
func (m *MermaidImporter) Import(content string) (*Result, error) {
	header := mermaidHeader.FindStringSubmatch(firstLine(content, "%%"))
	if header == nil {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}
	res := &Result{Direction: layout.TopToBottom}
	if dir, ok := layout.ParseDirection(header[2]); ok {
		res.Direction = dir
	}

	b := newBuilder()
	var groups []string
	headerSeen := false

	for n, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		switch {
		case strings.HasPrefix(line, "subgraph"):
			match := mermaidSubgraph.FindStringSubmatch(line)
			if match == nil {
				return nil, fmt.Errorf("line %d: bad subgraph %q", n+1, line)
			}
			f := b.element(match[1])
			f.Type = diagram.FrameType
			f.Label = m.unescape(match[2])
			if len(groups) > 0 {
				f.GroupID = groups[len(groups)-1]
			}
			groups = append(groups, match[1])
			continue
		case line == "end":
			if len(groups) > 0 {
				groups = groups[:len(groups)-1]
			}
			continue
		case strings.HasPrefix(line, "direction "):
			continue
		case strings.HasPrefix(line, "style "):
			if match := mermaidStyle.FindStringSubmatch(line); match != nil {
				if fill := mermaidFill.FindStringSubmatch(match[2]); fill != nil && b.has(match[1]) {
					b.element(match[1]).Color = strings.ToLower(fill[1])
				}
			}
			continue
		case strings.HasPrefix(line, "classDef "), strings.HasPrefix(line, "class "),
			strings.HasPrefix(line, "linkStyle "), strings.HasPrefix(line, "click "):
			continue
		}

		group := ""
		if len(groups) > 0 {
			group = groups[len(groups)-1]
		}
		if err := m.statement(b, line, group); err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
	}

	d, err := b.diagram()
	if err != nil {
		return nil, err
	}
	res.Diagram = d
	return res, nil
}

// statement parses a node chain such as `A[Start] -->|go| B((End))`.
func (m *MermaidImporter) statement(b *builder, line, group string) error {
	rest := line
	prev, pending := "", ""
	expectNode := true

	for rest = strings.TrimSpace(rest); rest != ""; rest = strings.TrimSpace(rest) {
		if !expectNode {
			match := mermaidEdge.FindStringSubmatch(rest)
			if match == nil {
				return fmt.Errorf("expected an arrow at %q", rest)
			}
			pending = match[3]
			if pending == "" {
				pending = match[2]
			}
			pending = m.unescape(strings.Trim(strings.TrimSpace(pending), `"`))
			rest = rest[len(match[0]):]
			expectNode = true
			continue
		}

		id := mermaidID.FindString(rest)
		if id == "" {
			return fmt.Errorf("expected a node at %q", rest)
		}
		rest = rest[len(id):]
		isNew := !b.has(id)
		e := b.element(id)
		if isNew && group != "" && e.Type != diagram.FrameType {
			e.GroupID = group
		}

		for _, s := range mermaidShapes {
			if !strings.HasPrefix(rest, s.open) {
				continue
			}
			text, after, ok := m.shapeText(rest[len(s.open):], s.close)
			if !ok {
				return fmt.Errorf("unclosed %q after %s", s.open, id)
			}
			e.Type = s.typ
			e.Label = text
			rest = after
			break
		}

		if prev != "" {
			b.connect(prev, id, pending)
		}
		prev, pending = id, ""
		expectNode = false
	}
	if expectNode && prev != "" {
		return fmt.Errorf("arrow without a target")
	}
	return nil
}

// shapeText reads a possibly quoted label up to the closing delimiter.
func (m *MermaidImporter) shapeText(s, closing string) (text, rest string, ok bool) {
	if strings.HasPrefix(s, `"`) {
		end := strings.Index(s[1:], `"`)
		if end < 0 {
			return "", "", false
		}
		text = s[1 : end+1]
		s = s[end+2:]
		if !strings.HasPrefix(s, closing) {
			return "", "", false
		}
		return m.unescape(text), s[len(closing):], true
	}
	end := strings.Index(s, closing)
	if end < 0 {
		return "", "", false
	}
	return m.unescape(strings.TrimSpace(s[:end])), s[end+len(closing):], true
}

func (m *MermaidImporter) unescape(s string) string {
	s = strings.ReplaceAll(s, "#quot;", `"`)
	s = strings.ReplaceAll(s, "<br/>", "\n")
	return strings.ReplaceAll(s, "<br>", "\n")
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}

// firstLine returns the first non-blank line that is not a comment.
func firstLine(content, comment string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, comment) {
			return line
		}
	}
	return ""
}
