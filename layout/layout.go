// Package layout positions diagram elements that arrive without
// coordinates, such as graphs imported from text formats.
package layout

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Direction is the flow of the layered layout.
type Direction int

const (
	LeftToRight Direction = iota
	TopToBottom
)

func (d Direction) String() string {
	if d == TopToBottom {
		return "TB"
	}
	return "LR"
}

// ParseDirection maps Mermaid and Graphviz direction keywords.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LR", "RL":
		return LeftToRight, true
	case "TD", "TB", "BT":
		return TopToBottom, true
	}
	return LeftToRight, false
}

// Layout defaults in diagram units.
const (
	DefaultLayerSpacing = 80.0
	DefaultNodeSpacing  = 40.0
	DefaultFramePadding = 20.0
	frameLabelSpace     = 20.0
	gridSize            = 10.0
)

// Layered assigns columns (or rows) by longest path from the sources, so
// every edge that is not part of a cycle points forward.
type Layered struct {
	Direction    Direction
	LayerSpacing float64 // Gap between layers
	NodeSpacing  float64 // Gap between elements of one layer
	FramePadding float64
	Registry     diagram.Registry
}

// NewLayered creates a left-to-right layout with default spacing.
func NewLayered(reg diagram.Registry) *Layered {
	return &Layered{
		Direction:    LeftToRight,
		LayerSpacing: DefaultLayerSpacing,
		NodeSpacing:  DefaultNodeSpacing,
		FramePadding: DefaultFramePadding,
		Registry:     reg,
	}
}

// Apply positions every non-frame element of d, then fits frames around
// their members.
func (l *Layered) Apply(d *diagram.Diagram) {
	layers := Layers(d, l.Registry)

	// Main axis runs along the flow, cross axis across it.
	main := func(s geometry.Size) float64 {
		if l.Direction == TopToBottom {
			return s.Height
		}
		return s.Width
	}
	cross := func(s geometry.Size) float64 {
		if l.Direction == TopToBottom {
			return s.Width
		}
		return s.Height
	}

	index := make(map[string]int, len(d.Elements))
	for i, e := range d.Elements {
		index[e.ID] = i
	}
	size := func(id string) geometry.Size {
		return d.Elements[index[id]].EffectiveSize(l.Registry)
	}

	extents := make([]float64, len(layers))
	var widest float64
	for i, layer := range layers {
		for j, id := range layer {
			extents[i] += cross(size(id))
			if j > 0 {
				extents[i] += l.NodeSpacing
			}
		}
		widest = math.Max(widest, extents[i])
	}

	var pos float64
	for i, layer := range layers {
		var depth float64
		for _, id := range layer {
			depth = math.Max(depth, main(size(id)))
		}

		offset := geometry.Snap((widest-extents[i])/2, gridSize)
		for _, id := range layer {
			s := size(id)
			// Center each element on the layer's axis.
			along := pos + (depth-main(s))/2
			e := &d.Elements[index[id]]
			if l.Direction == TopToBottom {
				e.X, e.Y = geometry.Snap(offset, gridSize), geometry.Snap(along, gridSize)
			} else {
				e.X, e.Y = geometry.Snap(along, gridSize), geometry.Snap(offset, gridSize)
			}
			offset += cross(s) + l.NodeSpacing
		}
		pos += depth + l.LayerSpacing
	}

	FitFrames(d, l.Registry, l.FramePadding)
}

// Layers groups the non-frame elements of d by longest-path rank. Edges
// closing a cycle are ignored. Within a layer elements are ordered by the
// mean position of their predecessors, then by input order.
func Layers(d *diagram.Diagram, reg diagram.Registry) [][]string {
	var nodes []string
	order := make(map[string]int)
	for _, e := range d.Elements {
		if diagram.IsFrame(e, reg) {
			continue
		}
		order[e.ID] = len(nodes)
		nodes = append(nodes, e.ID)
	}

	out := make(map[string][]string)
	for _, c := range d.Connections {
		_, okS := order[c.SourceID]
		_, okT := order[c.TargetID]
		if okS && okT && c.SourceID != c.TargetID {
			out[c.SourceID] = append(out[c.SourceID], c.TargetID)
		}
	}

	// Depth-first search drops back edges so the rest is acyclic.
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	forward := make(map[string][]string)
	var post []string
	var visit func(string)
	visit = func(v string) {
		state[v] = active
		for _, w := range out[v] {
			switch state[w] {
			case active:
				continue
			case unvisited:
				visit(w)
			}
			forward[v] = append(forward[v], w)
		}
		state[v] = done
		post = append(post, v)
	}
	for _, v := range nodes {
		if state[v] == unvisited {
			visit(v)
		}
	}

	// Reverse postorder is a topological order of the forward edges.
	rank := make(map[string]int)
	preds := make(map[string][]string)
	maxRank := 0
	for i := len(post) - 1; i >= 0; i-- {
		v := post[i]
		for _, w := range forward[v] {
			rank[w] = max(rank[w], rank[v]+1)
			maxRank = max(maxRank, rank[w])
			preds[w] = append(preds[w], v)
		}
	}

	layers := make([][]string, maxRank+1)
	for _, v := range nodes {
		layers[rank[v]] = append(layers[rank[v]], v)
	}

	slot := make(map[string]float64)
	for i, layer := range layers {
		if i > 0 {
			bary := func(v string) float64 {
				if len(preds[v]) == 0 {
					return math.Inf(1)
				}
				var sum float64
				for _, p := range preds[v] {
					sum += slot[p]
				}
				return sum / float64(len(preds[v]))
			}
			slices.SortStableFunc(layer, func(a, b string) int {
				return cmp.Or(cmp.Compare(bary(a), bary(b)), cmp.Compare(order[a], order[b]))
			})
		}
		for j, v := range layer {
			slot[v] = float64(j)
		}
	}
	return layers
}

// FitFrames sizes every frame to enclose the elements whose GroupID names
// it, with padding and room for the frame label. Frames without members
// keep their geometry. Frames are fitted last to first, so nested frames
// declared after their parent are sized before it.
func FitFrames(d *diagram.Diagram, reg diagram.Registry, padding float64) {
	for i := len(d.Elements) - 1; i >= 0; i-- {
		f := d.Elements[i]
		if !diagram.IsFrame(f, reg) {
			continue
		}
		var rects []geometry.Rect
		for _, e := range d.Elements {
			if e.GroupID == f.ID && e.ID != f.ID {
				rects = append(rects, e.Bounds(reg))
			}
		}
		b, ok := geometry.Bounds(rects)
		if !ok {
			continue
		}
		b = b.Inset(padding)
		b.Y -= frameLabelSpace
		b.Height += frameLabelSpace

		d.Elements[i].X, d.Elements[i].Y = b.X, b.Y
		d.Elements[i].Size = &geometry.Size{Width: b.Width, Height: b.Height}
	}
}
