package pathfinding

import (
	"math"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// DefaultPortRatio places side ports in the middle of their edge.
const DefaultPortRatio = 0.5

// ResolvePortPosition returns the boundary point of a named port for an
// element whose top-left corner is pos. The ratio runs along the edge and
// is clamped to [0,1]. Unknown and auto ports resolve to the center.
func ResolvePortPosition(pos geometry.Point, size geometry.Size, port diagram.PortID, ratio float64) geometry.Point {
	if math.IsNaN(ratio) {
		ratio = DefaultPortRatio
	}
	ratio = geometry.Clamp(ratio, 0, 1)
	w, h := size.Width, size.Height

	switch port {
	case diagram.PortTop:
		return geometry.Pt(pos.X+w*ratio, pos.Y)
	case diagram.PortBottom:
		return geometry.Pt(pos.X+w*ratio, pos.Y+h)
	case diagram.PortLeft:
		return geometry.Pt(pos.X, pos.Y+h*ratio)
	case diagram.PortRight:
		return geometry.Pt(pos.X+w, pos.Y+h*ratio)
	default:
		return geometry.Pt(pos.X+w/2, pos.Y+h/2)
	}
}

// PortPosition resolves a port on a bounding box with the default ratio.
func PortPosition(box geometry.Rect, port diagram.PortID) geometry.Point {
	return ResolvePortPosition(box.Min(), box.Size(), port, DefaultPortRatio)
}

// PortDirection returns the outward unit vector of a port. Center and auto
// ports have no direction.
func PortDirection(port diagram.PortID) geometry.Point {
	switch port {
	case diagram.PortTop:
		return geometry.Pt(0, -1)
	case diagram.PortBottom:
		return geometry.Pt(0, 1)
	case diagram.PortLeft:
		return geometry.Pt(-1, 0)
	case diagram.PortRight:
		return geometry.Pt(1, 0)
	default:
		return geometry.Point{}
	}
}

// ChooseOptimalPorts picks the exit and entry sides for an automatically
// routed connector. Boxes sharing a Y range connect left/right, boxes
// sharing an X range connect top/bottom, and diagonal pairs use the
// dominant axis with top/bottom as the default.
func ChooseOptimalPorts(source, target geometry.Rect) (diagram.PortID, diagram.PortID) {
	sc, tc := source.Center(), target.Center()
	dx, dy := tc.X-sc.X, tc.Y-sc.Y

	switch {
	case source.OverlapsY(target):
		return horizontalPair(dx)
	case source.OverlapsX(target):
		return verticalPair(dy)
	case math.Abs(dx) > math.Abs(dy)*1.5:
		return horizontalPair(dx)
	default:
		return verticalPair(dy)
	}
}

func horizontalPair(dx float64) (diagram.PortID, diagram.PortID) {
	if dx >= 0 {
		return diagram.PortRight, diagram.PortLeft
	}
	return diagram.PortLeft, diagram.PortRight
}

func verticalPair(dy float64) (diagram.PortID, diagram.PortID) {
	if dy >= 0 {
		return diagram.PortBottom, diagram.PortTop
	}
	return diagram.PortTop, diagram.PortBottom
}

// NearestPort returns the side port of box closest to p.
func NearestPort(box geometry.Rect, p geometry.Point) diagram.PortID {
	best := diagram.PortTop
	bestDist := math.Inf(1)
	for _, port := range diagram.SidePorts {
		if d := PortPosition(box, port).Distance(p); d < bestDist {
			best, bestDist = port, d
		}
	}
	return best
}
