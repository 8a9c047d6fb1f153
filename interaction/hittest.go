package interaction

import (
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/pathfinding"
)

// flattenSteps samples curves for connection hit testing.
const flattenSteps = 16

// HitTest resolves what lies under a screen point. Handles of the
// selected connection win over the resize handle of a selected element,
// then ports, element bodies (topmost first), connection lines and
// finally the canvas.
func (c *Coordinator) HitTest(screen geometry.Point) Target {
	p := c.toDiagram(screen)
	r := c.handleRadius()
	elements := c.store.Elements()

	if id := c.store.SelectedConnectionID(); id != "" {
		if conn, ok := c.store.Connection(id); ok {
			if t, ok := c.hitConnectionHandles(conn, elements, p, r); ok {
				return t
			}
		}
	}

	for _, id := range c.store.SelectedElementIDs() {
		e, ok := c.store.Element(id)
		if !ok || e.Locked {
			continue
		}
		if c.bounds(e).Max().Distance(p) <= r {
			return Target{Kind: TargetResize, ElementID: id}
		}
	}

	top := c.elementsTopDown()
	for _, e := range top {
		b := c.bounds(e)
		for _, port := range diagram.SidePorts {
			if pathfinding.PortPosition(b, port).Distance(p) <= r {
				return Target{Kind: TargetPort, ElementID: e.ID, Port: port}
			}
		}
	}

	for _, e := range top {
		if c.bounds(e).Contains(p) {
			return Target{Kind: TargetElement, ElementID: e.ID}
		}
	}

	conns := c.store.Connections()
	for i := len(conns) - 1; i >= 0; i-- {
		route, ok := c.router.Route(conns[i], elements)
		if !ok {
			continue
		}
		if _, d := pathfinding.NearestSegment(route.Path.Flatten(flattenSteps), p); d > r {
			continue
		}
		idx, _ := pathfinding.NearestSegment(route.Points, p)
		return Target{Kind: TargetSegment, ConnectionID: conns[i].ID, Index: max(idx, 0)}
	}

	return Target{Kind: TargetCanvas}
}

func (c *Coordinator) hitConnectionHandles(conn diagram.Connection, elements []diagram.Element, p geometry.Point, r float64) (Target, bool) {
	route, ok := c.router.Route(conn, elements)
	if !ok {
		return Target{}, false
	}
	switch {
	case route.Source.Distance(p) <= r:
		return Target{Kind: TargetEndpoint, ConnectionID: conn.ID, End: EndSource}, true
	case route.Target.Distance(p) <= r:
		return Target{Kind: TargetEndpoint, ConnectionID: conn.ID, End: EndTarget}, true
	}
	for i, wp := range conn.Waypoints {
		if wp.Distance(p) <= r {
			return Target{Kind: TargetWaypoint, ConnectionID: conn.ID, Index: i}, true
		}
	}
	if HasCurveHandle(route.Style) && len(conn.Waypoints) == 0 {
		if CurveHandle(route.Source, route.Target, conn.CurveAmount).Distance(p) <= r {
			return Target{Kind: TargetCurve, ConnectionID: conn.ID}, true
		}
	}
	return Target{}, false
}

// HasCurveHandle reports whether connections of the style can be bent.
func HasCurveHandle(style diagram.LineStyle) bool {
	switch style.Normalize() {
	case diagram.LineArc, diagram.LineCurved:
		return true
	}
	return false
}
