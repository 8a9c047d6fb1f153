package interaction

import (
	"slices"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
	"diagramstudio/pathfinding"
)

// connEdit is the shared state of the connection edit gestures: the
// stored connection and the previewed draft.
type connEdit struct {
	original diagram.Connection
	draft    diagram.Connection
	changed  bool
}

func (e *connEdit) overlay(o *Overlay) {
	if !e.changed {
		return
	}
	d := e.draft.Clone()
	o.Connection = &d
}

func (e *connEdit) cancel(*Coordinator) {}

// save writes the draft's waypoints, ports and curve back in one update
// plus one history entry.
func (e *connEdit) save(c *Coordinator) {
	if !e.changed {
		return
	}
	wps := slices.Clone(e.draft.Waypoints)
	patch := diagram.ConnectionPatch{
		Waypoints:   &wps,
		SourcePort:  &e.draft.SourcePort,
		TargetPort:  &e.draft.TargetPort,
		ManualPorts: &e.draft.ManualPorts,
	}
	if e.draft.CurveAmount != nil {
		patch.CurveAmount = e.draft.CurveAmount
	}
	c.store.UpdateConnection(e.original.ID, patch)
	c.store.RecordHistory()
	logging.Logger().Debug("connection edited", "id", e.original.ID, "mode", c.mode.String())
}

// beginEdit selects the connection and returns its route.
func (c *Coordinator) beginEdit(connID string) (connEdit, pathfinding.Route, bool) {
	conn, ok := c.store.Connection(connID)
	if !ok {
		return connEdit{}, pathfinding.Route{}, false
	}
	route, ok := c.router.Route(conn, c.store.Elements())
	if !ok {
		return connEdit{}, pathfinding.Route{}, false
	}
	if c.store.SelectedConnectionID() != connID {
		c.store.SelectConnection(connID)
	}
	return connEdit{original: conn, draft: conn.Clone()}, route, true
}

// pinPorts fixes the routed ports so later element moves keep the edited
// shape.
func (e *connEdit) pinPorts(r pathfinding.Route) {
	e.draft.SourcePort = r.SourcePort
	e.draft.TargetPort = r.TargetPort
	e.draft.ManualPorts = true
}

// waypointSession drags one waypoint.
type waypointSession struct {
	connEdit
	index int
}

func (c *Coordinator) beginWaypoint(ev PointerEvent, connID string, index int) {
	edit, route, ok := c.beginEdit(connID)
	if !ok || index < 0 || index >= len(edit.original.Waypoints) {
		return
	}
	edit.pinPorts(route)
	c.session = &waypointSession{connEdit: edit, index: index}
	c.Transition(ModeWaypoint)
}

func (s *waypointSession) update(c *Coordinator, ev PointerEvent) {
	p := c.toDiagram(ev.Screen).Snap(c.opts.GridSize)
	if p == s.draft.Waypoints[s.index] {
		return
	}
	s.draft.Waypoints[s.index] = p
	s.changed = true
}

func (s *waypointSession) commit(c *Coordinator, _ PointerEvent) { s.save(c) }

// segmentSession shifts one route segment perpendicular to itself. The
// route becomes explicit waypoints.
type segmentSession struct {
	connEdit
	points     []geometry.Point // Route with both endpoints doubled
	index      int              // First point of the segment in points
	horizontal bool
	start      geometry.Point
}

func (c *Coordinator) beginSegment(ev PointerEvent, connID string, index int) {
	edit, route, ok := c.beginEdit(connID)
	if !ok || index < 0 || index+1 >= len(route.Points) {
		return
	}
	edit.pinPorts(route)

	pts := make([]geometry.Point, 0, len(route.Points)+2)
	pts = append(pts, route.Points[0])
	pts = append(pts, route.Points...)
	pts = append(pts, route.Points[len(route.Points)-1])

	a, b := route.Points[index], route.Points[index+1]
	c.session = &segmentSession{
		connEdit:   edit,
		points:     pts,
		index:      index + 1,
		horizontal: geometry.IsHorizontal(a, b) || (!geometry.IsVertical(a, b) && abs(b.X-a.X) >= abs(b.Y-a.Y)),
		start:      c.toDiagram(ev.Screen),
	}
	c.Transition(ModeSegment)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (s *segmentSession) update(c *Coordinator, ev PointerEvent) {
	d := c.toDiagram(ev.Screen).Sub(s.start)
	pts := slices.Clone(s.points)
	for _, i := range []int{s.index, s.index + 1} {
		if s.horizontal {
			pts[i].Y = geometry.Snap(pts[i].Y+d.Y, c.opts.GridSize)
		} else {
			pts[i].X = geometry.Snap(pts[i].X+d.X, c.opts.GridSize)
		}
	}
	cleaned := pathfinding.CleanupWaypoints(pts)
	var wps []geometry.Point
	if len(cleaned) > 2 {
		wps = slices.Clone(cleaned[1 : len(cleaned)-1])
	}
	s.draft.Waypoints = wps
	s.changed = d != (geometry.Point{})
}

func (s *segmentSession) commit(c *Coordinator, _ PointerEvent) { s.save(c) }

// endpointSession reattaches one end of a connection to another element.
type endpointSession struct {
	connEdit
	end   End
	fixed geometry.Point // Position of the other end
	to    geometry.Point
}

func (c *Coordinator) beginEndpoint(ev PointerEvent, connID string, end End) {
	edit, route, ok := c.beginEdit(connID)
	if !ok {
		return
	}
	fixed := route.Source
	if end == EndSource {
		fixed = route.Target
	}
	c.session = &endpointSession{connEdit: edit, end: end, fixed: fixed, to: c.toDiagram(ev.Screen)}
	c.Transition(ModeEndpoint)
}

func (s *endpointSession) update(c *Coordinator, ev PointerEvent) {
	s.to = c.toDiagram(ev.Screen)
}

func (s *endpointSession) commit(c *Coordinator, ev PointerEvent) {
	p := c.toDiagram(ev.Screen)
	other := s.original.SourceID
	if s.end == EndSource {
		other = s.original.TargetID
	}

	var (
		el   diagram.Element
		port diagram.PortID
		ok   bool
	)
	if (ev.Target.Kind == TargetPort || ev.Target.Kind == TargetElement) && ev.Target.ElementID != other {
		el, ok = c.store.Element(ev.Target.ElementID)
		port = ev.Target.Port
	} else {
		el, ok = c.elementAt(p, other)
	}
	if !ok || el.ID == other {
		return
	}
	if !port.IsSide() {
		port = pathfinding.NearestPort(c.bounds(el), p)
	}

	manual := true
	patch := diagram.ConnectionPatch{ManualPorts: &manual}
	if s.end == EndSource {
		if el.ID == s.original.SourceID && port == s.original.SourcePort && s.original.ManualPorts {
			return
		}
		patch.SourceID, patch.SourcePort = &el.ID, &port
	} else {
		if el.ID == s.original.TargetID && port == s.original.TargetPort && s.original.ManualPorts {
			return
		}
		patch.TargetID, patch.TargetPort = &el.ID, &port
	}
	c.store.UpdateConnection(s.original.ID, patch)
	c.store.RecordHistory()
	logging.Logger().Debug("connection reattached", "id", s.original.ID, "element", el.ID, "port", string(port))
}

func (s *endpointSession) overlay(o *Overlay) {
	o.ConnectionLine = &[2]geometry.Point{s.fixed, s.to}
}

// curveSession bends a connection. The curve amount is the signed
// distance of the pointer from the source-target line, measured along its
// perpendicular.
type curveSession struct {
	connEdit
	source, target geometry.Point
}

func (c *Coordinator) beginCurve(ev PointerEvent, connID string) {
	edit, route, ok := c.beginEdit(connID)
	if !ok {
		return
	}
	c.session = &curveSession{connEdit: edit, source: route.Source, target: route.Target}
	c.Transition(ModeCurve)
}

// CurveAmountAt returns the curve amount that puts the curve handle of a
// source-target connection at p.
func CurveAmountAt(source, target, p geometry.Point) float64 {
	return p.Sub(source.Midpoint(target)).Dot(target.Sub(source).Perp())
}

// CurveHandle returns where the curve handle of a connection is drawn.
func CurveHandle(source, target geometry.Point, amount *float64) geometry.Point {
	mid := source.Midpoint(target)
	if amount == nil {
		return mid
	}
	return mid.Add(target.Sub(source).Perp().Scale(*amount))
}

func (s *curveSession) update(c *Coordinator, ev PointerEvent) {
	amount := CurveAmountAt(s.source, s.target, c.toDiagram(ev.Screen))
	s.draft.CurveAmount = &amount
	s.changed = s.original.CurveAmount == nil || *s.original.CurveAmount != amount
}

func (s *curveSession) commit(c *Coordinator, _ PointerEvent) {
	if !s.changed || s.draft.CurveAmount == nil {
		return
	}
	c.store.UpdateConnection(s.original.ID, diagram.ConnectionPatch{CurveAmount: s.draft.CurveAmount})
	c.store.RecordHistory()
}

// InsertWaypoint adds p (diagram space) to a connection's waypoints,
// keeping them ordered by distance from the source port.
func (c *Coordinator) InsertWaypoint(connID string, p geometry.Point) bool {
	conn, ok := c.store.Connection(connID)
	if !ok {
		return false
	}
	route, ok := c.router.Route(conn, c.store.Elements())
	if !ok {
		return false
	}
	wps := pathfinding.InsertWaypointSorted(conn.Waypoints, p.Snap(c.opts.GridSize), route.Source)
	c.store.UpdateConnection(connID, diagram.ConnectionPatch{Waypoints: &wps})
	c.store.RecordHistory()
	return true
}

// RemoveWaypoint deletes waypoint i of a connection.
func (c *Coordinator) RemoveWaypoint(connID string, i int) bool {
	conn, ok := c.store.Connection(connID)
	if !ok || i < 0 || i >= len(conn.Waypoints) {
		return false
	}
	wps := pathfinding.RemoveWaypoint(conn.Waypoints, i)
	c.store.UpdateConnection(connID, diagram.ConnectionPatch{Waypoints: &wps})
	c.store.RecordHistory()
	return true
}
