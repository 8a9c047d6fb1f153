package interaction

import (
	"slices"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
	"diagramstudio/snapping"
)

// dragSession moves the selection as one rigid group. Every element ends
// at its start position plus the same delta.
type dragSession struct {
	primary      string
	starts       map[string]geometry.Point // Start positions of every moving element
	order        []string                  // Moving ids in selection order
	group        geometry.Rect             // Union of the moving elements at start
	offset       geometry.Point            // Pointer position inside the primary element
	startScreen  geometry.Point
	moved        bool
	delta        geometry.Point
	guides       []snapping.Guide
	snapPrimary  bool // Primary is not a frame
	snapTargets  []geometry.Rect
	primaryStart geometry.Rect
}

func (c *Coordinator) beginDrag(ev PointerEvent, id string) {
	el, ok := c.store.Element(id)
	if !ok {
		return
	}
	additive := ev.Mods.Has(ModShift) || ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModMeta)
	if !slices.Contains(c.store.SelectedElementIDs(), id) {
		c.store.SelectElement(id, additive)
	}

	s := &dragSession{
		primary:      id,
		starts:       make(map[string]geometry.Point),
		startScreen:  ev.Screen,
		offset:       c.toDiagram(ev.Screen).Sub(el.Position()),
		primaryStart: c.bounds(el),
		snapPrimary:  !c.isFrame(el),
	}

	var rects []geometry.Rect
	for _, sid := range c.store.SelectedElementIDs() {
		e, ok := c.store.Element(sid)
		if !ok || e.Locked {
			continue
		}
		s.starts[sid] = e.Position()
		s.order = append(s.order, sid)
		rects = append(rects, c.bounds(e))
	}
	if _, ok := s.starts[id]; !ok {
		// Locked primary: nothing moves.
		s.starts = map[string]geometry.Point{}
		s.order = nil
		rects = nil
	}
	s.group, _ = geometry.Bounds(rects)

	if s.snapPrimary {
		for _, e := range c.store.Elements() {
			if _, moving := s.starts[e.ID]; moving || c.isFrame(e) {
				continue
			}
			s.snapTargets = append(s.snapTargets, c.bounds(e))
		}
	}

	c.session = s
	c.Transition(ModeDragging)
}

func (s *dragSession) update(c *Coordinator, ev PointerEvent) {
	if len(s.order) == 0 {
		return
	}
	if !s.moved && ev.Screen.Distance(s.startScreen) < c.opts.DragThreshold {
		return
	}
	s.moved = true
	c.trackEdge(ev.Screen)

	pos := c.toDiagram(ev.Screen).Sub(s.offset)
	delta := clampGroup(s.group, pos.Sub(s.primaryStart.Min()), c.opts.CanvasBounds)

	s.guides = nil
	var snapX, snapY *float64
	if s.snapPrimary {
		res := snapping.CalculateSnapGuides(s.primaryStart.Translate(delta), s.snapTargets, c.opts.SnapThreshold)
		s.guides = res.Guides
		snapX, snapY = res.SnapX, res.SnapY
	}

	// Snapped axes keep the aligned value; the others land on the grid.
	grid := c.opts.GridSize
	start := s.primaryStart.Min()
	if snapX != nil {
		delta.X += *snapX
	} else {
		delta.X = geometry.Snap(start.X+delta.X, grid) - start.X
	}
	if snapY != nil {
		delta.Y += *snapY
	} else {
		delta.Y = geometry.Snap(start.Y+delta.Y, grid) - start.Y
	}
	s.delta = clampGroup(s.group, delta, c.opts.CanvasBounds)
}

// clampGroup limits delta so group stays inside bounds.
func clampGroup(group geometry.Rect, delta geometry.Point, bounds geometry.Rect) geometry.Point {
	if group.Width > bounds.Width || group.Height > bounds.Height {
		return delta
	}
	return geometry.Point{
		X: geometry.Clamp(delta.X, bounds.X-group.X, bounds.Right()-group.Right()),
		Y: geometry.Clamp(delta.Y, bounds.Y-group.Y, bounds.Bottom()-group.Bottom()),
	}
}

func (s *dragSession) commit(c *Coordinator, ev PointerEvent) {
	if !s.moved || len(s.order) == 0 || s.delta == (geometry.Point{}) {
		return
	}
	for _, id := range s.order {
		c.store.UpdateElement(id, diagram.MoveTo(s.starts[id].Add(s.delta)))
	}
	c.store.RecordHistory()
	logging.Logger().Debug("drag committed", "elements", len(s.order), "dx", s.delta.X, "dy", s.delta.Y)
}

func (s *dragSession) cancel(*Coordinator) {}

func (s *dragSession) overlay(o *Overlay) {
	if !s.moved {
		return
	}
	o.Positions = make(map[string]geometry.Point, len(s.starts))
	for id, p := range s.starts {
		o.Positions[id] = p.Add(s.delta)
	}
	o.Guides = s.guides
}
