package interaction

import (
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
)

// QuickCreatePosition returns where quick-create places an element of
// size next to source through port. The default spot sits spacing away
// in the port's direction; while it overlaps an existing box the
// candidate zig-zags across the exit axis (+1, -1, +2, -2 steps), up to
// tries probes. If every probe overlaps the default spot is used.
func QuickCreatePosition(source geometry.Rect, port diagram.PortID, size geometry.Size, existing []geometry.Rect, spacing float64, tries int) geometry.Point {
	c := source.Center()
	var base, step geometry.Point
	switch port {
	case diagram.PortLeft:
		base = geometry.Point{X: source.X - spacing - size.Width, Y: c.Y - size.Height/2}
		step = geometry.Point{Y: size.Height + spacing/2}
	case diagram.PortTop:
		base = geometry.Point{X: c.X - size.Width/2, Y: source.Y - spacing - size.Height}
		step = geometry.Point{X: size.Width + spacing/2}
	case diagram.PortBottom:
		base = geometry.Point{X: c.X - size.Width/2, Y: source.Bottom() + spacing}
		step = geometry.Point{X: size.Width + spacing/2}
	default:
		base = geometry.Point{X: source.Right() + spacing, Y: c.Y - size.Height/2}
		step = geometry.Point{Y: size.Height + spacing/2}
	}

	for i := range max(tries, 1) {
		k := float64((i + 1) / 2)
		if i%2 == 0 {
			k = -k
		}
		p := base.Add(step.Scale(k))
		if !overlapsAny(geometry.RectAt(p, size), existing) {
			return p
		}
	}
	return base
}

func overlapsAny(r geometry.Rect, rects []geometry.Rect) bool {
	for _, o := range rects {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}

// QuickCreate adds an element next to sourceID through port and connects
// the two, entering the new element on the opposite side. The new element
// and connection share one history entry. It returns the new element id.
func (c *Coordinator) QuickCreate(sourceID string, port diagram.PortID) (string, bool) {
	src, ok := c.store.Element(sourceID)
	if !ok {
		return "", false
	}
	if !port.IsSide() {
		port = diagram.PortRight
	}

	el := diagram.Element{
		ID:      c.opts.IDs.NewID("el"),
		Type:    src.Type,
		PackID:  src.PackID,
		LayerID: src.LayerID,
	}
	if c.opts.QuickCreateType != "" {
		el.Type = c.opts.QuickCreateType
	}
	if src.Size != nil && el.Type == src.Type {
		s := *src.Size
		el.Size = &s
	}

	existing := make([]geometry.Rect, 0, len(c.store.Elements()))
	for _, e := range c.store.Elements() {
		existing = append(existing, c.bounds(e))
	}
	p := QuickCreatePosition(c.bounds(src), port, el.EffectiveSize(c.registry), existing,
		c.opts.QuickCreateSpacing, c.opts.QuickCreateTries)
	el.X, el.Y = p.X, p.Y

	conn, err := diagram.NewConnection(c.opts.IDs.NewID("conn"), src.ID, el.ID, port, port.Opposite(), c.opts.DefaultLineStyle)
	if err != nil {
		return "", false
	}
	conn.ManualPorts = true

	c.store.AddElement(el)
	c.store.AddConnection(conn)
	c.store.SelectElement(el.ID, false)
	c.store.RecordHistory()
	logging.Logger().Debug("quick-created element", "id", el.ID, "source", src.ID, "port", string(port))
	return el.ID, true
}
