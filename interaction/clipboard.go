package interaction

import (
	"errors"
	"slices"

	"diagramstudio/clipboard"
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
)

// selectionPayload captures the selected elements relative to their
// bounding-box origin, plus the connections with both ends selected.
// Waypoints are stored relative to the same origin.
func (c *Coordinator) selectionPayload() (clipboard.Payload, bool) {
	ids := c.store.SelectedElementIDs()
	if len(ids) == 0 {
		return clipboard.Payload{}, false
	}

	var (
		els   []diagram.Element
		rects []geometry.Rect
	)
	for _, id := range ids {
		e, ok := c.store.Element(id)
		if !ok {
			continue
		}
		els = append(els, e.Clone())
		rects = append(rects, c.bounds(e))
	}
	box, ok := geometry.Bounds(rects)
	if !ok {
		return clipboard.Payload{}, false
	}

	p := clipboard.Payload{Format: clipboard.Format, Origin: box.Min()}
	for _, e := range els {
		e.X -= box.X
		e.Y -= box.Y
		p.Elements = append(p.Elements, e)
	}
	for _, conn := range c.store.Connections() {
		if slices.Contains(ids, conn.SourceID) && slices.Contains(ids, conn.TargetID) {
			conn = conn.Clone()
			for i := range conn.Waypoints {
				conn.Waypoints[i] = conn.Waypoints[i].Sub(p.Origin)
			}
			p.Connections = append(p.Connections, conn)
		}
	}
	return p, true
}

// Copy stores the selection for Paste and mirrors it to the configured
// board. It reports whether anything was selected.
func (c *Coordinator) Copy() bool {
	p, ok := c.selectionPayload()
	if !ok {
		return false
	}
	c.clip = &p
	if c.opts.Board != nil {
		if err := c.opts.Board.Write(p); err != nil {
			logging.Logger().Warn("clipboard mirror failed", "error", err)
		}
	}
	logging.Logger().Debug("selection copied", "elements", len(p.Elements), "connections", len(p.Connections))
	return true
}

// Cut copies the selection and removes it with one history entry.
func (c *Coordinator) Cut() bool {
	if !c.Copy() {
		return false
	}
	c.store.RemoveElements(c.store.SelectedElementIDs()...)
	c.store.RecordHistory()
	return true
}

// Paste inserts the copied selection with fresh ids, offset by
// PasteOffset from where it was last placed, and selects it. Each paste
// moves further along the diagonal. It returns the new element ids.
func (c *Coordinator) Paste() ([]string, bool) {
	if c.clip.IsEmpty() && c.opts.Board != nil {
		p, err := c.opts.Board.Read()
		switch {
		case err == nil:
			c.clip = &p
		case errors.Is(err, clipboard.ErrEmpty), errors.Is(err, clipboard.ErrFormat):
		default:
			logging.Logger().Warn("clipboard read failed", "error", err)
		}
	}
	if c.clip.IsEmpty() {
		return nil, false
	}

	origin := c.clip.Origin.Add(geometry.Point{X: c.opts.PasteOffset, Y: c.opts.PasteOffset})
	ids := c.insert(*c.clip, origin)
	c.clip.Origin = origin
	return ids, true
}

// Duplicate pastes a copy of the selection next to it without touching
// the clipboard. One history entry covers the whole operation.
func (c *Coordinator) Duplicate() ([]string, bool) {
	p, ok := c.selectionPayload()
	if !ok {
		return nil, false
	}
	return c.insert(p, p.Origin.Add(geometry.Point{X: c.opts.PasteOffset, Y: c.opts.PasteOffset})), true
}

// insert adds the payload at origin under fresh ids, remapping connection
// endpoints, selects the new elements and records one history entry.
func (c *Coordinator) insert(p clipboard.Payload, origin geometry.Point) []string {
	remap := make(map[string]string, len(p.Elements))
	ids := make([]string, 0, len(p.Elements))
	for _, e := range p.Elements {
		e = e.Clone()
		id := c.opts.IDs.NewID("el")
		remap[e.ID] = id
		e.ID = id
		e.X += origin.X
		e.Y += origin.Y
		c.store.AddElement(e)
		ids = append(ids, id)
	}
	for _, conn := range p.Connections {
		src, okS := remap[conn.SourceID]
		dst, okT := remap[conn.TargetID]
		if !okS || !okT {
			continue
		}
		conn = conn.Clone()
		conn.ID = c.opts.IDs.NewID("conn")
		conn.SourceID, conn.TargetID = src, dst
		for i := range conn.Waypoints {
			conn.Waypoints[i] = conn.Waypoints[i].Add(origin)
		}
		c.store.AddConnection(conn)
	}

	c.store.ClearSelection()
	for _, id := range ids {
		c.store.SelectElement(id, true)
	}
	c.store.RecordHistory()
	logging.Logger().Debug("selection inserted", "elements", len(ids), "x", origin.X, "y", origin.Y)
	return ids
}

// DeleteSelection removes the selected elements, their connections and
// the selected connection with one history entry.
func (c *Coordinator) DeleteSelection() bool {
	ids := c.store.SelectedElementIDs()
	conn := c.store.SelectedConnectionID()
	if len(ids) == 0 && conn == "" {
		return false
	}
	if len(ids) > 0 {
		c.store.RemoveElements(ids...)
	}
	if conn != "" {
		c.store.RemoveConnections(conn)
	}
	c.store.RecordHistory()
	return true
}
