package diagram

import "diagramstudio/geometry"

// Store is the diagram-state store the interaction coordinator mutates.
// The coordinator never persists anything itself; it only reads the
// current elements and proposes mutations through these calls.
type Store interface {
	// Elements returns the current elements in paint order.
	Elements() []Element

	// Connections returns the current connections.
	Connections() []Connection

	// Element looks up one element by id.
	Element(id string) (Element, bool)

	// Connection looks up one connection by id.
	Connection(id string) (Connection, bool)

	AddElement(e Element)
	UpdateElement(id string, patch ElementPatch)
	RemoveElements(ids ...string)

	AddConnection(c Connection)
	UpdateConnection(id string, patch ConnectionPatch)
	RemoveConnections(ids ...string)

	SelectElement(id string, additive bool)
	SelectConnection(id string)
	ClearSelection()
	SelectedElementIDs() []string
	SelectedConnectionID() string

	// RecordHistory captures a single undoable snapshot per call.
	RecordHistory()
}

// Undoer is implemented by stores that can step through recorded history.
type Undoer interface {
	Undo() bool
	Redo() bool
}

// ElementPatch lists the element fields to change. Nil fields are left alone.
type ElementPatch struct {
	Position *geometry.Point
	Size     *geometry.Size
	Color    *string
	Label    *string
	Locked   *bool
	ZIndex   *int
}

// Apply writes the non-nil fields of the patch into e.
func (p ElementPatch) Apply(e *Element) {
	if p.Position != nil {
		e.X, e.Y = p.Position.X, p.Position.Y
	}
	if p.Size != nil {
		s := *p.Size
		e.Size = &s
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.Locked != nil {
		e.Locked = *p.Locked
	}
	if p.ZIndex != nil {
		e.ZIndex = *p.ZIndex
	}
}

// MoveTo is shorthand for a position-only patch.
func MoveTo(p geometry.Point) ElementPatch {
	return ElementPatch{Position: &p}
}

// ConnectionPatch lists the connection fields to change. Nil fields are left alone.
type ConnectionPatch struct {
	SourceID    *string
	TargetID    *string
	SourcePort  *PortID
	TargetPort  *PortID
	LineStyle   *LineStyle
	Waypoints   *[]geometry.Point
	CurveAmount *float64
	ManualPorts *bool
	Label       *string
}

// Apply writes the non-nil fields of the patch into c.
func (p ConnectionPatch) Apply(c *Connection) {
	if p.SourceID != nil {
		c.SourceID = *p.SourceID
	}
	if p.TargetID != nil {
		c.TargetID = *p.TargetID
	}
	if p.SourcePort != nil {
		c.SourcePort = *p.SourcePort
	}
	if p.TargetPort != nil {
		c.TargetPort = *p.TargetPort
	}
	if p.LineStyle != nil {
		c.LineStyle = *p.LineStyle
	}
	if p.Waypoints != nil {
		c.Waypoints = append([]geometry.Point(nil), (*p.Waypoints)...)
	}
	if p.CurveAmount != nil {
		v := *p.CurveAmount
		c.CurveAmount = &v
	}
	if p.ManualPorts != nil {
		c.ManualPorts = *p.ManualPorts
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
}
