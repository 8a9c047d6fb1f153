// Package diagram contains the data model shared by the routing engine and
// the interaction coordinator: elements, connections, ports, line styles,
// the shape registry and the diagram-state store contract.
package diagram

import (
	"errors"
	"maps"
	"slices"

	"diagramstudio/geometry"
)

// Common errors
var (
	ErrSelfConnection = errors.New("connection source and target are the same element")
	ErrNotFound       = errors.New("element not found")
)

// PortID names an anchor on an element's boundary.
type PortID string

// Port identifiers. The empty string is treated like PortAuto.
const (
	PortTop    PortID = "top"
	PortRight  PortID = "right"
	PortBottom PortID = "bottom"
	PortLeft   PortID = "left"
	PortCenter PortID = "center"
	PortAuto   PortID = "auto"
)

// IsAuto reports whether the port must be recomputed from element positions.
func (p PortID) IsAuto() bool {
	return p == "" || p == PortAuto
}

// IsSide reports whether the port lies on one of the four edges.
func (p PortID) IsSide() bool {
	switch p {
	case PortTop, PortRight, PortBottom, PortLeft:
		return true
	}
	return false
}

// Horizontal reports whether the port exits along the X axis.
func (p PortID) Horizontal() bool {
	return p == PortLeft || p == PortRight
}

// Vertical reports whether the port exits along the Y axis.
func (p PortID) Vertical() bool {
	return p == PortTop || p == PortBottom
}

// Opposite returns the port on the other side of the element.
func (p PortID) Opposite() PortID {
	switch p {
	case PortTop:
		return PortBottom
	case PortBottom:
		return PortTop
	case PortLeft:
		return PortRight
	case PortRight:
		return PortLeft
	default:
		return p
	}
}

// SidePorts lists the four edge ports in clockwise order.
var SidePorts = []PortID{PortTop, PortRight, PortBottom, PortLeft}

// LineStyle selects the connector path strategy.
type LineStyle string

// Line styles. The empty string is treated like LineCurved.
const (
	LineStraight  LineStyle = "straight"
	LineArc       LineStyle = "arc"
	LineCurved    LineStyle = "curved"
	LineSmart     LineStyle = "smart"
	LineStep      LineStyle = "step"
	LineStepSharp LineStyle = "step-sharp"
)

// Normalize maps the empty style to the default.
func (s LineStyle) Normalize() LineStyle {
	if s == "" {
		return LineCurved
	}
	return s
}

// Orthogonal reports whether the style uses Manhattan routing.
func (s LineStyle) Orthogonal() bool {
	return s == LineStep || s == LineStepSharp
}

// Element is a positioned shape. X,Y is the top-left corner in diagram space.
type Element struct {
	ID      string            `json:"id"`
	Type    string            `json:"type"`
	PackID  string            `json:"packId,omitempty"`
	X       float64           `json:"x"`
	Y       float64           `json:"y"`
	Size    *geometry.Size    `json:"size,omitempty"`
	Color   string            `json:"color,omitempty"`
	Label   string            `json:"label,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
	LayerID string            `json:"layerId,omitempty"`
	GroupID string            `json:"groupId,omitempty"`
	ZIndex  int               `json:"zIndex,omitempty"`
	Locked  bool              `json:"locked,omitempty"`
}

// Position returns the top-left corner.
func (e Element) Position() geometry.Point {
	return geometry.Point{X: e.X, Y: e.Y}
}

// EffectiveSize returns the explicit size, then the registry default, then DefaultSize.
func (e Element) EffectiveSize(reg Registry) geometry.Size {
	if e.Size != nil && e.Size.Valid() {
		return *e.Size
	}
	if reg != nil {
		if st, ok := reg.Lookup(e.PackID, e.Type); ok && st.Size.Valid() {
			return st.Size
		}
	}
	return DefaultSize
}

// EffectiveColor returns the explicit color, then the registry default, then DefaultColor.
func (e Element) EffectiveColor(reg Registry) string {
	if e.Color != "" {
		return e.Color
	}
	if reg != nil {
		if st, ok := reg.Lookup(e.PackID, e.Type); ok && st.Color != "" {
			return st.Color
		}
	}
	return DefaultColor
}

// Bounds returns the element's bounding box in diagram space.
func (e Element) Bounds(reg Registry) geometry.Rect {
	return geometry.RectAt(e.Position(), e.EffectiveSize(reg))
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	c := e
	if e.Size != nil {
		s := *e.Size
		c.Size = &s
	}
	c.Data = maps.Clone(e.Data)
	return c
}

// Connection is a directed edge between two elements.
type Connection struct {
	ID          string           `json:"id"`
	SourceID    string           `json:"sourceId"`
	TargetID    string           `json:"targetId"`
	SourcePort  PortID           `json:"sourcePort,omitempty"`
	TargetPort  PortID           `json:"targetPort,omitempty"`
	LineStyle   LineStyle        `json:"lineStyle,omitempty"`
	Waypoints   []geometry.Point `json:"waypoints,omitempty"`
	CurveAmount *float64         `json:"curveAmount,omitempty"`
	ManualPorts bool             `json:"manualPorts,omitempty"`
	Label       string           `json:"label,omitempty"`
}

// NewConnection creates a connection and rejects self-loops.
func NewConnection(id, sourceID, targetID string, sourcePort, targetPort PortID, style LineStyle) (Connection, error) {
	if sourceID == targetID {
		return Connection{}, ErrSelfConnection
	}
	return Connection{
		ID:         id,
		SourceID:   sourceID,
		TargetID:   targetID,
		SourcePort: sourcePort,
		TargetPort: targetPort,
		LineStyle:  style,
	}, nil
}

// Touches reports whether either endpoint is the given element.
func (c Connection) Touches(elementID string) bool {
	return c.SourceID == elementID || c.TargetID == elementID
}

// Clone returns a deep copy of the connection.
func (c Connection) Clone() Connection {
	clone := c
	clone.Waypoints = slices.Clone(c.Waypoints)
	if c.CurveAmount != nil {
		v := *c.CurveAmount
		clone.CurveAmount = &v
	}
	return clone
}

// Diagram is a complete set of elements and connections.
type Diagram struct {
	Elements    []Element    `json:"elements"`
	Connections []Connection `json:"connections"`
	Metadata    Metadata     `json:"metadata,omitempty"`
}

// Metadata contains optional diagram metadata.
type Metadata struct {
	Name    string `json:"name,omitempty"`
	Created string `json:"created,omitempty"`
	Version string `json:"version,omitempty"`
}

// Clone creates a deep copy of the diagram
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	clone := &Diagram{
		Elements:    make([]Element, len(d.Elements)),
		Connections: make([]Connection, len(d.Connections)),
		Metadata:    d.Metadata,
	}
	for i, el := range d.Elements {
		clone.Elements[i] = el.Clone()
	}
	for i, conn := range d.Connections {
		clone.Connections[i] = conn.Clone()
	}
	return clone
}

// Element looks up an element by id.
func (d *Diagram) Element(id string) (Element, bool) {
	for _, el := range d.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}
