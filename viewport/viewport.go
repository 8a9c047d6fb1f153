// Package viewport maps between screen and diagram coordinates and
// implements anchored zoom, wheel zoom and fit-to-content.
//
// Pan is a screen-space translation:
//
//	screen  = diagram*Scale + (X, Y)
//	diagram = (screen - (X, Y)) / Scale
package viewport

import (
	"math"

	"diagramstudio/geometry"
)

// Zoom defaults.
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 4.0
	// WheelStep is the scale change per wheel tick.
	WheelStep = 0.1
)

// Viewport is the pan offset and zoom factor of a canvas.
type Viewport struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the unpanned, unzoomed viewport.
var Identity = Viewport{Scale: 1}

// Pan returns the pan offset as a point.
func (v Viewport) Pan() geometry.Point {
	return geometry.Point{X: v.X, Y: v.Y}
}

// scale guards against a zero or invalid scale.
func (v Viewport) scale() float64 {
	s := geometry.Finite(v.Scale, 1)
	if s <= 0 {
		return 1
	}
	return s
}

// ScreenToDiagram converts a screen point to diagram space.
func (v Viewport) ScreenToDiagram(p geometry.Point) geometry.Point {
	s := v.scale()
	return geometry.Point{X: (p.X - v.X) / s, Y: (p.Y - v.Y) / s}
}

// DiagramToScreen converts a diagram point to screen space.
func (v Viewport) DiagramToScreen(p geometry.Point) geometry.Point {
	s := v.scale()
	return geometry.Point{X: p.X*s + v.X, Y: p.Y*s + v.Y}
}

// ScreenDelta converts a screen-space distance to diagram space.
func (v Viewport) ScreenDelta(d geometry.Point) geometry.Point {
	return d.Scale(1 / v.scale())
}

// Zoomed returns the viewport at newScale with the diagram point under
// anchor (a screen point) left in place. newScale is not clamped.
func (v Viewport) Zoomed(newScale float64, anchor geometry.Point) Viewport {
	if newScale <= 0 || !isFinite(newScale) {
		return v
	}
	ratio := newScale / v.scale()
	return Viewport{
		X:     anchor.X - (anchor.X-v.X)*ratio,
		Y:     anchor.Y - (anchor.Y-v.Y)*ratio,
		Scale: newScale,
	}
}

// Panned returns the viewport moved by a screen-space delta.
func (v Viewport) Panned(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Limits bounds the zoom factor.
type Limits struct {
	Min, Max float64
}

// DefaultLimits returns the default zoom range.
func DefaultLimits() Limits {
	return Limits{Min: DefaultMinZoom, Max: DefaultMaxZoom}
}

// Clamp returns s limited to the range. An empty range leaves s alone.
func (l Limits) Clamp(s float64) float64 {
	if l.Min <= 0 && l.Max <= 0 {
		return s
	}
	lo, hi := l.Min, l.Max
	if hi < lo {
		hi = lo
	}
	return geometry.Clamp(s, lo, hi)
}
