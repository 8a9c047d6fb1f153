package viewport

import (
	"math"

	"diagramstudio/geometry"
)

// Host owns the viewport of one canvas.
type Host interface {
	Viewport() Viewport
	SetViewport(Viewport)
}

// State is a plain Host.
type State struct {
	v Viewport
}

// NewState creates a host holding v.
func NewState(v Viewport) *State {
	return &State{v: v}
}

func (s *State) Viewport() Viewport     { return s.v }
func (s *State) SetViewport(v Viewport) { s.v = v }

// Controls applies zoom and pan operations to a host.
type Controls struct {
	Host      Host
	Limits    Limits
	Step      float64       // Zoom change per wheel tick and per ZoomIn/ZoomOut
	Container geometry.Size // Visible area in screen units, used as the default anchor
}

// NewControls creates controls with the default limits and wheel step.
func NewControls(h Host, container geometry.Size) *Controls {
	return &Controls{Host: h, Limits: DefaultLimits(), Step: WheelStep, Container: container}
}

func (c *Controls) step() float64 {
	if c.Step <= 0 {
		return WheelStep
	}
	return c.Step
}

// center is the screen-space middle of the container.
func (c *Controls) center() geometry.Point {
	return geometry.Point{X: c.Container.Width / 2, Y: c.Container.Height / 2}
}

// ZoomAt sets the scale, clamped, keeping the point under anchor fixed.
func (c *Controls) ZoomAt(scale float64, anchor geometry.Point) {
	v := c.Host.Viewport()
	c.Host.SetViewport(v.Zoomed(c.Limits.Clamp(scale), anchor))
}

// ZoomBy changes the scale by delta around anchor.
func (c *Controls) ZoomBy(delta float64, anchor geometry.Point) {
	c.ZoomAt(c.Host.Viewport().scale()+delta, anchor)
}

// ZoomIn zooms one step around the container center.
func (c *Controls) ZoomIn() {
	c.ZoomBy(c.step(), c.center())
}

// ZoomOut zooms out one step around the container center.
func (c *Controls) ZoomOut() {
	c.ZoomBy(-c.step(), c.center())
}

// Wheel zooms one step per tick around the cursor. Negative deltaY (wheel
// up) zooms in.
func (c *Controls) Wheel(deltaY float64, cursor geometry.Point) {
	switch {
	case deltaY < 0:
		c.ZoomBy(c.step(), cursor)
	case deltaY > 0:
		c.ZoomBy(-c.step(), cursor)
	}
}

// PanBy moves the view by a screen-space delta.
func (c *Controls) PanBy(dx, dy float64) {
	c.Host.SetViewport(c.Host.Viewport().Panned(dx, dy))
}

// ClampPan pulls the pan back so canvas keeps covering the container.
func (c *Controls) ClampPan(canvas geometry.Rect) {
	c.Host.SetViewport(ClampPan(c.Host.Viewport(), canvas, c.Container))
}

// Reset restores the identity viewport.
func (c *Controls) Reset() {
	c.Host.SetViewport(Identity)
}

// FitToContent zooms and pans so rects fill the container less padding.
// It never zooms past 100%. It returns false and leaves the view alone
// when rects is empty.
func (c *Controls) FitToContent(rects []geometry.Rect, padding float64) bool {
	v, ok := FitToContent(rects, c.Container, padding, c.Limits)
	if ok {
		c.Host.SetViewport(v)
	}
	return ok
}

// FitToContent computes the viewport that centers the union of rects in
// container with the given padding.
func FitToContent(rects []geometry.Rect, container geometry.Size, padding float64, lim Limits) (Viewport, bool) {
	content, ok := geometry.Bounds(rects)
	if !ok {
		return Viewport{}, false
	}
	availW := math.Max(container.Width-2*padding, 1)
	availH := math.Max(container.Height-2*padding, 1)

	scale := math.Min(availW/geometry.NonZero(content.Width), availH/geometry.NonZero(content.Height))
	scale = lim.Clamp(math.Min(scale, 1))

	center := content.Center()
	return Viewport{
		X:     container.Width/2 - center.X*scale,
		Y:     container.Height/2 - center.Y*scale,
		Scale: scale,
	}, true
}

// ClampPan limits the pan of v so the scaled canvas covers container on
// each axis. An axis where the canvas is smaller than the container is
// centered instead. The scale is left alone.
func ClampPan(v Viewport, canvas geometry.Rect, container geometry.Size) Viewport {
	s := v.scale()
	v.X = clampAxis(v.X, canvas.X*s, canvas.Width*s, container.Width)
	v.Y = clampAxis(v.Y, canvas.Y*s, canvas.Height*s, container.Height)
	return v
}

func clampAxis(pan, start, length, visible float64) float64 {
	if length <= visible {
		return (visible-length)/2 - start
	}
	return math.Min(-start, math.Max(pan, visible-start-length))
}
