// Package interaction is the pointer and keyboard state machine of the
// diagram canvas. A Coordinator owns exactly one active mode at a time,
// keeps the transient state of the current gesture and mutates the
// external diagram store only when a gesture completes.
package interaction

import (
	"cmp"
	"slices"

	"diagramstudio/clipboard"
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/pathfinding"
	"diagramstudio/snapping"
	"diagramstudio/viewport"
)

// gesture is the session of one active mode. update runs on every
// pointer move, commit on release and cancel on Escape. Only commit may
// call store mutations.
type gesture interface {
	update(c *Coordinator, ev PointerEvent)
	commit(c *Coordinator, ev PointerEvent)
	cancel(c *Coordinator)
	overlay(o *Overlay)
}

// Coordinator is the interaction state machine of one canvas. It is not
// safe for concurrent use; drive it from a single event loop.
type Coordinator struct {
	store    diagram.Store
	registry diagram.Registry
	view     viewport.Host
	controls *viewport.Controls
	router   *pathfinding.Router
	opts     Options

	mode     Mode
	tool     Tool
	session  gesture
	attached bool // Listeners attached

	edge        edgePanner
	lastPointer *PointerEvent // Replayed on edge-pan frames and zoom

	clip *clipboard.Payload // Last copied selection
}

// NewCoordinator wires a coordinator to its collaborators.
func NewCoordinator(store diagram.Store, reg diagram.Registry, view viewport.Host, opts Options) *Coordinator {
	opts.fill()
	controls := viewport.NewControls(view, opts.Container)
	controls.Limits = viewport.Limits{Min: opts.MinZoom, Max: opts.MaxZoom}
	controls.Step = opts.ZoomStep

	c := &Coordinator{
		store:    store,
		registry: reg,
		view:     view,
		controls: controls,
		router:   pathfinding.NewRouter(reg, pathfinding.NewPathCache(pathfinding.DefaultCacheSize)),
		opts:     opts,
	}
	c.edge.source = opts.Frames
	return c
}

// Options returns the effective options.
func (c *Coordinator) Options() Options {
	return c.opts
}

// Router returns the router used for hit testing and connection handles.
func (c *Coordinator) Router() *pathfinding.Router {
	return c.router
}

// Controls returns the viewport controls.
func (c *Coordinator) Controls() *viewport.Controls {
	return c.controls
}

// Tool returns the active tool.
func (c *Coordinator) Tool() Tool {
	return c.tool
}

// SetTool switches the tool. It has no effect during a gesture.
func (c *Coordinator) SetTool(t Tool) {
	if c.mode == ModeNone {
		c.tool = t
	}
}

// SetContainer updates the visible area after the host resizes.
func (c *Coordinator) SetContainer(size geometry.Size) {
	c.opts.Container = size
	c.controls.Container = size
}

// toDiagram converts a screen point with the current viewport.
func (c *Coordinator) toDiagram(p geometry.Point) geometry.Point {
	return c.view.Viewport().ScreenToDiagram(p)
}

// handleRadius is the hit radius of handles in diagram units.
func (c *Coordinator) handleRadius() float64 {
	s := c.view.Viewport().Scale
	if s <= 0 {
		s = 1
	}
	return c.opts.HandleRadius / s
}

func (c *Coordinator) bounds(e diagram.Element) geometry.Rect {
	return e.Bounds(c.registry)
}

func (c *Coordinator) isFrame(e diagram.Element) bool {
	return diagram.IsFrame(e, c.registry)
}

// elementsTopDown returns the elements with the topmost first.
func (c *Coordinator) elementsTopDown() []diagram.Element {
	els := c.store.Elements()
	slices.SortStableFunc(els, func(a, b diagram.Element) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	slices.Reverse(els)
	return els
}

// elementAt returns the topmost element containing p, skipping ids in
// exclude.
func (c *Coordinator) elementAt(p geometry.Point, exclude ...string) (diagram.Element, bool) {
	for _, e := range c.elementsTopDown() {
		if slices.Contains(exclude, e.ID) {
			continue
		}
		if c.bounds(e).Contains(p) {
			return e, true
		}
	}
	return diagram.Element{}, false
}

// PointerDown starts a gesture from ev. Presses during a gesture are
// ignored.
func (c *Coordinator) PointerDown(ev PointerEvent) {
	if c.mode != ModeNone {
		return
	}
	p := c.toDiagram(ev.Screen)
	t := ev.Target

	if ev.Button == ButtonMiddle || (c.tool == ToolPan && ev.Button != ButtonSecondary) {
		c.beginPan(ev)
		return
	}
	if ev.Button == ButtonSecondary {
		return
	}

	switch t.Kind {
	case TargetPort:
		if c.tool == ToolConnect || ev.Mods.Has(ModAlt) {
			c.beginConnect(ev, t.ElementID, t.Port)
			return
		}
		c.beginDrag(ev, t.ElementID)
	case TargetElement:
		if c.tool == ToolConnect || ev.Mods.Has(ModAlt) {
			if e, ok := c.store.Element(t.ElementID); ok {
				c.beginConnect(ev, t.ElementID, pathfinding.NearestPort(c.bounds(e), p))
				return
			}
		}
		c.beginDrag(ev, t.ElementID)
	case TargetResize:
		c.beginResize(ev, t.ElementID)
	case TargetWaypoint:
		c.beginWaypoint(ev, t.ConnectionID, t.Index)
	case TargetSegment:
		c.beginSegment(ev, t.ConnectionID, t.Index)
	case TargetEndpoint:
		c.beginEndpoint(ev, t.ConnectionID, t.End)
	case TargetCurve:
		c.beginCurve(ev, t.ConnectionID)
	default:
		if ev.Mods.Has(ModShift) {
			c.beginMarquee(ev)
			return
		}
		c.beginSelecting(ev)
	}
}

// PointerMove feeds the active gesture.
func (c *Coordinator) PointerMove(ev PointerEvent) {
	if c.mode == ModeNone || c.session == nil {
		return
	}
	last := ev
	c.lastPointer = &last
	c.session.update(c, ev)
}

// PointerUp completes the active gesture and always returns to ModeNone.
func (c *Coordinator) PointerUp(ev PointerEvent) {
	if c.mode == ModeNone {
		return
	}
	if c.session != nil {
		c.session.commit(c, ev)
	}
	c.Transition(ModeNone)
}

// Cancel discards the active gesture without touching the store and
// returns to ModeNone.
func (c *Coordinator) Cancel() {
	if c.mode == ModeNone {
		return
	}
	if c.session != nil {
		c.session.cancel(c)
	}
	c.Transition(ModeNone)
}

// Wheel zooms around the cursor. During a gesture the last pointer move
// is replayed so previews follow the new view.
func (c *Coordinator) Wheel(ev WheelEvent) {
	c.controls.Wheel(ev.DeltaY, ev.Screen)
	c.replay()
}

// Tick advances edge panning by one frame.
func (c *Coordinator) Tick() {
	if !c.edge.active() || (c.mode != ModeDragging && c.mode != ModeConnecting) {
		return
	}
	c.controls.PanBy(-c.edge.dir.X*c.opts.EdgePanSpeed, -c.edge.dir.Y*c.opts.EdgePanSpeed)
	c.controls.ClampPan(c.opts.CanvasBounds)
	c.replay()
}

func (c *Coordinator) replay() {
	if c.lastPointer != nil && c.session != nil {
		c.session.update(c, *c.lastPointer)
	}
}

// Overlay is the transient state renderers draw on top of the store.
type Overlay struct {
	Mode      Mode
	Positions map[string]geometry.Point // Previewed top-left corners of moving elements
	Sizes     map[string]geometry.Size  // Previewed sizes of resized elements
	Guides    []snapping.Guide

	// ConnectionLine is the rubber band of a connection being drawn.
	ConnectionLine *[2]geometry.Point
	// Connection is the previewed state of a connection being edited.
	Connection *diagram.Connection

	Marquee    *geometry.Rect
	MarqueeIDs []string
}

// Overlay returns the transient state of the active gesture.
func (c *Coordinator) Overlay() Overlay {
	o := Overlay{Mode: c.mode}
	if c.session != nil {
		c.session.overlay(&o)
	}
	return o
}
