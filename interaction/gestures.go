package interaction

import (
	"math"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/viewport"
)

// panSession moves the viewport with the pointer. It writes the viewport
// directly, so cancel restores the starting view.
type panSession struct {
	start       viewport.Viewport
	startScreen geometry.Point
}

func (c *Coordinator) beginPan(ev PointerEvent) {
	c.session = &panSession{start: c.view.Viewport(), startScreen: ev.Screen}
	c.Transition(ModePanning)
}

func (s *panSession) update(c *Coordinator, ev PointerEvent) {
	d := ev.Screen.Sub(s.startScreen)
	c.view.SetViewport(s.start.Panned(d.X, d.Y))
	c.controls.ClampPan(c.opts.CanvasBounds)
}

func (s *panSession) commit(*Coordinator, PointerEvent) {}

func (s *panSession) cancel(c *Coordinator) {
	c.view.SetViewport(s.start)
}

func (s *panSession) overlay(*Overlay) {}

// resizeSession drags the bottom-right handle of one element.
type resizeSession struct {
	id    string
	start geometry.Rect
	from  geometry.Point
	size  geometry.Size
}

func (c *Coordinator) beginResize(ev PointerEvent, id string) {
	el, ok := c.store.Element(id)
	if !ok || el.Locked {
		return
	}
	b := c.bounds(el)
	c.session = &resizeSession{id: id, start: b, from: c.toDiagram(ev.Screen), size: b.Size()}
	c.Transition(ModeResizing)
}

func (s *resizeSession) update(c *Coordinator, ev PointerEvent) {
	d := c.toDiagram(ev.Screen).Sub(s.from)
	minSize := c.opts.MinElementSize
	right := geometry.Snap(s.start.Right()+d.X, c.opts.GridSize)
	bottom := geometry.Snap(s.start.Bottom()+d.Y, c.opts.GridSize)
	s.size = geometry.Size{
		Width:  math.Max(minSize, right-s.start.X),
		Height: math.Max(minSize, bottom-s.start.Y),
	}
}

func (s *resizeSession) commit(c *Coordinator, _ PointerEvent) {
	if s.size == s.start.Size() {
		return
	}
	size := s.size
	c.store.UpdateElement(s.id, diagram.ElementPatch{Size: &size})
	c.store.RecordHistory()
}

func (s *resizeSession) cancel(*Coordinator) {}

func (s *resizeSession) overlay(o *Overlay) {
	if s.size == s.start.Size() {
		return
	}
	o.Sizes = map[string]geometry.Size{s.id: s.size}
}

// selectingSession is a press on the empty canvas. The selection is
// cleared on press; release does nothing else.
type selectingSession struct{}

func (c *Coordinator) beginSelecting(PointerEvent) {
	c.store.ClearSelection()
	c.session = selectingSession{}
	c.Transition(ModeSelecting)
}

func (selectingSession) update(*Coordinator, PointerEvent) {}
func (selectingSession) commit(*Coordinator, PointerEvent) {}
func (selectingSession) cancel(*Coordinator)               {}
func (selectingSession) overlay(*Overlay)                  {}
