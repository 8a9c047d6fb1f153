package interaction

import (
	"slices"

	"diagramstudio/geometry"
	"diagramstudio/logging"
)

// marqueeSession is a rubber-band selection in diagram space.
type marqueeSession struct {
	from, to geometry.Point
	additive bool
	ids      []string
}

func (c *Coordinator) beginMarquee(ev PointerEvent) {
	p := c.toDiagram(ev.Screen)
	c.session = &marqueeSession{
		from:     p,
		to:       p,
		additive: ev.Mods.Has(ModCtrl) || ev.Mods.Has(ModMeta),
	}
	c.Transition(ModeMarquee)
}

func (s *marqueeSession) rect() geometry.Rect {
	return geometry.RectFromPoints(s.from, s.to)
}

func (s *marqueeSession) update(c *Coordinator, ev PointerEvent) {
	s.to = c.toDiagram(ev.Screen)
	s.ids = c.ElementsIn(s.rect())
}

func (s *marqueeSession) commit(c *Coordinator, ev PointerEvent) {
	s.to = c.toDiagram(ev.Screen)
	s.ids = c.ElementsIn(s.rect())
	if c.opts.OnMarquee != nil {
		c.opts.OnMarquee(slices.Clone(s.ids), s.additive)
		return
	}
	if !s.additive {
		c.store.ClearSelection()
	}
	for _, id := range s.ids {
		c.store.SelectElement(id, true)
	}
	logging.Logger().Debug("marquee selection", "count", len(s.ids), "additive", s.additive)
}

func (s *marqueeSession) cancel(*Coordinator) {}

func (s *marqueeSession) overlay(o *Overlay) {
	r := s.rect()
	o.Marquee = &r
	o.MarqueeIDs = slices.Clone(s.ids)
}

// ElementsIn returns the ids of elements whose bounds intersect r, in
// paint order.
func (c *Coordinator) ElementsIn(r geometry.Rect) []string {
	var ids []string
	for _, e := range c.store.Elements() {
		if c.bounds(e).Intersects(r) {
			ids = append(ids, e.ID)
		}
	}
	return ids
}
