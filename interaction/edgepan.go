package interaction

import "diagramstudio/geometry"

// edgePanner tracks the pan direction while the pointer sits near the
// container edge. It starts the frame source at most once and stops it
// when the pointer leaves the zone or the gesture ends.
type edgePanner struct {
	source  FrameSource
	running bool
	dir     geometry.Point // -1, 0 or 1 per axis
}

func (e *edgePanner) active() bool {
	return e.running && e.dir != (geometry.Point{})
}

func (e *edgePanner) start() {
	if e.source == nil || e.running {
		return
	}
	e.running = true
	e.source.Start()
}

func (e *edgePanner) stop() {
	e.dir = geometry.Point{}
	if !e.running {
		return
	}
	e.running = false
	e.source.Stop()
}

// EdgeDirection returns the pan direction for a pointer at screen inside
// a container: -1 within zone of the left/top edge, 1 near the right/bottom
// edge, else 0. An empty container never pans.
func EdgeDirection(screen geometry.Point, container geometry.Size, zone float64) geometry.Point {
	if !container.Valid() || zone <= 0 {
		return geometry.Point{}
	}
	axis := func(v, size float64) float64 {
		switch {
		case v < zone:
			return -1
		case v > size-zone:
			return 1
		}
		return 0
	}
	return geometry.Point{X: axis(screen.X, container.Width), Y: axis(screen.Y, container.Height)}
}

// trackEdge updates edge panning for the pointer position of a drag or
// connection gesture.
func (c *Coordinator) trackEdge(screen geometry.Point) {
	dir := EdgeDirection(screen, c.opts.Container, c.opts.EdgePanZone)
	if dir == (geometry.Point{}) {
		c.edge.stop()
		return
	}
	c.edge.dir = dir
	c.edge.start()
}
