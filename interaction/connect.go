package interaction

import (
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/logging"
	"diagramstudio/pathfinding"
)

// connectSession draws a rubber band from a source port and creates the
// connection when released over another element.
type connectSession struct {
	sourceID   string
	sourcePort diagram.PortID
	from       geometry.Point
	to         geometry.Point
}

func (c *Coordinator) beginConnect(ev PointerEvent, sourceID string, port diagram.PortID) {
	el, ok := c.store.Element(sourceID)
	if !ok {
		return
	}
	from := pathfinding.PortPosition(c.bounds(el), port)
	c.session = &connectSession{
		sourceID:   sourceID,
		sourcePort: port,
		from:       from,
		to:         c.toDiagram(ev.Screen),
	}
	c.Transition(ModeConnecting)
}

func (s *connectSession) update(c *Coordinator, ev PointerEvent) {
	c.trackEdge(ev.Screen)
	s.to = c.toDiagram(ev.Screen)
}

func (s *connectSession) commit(c *Coordinator, ev PointerEvent) {
	p := c.toDiagram(ev.Screen)
	targetID, targetPort := "", diagram.PortAuto
	switch ev.Target.Kind {
	case TargetPort:
		targetID, targetPort = ev.Target.ElementID, ev.Target.Port
	case TargetElement:
		targetID = ev.Target.ElementID
	default:
		if el, ok := c.elementAt(p, s.sourceID); ok {
			targetID = el.ID
		}
	}
	if targetID == "" {
		return
	}
	c.CreateConnection(s.sourceID, s.sourcePort, targetID, targetPort)
}

func (s *connectSession) cancel(*Coordinator) {}

func (s *connectSession) overlay(o *Overlay) {
	o.ConnectionLine = &[2]geometry.Point{s.from, s.to}
}

// CreateConnection connects two elements, selects the connection and
// records one history entry. When both ports are auto they are resolved
// with ChooseOptimalPorts. It returns the new id, or false for self-connections
// and missing elements.
func (c *Coordinator) CreateConnection(sourceID string, sourcePort diagram.PortID, targetID string, targetPort diagram.PortID) (string, bool) {
	src, ok := c.store.Element(sourceID)
	if !ok {
		return "", false
	}
	dst, ok := c.store.Element(targetID)
	if !ok {
		return "", false
	}

	// With one end pinned the other stays auto, so the router keeps
	// choosing it as the elements move.
	pinned := !sourcePort.IsAuto() || !targetPort.IsAuto()
	if !pinned {
		sourcePort, targetPort = pathfinding.ChooseOptimalPorts(c.bounds(src), c.bounds(dst))
	}

	conn, err := diagram.NewConnection(c.opts.IDs.NewID("conn"), sourceID, targetID, sourcePort, targetPort, c.opts.DefaultLineStyle)
	if err != nil {
		logging.Logger().Debug("connection rejected", "source", sourceID, "error", err)
		return "", false
	}
	conn.ManualPorts = pinned

	c.store.AddConnection(conn)
	c.store.SelectConnection(conn.ID)
	c.store.RecordHistory()
	logging.Logger().Debug("connection created", "id", conn.ID, "source", sourceID, "target", targetID)
	return conn.ID, true
}
