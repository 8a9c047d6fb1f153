package interaction

import "diagramstudio/logging"

// Mode represents the active interaction
type Mode int

const (
	ModeNone       Mode = iota // Idle, waiting for a press
	ModeSelecting              // Background click, selection cleared
	ModeDragging               // Moving the selected elements
	ModePanning                // Moving the viewport
	ModeConnecting             // Drawing a new connection from a port
	ModeMarquee                // Rubber-band selection
	ModeWaypoint               // Moving one waypoint of a connection
	ModeSegment                // Moving one route segment of a connection
	ModeEndpoint               // Reattaching one end of a connection
	ModeCurve                  // Bending a curved connection
	ModeResizing               // Resizing one element
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSelecting:
		return "selecting"
	case ModeDragging:
		return "dragging"
	case ModePanning:
		return "panning"
	case ModeConnecting:
		return "connecting"
	case ModeMarquee:
		return "marquee"
	case ModeWaypoint:
		return "waypoint"
	case ModeSegment:
		return "segment"
	case ModeEndpoint:
		return "endpoint"
	case ModeCurve:
		return "curve"
	case ModeResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Listeners is notified when the coordinator starts and stops needing
// pointer move/up events outside a press. Hosts use it to subscribe to
// global motion only while a gesture is active.
type Listeners interface {
	Attach()
	Detach()
}

// CurrentMode returns the active mode.
func (c *Coordinator) CurrentMode() Mode {
	return c.mode
}

// Transition switches to mode. Leaving ModeNone attaches the listeners;
// returning to ModeNone detaches them, stops edge panning and drops the
// gesture session.
func (c *Coordinator) Transition(mode Mode) {
	if mode == c.mode {
		return
	}
	from := c.mode
	c.mode = mode
	logging.Logger().Debug("mode transition", "from", from.String(), "to", mode.String())

	if mode == ModeNone {
		c.edge.stop()
		c.session = nil
		c.lastPointer = nil
		if c.attached {
			c.attached = false
			if c.opts.Listeners != nil {
				c.opts.Listeners.Detach()
			}
		}
		return
	}
	if !c.attached {
		c.attached = true
		if c.opts.Listeners != nil {
			c.opts.Listeners.Attach()
		}
	}
}
