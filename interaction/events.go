package interaction

import (
	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonMiddle
	ButtonSecondary
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m2 is held.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// TargetKind says what is under the pointer.
type TargetKind int

const (
	TargetCanvas TargetKind = iota
	TargetElement
	TargetPort
	TargetWaypoint
	TargetSegment
	TargetEndpoint
	TargetCurve
	TargetResize
)

func (k TargetKind) String() string {
	switch k {
	case TargetCanvas:
		return "canvas"
	case TargetElement:
		return "element"
	case TargetPort:
		return "port"
	case TargetWaypoint:
		return "waypoint"
	case TargetSegment:
		return "segment"
	case TargetEndpoint:
		return "endpoint"
	case TargetCurve:
		return "curve"
	case TargetResize:
		return "resize"
	default:
		return "unknown"
	}
}

// End names one end of a connection.
type End int

const (
	EndSource End = iota
	EndTarget
)

// Target describes the thing a pointer event hit. Hosts may fill it
// themselves or use Coordinator.HitTest.
type Target struct {
	Kind         TargetKind
	ElementID    string         // Element, port and resize targets
	Port         diagram.PortID // Port targets
	ConnectionID string         // Waypoint, segment, endpoint and curve targets
	Index        int            // Waypoint index or route segment index
	End          End            // Endpoint targets
}

// PointerEvent is a pointer press, move or release in screen coordinates.
type PointerEvent struct {
	Screen geometry.Point
	Button Button
	Mods   Modifiers
	Target Target
}

// WheelEvent is one wheel tick. Negative DeltaY scrolls up.
type WheelEvent struct {
	Screen geometry.Point
	DeltaY float64
	Mods   Modifiers
}

// Key identifies a non-printable key. Printable keys use KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyDelete
	KeyBackspace
)

// KeyEvent is a key press. Rune is set for KeyRune; control shortcuts
// arrive as KeyRune with ModCtrl held.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// Tool selects what a primary press on the canvas or an element does.
type Tool int

const (
	ToolSelect Tool = iota
	ToolPan
	ToolConnect
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPan:
		return "pan"
	case ToolConnect:
		return "connect"
	default:
		return "unknown"
	}
}
