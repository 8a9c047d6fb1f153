package interaction

import (
	"diagramstudio/clipboard"
	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/snapping"
	"diagramstudio/viewport"
)

// Interaction defaults.
const (
	DefaultGridSize           = 10.0
	DefaultDragThreshold      = 3.0 // Screen pixels before a press becomes a drag
	DefaultPasteOffset        = 40.0
	DefaultQuickCreateSpacing = 80.0
	DefaultQuickCreateTries   = 10
	DefaultEdgePanZone        = 40.0 // Screen pixels from the container edge
	DefaultEdgePanSpeed       = 12.0 // Screen pixels per frame
	DefaultCanvasSize         = 100000.0
	DefaultMinElementSize     = 20.0
	DefaultHandleRadius       = 6.0 // Screen pixels around ports and handles
)

// FrameSource drives edge panning. Start begins calling Coordinator.Tick
// once per frame on the coordinator's goroutine; Stop ends it.
type FrameSource interface {
	Start()
	Stop()
}

// Options configures a Coordinator. Zero numeric fields take defaults.
type Options struct {
	GridSize           float64
	SnapThreshold      float64
	DragThreshold      float64
	PasteOffset        float64
	QuickCreateSpacing float64
	QuickCreateTries   int
	EdgePanZone        float64
	EdgePanSpeed       float64
	MinElementSize     float64
	HandleRadius       float64
	MinZoom, MaxZoom   float64
	ZoomStep           float64

	// CanvasBounds limits where dragged elements may go. Empty uses a
	// DefaultCanvasSize square centered on the origin.
	CanvasBounds geometry.Rect

	// Container is the visible area in screen units, used for edge panning
	// and as the zoom anchor of ZoomIn/ZoomOut.
	Container geometry.Size

	DefaultLineStyle diagram.LineStyle
	QuickCreateType  string // Element type for quick-create; "" copies the source type

	IDs       diagram.IDGenerator
	Board     clipboard.Board // Optional mirror for copied selections
	Frames    FrameSource     // Optional; edge panning is off without it
	Listeners Listeners       // Optional

	// OnMarquee receives the final marquee selection. Nil applies it to
	// the store, replacing the selection unless additive.
	OnMarquee func(ids []string, additive bool)
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() Options {
	var o Options
	o.fill()
	return o
}

func (o *Options) fill() {
	if o.GridSize <= 0 {
		o.GridSize = DefaultGridSize
	}
	if o.SnapThreshold <= 0 {
		o.SnapThreshold = snapping.DefaultThreshold
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.PasteOffset == 0 {
		o.PasteOffset = DefaultPasteOffset
	}
	if o.QuickCreateSpacing <= 0 {
		o.QuickCreateSpacing = DefaultQuickCreateSpacing
	}
	if o.QuickCreateTries <= 0 {
		o.QuickCreateTries = DefaultQuickCreateTries
	}
	if o.EdgePanZone <= 0 {
		o.EdgePanZone = DefaultEdgePanZone
	}
	if o.EdgePanSpeed <= 0 {
		o.EdgePanSpeed = DefaultEdgePanSpeed
	}
	if o.MinElementSize <= 0 {
		o.MinElementSize = DefaultMinElementSize
	}
	if o.HandleRadius <= 0 {
		o.HandleRadius = DefaultHandleRadius
	}
	if o.MinZoom <= 0 {
		o.MinZoom = viewport.DefaultMinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = viewport.DefaultMaxZoom
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = viewport.WheelStep
	}
	if o.CanvasBounds.Width <= 0 || o.CanvasBounds.Height <= 0 {
		half := DefaultCanvasSize / 2
		o.CanvasBounds = geometry.R(-half, -half, DefaultCanvasSize, DefaultCanvasSize)
	}
	if o.DefaultLineStyle == "" {
		o.DefaultLineStyle = diagram.LineCurved
	}
	if o.IDs == nil {
		o.IDs = diagram.NewSequentialIDs()
	}
}
