package interaction

import (
	"slices"
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

func TestDragMovesSelectionAsRigidGroup(t *testing.T) {
	store := newRecordingStore([]diagram.Element{
		rect("a", 0, 0, 100, 60),
		rect("b", 200, 0, 100, 60),
		rect("far", 0, 500, 100, 60),
	}, nil)
	store.SelectElement("a", false)
	store.SelectElement("b", true)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(50, 30, onElement("a")))
	if c.CurrentMode() != ModeDragging {
		t.Fatalf("Expected dragging mode, got %s", c.CurrentMode())
	}
	c.PointerMove(at(80, 45))
	c.PointerMove(at(103, 57))
	c.PointerUp(at(103, 57))

	if c.CurrentMode() != ModeNone {
		t.Errorf("Expected mode none after release, got %s", c.CurrentMode())
	}
	a := mustElement(t, store, "a")
	b := mustElement(t, store, "b")
	if a.Position() != geometry.Pt(50, 30) {
		t.Errorf("Expected a at (50,30), got %v", a.Position())
	}
	if b.Position() != geometry.Pt(250, 30) {
		t.Errorf("Expected b at (250,30), got %v", b.Position())
	}
	if store.calls["RecordHistory"] != 1 {
		t.Errorf("Expected one history entry, got %d", store.calls["RecordHistory"])
	}
	if store.calls["UpdateElement"] != 2 {
		t.Errorf("Expected two element updates, got %d", store.calls["UpdateElement"])
	}
}

func TestDragBelowThresholdIsNoop(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60)}, nil)
	store.SelectElement("a", false)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(50, 30, onElement("a")))
	c.PointerMove(at(51, 31))
	c.PointerUp(at(51, 31))

	if n := store.mutations(); n != 0 {
		t.Errorf("Expected no store mutations, got %d (%v)", n, store.calls)
	}
}

func TestDragSkipsLockedElements(t *testing.T) {
	locked := rect("locked", 200, 200, 50, 50)
	locked.Locked = true
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60), locked}, nil)
	store.SelectElement("a", false)
	store.SelectElement("locked", true)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(50, 30, onElement("a")))
	c.PointerMove(at(150, 30))
	c.PointerUp(at(150, 30))

	if got := mustElement(t, store, "locked").Position(); got != geometry.Pt(200, 200) {
		t.Errorf("Expected locked element to stay, got %v", got)
	}
	if got := mustElement(t, store, "a").Position(); got != geometry.Pt(100, 0) {
		t.Errorf("Expected a at (100,0), got %v", got)
	}
}

func TestDragSnapping(t *testing.T) {
	tests := []struct {
		name     string
		dragged  diagram.Element
		other    diagram.Element
		wantX    float64
		wantSnap bool
	}{
		{
			name:     "shape snaps edge to neighbour",
			dragged:  rect("d", 0, 0, 100, 60),
			other:    rect("o", 200, 0, 100, 60),
			wantX:    100,
			wantSnap: true,
		},
		{
			name:     "frame ignores neighbours",
			dragged:  diagram.Element{ID: "d", Type: diagram.FrameType, X: 0, Y: 0},
			other:    rect("o", 500, 0, 120, 60),
			wantX:    90,
			wantSnap: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newRecordingStore([]diagram.Element{tt.dragged, tt.other}, nil)
			c, _ := newTestCoordinator(t, store, Options{})

			c.PointerDown(press(10, 10, onElement("d")))
			c.PointerMove(at(103, 10))
			guides := c.Overlay().Guides
			c.PointerUp(at(103, 10))

			if got := mustElement(t, store, "d").X; got != tt.wantX {
				t.Errorf("Expected x %v, got %v", tt.wantX, got)
			}
			if (len(guides) > 0) != tt.wantSnap {
				t.Errorf("Expected guides=%v, got %d guides", tt.wantSnap, len(guides))
			}
		})
	}
}

func TestCancelNeverTouchesStore(t *testing.T) {
	store := newRecordingStore([]diagram.Element{
		rect("a", 0, 0, 100, 60),
		rect("b", 300, 0, 100, 60),
	}, []diagram.Connection{
		{ID: "c1", SourceID: "a", TargetID: "b", LineStyle: diagram.LineArc},
	})
	store.SelectElement("a", false)

	tests := []struct {
		name  string
		start PointerEvent
	}{
		{"drag", press(50, 30, onElement("a"))},
		{"connect", press(100, 30, Target{Kind: TargetPort, ElementID: "a", Port: diagram.PortRight}, ModAlt)},
		{"marquee", press(500, 500, Target{}, ModShift)},
		{"resize", press(100, 60, Target{Kind: TargetResize, ElementID: "a"})},
		{"curve", press(200, 30, Target{Kind: TargetCurve, ConnectionID: "c1"})},
		{"endpoint", press(300, 30, Target{Kind: TargetEndpoint, ConnectionID: "c1", End: EndTarget})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCoordinator(t, store, Options{})
			before := store.mutations()

			c.PointerDown(tt.start)
			if c.CurrentMode() == ModeNone {
				t.Fatalf("Expected a gesture to start")
			}
			c.PointerMove(at(250, 150))
			c.KeyDown(KeyEvent{Key: KeyEscape})

			if c.CurrentMode() != ModeNone {
				t.Errorf("Expected mode none after cancel, got %s", c.CurrentMode())
			}
			if got := store.mutations() - before; got != 0 {
				t.Errorf("Expected no mutations on cancel, got %d", got)
			}
			c.PointerUp(at(250, 150))
			if got := store.mutations() - before; got != 0 {
				t.Errorf("Expected release after cancel to be ignored, got %d mutations", got)
			}
		})
	}
}

func TestPanCancelRestoresViewport(t *testing.T) {
	store := newRecordingStore(nil, nil)
	c, view := newTestCoordinator(t, store, Options{})
	c.SetTool(ToolPan)

	c.PointerDown(press(0, 0, Target{}))
	c.PointerMove(at(30, 40))
	if v := view.Viewport(); v.X != 30 || v.Y != 40 {
		t.Errorf("Expected pan (30,40), got (%v,%v)", v.X, v.Y)
	}
	c.Cancel()
	if v := view.Viewport(); v.X != 0 || v.Y != 0 {
		t.Errorf("Expected pan restored, got (%v,%v)", v.X, v.Y)
	}
}

func TestPanStaysInsideCanvas(t *testing.T) {
	store := newRecordingStore(nil, nil)
	c, view := newTestCoordinator(t, store, Options{
		CanvasBounds: geometry.R(0, 0, 1000, 1000),
		Container:    geometry.Size{Width: 800, Height: 600},
	})
	c.SetTool(ToolPan)

	c.PointerDown(press(0, 0, Target{}))
	c.PointerMove(at(30, 40))
	if v := view.Viewport(); v.X != 0 || v.Y != 0 {
		t.Errorf("Expected pan held at (0,0), got (%v,%v)", v.X, v.Y)
	}
	c.PointerMove(at(-300, -500))
	if v := view.Viewport(); v.X != -200 || v.Y != -400 {
		t.Errorf("Expected pan held at (-200,-400), got (%v,%v)", v.X, v.Y)
	}
	c.PointerUp(at(-300, -500))
}

func TestListenersAttachOncePerGesture(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60)}, nil)
	l := &counter{}
	c, _ := newTestCoordinator(t, store, Options{Listeners: l})

	for i := 1; i <= 2; i++ {
		c.PointerDown(press(50, 30, onElement("a")))
		c.PointerMove(at(90, 30))
		c.PointerMove(at(120, 30))
		if l.starts != i || l.stops != i-1 {
			t.Errorf("Gesture %d: expected %d attach / %d detach, got %d / %d", i, i, i-1, l.starts, l.stops)
		}
		c.PointerUp(at(120, 30))
		if l.stops != i {
			t.Errorf("Gesture %d: expected %d detach, got %d", i, i, l.stops)
		}
	}
}

func TestEdgePanning(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 300, 300, 100, 60)}, nil)
	frames := &counter{}
	c, view := newTestCoordinator(t, store, Options{Frames: frames, Container: geometry.Size{Width: 800, Height: 600}})

	c.PointerDown(press(350, 330, onElement("a")))
	c.PointerMove(at(795, 330))
	c.PointerMove(at(790, 330))
	if frames.starts != 1 {
		t.Errorf("Expected frame source started once, got %d", frames.starts)
	}

	c.Tick()
	if v := view.Viewport(); v.X != -DefaultEdgePanSpeed || v.Y != 0 {
		t.Errorf("Expected pan (-%v,0), got (%v,%v)", DefaultEdgePanSpeed, v.X, v.Y)
	}

	c.PointerMove(at(400, 330))
	if frames.stops != 1 {
		t.Errorf("Expected frame source stopped on leaving the zone, got %d", frames.stops)
	}
	c.PointerMove(at(10, 330))
	c.PointerUp(at(10, 330))
	if frames.starts != 2 || frames.stops != 2 {
		t.Errorf("Expected 2 starts / 2 stops, got %d / %d", frames.starts, frames.stops)
	}

	c.Tick()
	if v := view.Viewport(); v.X != -DefaultEdgePanSpeed {
		t.Errorf("Expected tick after release to do nothing, got x %v", v.X)
	}
}

func TestEdgeDirection(t *testing.T) {
	container := geometry.Size{Width: 800, Height: 600}
	tests := []struct {
		p    geometry.Point
		want geometry.Point
	}{
		{geometry.Pt(400, 300), geometry.Pt(0, 0)},
		{geometry.Pt(10, 300), geometry.Pt(-1, 0)},
		{geometry.Pt(790, 590), geometry.Pt(1, 1)},
		{geometry.Pt(400, 5), geometry.Pt(0, -1)},
	}
	for _, tt := range tests {
		if got := EdgeDirection(tt.p, container, 40); got != tt.want {
			t.Errorf("EdgeDirection(%v) = %v, expected %v", tt.p, got, tt.want)
		}
	}
	if got := EdgeDirection(geometry.Pt(0, 0), geometry.Size{}, 40); got != (geometry.Point{}) {
		t.Errorf("Expected no panning without a container, got %v", got)
	}
}

func TestMarqueeSelection(t *testing.T) {
	store := newRecordingStore([]diagram.Element{
		rect("near", 10, 10, 20, 20),
		rect("far", 100, 100, 20, 20),
	}, nil)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(0, 0, Target{}, ModShift))
	if c.CurrentMode() != ModeMarquee {
		t.Fatalf("Expected marquee mode, got %s", c.CurrentMode())
	}
	c.PointerMove(at(50, 50))
	if ids := c.Overlay().MarqueeIDs; !slices.Equal(ids, []string{"near"}) {
		t.Errorf("Expected preview [near], got %v", ids)
	}
	c.PointerUp(at(50, 50))

	if got := store.SelectedElementIDs(); !slices.Equal(got, []string{"near"}) {
		t.Errorf("Expected selection [near], got %v", got)
	}
}

func TestMarqueeCallback(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 10, 10, 20, 20)}, nil)
	var gotIDs []string
	var gotAdditive bool
	c, _ := newTestCoordinator(t, store, Options{OnMarquee: func(ids []string, additive bool) {
		gotIDs, gotAdditive = ids, additive
	}})

	c.PointerDown(press(0, 0, Target{}, ModShift, ModCtrl))
	c.PointerUp(at(50, 50))

	if !slices.Equal(gotIDs, []string{"a"}) || !gotAdditive {
		t.Errorf("Expected callback with [a] additive, got %v %v", gotIDs, gotAdditive)
	}
	if len(store.SelectedElementIDs()) != 0 {
		t.Errorf("Expected the callback to own the selection, got %v", store.SelectedElementIDs())
	}
}

func TestCanvasClickClearsSelection(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60)}, nil)
	store.SelectElement("a", false)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(500, 500, Target{}))
	if c.CurrentMode() != ModeSelecting {
		t.Errorf("Expected selecting mode, got %s", c.CurrentMode())
	}
	c.PointerUp(at(500, 500))
	if len(store.SelectedElementIDs()) != 0 {
		t.Errorf("Expected selection cleared, got %v", store.SelectedElementIDs())
	}
}

func TestResize(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60)}, nil)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(100, 60, Target{Kind: TargetResize, ElementID: "a"}))
	c.PointerMove(at(-300, 80))
	if got := c.Overlay().Sizes["a"]; got != (geometry.Size{Width: DefaultMinElementSize, Height: 80}) {
		t.Errorf("Expected clamped preview size, got %v", got)
	}
	c.PointerMove(at(152, 78))
	c.PointerUp(at(152, 78))

	got := mustElement(t, store, "a").Size
	if got == nil || *got != (geometry.Size{Width: 150, Height: 80}) {
		t.Errorf("Expected size 150x80, got %v", got)
	}
	if store.calls["RecordHistory"] != 1 {
		t.Errorf("Expected one history entry, got %d", store.calls["RecordHistory"])
	}
}

func TestWheelZoomAnchorsCursor(t *testing.T) {
	store := newRecordingStore(nil, nil)
	c, view := newTestCoordinator(t, store, Options{})

	anchor := geometry.Pt(100, 100)
	before := view.Viewport().ScreenToDiagram(anchor)
	c.Wheel(WheelEvent{Screen: anchor, DeltaY: -1})
	v := view.Viewport()
	if !geometry.Near(v.Scale, 1.1) {
		t.Errorf("Expected scale 1.1, got %v", v.Scale)
	}
	after := v.ScreenToDiagram(anchor)
	if !after.Near(before, 1e-9) {
		t.Errorf("Expected diagram point under cursor fixed, got %v -> %v", before, after)
	}
}

func TestSetToolIgnoredDuringGesture(t *testing.T) {
	store := newRecordingStore([]diagram.Element{rect("a", 0, 0, 100, 60)}, nil)
	c, _ := newTestCoordinator(t, store, Options{})

	c.PointerDown(press(50, 30, onElement("a")))
	c.SetTool(ToolPan)
	if c.Tool() != ToolSelect {
		t.Errorf("Expected tool unchanged during a gesture, got %s", c.Tool())
	}
	c.PointerUp(at(50, 30))
	c.SetTool(ToolPan)
	if c.Tool() != ToolPan {
		t.Errorf("Expected pan tool, got %s", c.Tool())
	}
}
