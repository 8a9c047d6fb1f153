package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"diagramstudio/diagram"
	"diagramstudio/interaction"
)

func newTestApp(t *testing.T, d *diagram.Diagram) (*App, tcell.SimulationScreen, *diagram.MemoryStore) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(80, 25)

	store := diagram.NewMemoryStore(d)
	app := New(s, store, diagram.BasicRegistry(), Config{
		Options: interaction.Options{IDs: diagram.NewSeededIDs("t")},
	})
	t.Cleanup(app.ticker.Stop)
	return app, s, store
}

func oneBox() *diagram.Diagram {
	return &diagram.Diagram{Elements: []diagram.Element{{ID: "a", Type: "rectangle"}}}
}

func mouse(x, y int, b tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, b, tcell.ModNone)
}

func rowText(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestMouseDragMovesElement(t *testing.T) {
	app, _, store := newTestApp(t, oneBox())

	app.HandleEvent(mouse(2, 3, tcell.Button1))
	if got := app.Coordinator().CurrentMode(); got != interaction.ModeDragging {
		t.Fatalf("Expected dragging after pressing an element, got %s", got)
	}
	app.HandleEvent(mouse(12, 3, tcell.Button1))
	app.HandleEvent(mouse(12, 3, tcell.ButtonNone))

	a, _ := store.Element("a")
	if a.X != 80 || a.Y != 0 {
		t.Errorf("Expected a at (80,0), got (%v,%v)", a.X, a.Y)
	}
	if got := app.Coordinator().CurrentMode(); got != interaction.ModeNone {
		t.Errorf("Expected idle after release, got %s", got)
	}

	app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))
	a, _ = store.Element("a")
	if a.X != 0 {
		t.Errorf("Expected Ctrl+Z to undo the move, got x=%v", a.X)
	}
}

func TestWheelZooms(t *testing.T) {
	app, _, _ := newTestApp(t, oneBox())

	app.HandleEvent(mouse(10, 5, tcell.WheelUp))
	if app.Viewport().Scale <= 1 {
		t.Errorf("Expected wheel up to zoom in, got scale %v", app.Viewport().Scale)
	}
	app.HandleEvent(mouse(10, 5, tcell.WheelDown))
	app.HandleEvent(mouse(10, 5, tcell.WheelDown))
	if app.Viewport().Scale >= 1 {
		t.Errorf("Expected wheel down to zoom out, got scale %v", app.Viewport().Scale)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"ctrl q quits", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl), true},
		{"escape stays", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"tool key stays", tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := newTestApp(t, oneBox())
			if got := app.HandleEvent(tt.ev); got != tt.quit {
				t.Errorf("Expected quit=%v, got %v", tt.quit, got)
			}
		})
	}
}

func TestToolKeyReachesCoordinator(t *testing.T) {
	app, _, _ := newTestApp(t, oneBox())
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	if got := app.Coordinator().Tool(); got != interaction.ToolPan {
		t.Errorf("Expected pan tool, got %s", got)
	}
}

func TestAddElement(t *testing.T) {
	app, _, store := newTestApp(t, nil)
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))

	els := store.Elements()
	if len(els) != 1 {
		t.Fatalf("Expected one element, got %d", len(els))
	}
	// Container is 640x384; the 120x60 rectangle is centered and snapped.
	if els[0].X != 260 || els[0].Y != 160 {
		t.Errorf("Expected element at (260,160), got (%v,%v)", els[0].X, els[0].Y)
	}
	if ids := store.SelectedElementIDs(); len(ids) != 1 || ids[0] != els[0].ID {
		t.Errorf("Expected the new element selected, got %v", ids)
	}
}

func TestCycleLineStyle(t *testing.T) {
	d := &diagram.Diagram{
		Elements: []diagram.Element{
			{ID: "a", Type: "rectangle"},
			{ID: "b", Type: "rectangle", X: 300},
		},
		Connections: []diagram.Connection{{ID: "c1", SourceID: "a", TargetID: "b", LineStyle: diagram.LineCurved}},
	}
	app, _, store := newTestApp(t, d)

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	if c, _ := store.Connection("c1"); c.LineStyle != diagram.LineCurved {
		t.Errorf("Expected no change without a selected connection, got %s", c.LineStyle)
	}

	store.SelectConnection("c1")
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone))
	if c, _ := store.Connection("c1"); c.LineStyle != diagram.LineStraight {
		t.Errorf("Expected straight after curved, got %s", c.LineStyle)
	}
}

func TestDraw(t *testing.T) {
	app, s, _ := newTestApp(t, oneBox())
	app.Draw()

	if r, _, _, _ := s.GetContent(0, 0); r != '┌' {
		t.Errorf("Expected box corner at (0,0), got %q", r)
	}
	if r, _, _, _ := s.GetContent(14, 3); r != '┘' {
		t.Errorf("Expected box corner at (14,3), got %q", r)
	}
	if r, _, _, _ := s.GetContent(7, 1); r != 'a' {
		t.Errorf("Expected label centered in the box, got %q", r)
	}
	if status := rowText(s, 24); !strings.Contains(status, "select") || !strings.Contains(status, "100%") {
		t.Errorf("Expected tool and zoom in the status line, got %q", status)
	}
}

func TestDrawTruncatesLabels(t *testing.T) {
	d := oneBox()
	d.Elements[0].Label = "a label far too long for its box"
	app, s, _ := newTestApp(t, d)
	app.Draw()

	row := rowText(s, 1)
	if !strings.Contains(row, "…") {
		t.Errorf("Expected a truncated label, got %q", row)
	}
	if r, _, _, _ := s.GetContent(14, 1); r != '│' {
		t.Errorf("Expected the border kept intact, got %q", r)
	}
}

func TestTickerPostsFrames(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()

	tk := NewTicker(s, time.Millisecond)
	tk.Start()
	tk.Start()
	if !tk.Running() {
		t.Fatal("Expected the ticker running")
	}

	for i := 0; i < 10; i++ {
		ev := s.PollEvent()
		if in, ok := ev.(*tcell.EventInterrupt); ok {
			if _, ok := in.Data().(frameTick); !ok {
				t.Errorf("Expected frameTick data, got %T", in.Data())
			}
			break
		}
	}

	tk.Stop()
	tk.Stop()
	if tk.Running() {
		t.Error("Expected the ticker stopped")
	}
}
