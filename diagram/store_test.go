package diagram

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"diagramstudio/geometry"
)

func testDiagram() *Diagram {
	return &Diagram{
		Elements: []Element{
			{ID: "a", Type: "rectangle", X: 0, Y: 0},
			{ID: "b", Type: "rectangle", X: 200, Y: 0},
			{ID: "c", Type: "rectangle", X: 0, Y: 200},
		},
		Connections: []Connection{
			{ID: "ab", SourceID: "a", TargetID: "b"},
			{ID: "bc", SourceID: "b", TargetID: "c"},
		},
	}
}

func TestMemoryStoreSelection(t *testing.T) {
	s := NewMemoryStore(testDiagram())

	s.SelectElement("a", false)
	s.SelectElement("b", true)
	if got := s.SelectedElementIDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", got)
	}

	s.SelectElement("c", false)
	if got := s.SelectedElementIDs(); !slices.Equal(got, []string{"c"}) {
		t.Errorf("Expected non-additive select to replace, got %v", got)
	}

	s.SelectElement("missing", true)
	if got := s.SelectedElementIDs(); len(got) != 1 {
		t.Errorf("Selecting an unknown id should be ignored, got %v", got)
	}

	s.SelectConnection("ab")
	if s.SelectedConnectionID() != "ab" || len(s.SelectedElementIDs()) != 0 {
		t.Errorf("Expected connection selection only, got %q %v", s.SelectedConnectionID(), s.SelectedElementIDs())
	}
}

func TestMemoryStoreRemoveCascades(t *testing.T) {
	s := NewMemoryStore(testDiagram())
	s.SelectElement("b", false)
	s.RemoveElements("b")

	if _, ok := s.Element("b"); ok {
		t.Error("Element b should be removed")
	}
	if n := len(s.Connections()); n != 0 {
		t.Errorf("Expected connections touching b to be removed, got %d", n)
	}
	if len(s.SelectedElementIDs()) != 0 {
		t.Error("Removed element should leave the selection")
	}
}

func TestMemoryStoreUpdateAndUndo(t *testing.T) {
	s := NewMemoryStore(testDiagram())

	s.UpdateElement("a", MoveTo(geometry.Pt(40, 50)))
	s.RecordHistory()

	el, _ := s.Element("a")
	if el.X != 40 || el.Y != 50 {
		t.Fatalf("Expected (40,50), got (%v,%v)", el.X, el.Y)
	}

	if !s.Undo() {
		t.Fatal("Expected undo to succeed")
	}
	el, _ = s.Element("a")
	if el.X != 0 || el.Y != 0 {
		t.Errorf("Expected undo to restore (0,0), got (%v,%v)", el.X, el.Y)
	}
	if !s.Redo() {
		t.Fatal("Expected redo to succeed")
	}
	el, _ = s.Element("a")
	if el.X != 40 {
		t.Errorf("Expected redo to restore X=40, got %v", el.X)
	}

	wps := []geometry.Point{{X: 1, Y: 2}}
	s.UpdateConnection("ab", ConnectionPatch{Waypoints: &wps})
	wps[0].X = 99
	conn, _ := s.Connection("ab")
	if conn.Waypoints[0].X != 1 {
		t.Error("Store should copy patched waypoints")
	}
}

func TestEffectiveSizeFallbacks(t *testing.T) {
	reg := BasicRegistry()
	tests := []struct {
		name string
		el   Element
		want geometry.Size
	}{
		{"explicit", Element{Type: "rectangle", Size: &geometry.Size{Width: 10, Height: 20}}, geometry.Size{Width: 10, Height: 20}},
		{"registry", Element{Type: "ellipse"}, geometry.Size{Width: 100, Height: 100}},
		{"unknown type", Element{Type: "mystery"}, DefaultSize},
		{"invalid explicit", Element{Type: "mystery", Size: &geometry.Size{}}, DefaultSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.el.EffectiveSize(reg); got != tt.want {
				t.Errorf("EffectiveSize() = %v, want %v", got, tt.want)
			}
		})
	}
	if c := (Element{Type: "mystery"}).EffectiveColor(nil); c != DefaultColor {
		t.Errorf("Expected default color, got %s", c)
	}
	if !IsFrame(Element{Type: FrameType}, nil) {
		t.Error("frame type should be a frame")
	}
}

func TestNewConnectionRejectsSelfLoop(t *testing.T) {
	if _, err := NewConnection("x", "a", "a", PortAuto, PortAuto, LineCurved); !errors.Is(err, ErrSelfConnection) {
		t.Errorf("Expected ErrSelfConnection, got %v", err)
	}
	if _, err := NewConnection("x", "a", "b", PortAuto, PortAuto, LineCurved); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	d := testDiagram()
	d.Elements = append(d.Elements, Element{Type: "note"}, Element{ID: "a", Type: "note"})

	if err := SaveFile(path, d); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	ids := map[string]bool{}
	for _, el := range loaded.Elements {
		if el.ID == "" || ids[el.ID] {
			t.Errorf("Expected unique non-empty ids, got %q", el.ID)
		}
		ids[el.ID] = true
	}

	bad := &Diagram{Elements: []Element{{ID: "a"}}, Connections: []Connection{{ID: "x", SourceID: "a", TargetID: "nope"}}}
	if err := Validate(bad); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected parse error")
	}
}
