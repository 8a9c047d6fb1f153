package preview

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/interaction"
)

func testDiagram() *diagram.Diagram {
	size := geometry.Size{Width: 100, Height: 60}
	return &diagram.Diagram{
		Elements: []diagram.Element{
			{ID: "a", Type: "rectangle", X: 0, Y: 0, Size: &size, Color: "#ff0000"},
			{ID: "b", Type: "rectangle", X: 300, Y: 0, Size: &size, Label: "target"},
		},
		Connections: []diagram.Connection{
			{ID: "c1", SourceID: "a", TargetID: "b", LineStyle: diagram.LineStraight},
		},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(diagram.BasicRegistry(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	return r
}

func dark(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)
	img, err := r.Render(testDiagram(), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := img.Bounds().Size(); got != image.Pt(440, 100) {
		t.Errorf("Expected 440x100 image, got %v", got)
	}

	cr, cg, cb, _ := img.At(70, 50).RGBA()
	if cr < 0xf000 || cg > 0x1000 || cb > 0x1000 {
		t.Errorf("Expected element fill red at its center, got %x %x %x", cr, cg, cb)
	}
	if !dark(img, 220, 50) {
		t.Errorf("Expected the connection drawn between the elements")
	}
	if dark(img, 220, 10) {
		t.Errorf("Expected background away from the connection")
	}
}

func TestRenderOverlay(t *testing.T) {
	r := newTestRenderer(t)
	overlay := &interaction.Overlay{
		Positions: map[string]geometry.Point{"a": geometry.Pt(0, 30)},
	}
	img, err := r.Render(testDiagram(), overlay)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, g, _, _ := img.At(70, 25).RGBA(); g < 0xf000 {
		t.Errorf("Expected the stored position left empty when previewing a move")
	}
	if cr, cg, _, _ := img.At(70, 75).RGBA(); cr < 0xf000 || cg > 0x1000 {
		t.Errorf("Expected the previewed position filled red")
	}
}

func TestRenderEmpty(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.Render(&diagram.Diagram{}, nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty, got %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	r := newTestRenderer(t)
	path := filepath.Join(t.TempDir(), "routes.png")
	if err := r.SavePNG(testDiagram(), path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty PNG, got %v %v", info, err)
	}
}
