package snapping

import (
	"reflect"
	"testing"

	"diagramstudio/geometry"
)

func TestCalculateSnapGuides(t *testing.T) {
	dragging := geometry.R(103, 200, 50, 50)
	others := []geometry.Rect{geometry.R(100, 0, 50, 50)}

	res := CalculateSnapGuides(dragging, others, 15)
	if res.SnapX == nil || *res.SnapX != -3 {
		t.Fatalf("Expected SnapX -3, got %v", res.SnapX)
	}
	if res.SnapY != nil {
		t.Errorf("Expected no Y snap, got %v", *res.SnapY)
	}
	if len(res.Guides) != 3 {
		t.Fatalf("Expected 3 guides (left, right, center), got %d", len(res.Guides))
	}

	g := res.Guides[0]
	if g.Orientation != Vertical || g.Kind != KindEdge || g.Position != 100 {
		t.Errorf("Unexpected first guide %+v", g)
	}
	if g.From != 0 || g.To != 250 {
		t.Errorf("Expected guide span 0..250, got %v..%v", g.From, g.To)
	}
	if last := res.Guides[2]; last.Kind != KindCenter || last.Position != 125 {
		t.Errorf("Unexpected center guide %+v", last)
	}

	snapped := res.Snapped(dragging)
	if snapped.X != 100 || snapped.Y != 200 {
		t.Errorf("Expected snapped rect at (100,200), got (%v,%v)", snapped.X, snapped.Y)
	}
}

func TestSnapFirstMatchWins(t *testing.T) {
	dragging := geometry.R(60, 100, 40, 40)
	others := []geometry.Rect{
		geometry.R(0, 300, 50, 50),  // right edge at 50, 10 away
		geometry.R(58, 500, 50, 50), // left edge at 58, 2 away but later
	}

	res := CalculateSnapGuides(dragging, others, 15)
	if res.SnapX == nil || *res.SnapX != -10 {
		t.Errorf("Expected the first match (-10) to win, got %v", res.SnapX)
	}
}

func TestSnapHorizontalGuides(t *testing.T) {
	dragging := geometry.R(300, 12, 40, 40)
	others := []geometry.Rect{geometry.R(0, 0, 100, 64)}

	res := CalculateSnapGuides(dragging, others, 15)
	if res.SnapY == nil || *res.SnapY != -12 {
		t.Fatalf("Expected SnapY -12, got %v", res.SnapY)
	}
	for _, g := range res.Guides {
		if g.Orientation != Horizontal {
			t.Errorf("Expected only horizontal guides, got %+v", g)
		}
		if g.From != 0 || g.To != 340 {
			t.Errorf("Expected span 0..340, got %v..%v", g.From, g.To)
		}
	}
}

func TestSnapThreshold(t *testing.T) {
	dragging := geometry.R(116, 500, 10, 10)
	others := []geometry.Rect{geometry.R(100, 0, 200, 10)}

	if res := CalculateSnapGuides(dragging, others, 15); res.SnapX != nil {
		t.Errorf("16 apart should not snap with threshold 15, got %v", *res.SnapX)
	}
	if res := CalculateSnapGuides(dragging, others, 0); res.SnapX != nil {
		t.Errorf("zero threshold should use the default, got %v", *res.SnapX)
	}
	if res := CalculateSnapGuides(dragging, others, 20); res.SnapX == nil || *res.SnapX != -16 {
		t.Errorf("Expected -16 with threshold 20, got %v", res.SnapX)
	}
}

func TestSnapGuidesIdempotent(t *testing.T) {
	dragging := geometry.R(47, 33, 80, 40)
	others := []geometry.Rect{
		geometry.R(40, 300, 90, 20),
		geometry.R(400, 30, 60, 60),
		geometry.R(-200, -200, 20, 20),
	}

	a := CalculateSnapGuides(dragging, others, DefaultThreshold)
	b := CalculateSnapGuides(dragging, others, DefaultThreshold)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Repeated calls differ:\n%+v\n%+v", a, b)
	}
	if a.SnapX == nil || a.SnapY == nil {
		t.Fatalf("Expected snaps on both axes, got %v %v", a.SnapX, a.SnapY)
	}
}

func TestSnapNoOthers(t *testing.T) {
	res := CalculateSnapGuides(geometry.R(0, 0, 10, 10), nil, 15)
	if res.SnapX != nil || res.SnapY != nil || len(res.Guides) != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}
