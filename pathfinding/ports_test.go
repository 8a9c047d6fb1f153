package pathfinding

import (
	"math"
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

func TestResolvePortPosition(t *testing.T) {
	pos := geometry.Pt(10, 20)
	size := geometry.Size{Width: 100, Height: 60}

	tests := []struct {
		name  string
		port  diagram.PortID
		ratio float64
		want  geometry.Point
	}{
		{"top middle", diagram.PortTop, 0.5, geometry.Pt(60, 20)},
		{"bottom quarter", diagram.PortBottom, 0.25, geometry.Pt(35, 80)},
		{"left middle", diagram.PortLeft, 0.5, geometry.Pt(10, 50)},
		{"right end", diagram.PortRight, 1, geometry.Pt(110, 80)},
		{"center ignores ratio", diagram.PortCenter, 0.1, geometry.Pt(60, 50)},
		{"unknown falls back to center", diagram.PortID("nope"), 0.5, geometry.Pt(60, 50)},
		{"ratio clamped high", diagram.PortTop, 3, geometry.Pt(110, 20)},
		{"ratio clamped low", diagram.PortTop, -1, geometry.Pt(10, 20)},
		{"NaN ratio uses default", diagram.PortTop, math.NaN(), geometry.Pt(60, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePortPosition(pos, size, tt.port, tt.ratio)
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPortSymmetry(t *testing.T) {
	pos := geometry.Pt(-30, 45)
	size := geometry.Size{Width: 80, Height: 33}

	for _, r := range []float64{0, 0.1, 0.33, 0.5, 0.9, 1} {
		left := ResolvePortPosition(pos, size, diagram.PortLeft, r)
		right := ResolvePortPosition(pos, size, diagram.PortRight, r)
		if left.Y != right.Y {
			t.Errorf("ratio %v: left.y %v != right.y %v", r, left.Y, right.Y)
		}
		if left.X != pos.X || right.X != pos.X+size.Width {
			t.Errorf("ratio %v: ports off the vertical bounds: %v %v", r, left, right)
		}
		if left.Y < pos.Y || left.Y > pos.Y+size.Height {
			t.Errorf("ratio %v: y %v outside element", r, left.Y)
		}
	}
}

func TestChooseOptimalPorts(t *testing.T) {
	a := geometry.R(0, 0, 100, 60)

	tests := []struct {
		name       string
		target     geometry.Rect
		wantSource diagram.PortID
		wantTarget diagram.PortID
	}{
		{"side by side", geometry.R(200, 0, 100, 60), diagram.PortRight, diagram.PortLeft},
		{"to the left", geometry.R(-300, 10, 100, 60), diagram.PortLeft, diagram.PortRight},
		{"below", geometry.R(0, 200, 100, 60), diagram.PortBottom, diagram.PortTop},
		{"above", geometry.R(20, -200, 100, 60), diagram.PortTop, diagram.PortBottom},
		{"diagonal, wide", geometry.R(400, 100, 100, 60), diagram.PortRight, diagram.PortLeft},
		{"diagonal, tall", geometry.R(150, 300, 100, 60), diagram.PortBottom, diagram.PortTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp, tp := ChooseOptimalPorts(a, tt.target)
			if sp != tt.wantSource || tp != tt.wantTarget {
				t.Errorf("Expected %s->%s, got %s->%s", tt.wantSource, tt.wantTarget, sp, tp)
			}

			// Swapping the boxes mirrors the relation.
			rs, rt := ChooseOptimalPorts(tt.target, a)
			if rt != sp {
				t.Errorf("swapped target %s, want %s", rt, sp)
			}
			if rs != sp.Opposite() {
				t.Errorf("swapped source %s, want %s", rs, sp.Opposite())
			}

			// Deterministic.
			if s2, t2 := ChooseOptimalPorts(a, tt.target); s2 != sp || t2 != tp {
				t.Errorf("second call returned %s->%s", s2, t2)
			}
		})
	}
}

func TestNearestPort(t *testing.T) {
	box := geometry.R(0, 0, 100, 60)
	tests := []struct {
		p    geometry.Point
		want diagram.PortID
	}{
		{geometry.Pt(50, -10), diagram.PortTop},
		{geometry.Pt(120, 30), diagram.PortRight},
		{geometry.Pt(40, 70), diagram.PortBottom},
		{geometry.Pt(-5, 25), diagram.PortLeft},
	}
	for _, tt := range tests {
		if got := NearestPort(box, tt.p); got != tt.want {
			t.Errorf("NearestPort(%v) = %s, want %s", tt.p, got, tt.want)
		}
	}
}

func TestPortDirection(t *testing.T) {
	if d := PortDirection(diagram.PortAuto); d != (geometry.Point{}) {
		t.Errorf("auto port should have no direction, got %v", d)
	}
	for _, p := range diagram.SidePorts {
		if l := PortDirection(p).Length(); l != 1 {
			t.Errorf("%s direction length = %v, want 1", p, l)
		}
	}
}
