package validation

import (
	"strings"
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

func box(id string, x, y float64) diagram.Element {
	return diagram.Element{ID: id, Type: "rectangle", X: x, Y: y}
}

func straight(id, from, to string) diagram.Connection {
	return diagram.Connection{ID: id, SourceID: from, TargetID: to, LineStyle: diagram.LineStraight}
}

func TestRouteValidator(t *testing.T) {
	frameSize := geometry.Size{Width: 250, Height: 200}

	tests := []struct {
		name    string
		diagram *diagram.Diagram
		strict  bool
		wantErr []string
	}{
		{
			name: "clear straight route",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{box("a", 0, 0), box("b", 300, 0)},
				Connections: []diagram.Connection{straight("c1", "a", "b")},
			},
		},
		{
			name: "route through another element",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{box("a", 0, 0), box("b", 300, 0), {ID: "mid", Type: "rectangle", X: 160, Y: 0, Size: &geometry.Size{Width: 100, Height: 60}}},
				Connections: []diagram.Connection{straight("c1", "a", "b")},
			},
			wantErr: []string{`c1: route crosses element "mid"`},
		},
		{
			name: "frames ignored by default",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{{ID: "f", Type: diagram.FrameType, X: 100, Y: -50, Size: &frameSize}, box("a", 0, 0), box("b", 300, 0)},
				Connections: []diagram.Connection{straight("c1", "a", "b")},
			},
		},
		{
			name: "frames reported in strict mode",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{{ID: "f", Type: diagram.FrameType, X: 100, Y: -50, Size: &frameSize}, box("a", 0, 0), box("b", 300, 0)},
				Connections: []diagram.Connection{straight("c1", "a", "b")},
			},
			strict:  true,
			wantErr: []string{`c1: route crosses element "f"`},
		},
		{
			name: "missing target",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{box("a", 0, 0)},
				Connections: []diagram.Connection{straight("c1", "a", "gone")},
			},
			wantErr: []string{`c1: target element "gone" does not exist`},
		},
		{
			name: "self connection",
			diagram: &diagram.Diagram{
				Elements:    []diagram.Element{box("a", 0, 0)},
				Connections: []diagram.Connection{straight("c1", "a", "a")},
			},
			wantErr: []string{`c1: connects "a" to itself`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRouteValidator(diagram.BasicRegistry(), nil)
			v.SetStrictMode(tt.strict)
			errs := v.Validate(tt.diagram)

			if len(errs) != len(tt.wantErr) {
				t.Fatalf("Expected %d errors, got %v", len(tt.wantErr), errs)
			}
			for i, want := range tt.wantErr {
				if got := errs[i].Error(); got != want {
					t.Errorf("Expected %q, got %q", want, got)
				}
			}
		})
	}
}

func TestOrthogonalRoutesStayOrthogonal(t *testing.T) {
	d := &diagram.Diagram{
		Elements: []diagram.Element{box("a", 0, 0), box("b", 300, 200)},
		Connections: []diagram.Connection{
			{ID: "c1", SourceID: "a", TargetID: "b", LineStyle: diagram.LineStep},
			{ID: "c2", SourceID: "a", TargetID: "b", LineStyle: diagram.LineStepSharp, Waypoints: []geometry.Point{{X: 200, Y: 100}}},
		},
	}
	v := NewRouteValidator(diagram.BasicRegistry(), nil)
	for _, err := range v.Validate(d) {
		if strings.Contains(err.Message, "diagonal") || strings.Contains(err.Message, "off the edge") {
			t.Errorf("Unexpected error: %v", err)
		}
	}
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{ConnectionID: "c1", Segment: 2, Message: "diagonal segment in step route"}
	if got := err.Error(); got != "c1 segment 2: diagonal segment in step route" {
		t.Errorf("Unexpected message %q", got)
	}
}
