package pathfinding

import (
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

func sizeOf(w, h float64) *geometry.Size {
	return &geometry.Size{Width: w, Height: h}
}

func routerElements() []diagram.Element {
	return []diagram.Element{
		{ID: "a", Type: "rectangle", X: 0, Y: 0, Size: sizeOf(100, 60)},
		{ID: "b", Type: "rectangle", X: 300, Y: 0, Size: sizeOf(100, 60)},
		{ID: "c", Type: "rectangle", X: 150, Y: 200, Size: sizeOf(60, 60)},
		{ID: "f", Type: diagram.FrameType, X: -50, Y: -50, Size: sizeOf(600, 400)},
	}
}

func TestRouter_Route(t *testing.T) {
	router := NewRouter(diagram.BasicRegistry(), NewPathCache(DefaultCacheSize))
	elements := routerElements()

	tests := []struct {
		name   string
		conn   diagram.Connection
		ok     bool
		source geometry.Point
		target geometry.Point
	}{
		{
			name:   "auto ports side by side",
			conn:   diagram.Connection{ID: "1", SourceID: "a", TargetID: "b"},
			ok:     true,
			source: geometry.Pt(100, 30),
			target: geometry.Pt(300, 30),
		},
		{
			name:   "stored ports recomputed without manual flag",
			conn:   diagram.Connection{ID: "2", SourceID: "a", TargetID: "b", SourcePort: diagram.PortTop, TargetPort: diagram.PortTop},
			ok:     true,
			source: geometry.Pt(100, 30),
			target: geometry.Pt(300, 30),
		},
		{
			name: "manual ports kept",
			conn: diagram.Connection{ID: "3", SourceID: "a", TargetID: "b",
				SourcePort: diagram.PortBottom, TargetPort: diagram.PortBottom, ManualPorts: true},
			ok:     true,
			source: geometry.Pt(50, 60),
			target: geometry.Pt(350, 60),
		},
		{
			name: "manual flag with auto port recomputes that side only",
			conn: diagram.Connection{ID: "4", SourceID: "a", TargetID: "b",
				SourcePort: diagram.PortTop, TargetPort: diagram.PortAuto, ManualPorts: true},
			ok:     true,
			source: geometry.Pt(50, 0),
			target: geometry.Pt(300, 30),
		},
		{
			name: "missing source",
			conn: diagram.Connection{ID: "5", SourceID: "zz", TargetID: "b"},
			ok:   false,
		},
		{
			name: "missing target",
			conn: diagram.Connection{ID: "6", SourceID: "a", TargetID: "zz"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, ok := router.Route(tt.conn, elements)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if route.Source != tt.source || route.Target != tt.target {
				t.Errorf("Expected %v->%v, got %v->%v", tt.source, tt.target, route.Source, route.Target)
			}
			if route.Path.Start() != route.Source || route.Path.End() != route.Target {
				t.Errorf("path %q does not connect the ports", route.Path.String())
			}
		})
	}
}

func TestRouter_ObstaclesSkipEndpointsAndFrames(t *testing.T) {
	router := NewRouter(diagram.BasicRegistry(), nil)
	req, ok := router.Request(diagram.Connection{SourceID: "a", TargetID: "b"}, routerElements())
	if !ok {
		t.Fatal("Expected request")
	}
	if len(req.Obstacles) != 1 {
		t.Fatalf("Expected only element c as obstacle, got %v", req.Obstacles)
	}
	if req.Obstacles[0] != geometry.R(150, 200, 60, 60) {
		t.Errorf("Unexpected obstacle %v", req.Obstacles[0])
	}
}

func TestRouter_RouteAllUsesCache(t *testing.T) {
	cache := NewPathCache(DefaultCacheSize)
	router := NewRouter(diagram.BasicRegistry(), cache)
	d := &diagram.Diagram{
		Elements: routerElements(),
		Connections: []diagram.Connection{
			{ID: "ab", SourceID: "a", TargetID: "b", LineStyle: diagram.LineStep},
			{ID: "ac", SourceID: "a", TargetID: "c"},
			{ID: "dangling", SourceID: "a", TargetID: "gone"},
		},
	}

	first := router.RouteAll(d)
	if len(first) != 2 {
		t.Fatalf("Expected 2 routes, got %d", len(first))
	}
	if _, ok := first["dangling"]; ok {
		t.Error("dangling connection should not be routed")
	}

	router.RouteAll(d)
	hits, misses, _, _ := cache.Stats()
	if hits != 2 || misses != 2 {
		t.Errorf("Expected 2 hits and 2 misses, got %d/%d", hits, misses)
	}
}
