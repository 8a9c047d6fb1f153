package pathfinding

import (
	"math"

	"diagramstudio/geometry"
)

// Obstacle avoidance constants.
const (
	ObstaclePadding = 20.0 // Clearance kept around an obstacle when detouring
	ObstacleMargin  = 10.0 // Extra space added on top of the padding
	maxAvoidPasses  = 4    // Detours may hit further obstacles; bound the retries
)

// SegmentClear reports whether the segment a-b stays out of every obstacle.
func SegmentClear(a, b geometry.Point, obstacles []geometry.Rect) bool {
	for _, ob := range obstacles {
		if ob.IntersectsSegment(a, b) {
			return false
		}
	}
	return true
}

// PathClear reports whether every segment of the polyline is clear.
func PathClear(points []geometry.Point, obstacles []geometry.Rect) bool {
	for i := 0; i+1 < len(points); i++ {
		if !SegmentClear(points[i], points[i+1], obstacles) {
			return false
		}
	}
	return true
}

// AvoidObstacles reroutes every segment that crosses an obstacle around
// that obstacle's nearer side. The axis with the larger span decides
// whether the detour goes above/below (horizontal runs) or left/right
// (vertical runs); the detour keeps padding plus ObstacleMargin of
// clearance. Obstacles that contain a segment endpoint cannot be avoided
// and are skipped.
//
// The side is picked from the segment's position relative to the
// obstacle center, so a segment exactly between two obstacles may detour
// into the other one; later passes then try again from there.
func AvoidObstacles(points []geometry.Point, obstacles []geometry.Rect, padding float64) []geometry.Point {
	if len(points) < 2 || len(obstacles) == 0 {
		return points
	}

	for pass := 0; pass < maxAvoidPasses; pass++ {
		changed := false
		out := []geometry.Point{points[0]}
		for i := 0; i+1 < len(points); i++ {
			a, b := points[i], points[i+1]
			ob, hit := firstBlocking(a, b, obstacles)
			if !hit {
				out = append(out, b)
				continue
			}
			out = append(out, detour(a, b, ob, padding+ObstacleMargin)...)
			changed = true
		}
		points = CleanupWaypoints(out)
		if !changed {
			break
		}
	}
	return points
}

func firstBlocking(a, b geometry.Point, obstacles []geometry.Rect) (geometry.Rect, bool) {
	for _, ob := range obstacles {
		if ob.Contains(a) || ob.Contains(b) {
			continue
		}
		if ob.IntersectsSegment(a, b) {
			return ob, true
		}
	}
	return geometry.Rect{}, false
}

// detour returns the points that replace segment a-b, excluding a and
// including b.
func detour(a, b geometry.Point, ob geometry.Rect, offset float64) []geometry.Point {
	center := ob.Center()
	mid := a.Midpoint(b)

	if math.Abs(b.X-a.X) >= math.Abs(b.Y-a.Y) {
		y := ob.Y - offset
		if mid.Y > center.Y {
			y = ob.Bottom() + offset
		}
		x1, x2 := ob.X-offset, ob.Right()+offset
		if b.X < a.X {
			x1, x2 = ob.Right()+offset, ob.X-offset
			x1, x2 = math.Min(x1, a.X), math.Max(x2, b.X)
		} else {
			x1, x2 = math.Max(x1, a.X), math.Min(x2, b.X)
		}
		return []geometry.Point{
			{X: x1, Y: a.Y},
			{X: x1, Y: y},
			{X: x2, Y: y},
			{X: x2, Y: b.Y},
			b,
		}
	}

	x := ob.X - offset
	if mid.X > center.X {
		x = ob.Right() + offset
	}
	y1, y2 := ob.Y-offset, ob.Bottom()+offset
	if b.Y < a.Y {
		y1, y2 = ob.Bottom()+offset, ob.Y-offset
		y1, y2 = math.Min(y1, a.Y), math.Max(y2, b.Y)
	} else {
		y1, y2 = math.Max(y1, a.Y), math.Min(y2, b.Y)
	}
	return []geometry.Point{
		{X: a.X, Y: y1},
		{X: x, Y: y1},
		{X: x, Y: y2},
		{X: b.X, Y: y2},
		b,
	}
}
