package pathfinding

import (
	"math"
	"slices"

	"diagramstudio/geometry"
)

// collinearTolerance bounds the cross product (relative to segment
// lengths) under which three points count as collinear.
const collinearTolerance = 1e-6

// duplicateTolerance is the distance under which two consecutive points merge.
const duplicateTolerance = 0.5

// CleanupWaypoints removes consecutive duplicates and interior points that
// lie on a straight run between their neighbours. The first and last
// points are always kept.
func CleanupWaypoints(points []geometry.Point) []geometry.Point {
	if len(points) <= 2 {
		return slices.Clone(points)
	}

	deduped := []geometry.Point{points[0]}
	for _, p := range points[1:] {
		if p.Distance(deduped[len(deduped)-1]) < duplicateTolerance {
			continue
		}
		deduped = append(deduped, p)
	}
	// Keep the real endpoint even if it merged into its predecessor.
	if last := points[len(points)-1]; deduped[len(deduped)-1] != last {
		if len(deduped) == 1 {
			deduped = append(deduped, last)
		} else {
			deduped[len(deduped)-1] = last
		}
	}

	if len(deduped) <= 2 {
		return deduped
	}
	out := []geometry.Point{deduped[0]}
	for i := 1; i < len(deduped)-1; i++ {
		prev, cur, next := out[len(out)-1], deduped[i], deduped[i+1]
		if isStraightRun(prev, cur, next) {
			continue
		}
		out = append(out, cur)
	}
	return append(out, deduped[len(deduped)-1])
}

// isStraightRun reports whether cur sits on the line prev->next and the
// path keeps its direction through it.
func isStraightRun(prev, cur, next geometry.Point) bool {
	in, out := cur.Sub(prev), next.Sub(cur)
	cross := in.X*out.Y - in.Y*out.X
	scale := geometry.NonZero(in.Length() * out.Length())
	return math.Abs(cross)/scale <= collinearTolerance && in.Dot(out) >= 0
}

// InsertWaypointSorted inserts p so the list stays ordered by ascending
// distance from source. Equal distances keep insertion order.
func InsertWaypointSorted(waypoints []geometry.Point, p, source geometry.Point) []geometry.Point {
	d := p.Distance(source)
	idx := len(waypoints)
	for i, wp := range waypoints {
		if wp.Distance(source) > d {
			idx = i
			break
		}
	}
	out := make([]geometry.Point, 0, len(waypoints)+1)
	out = append(out, waypoints[:idx]...)
	out = append(out, p)
	return append(out, waypoints[idx:]...)
}

// RemoveWaypoint returns a copy of waypoints without index i. Out of range
// indexes return an unchanged copy.
func RemoveWaypoint(waypoints []geometry.Point, i int) []geometry.Point {
	out := slices.Clone(waypoints)
	if i < 0 || i >= len(out) {
		return out
	}
	return slices.Delete(out, i, i+1)
}

// NearestSegment returns the index of the polyline segment closest to p
// (segment i runs from points[i] to points[i+1]) and the distance to it.
// It returns -1 for polylines with fewer than two points.
func NearestSegment(points []geometry.Point, p geometry.Point) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i := 0; i+1 < len(points); i++ {
		if d := DistanceToSegment(p, points[i], points[i+1]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b geometry.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := geometry.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return p.Distance(a.Add(ab.Scale(t)))
}
