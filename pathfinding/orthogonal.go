package pathfinding

import (
	"math"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Orthogonal routing constants.
const (
	// SnapToStraightThreshold is the largest perpendicular offset that is
	// still drawn as one straight segment.
	SnapToStraightThreshold = 10.0
	// MinOffset is the length of the stub a route runs out of a port
	// before turning.
	MinOffset = 25.0
	// StepCornerRadius rounds the corners of the step style.
	StepCornerRadius = 8.0
)

// portPairKind classifies how two ports relate for Manhattan routing.
type portPairKind int

const (
	pairFallback portPairKind = iota
	pairSameSide
	pairOpposite
	pairOppositeReversed
	pairPerpendicular
)

func classifyPorts(s, t geometry.Point, sp, tp diagram.PortID) portPairKind {
	if !sp.IsSide() || !tp.IsSide() {
		return pairFallback
	}
	switch {
	case sp == tp:
		return pairSameSide
	case sp == tp.Opposite():
		if facing(s, t, sp) {
			return pairOpposite
		}
		return pairOppositeReversed
	default:
		return pairPerpendicular
	}
}

// facing reports whether the target lies on the side the source port exits.
func facing(s, t geometry.Point, sp diagram.PortID) bool {
	switch sp {
	case diagram.PortBottom:
		return t.Y > s.Y
	case diagram.PortTop:
		return t.Y < s.Y
	case diagram.PortRight:
		return t.X > s.X
	case diagram.PortLeft:
		return t.X < s.X
	}
	return false
}

// OrthogonalRoute computes the Manhattan vertex list for a request,
// including both endpoints, after cleanup and obstacle avoidance.
func OrthogonalRoute(req PathRequest) []geometry.Point {
	s, t := req.Source, req.Target
	if pts, ok := snapToStraight(s, t, req.SourcePort, req.TargetPort); ok {
		return pts
	}

	pts := orthogonalWaypoints(req)
	pts = CleanupWaypoints(pts)
	if len(req.Obstacles) > 0 {
		pts = AvoidObstacles(pts, req.Obstacles, ObstaclePadding)
	}
	return pts
}

// snapToStraight emits a single segment at the averaged coordinate when
// the endpoints are nearly aligned on one axis, whatever the port pair.
// Two ports on the same side are left to the offset-line route, which
// keeps the path clear of both elements.
func snapToStraight(s, t geometry.Point, sp, tp diagram.PortID) ([]geometry.Point, bool) {
	if sp.IsSide() && sp == tp {
		return nil, false
	}
	dx, dy := t.X-s.X, t.Y-s.Y
	adx, ady := math.Abs(dx), math.Abs(dy)

	if ady <= SnapToStraightThreshold && adx > ady {
		y := (s.Y + t.Y) / 2
		return []geometry.Point{{X: s.X, Y: y}, {X: t.X, Y: y}}, true
	}
	if adx <= SnapToStraightThreshold && ady > adx {
		x := (s.X + t.X) / 2
		return []geometry.Point{{X: x, Y: s.Y}, {X: x, Y: t.Y}}, true
	}
	return nil, false
}

// orthogonalWaypoints synthesizes the raw vertex list for the port pair.
func orthogonalWaypoints(req PathRequest) []geometry.Point {
	s, t := req.Source, req.Target
	sp, tp := req.SourcePort, req.TargetPort

	switch classifyPorts(s, t, sp, tp) {
	case pairSameSide:
		return sameSideRoute(req)
	case pairOpposite:
		if sp.Vertical() {
			midY := (s.Y + t.Y) / 2
			return []geometry.Point{s, {X: s.X, Y: midY}, {X: t.X, Y: midY}, t}
		}
		midX := (s.X + t.X) / 2
		return []geometry.Point{s, {X: midX, Y: s.Y}, {X: midX, Y: t.Y}, t}
	case pairOppositeReversed:
		return reversedRoute(req)
	case pairPerpendicular:
		if sp.Horizontal() {
			return []geometry.Point{s, {X: t.X, Y: s.Y}, t}
		}
		return []geometry.Point{s, {X: s.X, Y: t.Y}, t}
	default:
		midX := (s.X + t.X) / 2
		return []geometry.Point{s, {X: midX, Y: s.Y}, {X: midX, Y: t.Y}, t}
	}
}

// sameSideRoute runs out of both ports to a shared offset line beyond the
// further element and back in.
func sameSideRoute(req PathRequest) []geometry.Point {
	s, t := req.Source, req.Target
	off := 2 * MinOffset

	switch req.SourcePort {
	case diagram.PortBottom:
		line := boxEdge(req, geometry.Rect.Bottom, math.Max, math.Max(s.Y, t.Y))
		return []geometry.Point{s, {X: s.X, Y: line + off}, {X: t.X, Y: line + off}, t}
	case diagram.PortTop:
		line := boxEdge(req, func(r geometry.Rect) float64 { return r.Y }, math.Min, math.Min(s.Y, t.Y))
		return []geometry.Point{s, {X: s.X, Y: line - off}, {X: t.X, Y: line - off}, t}
	case diagram.PortRight:
		line := boxEdge(req, geometry.Rect.Right, math.Max, math.Max(s.X, t.X))
		return []geometry.Point{s, {X: line + off, Y: s.Y}, {X: line + off, Y: t.Y}, t}
	default:
		line := boxEdge(req, func(r geometry.Rect) float64 { return r.X }, math.Min, math.Min(s.X, t.X))
		return []geometry.Point{s, {X: line - off, Y: s.Y}, {X: line - off, Y: t.Y}, t}
	}
}

// boxEdge folds an edge coordinate over the known endpoint boxes.
func boxEdge(req PathRequest, edge func(geometry.Rect) float64, fold func(a, b float64) float64, init float64) float64 {
	v := init
	if req.SourceBox != nil {
		v = fold(v, edge(*req.SourceBox))
	}
	if req.TargetBox != nil {
		v = fold(v, edge(*req.TargetBox))
	}
	return v
}

// reversedRoute handles opposite ports whose target lies behind the
// source: out of the source, around an offset line beyond both elements,
// and into the target from its own side.
func reversedRoute(req PathRequest) []geometry.Point {
	s, t := req.Source, req.Target
	exit := s.Add(PortDirection(req.SourcePort).Scale(MinOffset))
	entry := t.Add(PortDirection(req.TargetPort).Scale(MinOffset))

	if req.SourcePort.Vertical() {
		x := aroundLine(s.X, t.X, req, true)
		return []geometry.Point{s, exit, {X: x, Y: exit.Y}, {X: x, Y: entry.Y}, entry, t}
	}
	y := aroundLine(s.Y, t.Y, req, false)
	return []geometry.Point{s, exit, {X: exit.X, Y: y}, {X: entry.X, Y: y}, entry, t}
}

// aroundLine picks the coordinate of the transfer line of a reversed
// route. With boxes it runs beyond both elements on the side the target
// leans toward; without boxes it uses the midpoint, pushed out when the
// ports are nearly aligned.
func aroundLine(sv, tv float64, req PathRequest, alongX bool) float64 {
	if req.SourceBox != nil && req.TargetBox != nil {
		union := req.SourceBox.Union(*req.TargetBox)
		if alongX {
			if tv >= sv {
				return union.Right() + MinOffset
			}
			return union.X - MinOffset
		}
		if tv >= sv {
			return union.Bottom() + MinOffset
		}
		return union.Y - MinOffset
	}
	if math.Abs(tv-sv) < 2*MinOffset {
		return math.Max(sv, tv) + 2*MinOffset
	}
	return (sv + tv) / 2
}

// orthogonalize inserts elbows between consecutive points that are not
// axis-aligned. The first elbow follows the source port axis, the rest
// go horizontal first.
func orthogonalize(points []geometry.Point, sp diagram.PortID) []geometry.Point {
	if len(points) < 2 {
		return points
	}
	out := []geometry.Point{points[0]}
	for i := 1; i < len(points); i++ {
		a, b := out[len(out)-1], points[i]
		if !geometry.Near(a.X, b.X) && !geometry.Near(a.Y, b.Y) {
			if i == 1 && sp.Vertical() {
				out = append(out, geometry.Point{X: a.X, Y: b.Y})
			} else {
				out = append(out, geometry.Point{X: b.X, Y: a.Y})
			}
		}
		out = append(out, b)
	}
	return out
}
