package pathfinding

import (
	"math"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Curve constants.
const (
	// MaxCurveExtent caps how far bezier controls reach out of a port.
	MaxCurveExtent = 80.0
	// DefaultArcBulge is the perpendicular offset of an arc without an
	// explicit curve amount.
	DefaultArcBulge = 50.0
	// WaypointCornerRadius rounds the corners of non-orthogonal styles
	// routed through user waypoints.
	WaypointCornerRadius = 20.0
)

// PathRequest describes one connector to route.
type PathRequest struct {
	Source, Target         geometry.Point
	SourcePort, TargetPort diagram.PortID
	Style                  diagram.LineStyle
	Obstacles              []geometry.Rect // Other elements' bounding boxes
	CurveAmount            *float64
	Waypoints              []geometry.Point
	SourceBox, TargetBox   *geometry.Rect // Optional, lets routes clear the endpoint shapes
}

// Route is a computed connector: the drawable path plus the polyline the
// path was built from (both endpoints included).
type Route struct {
	Path       Path
	Points     []geometry.Point
	Source     geometry.Point
	Target     geometry.Point
	SourcePort diagram.PortID
	TargetPort diagram.PortID
	Style      diagram.LineStyle
}

// ComputePath dispatches on the line style and returns the path.
func ComputePath(req PathRequest) Path {
	return ComputeRoute(req).Path
}

// ComputeRoute dispatches on the line style and returns the full route.
// Unknown styles fall back to curved.
func ComputeRoute(req PathRequest) Route {
	style := req.Style.Normalize()
	r := Route{
		Source:     req.Source,
		Target:     req.Target,
		SourcePort: req.SourcePort,
		TargetPort: req.TargetPort,
		Style:      style,
	}

	if len(req.Waypoints) > 0 {
		r.Points, r.Path = waypointRoute(req, style)
		return r
	}

	direct := []geometry.Point{req.Source, req.Target}
	switch style {
	case diagram.LineStraight:
		r.Points, r.Path = direct, BuildRoundedPath(direct, 0)
	case diagram.LineArc:
		r.Points, r.Path = direct, arcPath(req.Source, req.Target, req.CurveAmount)
	case diagram.LineSmart:
		if SegmentClear(req.Source, req.Target, req.Obstacles) {
			r.Points, r.Path = direct, curvedPath(req)
		} else {
			r.Points = OrthogonalRoute(req)
			r.Path = BuildRoundedPath(r.Points, StepCornerRadius)
		}
	case diagram.LineStep:
		r.Points = OrthogonalRoute(req)
		r.Path = BuildRoundedPath(r.Points, StepCornerRadius)
	case diagram.LineStepSharp:
		r.Points = OrthogonalRoute(req)
		r.Path = BuildRoundedPath(r.Points, 0)
	default:
		r.Points, r.Path = direct, curvedPath(req)
	}
	return r
}

// arcPath draws one quadratic curve whose control point is the midpoint
// pushed along the perpendicular of source->target.
func arcPath(s, t geometry.Point, amount *float64) Path {
	bulge := DefaultArcBulge
	if amount != nil {
		bulge = geometry.Finite(*amount, 0)
	}
	ctrl := s.Midpoint(t).Add(t.Sub(s).Perp().Scale(bulge))

	var p Path
	p.MoveTo(s)
	p.QuadTo(ctrl, t)
	return p
}

// curvedPath draws a cubic curve. Without a curve amount the controls run
// out along each port's outward direction so the curve meets the shape
// edges at a right angle; with one, the controls sit at the thirds of the
// chord displaced along its perpendicular.
func curvedPath(req PathRequest) Path {
	s, t := req.Source, req.Target
	var c1, c2 geometry.Point

	if req.CurveAmount != nil {
		off := t.Sub(s).Perp().Scale(geometry.Finite(*req.CurveAmount, 0))
		c1 = s.Lerp(t, 1.0/3).Add(off)
		c2 = s.Lerp(t, 2.0/3).Add(off)
	} else {
		d := math.Min(MaxCurveExtent, math.Min(math.Abs(t.X-s.X)/2, math.Abs(t.Y-s.Y)/2))
		c1 = s.Add(PortDirection(req.SourcePort).Scale(d))
		c2 = t.Add(PortDirection(req.TargetPort).Scale(d))
	}

	var p Path
	p.MoveTo(s)
	p.CubicTo(c1, c2, t)
	return p
}

// waypointRoute threads the connector through user waypoints. Orthogonal
// styles get elbows between misaligned points.
func waypointRoute(req PathRequest, style diagram.LineStyle) ([]geometry.Point, Path) {
	pts := make([]geometry.Point, 0, len(req.Waypoints)+2)
	pts = append(pts, req.Source)
	pts = append(pts, req.Waypoints...)
	pts = append(pts, req.Target)

	switch style {
	case diagram.LineStep, diagram.LineStepSharp:
		pts = CleanupWaypoints(orthogonalize(pts, req.SourcePort))
		radius := StepCornerRadius
		if style == diagram.LineStepSharp {
			radius = 0
		}
		return pts, BuildRoundedPath(pts, radius)
	case diagram.LineStraight:
		return pts, BuildRoundedPath(pts, 0)
	default:
		return pts, BuildRoundedPath(pts, WaypointCornerRadius)
	}
}
