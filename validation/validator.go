// Package validation checks computed connector routes against the
// diagram they belong to.
package validation

import (
	"fmt"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/pathfinding"
)

// Tolerances in diagram units.
const (
	boundaryTolerance = 1.0 // Endpoints this close to an element edge count as on it
	waypointTolerance = 1.0 // Routes must pass this close to every waypoint
	flattenSteps      = 16
)

// RouteValidator routes every connection of a diagram and reports routes
// that break the drawing rules.
type RouteValidator struct {
	router   *pathfinding.Router
	registry diagram.Registry
	// Options
	strictMode bool // Also report routes crossing frames
}

// ValidationError is one problem found on a connection.
type ValidationError struct {
	ConnectionID string
	Segment      int // Index into the route points, -1 for the whole route
	Message      string
}

func (e ValidationError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("%s: %s", e.ConnectionID, e.Message)
	}
	return fmt.Sprintf("%s segment %d: %s", e.ConnectionID, e.Segment, e.Message)
}

// NewRouteValidator creates a validator. A nil router routes without a cache.
func NewRouteValidator(reg diagram.Registry, router *pathfinding.Router) *RouteValidator {
	if router == nil {
		router = pathfinding.NewRouter(reg, nil)
	}
	return &RouteValidator{router: router, registry: reg}
}

// SetStrictMode enables or disables strict validation.
func (v *RouteValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// Validate checks every connection of d:
//   - both endpoint elements exist and differ
//   - the route starts and ends on its elements' edges
//   - orthogonal styles only use horizontal and vertical segments
//   - the route passes through every waypoint
//   - the route does not cross other elements
func (v *RouteValidator) Validate(d *diagram.Diagram) []ValidationError {
	var errs []ValidationError
	for _, c := range d.Connections {
		errs = append(errs, v.validateConnection(d, c)...)
	}
	return errs
}

func (v *RouteValidator) validateConnection(d *diagram.Diagram, c diagram.Connection) []ValidationError {
	var errs []ValidationError
	add := func(seg int, format string, args ...any) {
		errs = append(errs, ValidationError{ConnectionID: c.ID, Segment: seg, Message: fmt.Sprintf(format, args...)})
	}

	src, okSrc := d.Element(c.SourceID)
	dst, okDst := d.Element(c.TargetID)
	switch {
	case !okSrc:
		add(-1, "source element %q does not exist", c.SourceID)
		return errs
	case !okDst:
		add(-1, "target element %q does not exist", c.TargetID)
		return errs
	case c.SourceID == c.TargetID:
		add(-1, "connects %q to itself", c.SourceID)
		return errs
	}

	route, ok := v.router.Route(c, d.Elements)
	if !ok {
		add(-1, "no route")
		return errs
	}

	if !onBoundary(src.Bounds(v.registry), route.Source) {
		add(-1, "route starts at %v, off the edge of %q", route.Source, src.ID)
	}
	if !onBoundary(dst.Bounds(v.registry), route.Target) {
		add(-1, "route ends at %v, off the edge of %q", route.Target, dst.ID)
	}

	if c.LineStyle.Orthogonal() {
		for i := 0; i+1 < len(route.Points); i++ {
			a, b := route.Points[i], route.Points[i+1]
			if !geometry.IsHorizontal(a, b) && !geometry.IsVertical(a, b) {
				add(i, "diagonal segment in %s route", c.LineStyle)
			}
		}
	}

	for i, wp := range c.Waypoints {
		if _, dist := pathfinding.NearestSegment(route.Points, wp); dist > waypointTolerance {
			add(-1, "route misses waypoint %d at %v", i, wp)
		}
	}

	flat := route.Path.Flatten(flattenSteps)
	for _, e := range d.Elements {
		if e.ID == src.ID || e.ID == dst.ID {
			continue
		}
		if !v.strictMode && diagram.IsFrame(e, v.registry) {
			continue
		}
		if crosses(flat, e.Bounds(v.registry)) {
			add(-1, "route crosses element %q", e.ID)
		}
	}
	return errs
}

// onBoundary reports whether p lies on the edge of r.
func onBoundary(r geometry.Rect, p geometry.Point) bool {
	outer := r.Inset(boundaryTolerance)
	inner := r.Inset(-boundaryTolerance)
	return outer.Contains(p) && !(inner.Width > 0 && inner.Height > 0 && strictlyInside(inner, p))
}

func strictlyInside(r geometry.Rect, p geometry.Point) bool {
	return p.X > r.X && p.X < r.Right() && p.Y > r.Y && p.Y < r.Bottom()
}

// crosses reports whether any polyline segment passes through r.
func crosses(points []geometry.Point, r geometry.Rect) bool {
	for i := 0; i+1 < len(points); i++ {
		if r.IntersectsSegment(points[i], points[i+1]) {
			return true
		}
	}
	return false
}
