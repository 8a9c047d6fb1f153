package pathfinding

import (
	"math"
	"strconv"
	"strings"

	"diagramstudio/geometry"
)

// PathElement is one drawing command of a connector path.
type PathElement interface {
	// Op returns the SVG command letter.
	Op() byte
	// End returns the point the command finishes at.
	End() geometry.Point
}

// MoveTo starts the path.
type MoveTo struct {
	Point geometry.Point
}

// LineTo draws a straight line.
type LineTo struct {
	Point geometry.Point
}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control geometry.Point
	Point   geometry.Point
}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 geometry.Point
	Control2 geometry.Point
	Point    geometry.Point
}

func (MoveTo) Op() byte  { return 'M' }
func (LineTo) Op() byte  { return 'L' }
func (QuadTo) Op() byte  { return 'Q' }
func (CubicTo) Op() byte { return 'C' }

func (m MoveTo) End() geometry.Point  { return m.Point }
func (l LineTo) End() geometry.Point  { return l.Point }
func (q QuadTo) End() geometry.Point  { return q.Point }
func (c CubicTo) End() geometry.Point { return c.Point }

// Path is a connector path made of SVG-style commands.
type Path struct {
	elements []PathElement
}

// MoveTo starts a new path at p.
func (p *Path) MoveTo(pt geometry.Point) {
	p.elements = append(p.elements, MoveTo{Point: pt})
}

// LineTo draws a line to pt.
func (p *Path) LineTo(pt geometry.Point) {
	p.elements = append(p.elements, LineTo{Point: pt})
}

// QuadTo draws a quadratic curve through control c to pt.
func (p *Path) QuadTo(c, pt geometry.Point) {
	p.elements = append(p.elements, QuadTo{Control: c, Point: pt})
}

// CubicTo draws a cubic curve with controls c1, c2 to pt.
func (p *Path) CubicTo(c1, c2, pt geometry.Point) {
	p.elements = append(p.elements, CubicTo{Control1: c1, Control2: c2, Point: pt})
}

// Elements returns the path commands.
func (p Path) Elements() []PathElement {
	return p.elements
}

// IsEmpty returns true if the path has no commands.
func (p Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Count returns how many commands use the given SVG letter.
func (p Path) Count(op byte) int {
	n := 0
	for _, el := range p.elements {
		if el.Op() == op {
			n++
		}
	}
	return n
}

// Start returns the first point of the path.
func (p Path) Start() geometry.Point {
	if len(p.elements) == 0 {
		return geometry.Point{}
	}
	return p.elements[0].End()
}

// End returns the last point of the path.
func (p Path) End() geometry.Point {
	if len(p.elements) == 0 {
		return geometry.Point{}
	}
	return p.elements[len(p.elements)-1].End()
}

// String renders the path as SVG path data, e.g. "M 0 0 L 10 0".
func (p Path) String() string {
	var sb strings.Builder
	for i, el := range p.elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(el.Op())
		switch e := el.(type) {
		case MoveTo:
			writePoints(&sb, e.Point)
		case LineTo:
			writePoints(&sb, e.Point)
		case QuadTo:
			writePoints(&sb, e.Control, e.Point)
		case CubicTo:
			writePoints(&sb, e.Control1, e.Control2, e.Point)
		}
	}
	return sb.String()
}

func writePoints(sb *strings.Builder, pts ...geometry.Point) {
	for _, pt := range pts {
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(pt.X))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(pt.Y))
	}
}

func formatCoord(v float64) string {
	v = math.Round(geometry.Finite(v, 0)*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Flatten approximates the path with a polyline. Each curve is sampled
// with the given number of steps.
func (p Path) Flatten(steps int) []geometry.Point {
	if steps < 1 {
		steps = 1
	}
	var pts []geometry.Point
	var cur geometry.Point
	for _, el := range p.elements {
		switch e := el.(type) {
		case MoveTo:
			pts = append(pts, e.Point)
		case LineTo:
			pts = append(pts, e.Point)
		case QuadTo:
			for i := 1; i <= steps; i++ {
				pts = append(pts, quadPoint(cur, e.Control, e.Point, float64(i)/float64(steps)))
			}
		case CubicTo:
			for i := 1; i <= steps; i++ {
				pts = append(pts, cubicPoint(cur, e.Control1, e.Control2, e.Point, float64(i)/float64(steps)))
			}
		}
		cur = el.End()
	}
	return pts
}

func quadPoint(p0, c, p1 geometry.Point, t float64) geometry.Point {
	a := p0.Lerp(c, t)
	b := c.Lerp(p1, t)
	return a.Lerp(b, t)
}

func cubicPoint(p0, c1, c2, p1 geometry.Point, t float64) geometry.Point {
	a := quadPoint(p0, c1, c2, t)
	b := quadPoint(c1, c2, p1, t)
	return a.Lerp(b, t)
}

// BuildRoundedPath turns a polyline into a path. At every interior vertex
// the line backs off by min(radius, half of each adjacent segment) and a
// quadratic curve through the vertex joins the two segments, so corners
// never overshoot short segments. A radius of zero gives sharp corners.
func BuildRoundedPath(points []geometry.Point, radius float64) Path {
	var path Path
	if len(points) == 0 {
		return path
	}
	path.MoveTo(points[0])
	if len(points) == 1 {
		return path
	}

	for i := 1; i < len(points)-1; i++ {
		prev, cur, next := points[i-1], points[i], points[i+1]
		r := math.Min(radius, math.Min(prev.Distance(cur)/2, cur.Distance(next)/2))
		if r <= 0 {
			path.LineTo(cur)
			continue
		}
		before := cur.Sub(cur.Sub(prev).Unit().Scale(r))
		after := cur.Add(next.Sub(cur).Unit().Scale(r))
		path.LineTo(before)
		path.QuadTo(cur, after)
	}
	path.LineTo(points[len(points)-1])
	return path
}
