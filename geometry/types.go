package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a diagram-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// FromVec converts a gonum vector into a Point.
func FromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Vec converts the point into a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return FromVec(r2.Add(p.Vec(), q.Vec()))
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return FromVec(r2.Sub(p.Vec(), q.Vec()))
}

// Scale returns p*f.
func (p Point) Scale(f float64) Point {
	return FromVec(r2.Scale(f, p.Vec()))
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return r2.Dot(p.Vec(), q.Vec())
}

// Length returns the Euclidean norm of p.
func (p Point) Length() float64 {
	return r2.Norm(p.Vec())
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return r2.Norm(r2.Sub(q.Vec(), p.Vec()))
}

// Unit returns p scaled to length 1. The zero vector stays zero.
func (p Point) Unit() Point {
	return p.Scale(1 / NonZero(p.Length()))
}

// Perp returns the unit vector perpendicular to p, rotated a quarter turn
// counter-clockwise in screen coordinates (y grows downward).
func (p Point) Perp() Point {
	return Point{X: -p.Y, Y: p.X}.Unit()
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return p.Add(q.Sub(p).Scale(t))
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return p.Lerp(q, 0.5)
}

// Snap rounds both coordinates to the grid.
func (p Point) Snap(grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// Near reports whether p and q are within tol on both axes.
func (p Point) Near(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Size is a width/height pair. Effective sizes are always positive.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// RectAt builds a rect from a top-left point and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// RectFromPoints returns the normalized rect spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.Right(), Y: r.Bottom()} }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Size returns the rect dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() &&
		p.Y >= r.Y && p.Y <= r.Bottom()
}

// Intersects is the AABB overlap test. Rects that only touch along an
// edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OverlapsY reports whether the two rects share part of their Y range.
func (r Rect) OverlapsY(o Rect) bool {
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OverlapsX reports whether the two rects share part of their X range.
func (r Rect) OverlapsX(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right()
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset grows the rect by d on every side (shrinks for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// Translate moves the rect by delta.
func (r Rect) Translate(delta Point) Rect {
	r.X += delta.X
	r.Y += delta.Y
	return r
}

// Bounds returns the union of all rects and false when rects is empty.
func Bounds(rects []Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b, true
}

// IntersectsSegment reports whether the segment a-b passes through the
// interior of the rect (Liang-Barsky clipping).
func (r Rect) IntersectsSegment(a, b Point) bool {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q > 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}
	if !clip(-d.X, a.X-r.X) || !clip(d.X, r.Right()-a.X) ||
		!clip(-d.Y, a.Y-r.Y) || !clip(d.Y, r.Bottom()-a.Y) {
		return false
	}
	if t1-t0 <= Epsilon && !(d.X == 0 && d.Y == 0) {
		return false
	}
	// Reject segments that only graze an edge.
	mid := a.Add(d.Scale((t0 + t1) / 2))
	return mid.X > r.X && mid.X < r.Right() && mid.Y > r.Y && mid.Y < r.Bottom()
}
