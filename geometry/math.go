// Package geometry contains the diagram-space primitives shared by the
// routing engine, the viewport and the interaction coordinator.
package geometry

import "math"

// Epsilon is the tolerance used when comparing coordinates.
const Epsilon = 1e-9

// Clamp limits v to the range [lo, hi]. NaN is mapped to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Finite returns v, or fallback when v is NaN or infinite.
func Finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// NonZero returns v, or 1 when v is zero. Used to guard divisions.
func NonZero(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// leaves v untouched.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// Near reports whether a and b differ by less than Epsilon.
func Near(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(a, b Point) float64 {
	return math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
}

// IsHorizontal returns true if the line from a to b is more horizontal than vertical.
func IsHorizontal(a, b Point) bool {
	return math.Abs(b.X-a.X) > math.Abs(b.Y-a.Y)
}

// IsVertical returns true if the line from a to b is more vertical than horizontal.
func IsVertical(a, b Point) bool {
	return math.Abs(b.Y-a.Y) > math.Abs(b.X-a.X)
}
