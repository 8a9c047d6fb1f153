// Package snapping computes alignment guides for a rectangle being dragged
// among other rectangles.
package snapping

import (
	"math"

	"diagramstudio/geometry"
)

// DefaultThreshold is the largest distance at which two features align.
const DefaultThreshold = 15.0

// Orientation of a guide line.
type Orientation string

const (
	Vertical   Orientation = "vertical"   // Constant X
	Horizontal Orientation = "horizontal" // Constant Y
)

// Kind says which features aligned.
type Kind string

const (
	KindEdge   Kind = "edge"
	KindCenter Kind = "center"
)

// Guide is one alignment line to draw while dragging. Position is the X of
// a vertical guide or the Y of a horizontal one; From and To span the
// union of both rects on the other axis.
type Guide struct {
	Orientation Orientation
	Kind        Kind
	Position    float64
	From, To    float64
}

// Result holds the guides found and the offset to add to the dragged
// rect on each axis. A nil offset means nothing aligned on that axis.
type Result struct {
	Guides []Guide
	SnapX  *float64
	SnapY  *float64
}

// Snapped returns r moved by the snap offsets.
func (res Result) Snapped(r geometry.Rect) geometry.Rect {
	if res.SnapX != nil {
		r.X += *res.SnapX
	}
	if res.SnapY != nil {
		r.Y += *res.SnapY
	}
	return r
}

type feature struct {
	drag, other float64
	kind        Kind
}

// features lists the candidate pairs on one axis in the order they are
// tried: start-start, start-end, end-start, end-end, then center-center.
func features(dStart, dEnd, oStart, oEnd float64) [5]feature {
	return [5]feature{
		{dStart, oStart, KindEdge},
		{dStart, oEnd, KindEdge},
		{dEnd, oStart, KindEdge},
		{dEnd, oEnd, KindEdge},
		{(dStart + dEnd) / 2, (oStart + oEnd) / 2, KindCenter},
	}
}

// CalculateSnapGuides compares the dragged rect's edges and center with
// every other rect. Every pair within threshold yields a guide. The first
// pair found on each axis sets that axis' snap offset, even if a later
// pair is closer. A threshold of zero or less uses DefaultThreshold.
func CalculateSnapGuides(dragging geometry.Rect, others []geometry.Rect, threshold float64) Result {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultThreshold
	}
	var res Result

	for _, o := range others {
		for _, f := range features(dragging.X, dragging.Right(), o.X, o.Right()) {
			if math.Abs(f.other-f.drag) > threshold {
				continue
			}
			if res.SnapX == nil {
				off := f.other - f.drag
				res.SnapX = &off
			}
			res.Guides = append(res.Guides, Guide{
				Orientation: Vertical,
				Kind:        f.kind,
				Position:    f.other,
				From:        math.Min(dragging.Y, o.Y),
				To:          math.Max(dragging.Bottom(), o.Bottom()),
			})
		}

		for _, f := range features(dragging.Y, dragging.Bottom(), o.Y, o.Bottom()) {
			if math.Abs(f.other-f.drag) > threshold {
				continue
			}
			if res.SnapY == nil {
				off := f.other - f.drag
				res.SnapY = &off
			}
			res.Guides = append(res.Guides, Guide{
				Orientation: Horizontal,
				Kind:        f.kind,
				Position:    f.other,
				From:        math.Min(dragging.X, o.X),
				To:          math.Max(dragging.Right(), o.Right()),
			})
		}
	}
	return res
}
