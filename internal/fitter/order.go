package fitter

import (
	"math"
	"sort"

	"court-fitter/pkg/geometry"
)

// TopCenter returns the middle of the top frame edge.
func TopCenter(size geometry.Size) geometry.Point2D {
	return geometry.NewPoint2D(size.Width/2, 0)
}

// LeftMiddle returns the middle of the left frame edge.
func LeftMiddle(size geometry.Size) geometry.Point2D {
	return geometry.NewPoint2D(0, size.Height/2)
}

// BottomCenter returns the middle of the bottom frame edge.
func BottomCenter(size geometry.Size) geometry.Point2D {
	return geometry.NewPoint2D(size.Width/2, size.Height)
}

// OrderByDistance sorts lines in place by ascending perpendicular distance to
// anchor, so that index 0 is the line closest to a fixed reference edge of
// the frame. The sort is stable, which makes repeated calls idempotent.
// Degenerate lines, whose distance is undefined, sort last.
func OrderByDistance(lines []geometry.Line, anchor geometry.Point2D) {
	sort.SliceStable(lines, func(i, j int) bool {
		di, dj := lines[i].Distance(anchor), lines[j].Distance(anchor)
		if math.IsNaN(di) {
			return false
		}
		return math.IsNaN(dj) || di < dj
	})
}
