package geometry

import "math"

// IsConvex returns true if the polygon vertices form a strictly convex
// polygon with non-zero area. Collinear runs are rejected, so a quad whose
// corners collapse onto a line is never convex.
func IsConvex(polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	n := len(polygon)
	var sign int

	for i := 0; i < n; i++ {
		cross := crossProduct(
			polygon[i],
			polygon[(i+1)%n],
			polygon[(i+2)%n],
		)
		if cross == 0 || math.IsNaN(cross) {
			return false
		}

		currentSign := 1
		if cross < 0 {
			currentSign = -1
		}
		if sign == 0 {
			sign = currentSign
		} else if currentSign != sign {
			return false
		}
	}

	return true
}

// PolygonArea returns the unsigned area of a simple polygon (shoelace formula).
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return math.Abs(sum) / 2
}

// ClipSegment clips a segment to the rectangle [0,size.Width] x [0,size.Height]
// using the Liang-Barsky algorithm. ok is false when nothing remains.
func ClipSegment(s Segment, size Size) (Segment, bool) {
	x0, y0 := s.Start.X, s.Start.Y
	dx, dy := s.End.X-x0, s.End.Y-y0
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, size.Width - x0, y0, size.Height - y0}

	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return Segment{}, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return Segment{}, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return Segment{}, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return Segment{
		Start: Point2D{X: x0 + t0*dx, Y: y0 + t0*dy},
		End:   Point2D{X: x0 + t1*dx, Y: y0 + t1*dy},
	}, true
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
