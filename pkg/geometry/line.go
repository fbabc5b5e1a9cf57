package geometry

import "math"

// Line is an infinite line given by a point on it and a direction vector.
// The direction is not required to be unit length.
type Line struct {
	Point  Point2D `json:"point" yaml:"point"`
	Vector Point2D `json:"vector" yaml:"vector"`
}

// NewLine creates a line through p with direction v.
func NewLine(p, v Point2D) Line {
	return Line{Point: p, Vector: v}
}

// LineThrough creates the line passing through a and b.
func LineThrough(a, b Point2D) Line {
	return Line{Point: a, Vector: b.Sub(a)}
}

// LineFromPolar converts Hough (rho, theta) parameters to a line.
func LineFromPolar(rho, theta float64) Line {
	cos, sin := math.Cos(theta), math.Sin(theta)
	return Line{
		Point:  Point2D{X: rho * cos, Y: rho * sin},
		Vector: Point2D{X: -sin, Y: cos},
	}
}

// Normal returns the unit normal of the line.
func (l Line) Normal() Point2D {
	d := l.Vector.Normalize()
	return Point2D{X: -d.Y, Y: d.X}
}

// SlopeMagnitude returns |dy/dx| of the direction. A vertical direction
// yields +Inf, a zero vector NaN.
func (l Line) SlopeMagnitude() float64 {
	return math.Abs(l.Vector.Y / l.Vector.X)
}

// SignedDistance returns the signed perpendicular distance from p to the line.
func (l Line) SignedDistance(p Point2D) float64 {
	return p.Sub(l.Point).Dot(l.Normal())
}

// Distance returns the perpendicular distance from p to the line.
func (l Line) Distance(p Point2D) float64 {
	return math.Abs(l.SignedDistance(p))
}

// Project returns the foot of the perpendicular from p onto the line.
func (l Line) Project(p Point2D) Point2D {
	d := l.Vector.Normalize()
	t := p.Sub(l.Point).Dot(d)
	return l.Point.Add(d.Scale(t))
}

// Intersection returns the intersection point of two lines. ok is false
// when the lines are parallel or degenerate.
func (l Line) Intersection(other Line) (p Point2D, ok bool) {
	denom := l.Vector.Cross(other.Vector)
	if math.Abs(denom) < 1e-12 || math.IsNaN(denom) {
		return Point2D{}, false
	}
	t := other.Point.Sub(l.Point).Cross(other.Vector) / denom
	p = l.Point.Add(l.Vector.Scale(t))
	return p, p.IsFinite()
}

// AngleTo returns the unsigned angle between the two line directions,
// folded into [0, pi/2].
func (l Line) AngleTo(other Line) float64 {
	a := l.Vector.Normalize()
	b := other.Vector.Normalize()
	angle := math.Acos(clampUnit(a.Dot(b)))
	if angle > math.Pi/2 {
		angle = math.Pi - angle
	}
	return angle
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Segment is a finite line segment.
type Segment struct {
	Start Point2D `json:"start" yaml:"start"`
	End   Point2D `json:"end" yaml:"end"`
}

// NewSegment creates a segment from two end points.
func NewSegment(a, b Point2D) Segment {
	return Segment{Start: a, End: b}
}

// Line returns the infinite line carrying the segment.
func (s Segment) Line() Line {
	return LineThrough(s.Start, s.End)
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.Start.Distance(s.End)
}

// Sample returns points along the segment spaced at most step apart,
// including both end points.
func (s Segment) Sample(step float64) []Point2D {
	length := s.Length()
	if step <= 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return nil
	}
	n := int(math.Ceil(length / step))
	if n < 1 {
		return []Point2D{s.Start}
	}
	pts := make([]Point2D, 0, n+1)
	d := s.End.Sub(s.Start)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pts = append(pts, s.Start.Add(d.Scale(t)))
	}
	return pts
}
