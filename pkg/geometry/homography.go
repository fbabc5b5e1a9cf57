package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 projective transform stored row-major, normalized so
// that the last element is 1.
// [h0 h1 h2]
// [h3 h4 h5]
// [h6 h7 1 ]
type Homography [9]float64

// IdentityHomography returns the identity transform.
func IdentityHomography() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps a point through the homography. The result has NaN components
// when the point maps to infinity.
func (h Homography) Apply(p Point2D) Point2D {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		return Point2D{X: math.NaN(), Y: math.NaN()}
	}
	return Point2D{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// SameSide reports whether every point lies strictly on the same side of
// the line the homography sends to infinity.
func (h Homography) SameSide(points []Point2D) bool {
	var sign float64
	for _, p := range points {
		w := h[6]*p.X + h[7]*p.Y + h[8]
		if math.Abs(w) < 1e-12 || math.IsNaN(w) {
			return false
		}
		if sign == 0 {
			sign = math.Copysign(1, w)
		} else if math.Signbit(w) != math.Signbit(sign) {
			return false
		}
	}
	return len(points) > 0
}

// ApplySegment maps both end points of a segment.
func (h Homography) ApplySegment(s Segment) Segment {
	return Segment{Start: h.Apply(s.Start), End: h.Apply(s.End)}
}

// ToMatrix returns the transform as a [3][3]float64 array.
func (h Homography) ToMatrix() [3][3]float64 {
	return [3][3]float64{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], h[8]},
	}
}

// ComputeHomography estimates the homography mapping src onto dst. Exactly
// four correspondences give the exact solution; more are solved in the
// least-squares sense using QR decomposition.
func ComputeHomography(src, dst []Point2D) (Homography, error) {
	if len(src) != len(dst) {
		return Homography{}, fmt.Errorf("point count mismatch: %d vs %d", len(src), len(dst))
	}
	n := len(src)
	if n < 4 {
		return Homography{}, fmt.Errorf("need at least 4 points, got %d", n)
	}

	// Direct linear transform with h8 fixed to 1:
	// x' = (h0 x + h1 y + h2) / (h6 x + h7 y + 1)
	// y' = (h3 x + h4 y + h5) / (h6 x + h7 y + 1)
	A := mat.NewDense(n*2, 8, nil)
	B := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y
		if !src[i].IsFinite() || !dst[i].IsFinite() {
			return Homography{}, fmt.Errorf("non-finite point at index %d", i)
		}

		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		A.Set(i*2, 6, -x*xp)
		A.Set(i*2, 7, -y*xp)
		B.SetVec(i*2, xp)

		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		A.Set(i*2+1, 6, -x*yp)
		A.Set(i*2+1, 7, -y*yp)
		B.SetVec(i*2+1, yp)
	}

	var params mat.VecDense
	if n == 4 {
		if err := params.SolveVec(A, B); err != nil {
			return Homography{}, fmt.Errorf("solve homography: %w", err)
		}
	} else {
		var qr mat.QR
		qr.Factorize(A)
		if err := qr.SolveVecTo(&params, false, B); err != nil {
			return Homography{}, fmt.Errorf("least-squares homography: %w", err)
		}
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
		if math.IsNaN(h[i]) || math.IsInf(h[i], 0) {
			return Homography{}, fmt.Errorf("degenerate homography")
		}
	}
	h[8] = 1
	return h, nil
}
