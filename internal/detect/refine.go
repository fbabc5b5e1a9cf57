package detect

import (
	"errors"
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

// PixelAt returns the pixel whose centre is nearest to p. Pixel centres
// sit on integer coordinates.
func PixelAt(p geometry.Point2D) (x, y int) {
	return int(math.Floor(p.X + 0.5)), int(math.Floor(p.Y + 0.5))
}

// IsSet reports whether the mask pixel nearest to p is on. Points outside
// the mask are reported with inside == false.
func IsSet(mask *image.Gray, p geometry.Point2D) (set, inside bool) {
	if !p.IsFinite() {
		return false, false
	}
	x, y := PixelAt(p)
	b := mask.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return false, false
	}
	return mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0, true
}

// BandPixels returns the mask pixels lying within band of seg, skipping
// the first and last trim pixels along it.
func BandPixels(mask *image.Gray, seg geometry.Segment, band, trim float64) []geometry.Point2D {
	if mask == nil || !seg.Start.IsFinite() || !seg.End.IsFinite() {
		return nil
	}
	length := seg.Length()
	if !(length > 2*trim) {
		return nil
	}
	dir := seg.End.Sub(seg.Start).Scale(1 / length)
	line := seg.Line()

	b := mask.Bounds()
	x0 := max(0, int(math.Floor(math.Min(seg.Start.X, seg.End.X)-band)))
	x1 := min(b.Dx()-1, int(math.Ceil(math.Max(seg.Start.X, seg.End.X)+band)))
	y0 := max(0, int(math.Floor(math.Min(seg.Start.Y, seg.End.Y)-band)))
	y1 := min(b.Dy()-1, int(math.Ceil(math.Max(seg.Start.Y, seg.End.Y)+band)))

	var pts []geometry.Point2D
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] == 0 {
				continue
			}
			c := geometry.NewPoint2D(float64(x), float64(y))
			if t := c.Sub(seg.Start).Dot(dir); t < trim || t > length-trim {
				continue
			}
			if line.Distance(c) > band {
				continue
			}
			pts = append(pts, c)
		}
	}
	return pts
}

// FitLine fits a line to points by total least squares: the line passes
// through the centroid along the principal axis of the point covariance.
func FitLine(points []geometry.Point2D) (geometry.Line, error) {
	if len(points) < 2 {
		return geometry.Line{}, errors.New("need at least 2 points to fit a line")
	}

	data := mat.NewDense(len(points), 2, nil)
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		data.Set(i, 0, p.X)
		data.Set(i, 1, p.Y)
		xs[i], ys[i] = p.X, p.Y
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return geometry.Line{}, errors.New("eigen decomposition failed")
	}
	values := eig.Values(nil)
	if values[1] <= 0 {
		return geometry.Line{}, errors.New("points are coincident")
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come in ascending order; the last vector is the direction.
	dir := geometry.NewPoint2D(vecs.At(0, 1), vecs.At(1, 1))
	centroid := geometry.NewPoint2D(stat.Mean(xs, nil), stat.Mean(ys, nil))
	return geometry.NewLine(centroid, dir), nil
}

// Extent returns the part of line visible inside a frame of the given size.
func Extent(line geometry.Line, size geometry.Size) (geometry.Segment, bool) {
	v := line.Vector.Normalize()
	if !v.IsFinite() || v.Norm() == 0 {
		return geometry.Segment{}, false
	}
	center := line.Project(geometry.NewPoint2D(size.Width/2, size.Height/2))
	reach := 2 * (size.Width + size.Height)
	seg := geometry.NewSegment(center.Sub(v.Scale(reach)), center.Add(v.Scale(reach)))
	return geometry.ClipSegment(seg, size)
}

// RefineLine refits line to the mask pixels within band of it. It returns
// the refitted line and the number of supporting pixels; ok is false when
// fewer than minPixels support it, in which case line is returned as is.
func RefineLine(line geometry.Line, mask *image.Gray, band float64, minPixels int) (refined geometry.Line, support int, ok bool) {
	b := mask.Bounds()
	seg, visible := Extent(line, geometry.NewSize(float64(b.Dx()), float64(b.Dy())))
	if !visible {
		return line, 0, false
	}
	pts := BandPixels(mask, seg, band, 0)
	if len(pts) < max(minPixels, 2) {
		return line, len(pts), false
	}
	fit, err := FitLine(pts)
	if err != nil {
		return line, len(pts), false
	}
	return fit, len(pts), true
}

// MergeLines drops lines that duplicate an earlier one: within maxAngle
// radians of it and within maxDistance pixels of it near ref.
func MergeLines(lines []geometry.Line, maxAngle, maxDistance float64, ref geometry.Point2D) []geometry.Line {
	var kept []geometry.Line
	for _, l := range lines {
		duplicate := false
		for _, k := range kept {
			if l.AngleTo(k) <= maxAngle && k.Distance(l.Project(ref)) <= maxDistance {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, l)
		}
	}
	return kept
}

// Refine refits raw candidate lines against the mask, drops weakly
// supported ones, orders the rest by support and merges duplicates.
func Refine(raw []geometry.Line, mask *image.Gray, p Params) []geometry.Line {
	type supported struct {
		line    geometry.Line
		support int
	}

	var candidates []supported
	for _, l := range raw {
		refined, support, ok := RefineLine(l, mask, p.RefineBand, p.MinSupport)
		if !ok {
			continue
		}
		candidates = append(candidates, supported{refined, support})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].support > candidates[j].support
	})

	lines := make([]geometry.Line, len(candidates))
	for i, c := range candidates {
		lines[i] = c.line
	}

	b := mask.Bounds()
	center := geometry.NewPoint2D(float64(b.Dx())/2, float64(b.Dy())/2)
	lines = MergeLines(lines, p.MergeAngle, p.MergeDistance, center)
	if len(lines) > p.MaxLines {
		lines = lines[:p.MaxLines]
	}

	monitoring.Logf("Lines: %d raw, %d supported, %d after merge", len(raw), len(candidates), len(lines))
	return lines
}
