package fitter

import (
	"image"
	"math"
	"math/rand"
	"sync/atomic"

	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

func init() {
	monitoring.SetLogger(nil)
}

// rectangleLines returns the four sides of an axis-aligned rectangle:
// top, bottom, left, right.
func rectangleLines() []geometry.Line {
	return []geometry.Line{
		geometry.LineThrough(geometry.NewPoint2D(0, 100), geometry.NewPoint2D(640, 100)),
		geometry.LineThrough(geometry.NewPoint2D(0, 400), geometry.NewPoint2D(640, 400)),
		geometry.LineThrough(geometry.NewPoint2D(50, 0), geometry.NewPoint2D(50, 480)),
		geometry.LineThrough(geometry.NewPoint2D(600, 0), geometry.NewPoint2D(600, 480)),
	}
}

func testFrame() Frame {
	return Frame{
		Mask:  image.NewGray(image.Rect(0, 0, 640, 480)),
		Image: image.NewRGBA(image.Rect(0, 0, 640, 480)),
	}
}

// lineFamilies builds two families of lines, the second rotated 90° from
// the first, each direction perturbed by up to jitter radians.
func lineFamilies(rng *rand.Rand, base float64, nA, nB int, jitter float64) (lines []geometry.Line, family []int) {
	add := func(angle float64, f int) {
		theta := angle + (rng.Float64()*2-1)*jitter
		p := geometry.NewPoint2D(rng.Float64()*640, rng.Float64()*480)
		lines = append(lines, geometry.NewLine(p, geometry.NewPoint2D(math.Cos(theta), math.Sin(theta))))
		family = append(family, f)
	}
	for i := 0; i < nA; i++ {
		add(base, 0)
	}
	for i := 0; i < nB; i++ {
		add(base+math.Pi/2, 1)
	}
	return lines, family
}

// allPairs is the simplest pair generator: every i < j.
func allPairs(cluster []geometry.Line) []LinePair {
	var pairs []LinePair
	for i := 0; i < len(cluster); i++ {
		for j := i + 1; j < len(cluster); j++ {
			pairs = append(pairs, LinePair{First: cluster[i], Second: cluster[j]})
		}
	}
	return pairs
}

type fakeModel struct {
	score   float64
	refined int
}

func (m *fakeModel) Score() float64 { return m.score }

// fakeCourt scores a combination by how well its four intersections match
// a target rectangle. It is safe for concurrent use.
type fakeCourt struct {
	target  [4]geometry.Point2D
	calls   atomic.Int64
	refineD float64
}

func newFakeCourt() *fakeCourt {
	return &fakeCourt{target: [4]geometry.Point2D{
		{X: 50, Y: 100}, {X: 600, Y: 100}, {X: 50, Y: 400}, {X: 600, Y: 400},
	}}
}

func (c *fakeCourt) Pairs(cluster []geometry.Line) []LinePair {
	return allPairs(cluster)
}

func (c *fakeCourt) Score(h, v LinePair, frame Frame) (Model, float64) {
	c.calls.Add(1)
	score := comboScore(c.target, h, v)
	if math.IsNaN(score) {
		return nil, 0
	}
	return &fakeModel{score: score}, score
}

func (c *fakeCourt) Refine(m Model, frame Frame, lines []geometry.Line) {
	fm := m.(*fakeModel)
	fm.refined++
	fm.score += c.refineD
}

// comboScore is the negated sum of distances from the sorted intersections
// of the two pairs to the target corners.
func comboScore(target [4]geometry.Point2D, h, v LinePair) float64 {
	var pts []geometry.Point2D
	for _, hl := range []geometry.Line{h.First, h.Second} {
		for _, vl := range []geometry.Line{v.First, v.Second} {
			p, ok := hl.Intersection(vl)
			if !ok {
				return math.NaN()
			}
			pts = append(pts, p)
		}
	}
	var total float64
	for _, t := range target {
		nearest := math.Inf(1)
		for _, p := range pts {
			nearest = math.Min(nearest, p.Distance(t))
		}
		total += nearest
	}
	return -total
}
