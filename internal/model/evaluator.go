package model

import (
	"image"
	"math"

	"court-fitter/internal/court"
	"court-fitter/internal/detect"
	"court-fitter/internal/fitter"
	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

var (
	_ fitter.Collaborator = (*Evaluator)(nil)
	_ fitter.Model        = (*Model)(nil)
)

// refPair is a pair of pairable court lines the image pairs map onto.
type refPair struct {
	first, second court.Segment
}

// Evaluator pairs, scores and refines court models for one court spec. It
// holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	spec   court.Spec
	params Params

	hRefs, vRefs []refPair
}

// NewEvaluator creates an evaluator for spec.
func NewEvaluator(spec court.Spec, params Params) *Evaluator {
	return &Evaluator{
		spec:   spec,
		params: params,
		hRefs:  referencePairs(court.PairableLines(spec.HorizontalLines())),
		vRefs:  referencePairs(court.PairableLines(spec.VerticalLines())),
	}
}

func referencePairs(lines []court.Segment) []refPair {
	var pairs []refPair
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			pairs = append(pairs, refPair{lines[i], lines[j]})
		}
	}
	return pairs
}

// Pairs returns every pair among the first MaxLinesPerCluster lines of the
// ordered cluster, skipping near duplicates.
func (e *Evaluator) Pairs(cluster []geometry.Line) []fitter.LinePair {
	n := min(len(cluster), e.params.MaxLinesPerCluster)
	var pairs []fitter.LinePair
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if e.duplicate(cluster[i], cluster[j]) {
				continue
			}
			pairs = append(pairs, fitter.LinePair{First: cluster[i], Second: cluster[j]})
		}
	}
	return pairs
}

func (e *Evaluator) duplicate(a, b geometry.Line) bool {
	sep := e.params.MinPairSeparation
	return a.Distance(b.Point) < sep && b.Distance(a.Point) < sep
}

// Score fits the court to the quadrilateral formed by the two line pairs.
// Every assignment of reference court lines is tried; the best scoring one
// becomes the model. A nil model means no assignment was plausible.
func (e *Evaluator) Score(h, v fitter.LinePair, frame fitter.Frame) (fitter.Model, float64) {
	if frame.Mask == nil {
		return nil, 0
	}

	var quad [4]geometry.Point2D
	for k, lines := range [4][2]geometry.Line{
		{h.First, v.First}, {h.First, v.Second}, {h.Second, v.Second}, {h.Second, v.First},
	} {
		p, ok := lines[0].Intersection(lines[1])
		if !ok {
			return nil, 0
		}
		quad[k] = p
	}

	var best *Model
	for _, hr := range e.hRefs {
		for _, vr := range e.vRefs {
			src, ok := referenceQuad(hr, vr)
			if !ok {
				continue
			}
			H, err := geometry.ComputeHomography(src[:], quad[:])
			if err != nil {
				continue
			}
			score, ok := e.evaluate(H, frame.Mask)
			if !ok || (best != nil && score <= best.score) {
				continue
			}
			best = &Model{
				Court:     e.spec,
				H:         H,
				Reference: [4]string{hr.first.Name, hr.second.Name, vr.first.Name, vr.second.Name},
				score:     score,
			}
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, best.score
}

// referenceQuad intersects the court reference lines in the same order as
// the image quadrilateral.
func referenceQuad(hr, vr refPair) ([4]geometry.Point2D, bool) {
	var quad [4]geometry.Point2D
	for k, segs := range [4][2]court.Segment{
		{hr.first, vr.first}, {hr.first, vr.second}, {hr.second, vr.second}, {hr.second, vr.first},
	} {
		p, ok := segs[0].Line().Intersection(segs[1].Line())
		if !ok {
			return quad, false
		}
		quad[k] = p
	}
	return quad, true
}

// evaluate rejects implausible placements and scores the rest.
func (e *Evaluator) evaluate(H geometry.Homography, mask *image.Gray) (float64, bool) {
	outline := court.Corners(e.spec)
	if !H.SameSide(outline) {
		return 0, false
	}
	corners := make([]geometry.Point2D, len(outline))
	for i, c := range outline {
		corners[i] = H.Apply(c)
	}
	if !geometry.IsConvex(corners) {
		return 0, false
	}
	b := mask.Bounds()
	if geometry.PolygonArea(corners) < e.params.MinCourtArea*float64(b.Dx()*b.Dy()) {
		return 0, false
	}
	return e.score(H, mask), true
}

// score samples every projected court line: +1 on a mask pixel,
// -BackgroundPenalty elsewhere. Samples outside the frame do not count.
func (e *Evaluator) score(H geometry.Homography, mask *image.Gray) float64 {
	b := mask.Bounds()
	size := geometry.NewSize(float64(b.Dx()), float64(b.Dy()))

	var total float64
	for _, seg := range court.Segments(e.spec) {
		proj, ok := geometry.ClipSegment(H.ApplySegment(seg.Geometry()), size)
		if !ok {
			continue
		}
		for _, p := range proj.Sample(e.params.SampleStep) {
			set, inside := detect.IsSet(mask, p)
			switch {
			case !inside:
			case set:
				total++
			default:
				total -= e.params.BackgroundPenalty
			}
		}
	}
	return total
}

// Refine refits every projected court line to the mask, or snaps it to the
// nearest detected line when the mask has too little support, then
// re-estimates the homography from all line intersections. The refined
// model is kept even when it scores lower.
func (e *Evaluator) Refine(m fitter.Model, frame fitter.Frame, lines []geometry.Line) {
	mdl, ok := m.(*Model)
	if !ok || frame.Mask == nil {
		return
	}
	mask := frame.Mask
	b := mask.Bounds()
	size := geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	band := e.params.RefineBand

	var refit, snapped int
	fitLines := func(segs []court.Segment) []geometry.Line {
		out := make([]geometry.Line, len(segs))
		for i, seg := range segs {
			proj := mdl.H.ApplySegment(seg.Geometry())
			out[i] = proj.Line()

			visible, ok := geometry.ClipSegment(proj, size)
			if ok {
				pts := detect.BandPixels(mask, visible, band, band)
				if len(pts) >= e.params.MinRefinePixels {
					if l, err := detect.FitLine(pts); err == nil {
						out[i] = l
						refit++
						continue
					}
				}
			} else {
				visible = proj
			}
			if l, ok := e.nearest(out[i], visible, lines); ok {
				out[i] = l
				snapped++
			}
		}
		return out
	}
	hCourt, vCourt := e.spec.HorizontalLines(), e.spec.VerticalLines()
	hImg, vImg := fitLines(hCourt), fitLines(vCourt)

	var src, dst []geometry.Point2D
	for i := range hCourt {
		for j := range vCourt {
			p, ok := hCourt[i].Line().Intersection(vCourt[j].Line())
			if !ok {
				continue
			}
			q, ok := hImg[i].Intersection(vImg[j])
			if !ok {
				continue
			}
			src = append(src, p)
			dst = append(dst, q)
		}
	}

	before := mdl.score
	if H, err := geometry.ComputeHomography(src, dst); err == nil {
		mdl.H = H
	} else {
		monitoring.Logf("Refine: keeping homography: %v", err)
	}
	mdl.score = e.score(mdl.H, mask)

	monitoring.Logf("Refine: %d refit, %d snapped, %d correspondences, score %.1f -> %.1f",
		refit, snapped, len(src), before, mdl.score)
}

// nearest returns the detected line closest to the projected segment seg,
// if one lies within SnapAngle and twice RefineBand of it.
func (e *Evaluator) nearest(projected geometry.Line, seg geometry.Segment, lines []geometry.Line) (geometry.Line, bool) {
	best, bestDist := -1, math.Inf(1)
	for i, l := range lines {
		if l.AngleTo(projected) > e.params.SnapAngle {
			continue
		}
		d := (l.Distance(seg.Start) + l.Distance(seg.End)) / 2
		if d <= 2*e.params.RefineBand && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return geometry.Line{}, false
	}
	return lines[best], true
}
