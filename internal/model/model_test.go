package model

import (
	"image"
	"math/rand"
	"testing"

	"court-fitter/internal/court"
	"court-fitter/internal/detect"
	"court-fitter/internal/fitter"
	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameW, frameH = 420, 480

func init() {
	monitoring.SetLogger(nil)
}

// truthModel places a tennis court at 20 px/m horizontally and 18 px/m
// vertically, offset to (100, 20).
func truthModel() *Model {
	return &Model{
		Court: court.TennisSpec(),
		H:     geometry.Homography{20, 0, 100, 0, 18, 20, 0, 0, 1},
	}
}

func shifted(m *Model, dx, dy float64) *Model {
	c := m.Clone()
	c.H[2] += dx
	c.H[5] += dy
	return c
}

// drawMask rasterizes the model's lines three pixels wide.
func drawMask(m *Model) *image.Gray {
	return drawMaskSize(m, frameW, frameH)
}

func drawMaskSize(m *Model, w, h int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for _, proj := range m.Project() {
		for _, p := range proj.Segment.Sample(0.25) {
			x, y := detect.PixelAt(p)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if image.Pt(x+dx, y+dy).In(mask.Bounds()) {
						mask.Pix[mask.PixOffset(x+dx, y+dy)] = 255
					}
				}
			}
		}
	}
	return mask
}

func imageLine(m *Model, name string) geometry.Line {
	for _, proj := range m.Project() {
		if proj.Name == name {
			return proj.Segment.Line()
		}
	}
	panic("no line " + name)
}

func imageLines(m *Model) []geometry.Line {
	var lines []geometry.Line
	for _, proj := range m.Project() {
		lines = append(lines, proj.Segment.Line())
	}
	return lines
}

var approx = cmpopts.EquateApprox(0, 1e-6)

func maxCornerError(a, b *Model) float64 {
	var worst float64
	ca, cb := a.Corners(), b.Corners()
	for i := range ca {
		worst = max(worst, ca[i].Distance(cb[i]))
	}
	return worst
}

func TestScoreFindsTrueCourt(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: drawMask(truth)}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	h := fitter.LinePair{First: imageLine(truth, "far baseline"), Second: imageLine(truth, "near baseline")}
	v := fitter.LinePair{First: imageLine(truth, "left doubles sideline"), Second: imageLine(truth, "right doubles sideline")}

	m, score := ev.Score(h, v, frame)
	require.NotNil(t, m)
	got := m.(*Model)

	assert.Greater(t, score, 0.0)
	assert.Equal(t, score, got.Score())
	if diff := cmp.Diff(truth.Corners(), got.Corners(), approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [4]string{"far baseline", "near baseline", "left doubles sideline", "right doubles sideline"}, got.Reference)
}

func TestScoreServiceBox(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: drawMask(truth)}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	// Inner lines only: the court is still recovered from them.
	h := fitter.LinePair{First: imageLine(truth, "far service line"), Second: imageLine(truth, "near service line")}
	v := fitter.LinePair{First: imageLine(truth, "left singles sideline"), Second: imageLine(truth, "right singles sideline")}

	m, _ := ev.Score(h, v, frame)
	require.NotNil(t, m)
	assert.Less(t, maxCornerError(truth, m.(*Model)), 1e-6)
}

func TestScoreRejectsImplausibleQuads(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: drawMask(truth)}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())
	v := fitter.LinePair{First: imageLine(truth, "left doubles sideline"), Second: imageLine(truth, "right doubles sideline")}

	// The horizontal pair crosses between the verticals: a bow tie.
	crossing := fitter.LinePair{
		First:  geometry.LineThrough(geometry.NewPoint2D(0, 100), geometry.NewPoint2D(420, 300)),
		Second: geometry.LineThrough(geometry.NewPoint2D(0, 300), geometry.NewPoint2D(420, 100)),
	}
	m, _ := ev.Score(crossing, v, frame)
	assert.Nil(t, m)

	// A pair containing a line parallel to a vertical has no intersection.
	parallel := fitter.LinePair{First: imageLine(truth, "far baseline"), Second: v.First}
	m, _ = ev.Score(parallel, v, frame)
	assert.Nil(t, m)

	h := fitter.LinePair{First: imageLine(truth, "far baseline"), Second: imageLine(truth, "near baseline")}
	m, _ = ev.Score(h, v, fitter.Frame{})
	assert.Nil(t, m, "no mask")
}

func TestScorePenalizesBackground(t *testing.T) {
	truth := truthModel()
	mask := drawMask(truth)
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	onLines := ev.score(truth.H, mask)
	offLines := ev.score(shifted(truth, 0, 9).H, mask)
	empty := ev.score(truth.H, image.NewGray(mask.Bounds()))

	assert.Greater(t, onLines, 0.0)
	assert.Less(t, offLines, onLines)
	assert.Less(t, empty, 0.0)

	noPenalty := NewEvaluator(court.TennisSpec(), DefaultParams().WithBackgroundPenalty(0))
	assert.Equal(t, 0.0, noPenalty.score(truth.H, image.NewGray(mask.Bounds())))
}

func horizontalAt(y float64) geometry.Line {
	return geometry.LineThrough(geometry.NewPoint2D(0, y), geometry.NewPoint2D(10, y))
}

func TestPairs(t *testing.T) {
	var cluster []geometry.Line
	for i := 0; i < 12; i++ {
		cluster = append(cluster, horizontalAt(10+30*float64(i)))
	}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())
	pairs := ev.Pairs(cluster)
	assert.Len(t, pairs, 45)
	assert.Equal(t, fitter.LinePair{First: cluster[0], Second: cluster[1]}, pairs[0])

	withDuplicate := append([]geometry.Line{cluster[0], horizontalAt(13)}, cluster[1:]...)
	assert.Len(t, ev.Pairs(withDuplicate), 44)

	assert.Len(t, NewEvaluator(court.TennisSpec(), DefaultParams().WithMaxLinesPerCluster(4)).Pairs(cluster), 6)
	assert.Empty(t, ev.Pairs(cluster[:1]))
}

func TestRefineRecoversPerturbedModel(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: drawMask(truth)}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	m := shifted(truth, 2, 1.5)
	m.score = ev.score(m.H, frame.Mask)
	before, errBefore := m.Score(), maxCornerError(truth, m)

	ev.Refine(m, frame, nil)

	assert.Less(t, maxCornerError(truth, m), 1.0)
	assert.Less(t, maxCornerError(truth, m), errBefore)
	assert.Greater(t, m.Score(), before)
}

func TestRefineSnapsToDetectedLines(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: image.NewGray(image.Rect(0, 0, frameW, frameH))}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	m := shifted(truth, 2, 1.5)
	ev.Refine(m, frame, imageLines(truth))

	if diff := cmp.Diff(truth.Corners(), m.Corners(), approx); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
}

func TestRefineWithoutSupportKeepsPlacement(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: image.NewGray(image.Rect(0, 0, frameW, frameH))}
	ev := NewEvaluator(court.TennisSpec(), DefaultParams())

	m := shifted(truth, 2, 1.5)
	want := m.Corners()
	ev.Refine(m, frame, nil)

	if diff := cmp.Diff(want, m.Corners(), approx); diff != "" {
		t.Errorf("corners moved (-want +got):\n%s", diff)
	}
	assert.Less(t, m.Score(), 0.0)
}

func TestModelClone(t *testing.T) {
	m := truthModel()
	m.score = 3
	c := m.Clone()
	c.H[2] = 0
	assert.Equal(t, 100.0, m.H[2])
	assert.Equal(t, 3.0, c.Score())

	corners := m.Corners()
	require.Len(t, corners, 4)
	assert.InDelta(t, 100.0, corners[0].X, 1e-9)
	assert.InDelta(t, 20.0+18*court.TennisLength, corners[2].Y, 1e-9)
	assert.Len(t, m.Project(), 9)
}

func TestFitCourtEndToEnd(t *testing.T) {
	truth := truthModel()
	frame := fitter.Frame{Mask: drawMask(truth)}
	lines := imageLines(truth)
	rand.New(rand.NewSource(8)).Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })

	ev := NewEvaluator(court.TennisSpec(), DefaultParams())
	f := fitter.New(ev, fitter.DefaultParams().WithWorkers(4).WithFinetuneIterations(2))

	res, err := f.FitCourt(lines, frame)
	require.NoError(t, err)
	got := res.Model.(*Model)

	assert.Equal(t, 9, len(res.Horizontal)+len(res.Vertical))
	assert.Less(t, maxCornerError(truth, got), 1.0)
	assert.Greater(t, got.Score(), 0.0)
}

// sidewaysModel turns the tennis court a quarter turn: the far baseline
// is on the left of the image and the left doubles sideline at the bottom.
func sidewaysModel() *Model {
	return &Model{
		Court: court.TennisSpec(),
		H:     geometry.Homography{0, 18, 20, -20, 0, 20*court.TennisWidth + 40, 0, 0, 1},
	}
}

func TestFitCourtSidewaysCourt(t *testing.T) {
	truth := sidewaysModel()
	frame := fitter.Frame{Mask: drawMaskSize(truth, 480, 300)}
	lines := imageLines(truth)
	rand.New(rand.NewSource(3)).Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })

	ev := NewEvaluator(court.TennisSpec(), DefaultParams())
	f := fitter.New(ev, fitter.DefaultParams().WithWorkers(4).WithFinetuneIterations(0))

	res, err := f.FitCourt(lines, frame)
	require.NoError(t, err)
	got := res.Model.(*Model)

	// The court's baselines are vertical in the image, so only the swapped
	// pass can explain the interior lines.
	assert.True(t, res.Passes[1].Improved)
	assert.Greater(t, res.Passes[1].BestScore, res.Passes[0].BestScore)

	// TL, TR, BR, BL of the court. A mirrored placement scores the same but
	// swaps the corners.
	want := []geometry.Point2D{
		{X: 20, Y: 20*court.TennisWidth + 40},
		{X: 20, Y: 40},
		{X: 20 + 18*court.TennisLength, Y: 40},
		{X: 20 + 18*court.TennisLength, Y: 20*court.TennisWidth + 40},
	}
	if diff := cmp.Diff(want, got.Corners(), cmpopts.EquateApprox(0, 1e-3)); diff != "" {
		t.Errorf("corners mismatch (-want +got):\n%s", diff)
	}
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.Error(t, DefaultParams().WithMaxLinesPerCluster(1).Validate())
	assert.Error(t, DefaultParams().WithBackgroundPenalty(-1).Validate())

	p := DefaultParams()
	p.SampleStep = 0
	assert.Error(t, p.Validate())
}
