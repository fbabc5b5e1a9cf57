package fitter

import (
	"math"
	"math/rand"
	"testing"

	"court-fitter/pkg/geometry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerpendicularWeight(t *testing.T) {
	h := geometry.NewLine(geometry.Point2D{}, geometry.NewPoint2D(1, 0))
	v := geometry.NewLine(geometry.Point2D{}, geometry.NewPoint2D(0, 1))
	vReversed := geometry.NewLine(geometry.Point2D{}, geometry.NewPoint2D(0, -1))
	diag := geometry.NewLine(geometry.Point2D{}, geometry.NewPoint2D(1, 1))
	zero := geometry.NewLine(geometry.Point2D{}, geometry.Point2D{})

	assert.InDelta(t, 10000, perpendicularWeight(h, v, 0.01), 1e-6)
	assert.InDelta(t, 10000, perpendicularWeight(h, vReversed, 0.01), 1e-6)
	assert.Less(t, perpendicularWeight(h, h, 0.01), 1.0)
	assert.Less(t, perpendicularWeight(h, diag, 0.01), perpendicularWeight(h, v, 0.01))
	assert.Equal(t, 0.0, perpendicularWeight(h, zero, 0.01))
}

func TestClassifyRectangle(t *testing.T) {
	lines := rectangleLines()
	cls := Classify(lines, 0.01)

	require.Len(t, cls.Horizontal, 2)
	require.Len(t, cls.Vertical, 2)
	assert.Zero(t, cls.Residual)

	assert.Equal(t, []geometry.Line{lines[0], lines[1]}, cls.Horizontal)
	assert.Equal(t, []geometry.Line{lines[2], lines[3]}, cls.Vertical)

	// The seed is the first exactly perpendicular pair: top and left.
	assert.Equal(t, [2]int{0, 2}, cls.Seed)
	assert.InDelta(t, math.Pi/2, lines[cls.Seed[0]].AngleTo(lines[cls.Seed[1]]), 1e-12)
	assert.Equal(t, Horizontal, cls.Labels[cls.Seed[0]])
	assert.Equal(t, Vertical, cls.Labels[cls.Seed[1]])
}

func TestClassifyPartitionsInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		nA := 1 + rng.Intn(10)
		nB := 1 + rng.Intn(10)
		base := rng.Float64() * math.Pi
		lines, family := lineFamilies(rng, base, nA, nB, 5*math.Pi/180)

		cls := Classify(lines, 0.01)

		require.Zero(t, cls.Residual, "trial %d", trial)
		require.Equal(t, len(lines), len(cls.Horizontal)+len(cls.Vertical), "trial %d", trial)

		counts := map[Label]int{}
		for _, l := range cls.Labels {
			require.NotEqual(t, Unassigned, l)
			counts[l]++
		}
		assert.Equal(t, len(cls.Horizontal), counts[Horizontal])
		assert.Equal(t, len(cls.Vertical), counts[Vertical])

		// Each family ends up in exactly one cluster, and the two differ.
		familyLabel := map[int]Label{}
		for i, f := range family {
			if prev, ok := familyLabel[f]; ok {
				require.Equal(t, prev, cls.Labels[i], "trial %d line %d", trial, i)
			}
			familyLabel[f] = cls.Labels[i]
		}
		assert.NotEqual(t, familyLabel[0], familyLabel[1], "trial %d", trial)
	}
}

func TestClassifyPermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		lines, _ := lineFamilies(rng, rng.Float64()*math.Pi, 2+rng.Intn(8), 2+rng.Intn(8), 8*math.Pi/180)
		want := Classify(lines, 0.01)

		perm := rng.Perm(len(lines))
		shuffled := make([]geometry.Line, len(lines))
		for i, p := range perm {
			shuffled[i] = lines[p]
		}
		got := Classify(shuffled, 0.01)

		wantByLine := map[geometry.Line]Label{}
		for i, l := range lines {
			wantByLine[l] = want.Labels[i]
		}
		gotByLine := map[geometry.Line]Label{}
		for i, l := range shuffled {
			gotByLine[l] = got.Labels[i]
		}
		if diff := cmp.Diff(wantByLine, gotByLine); diff != "" {
			t.Fatalf("trial %d: partition changed under permutation (-want +got):\n%s", trial, diff)
		}
	}
}

func TestClassifyTiedSeedsIgnoreInputOrder(t *testing.T) {
	// Two exactly perpendicular families of equal weight, one of them made
	// of diagonals with equal slope magnitude.
	lines := []geometry.Line{
		geometry.NewLine(geometry.NewPoint2D(0, 10), geometry.NewPoint2D(1, 0)),
		geometry.NewLine(geometry.NewPoint2D(0, 50), geometry.NewPoint2D(1, 0)),
		geometry.NewLine(geometry.NewPoint2D(10, 0), geometry.NewPoint2D(0, 1)),
		geometry.NewLine(geometry.NewPoint2D(50, 0), geometry.NewPoint2D(0, 1)),
		geometry.NewLine(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 1)),
		geometry.NewLine(geometry.NewPoint2D(100, 0), geometry.NewPoint2D(-1, 1)),
	}
	want := Classify(lines, 0.01)
	wantByLine := map[geometry.Line]Label{}
	for i, l := range lines {
		wantByLine[l] = want.Labels[i]
	}

	rng := rand.New(rand.NewSource(13))
	for run := 0; run < 200; run++ {
		shuffled := append([]geometry.Line(nil), lines...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Classify(shuffled, 0.01)
		gotByLine := map[geometry.Line]Label{}
		for i, l := range shuffled {
			gotByLine[l] = got.Labels[i]
		}
		if diff := cmp.Diff(wantByLine, gotByLine); diff != "" {
			t.Fatalf("run %d: partition depends on input order (-want +got):\n%s", run, diff)
		}
		assert.Equal(t, lines[want.Seed[0]], shuffled[got.Seed[0]], "run %d", run)
		assert.Equal(t, lines[want.Seed[1]], shuffled[got.Seed[1]], "run %d", run)
	}
}

func TestClassifyDegenerateGeometry(t *testing.T) {
	lines := rectangleLines()
	lines = append(lines,
		lines[0], // duplicate
		geometry.NewLine(geometry.NewPoint2D(10, 10), geometry.Point2D{}), // zero vector
		geometry.NewLine(geometry.NewPoint2D(10, 10), geometry.Point2D{}),
	)

	var cls Classification
	require.NotPanics(t, func() { cls = Classify(lines, 0.01) })
	assert.Zero(t, cls.Residual)
	assert.Equal(t, len(lines), len(cls.Horizontal)+len(cls.Vertical))
	assert.Equal(t, Horizontal, cls.Labels[4], "duplicate follows its first copy")
}

func TestClassifyAllDegenerate(t *testing.T) {
	lines := []geometry.Line{
		geometry.NewLine(geometry.NewPoint2D(1, 1), geometry.Point2D{}),
		geometry.NewLine(geometry.NewPoint2D(2, 2), geometry.Point2D{}),
		geometry.NewLine(geometry.NewPoint2D(3, 3), geometry.Point2D{}),
	}

	cls := Classify(lines, 0.01)
	assert.Equal(t, [2]int{0, 1}, cls.Seed)
	assert.Zero(t, cls.Residual)
	assert.Equal(t, 3, len(cls.Horizontal)+len(cls.Vertical))
}

func TestClassifySmallInputs(t *testing.T) {
	cls := Classify(nil, 0.01)
	assert.Empty(t, cls.Horizontal)
	assert.Empty(t, cls.Vertical)

	steep := geometry.LineThrough(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 5))
	cls = Classify([]geometry.Line{steep}, 0.01)
	assert.Equal(t, []geometry.Line{steep}, cls.Vertical)
	assert.Empty(t, cls.Horizontal)
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "vertical", Vertical.String())
	assert.Equal(t, "horizontal", Horizontal.String())
	assert.Equal(t, "unassigned", Unassigned.String())
}
