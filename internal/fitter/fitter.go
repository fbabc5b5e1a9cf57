// Package fitter finds the court model that best explains a set of detected
// lines. It splits the lines into two orientation clusters, orders each
// cluster against the frame edges, and searches every combination of line
// pairs with the orientation roles tried both ways round. Scoring, pair
// generation and refinement are supplied by a Collaborator.
package fitter

import (
	"fmt"
	"image"

	"court-fitter/internal/monitoring"
	"court-fitter/pkg/geometry"
)

// Model is a fitted court model.
type Model interface {
	Score() float64
}

// LinePair is two lines of the same orientation cluster, in cluster order.
type LinePair struct {
	First  geometry.Line
	Second geometry.Line
}

// Frame is the observation a model is fitted against.
type Frame struct {
	// Mask marks court line pixels with non-zero values.
	Mask *image.Gray

	// Image is the reference image. Its bounds define the frame size.
	Image image.Image
}

// Size returns the frame dimensions.
func (f Frame) Size() geometry.Size {
	var b image.Rectangle
	switch {
	case f.Image != nil:
		b = f.Image.Bounds()
	case f.Mask != nil:
		b = f.Mask.Bounds()
	}
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

// PairGenerator proposes candidate pairs from an ordered cluster.
type PairGenerator interface {
	Pairs(cluster []geometry.Line) []LinePair
}

// Scorer fits a model to one horizontal and one vertical pair. A nil model
// means the combination admits no valid model. Score is called from several
// goroutines at once.
type Scorer interface {
	Score(horizontal, vertical LinePair, frame Frame) (Model, float64)
}

// Refiner improves a model in place using the full line set as context.
type Refiner interface {
	Refine(m Model, frame Frame, lines []geometry.Line)
}

//go:generate mockgen -destination=mock_collaborator_test.go -package=fitter court-fitter/internal/fitter Collaborator

// Collaborator bundles everything the fitter needs from a court model.
type Collaborator interface {
	PairGenerator
	Scorer
	Refiner
}

// PassResult describes one orientation pass.
type PassResult struct {
	Name string
	SearchStats
}

// Result is the outcome of FitCourt.
type Result struct {
	Model Model

	// SearchScore is the best score before refinement; Model.Score() holds
	// the score after it.
	SearchScore float64

	// Horizontal and Vertical are the clusters in first-pass order.
	Horizontal []geometry.Line
	Vertical   []geometry.Line

	Residual int
	Passes   [2]PassResult
}

// Fitter runs the classify, search, swap, search, refine pipeline.
type Fitter struct {
	collab Collaborator
	params Params
}

// New creates a Fitter.
func New(collab Collaborator, params Params) *Fitter {
	return &Fitter{collab: collab, params: params}
}

// pass is one orientation assignment with its generated pairs.
type pass struct {
	name   string
	hPairs []LinePair
	vPairs []LinePair
	hLines []geometry.Line
	vLines []geometry.Line
}

// plan orders a copy of each cluster and asks the collaborator for pairs.
func (f *Fitter) plan(name string, horizontal, vertical []geometry.Line, hAnchor, vAnchor geometry.Point2D) pass {
	p := pass{
		name:   name,
		hLines: append([]geometry.Line(nil), horizontal...),
		vLines: append([]geometry.Line(nil), vertical...),
	}
	OrderByDistance(p.hLines, hAnchor)
	OrderByDistance(p.vLines, vAnchor)
	p.hPairs = f.collab.Pairs(p.hLines)
	p.vPairs = f.collab.Pairs(p.vLines)
	return p
}

// FitCourt fits the court model to lines observed in frame.
//
// Classification runs once. The search then runs twice: first with the
// clusters in their classified roles, then with the roles swapped and the
// clusters re-ordered against the other frame edges. Both searches feed the
// same Best accumulator, so the second pass only wins if it beats the first.
// Every pass is planned before any scoring, so a precondition failure never
// leaves partial work behind. Finally the winner is refined
// FinetuneIterations times; refinement results are kept unconditionally.
func (f *Fitter) FitCourt(lines []geometry.Line, frame Frame) (*Result, error) {
	if err := f.params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fitter params: %w", err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughLines, len(lines))
	}

	cls := Classify(lines, f.params.WeightConst)
	monitoring.Logf("Horizontal lines = %d, vertical lines = %d", len(cls.Horizontal), len(cls.Vertical))

	size := frame.Size()
	passes := [2]pass{
		f.plan("primary", cls.Horizontal, cls.Vertical, TopCenter(size), LeftMiddle(size)),
		f.plan("swapped", cls.Vertical, cls.Horizontal, LeftMiddle(size), BottomCenter(size)),
	}
	for _, p := range passes {
		monitoring.Logf("%s pass: horizontal line pairs = %d, vertical line pairs = %d",
			p.name, len(p.hPairs), len(p.vPairs))
		if len(p.hPairs) < 1 || len(p.vPairs) < 1 {
			return nil, fmt.Errorf("%w: %s pass has %d horizontal and %d vertical pairs",
				ErrNotEnoughPairs, p.name, len(p.hPairs), len(p.vPairs))
		}
	}

	result := &Result{
		Horizontal: passes[0].hLines,
		Vertical:   passes[0].vLines,
		Residual:   cls.Residual,
	}

	best := NewBest()
	for i, p := range passes {
		stats := Search(p.hPairs, p.vPairs, frame, f.collab, f.params.Workers, i, best)
		result.Passes[i] = PassResult{Name: p.name, SearchStats: stats}
		monitoring.Logf("%s pass: %d combinations, best score %.2f (improved=%v)",
			p.name, stats.Combinations, stats.BestScore, stats.Improved)
	}
	if !best.Found() {
		return nil, ErrNoModel
	}
	result.SearchScore = best.Score

	for it := 0; it < f.params.FinetuneIterations; it++ {
		f.collab.Refine(best.Model, frame, lines)
	}
	if f.params.FinetuneIterations > 0 {
		monitoring.Logf("Finetuned %d times: score %.2f -> %.2f",
			f.params.FinetuneIterations, result.SearchScore, best.Model.Score())
	}

	result.Model = best.Model
	return result, nil
}
