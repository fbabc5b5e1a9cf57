package fitter

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// Best accumulates the best scoring model across every search of a single
// FitCourt call. Both orientation passes fold into the same Best, so the
// second pass has to beat the first.
type Best struct {
	Model Model
	Score float64

	// Pass, HorizontalPair and VerticalPair identify the winning combination.
	Pass           int
	HorizontalPair int
	VerticalPair   int
}

// NewBest returns an empty accumulator.
func NewBest() *Best {
	return &Best{Score: math.Inf(-1), Pass: -1, HorizontalPair: -1, VerticalPair: -1}
}

// Found reports whether any model has been accepted.
func (b *Best) Found() bool {
	return b.Model != nil
}

// offer replaces the current best when score is strictly higher. Equal
// scores keep the incumbent, so earlier passes and lower indices win ties.
func (b *Best) offer(c candidate, pass int) bool {
	if c.model == nil || math.IsNaN(c.score) {
		return false
	}
	if b.Found() && !(c.score > b.Score) {
		return false
	}
	b.Model = c.model
	b.Score = c.score
	b.Pass = pass
	b.HorizontalPair = c.h
	b.VerticalPair = c.v
	return true
}

// candidate is the local best of one search task.
type candidate struct {
	model Model
	score float64
	h, v  int
}

// SearchStats summarizes one search pass.
type SearchStats struct {
	HorizontalPairs int
	VerticalPairs   int
	Combinations    int
	Improved        bool
	BestScore       float64
}

// Search scores every (horizontal pair, vertical pair) combination and folds
// the winner into best. One task per horizontal pair runs on a pool bounded
// by workers; each task keeps only its local best in its own slot, and a
// single-threaded reduction after the join picks the overall maximum. The
// scorer must be safe for concurrent use.
func Search(hPairs, vPairs []LinePair, frame Frame, scorer Scorer, workers int, pass int, best *Best) SearchStats {
	if workers < 1 {
		workers = 1
	}

	results := make([]candidate, len(hPairs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range hPairs {
		g.Go(func() error {
			local := candidate{score: math.Inf(-1), h: i, v: -1}
			for j := range vPairs {
				model, score := scorer.Score(hPairs[i], vPairs[j], frame)
				if model == nil || math.IsNaN(score) {
					continue
				}
				if local.model == nil || score > local.score {
					local = candidate{model: model, score: score, h: i, v: j}
				}
			}
			results[i] = local
			return nil
		})
	}
	_ = g.Wait() // tasks never fail

	stats := SearchStats{
		HorizontalPairs: len(hPairs),
		VerticalPairs:   len(vPairs),
		Combinations:    len(hPairs) * len(vPairs),
	}
	for _, c := range results {
		if best.offer(c, pass) {
			stats.Improved = true
		}
	}
	stats.BestScore = best.Score
	return stats
}
