package model

import "fmt"

// Params controls pair generation, model scoring and refinement.
type Params struct {
	// MaxLinesPerCluster caps how many ordered lines of a cluster are
	// paired.
	MaxLinesPerCluster int `json:"max_lines_per_cluster" yaml:"max_lines_per_cluster"`

	// MinPairSeparation drops pairs of near-duplicate lines (pixels).
	MinPairSeparation float64 `json:"min_pair_separation" yaml:"min_pair_separation"`

	// BackgroundPenalty is subtracted for every projected court sample that
	// lands off the line mask.
	BackgroundPenalty float64 `json:"background_penalty" yaml:"background_penalty"`

	// SampleStep is the spacing of projected court samples (pixels).
	SampleStep float64 `json:"sample_step" yaml:"sample_step"`

	// MinCourtArea rejects projected courts smaller than this fraction of
	// the frame.
	MinCourtArea float64 `json:"min_court_area" yaml:"min_court_area"`

	// RefineBand is the half-width of the band searched around each
	// projected line during refinement (pixels).
	RefineBand float64 `json:"refine_band" yaml:"refine_band"`

	// MinRefinePixels is the least support needed to refit a line from the
	// mask.
	MinRefinePixels int `json:"min_refine_pixels" yaml:"min_refine_pixels"`

	// SnapAngle is the largest angle (radians) between a projected court
	// line and a detected line it may snap to.
	SnapAngle float64 `json:"snap_angle" yaml:"snap_angle"`
}

// DefaultParams returns the default model parameters.
func DefaultParams() Params {
	return Params{
		MaxLinesPerCluster: 10,
		MinPairSeparation:  10,
		BackgroundPenalty:  0.5,
		SampleStep:         1,
		MinCourtArea:       0.01,
		RefineBand:         6,
		MinRefinePixels:    20,
		SnapAngle:          0.05,
	}
}

// WithMaxLinesPerCluster returns a copy with a different cluster cap.
func (p Params) WithMaxLinesPerCluster(n int) Params {
	p.MaxLinesPerCluster = n
	return p
}

// WithBackgroundPenalty returns a copy with a different penalty.
func (p Params) WithBackgroundPenalty(penalty float64) Params {
	p.BackgroundPenalty = penalty
	return p
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.MaxLinesPerCluster < 2 {
		return fmt.Errorf("max_lines_per_cluster must be at least 2, got %d", p.MaxLinesPerCluster)
	}
	if p.SampleStep <= 0 {
		return fmt.Errorf("sample_step must be positive, got %g", p.SampleStep)
	}
	if p.BackgroundPenalty < 0 {
		return fmt.Errorf("background_penalty must not be negative, got %g", p.BackgroundPenalty)
	}
	if p.RefineBand <= 0 {
		return fmt.Errorf("refine_band must be positive, got %g", p.RefineBand)
	}
	return nil
}
