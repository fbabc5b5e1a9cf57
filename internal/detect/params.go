package detect

import "fmt"

// Params controls white-line pixel detection and line post-processing.
type Params struct {
	// Threshold is the minimum luminance of a line pixel.
	Threshold uint8 `json:"threshold" yaml:"threshold"`

	// DiffThreshold is how much brighter than its neighbours at distance
	// Tau a line pixel must be.
	DiffThreshold uint8 `json:"diff_threshold" yaml:"diff_threshold"`

	// Tau is the neighbour distance in pixels, roughly the widest line
	// width expected in the image.
	Tau int `json:"tau" yaml:"tau"`

	// BlurRadius enables a Gaussian pre-blur when positive.
	BlurRadius float64 `json:"blur_radius" yaml:"blur_radius"`

	// HoughThreshold is the minimum accumulator vote for a line.
	HoughThreshold int `json:"hough_threshold" yaml:"hough_threshold"`

	// RefineBand is the half-width in pixels of the band used to refit a
	// line to mask pixels.
	RefineBand float64 `json:"refine_band" yaml:"refine_band"`

	// MinSupport is the minimum number of mask pixels a line must gather.
	MinSupport int `json:"min_support" yaml:"min_support"`

	// MergeAngle (radians) and MergeDistance (pixels) decide when two
	// lines are duplicates.
	MergeAngle    float64 `json:"merge_angle" yaml:"merge_angle"`
	MergeDistance float64 `json:"merge_distance" yaml:"merge_distance"`

	// MaxLines caps the number of lines returned.
	MaxLines int `json:"max_lines" yaml:"max_lines"`
}

// DefaultParams returns parameters tuned for broadcast court footage.
func DefaultParams() Params {
	return Params{
		Threshold:      80,
		DiffThreshold:  20,
		Tau:            8,
		BlurRadius:     0,
		HoughThreshold: 50,
		RefineBand:     4,
		MinSupport:     30,
		MergeAngle:     0.035,
		MergeDistance:  8,
		MaxLines:       40,
	}
}

// WithTau returns a copy with a different neighbour distance.
func (p Params) WithTau(tau int) Params {
	p.Tau = tau
	return p
}

// WithThresholds returns a copy with different luminance thresholds.
func (p Params) WithThresholds(threshold, diff uint8) Params {
	p.Threshold = threshold
	p.DiffThreshold = diff
	return p
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.Tau < 1 {
		return fmt.Errorf("tau must be at least 1, got %d", p.Tau)
	}
	if p.RefineBand <= 0 {
		return fmt.Errorf("refine_band must be positive, got %g", p.RefineBand)
	}
	if p.MergeAngle < 0 || p.MergeDistance < 0 {
		return fmt.Errorf("merge thresholds must not be negative")
	}
	if p.MaxLines < 1 {
		return fmt.Errorf("max_lines must be at least 1, got %d", p.MaxLines)
	}
	return nil
}
