package fitter

import (
	"fmt"
	"runtime"
)

// Params controls classification, search and refinement.
type Params struct {
	// WeightConst is the offset added to the angular deviation from 90°
	// before inverting it into an edge weight.
	WeightConst float64 `json:"weight_const" yaml:"weight_const"`

	// FinetuneIterations is the number of refinement passes applied to the
	// best model after both searches.
	FinetuneIterations int `json:"finetune_iterations" yaml:"finetune_iterations"`

	// Workers bounds the number of concurrent search tasks.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultParams returns the default fitting parameters.
func DefaultParams() Params {
	return Params{
		WeightConst:        0.01,
		FinetuneIterations: 10,
		Workers:            runtime.NumCPU(),
	}
}

// WithWorkers returns a copy of params with a different worker bound.
// Values below 1 fall back to the number of CPUs.
func (p Params) WithWorkers(n int) Params {
	if n < 1 {
		n = runtime.NumCPU()
	}
	p.Workers = n
	return p
}

// WithFinetuneIterations returns a copy of params with a different
// refinement count.
func (p Params) WithFinetuneIterations(n int) Params {
	p.FinetuneIterations = n
	return p
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.WeightConst <= 0 {
		return fmt.Errorf("weight_const must be positive, got %g", p.WeightConst)
	}
	if p.FinetuneIterations < 0 {
		return fmt.Errorf("finetune_iterations must not be negative, got %d", p.FinetuneIterations)
	}
	if p.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", p.Workers)
	}
	return nil
}
