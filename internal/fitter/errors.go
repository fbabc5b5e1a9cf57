package fitter

import (
	"errors"
	"fmt"
)

var (
	// ErrPrecondition marks failures that make fitting the current frame
	// impossible. Callers decide whether to skip the frame or re-detect.
	ErrPrecondition = errors.New("precondition failed")

	// ErrNotEnoughLines is returned when fewer than two lines are supplied.
	ErrNotEnoughLines = fmt.Errorf("%w: not enough lines", ErrPrecondition)

	// ErrNotEnoughPairs is returned when a cluster yields no line pairs.
	ErrNotEnoughPairs = fmt.Errorf("%w: not enough line candidates were found", ErrPrecondition)

	// ErrNoModel is returned when the scorer rejected every combination.
	ErrNoModel = errors.New("no court model could be fitted")
)
