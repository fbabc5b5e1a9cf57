// Package model fits a court specification to pairs of image lines through
// a court-to-image homography.
package model

import (
	"court-fitter/internal/court"
	"court-fitter/pkg/geometry"
)

// Projection is a court line mapped into the image.
type Projection struct {
	Name       string
	Horizontal bool
	Segment    geometry.Segment
}

// Model is a court placed in the image.
type Model struct {
	Court court.Spec
	H     geometry.Homography

	// Reference line names the model was seeded from: horizontal pair
	// then vertical pair.
	Reference [4]string

	score float64
}

// Score returns the model's mask agreement.
func (m *Model) Score() float64 {
	return m.score
}

// Project returns every court line in image coordinates.
func (m *Model) Project() []Projection {
	var out []Projection
	for _, seg := range m.Court.HorizontalLines() {
		out = append(out, Projection{Name: seg.Name, Horizontal: true, Segment: m.H.ApplySegment(seg.Geometry())})
	}
	for _, seg := range m.Court.VerticalLines() {
		out = append(out, Projection{Name: seg.Name, Segment: m.H.ApplySegment(seg.Geometry())})
	}
	return out
}

// Corners returns the outer court corners in image coordinates, in order
// TL, TR, BR, BL of the court.
func (m *Model) Corners() []geometry.Point2D {
	corners := court.Corners(m.Court)
	for i, c := range corners {
		corners[i] = m.H.Apply(c)
	}
	return corners
}

// Clone returns an independent copy.
func (m *Model) Clone() *Model {
	c := *m
	return &c
}
