// Package court provides court specifications and management.
package court

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"court-fitter/pkg/geometry"
)

// Segment is a named painted line of a court, in court meters. The origin
// is the far-left corner, x grows to the right and y towards the camera.
type Segment struct {
	Name  string           `json:"name"`
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`

	// Pairable segments span the full court and may anchor a fit.
	Pairable bool `json:"pairable,omitempty"`
}

// Geometry returns the segment as a geometry.Segment.
func (s Segment) Geometry() geometry.Segment {
	return geometry.NewSegment(s.Start, s.End)
}

// Line returns the infinite line through the segment.
func (s Segment) Line() geometry.Line {
	return geometry.LineThrough(s.Start, s.End)
}

// Spec defines a court specification.
type Spec interface {
	Name() string
	Dimensions() (widthMeters, lengthMeters float64)
	HorizontalLines() []Segment
	VerticalLines() []Segment
	Validate() error
}

// BaseSpec provides a common implementation of Spec.
type BaseSpec struct {
	SpecName     string    `json:"name"`
	WidthMeters  float64   `json:"width_meters"`
	LengthMeters float64   `json:"length_meters"`
	Horizontal   []Segment `json:"horizontal"`
	Vertical     []Segment `json:"vertical"`
}

func (s *BaseSpec) Name() string {
	return s.SpecName
}

func (s *BaseSpec) Dimensions() (widthMeters, lengthMeters float64) {
	return s.WidthMeters, s.LengthMeters
}

func (s *BaseSpec) HorizontalLines() []Segment {
	return s.Horizontal
}

func (s *BaseSpec) VerticalLines() []Segment {
	return s.Vertical
}

func (s *BaseSpec) Validate() error {
	if s.SpecName == "" {
		return fmt.Errorf("court spec name is required")
	}
	if s.WidthMeters <= 0 || s.LengthMeters <= 0 {
		return fmt.Errorf("court dimensions must be positive")
	}
	if n := countPairable(s.Horizontal); n < 2 {
		return fmt.Errorf("need at least 2 pairable horizontal lines, got %d", n)
	}
	if n := countPairable(s.Vertical); n < 2 {
		return fmt.Errorf("need at least 2 pairable vertical lines, got %d", n)
	}
	for _, seg := range append(append([]Segment(nil), s.Horizontal...), s.Vertical...) {
		if seg.Start == seg.End {
			return fmt.Errorf("line %q has zero length", seg.Name)
		}
	}
	return nil
}

// Segments returns every painted line, horizontal first.
func Segments(s Spec) []Segment {
	return append(append([]Segment(nil), s.HorizontalLines()...), s.VerticalLines()...)
}

// Corners returns the outer court corners in order TL, TR, BR, BL.
func Corners(s Spec) []geometry.Point2D {
	w, l := s.Dimensions()
	return []geometry.Point2D{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: l}, {X: 0, Y: l}}
}

// PairableLines returns the pairable subset of lines.
func PairableLines(lines []Segment) []Segment {
	var out []Segment
	for _, l := range lines {
		if l.Pairable {
			out = append(out, l)
		}
	}
	return out
}

func countPairable(lines []Segment) int {
	return len(PairableLines(lines))
}

// SaveToFile saves the court layout to a JSON file.
func (s *BaseSpec) SaveToFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFromFile loads a spec from a JSON file.
func LoadFromFile(path string) (*BaseSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec BaseSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid court spec: %w", err)
	}

	return &spec, nil
}

// Registry of known court specs
var registry = make(map[string]Spec)

// Register adds a court spec to the registry.
func Register(spec Spec) {
	registry[spec.Name()] = spec
}

// GetSpec returns a court spec by name.
func GetSpec(name string) Spec {
	if spec, ok := registry[name]; ok {
		return spec
	}
	return nil
}

// ListSpecs returns all registered court spec names, sorted.
func ListSpecs() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	// Register built-in court specs
	Register(TennisSpec())
	Register(BadmintonSpec())
}
