// Package config loads fitting configuration from JSON or YAML files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"court-fitter/internal/detect"
	"court-fitter/internal/fitter"
	"court-fitter/internal/model"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config holds optional overrides for every tunable stage. Fields left out
// of the file stay nil and keep the defaults of the stage they belong to.
type Config struct {
	// Court is the registered court name to fit.
	Court *string `json:"court,omitempty" yaml:"court,omitempty"`

	// Fitter params
	WeightConst        *float64 `json:"weight_const,omitempty" yaml:"weight_const,omitempty"`
	FinetuneIterations *int     `json:"finetune_iterations,omitempty" yaml:"finetune_iterations,omitempty"`
	Workers            *int     `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Model params
	MaxLinesPerCluster *int     `json:"max_lines_per_cluster,omitempty" yaml:"max_lines_per_cluster,omitempty"`
	MinPairSeparation  *float64 `json:"min_pair_separation,omitempty" yaml:"min_pair_separation,omitempty"`
	BackgroundPenalty  *float64 `json:"background_penalty,omitempty" yaml:"background_penalty,omitempty"`
	SampleStep         *float64 `json:"sample_step,omitempty" yaml:"sample_step,omitempty"`
	RefineBand         *float64 `json:"refine_band,omitempty" yaml:"refine_band,omitempty"`
	MinRefinePixels    *int     `json:"min_refine_pixels,omitempty" yaml:"min_refine_pixels,omitempty"`
	MinCourtArea       *float64 `json:"min_court_area,omitempty" yaml:"min_court_area,omitempty"`
	SnapAngle          *float64 `json:"snap_angle,omitempty" yaml:"snap_angle,omitempty"`

	// Detection params
	Threshold      *int     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	DiffThreshold  *int     `json:"diff_threshold,omitempty" yaml:"diff_threshold,omitempty"`
	Tau            *int     `json:"tau,omitempty" yaml:"tau,omitempty"`
	BlurRadius     *float64 `json:"blur_radius,omitempty" yaml:"blur_radius,omitempty"`
	HoughThreshold *int     `json:"hough_threshold,omitempty" yaml:"hough_threshold,omitempty"`
	MaxLines       *int     `json:"max_lines,omitempty" yaml:"max_lines,omitempty"`

	// DetectRefineBand is detect.Params.RefineBand; refine_band above
	// belongs to the model.
	DetectRefineBand *float64 `json:"detect_refine_band,omitempty" yaml:"detect_refine_band,omitempty"`
	MinSupport       *int     `json:"min_support,omitempty" yaml:"min_support,omitempty"`
	MergeAngle       *float64 `json:"merge_angle,omitempty" yaml:"merge_angle,omitempty"`
	MergeDistance    *float64 `json:"merge_distance,omitempty" yaml:"merge_distance,omitempty"`
}

// Load reads a Config from a .json, .yaml or .yml file. Partial files are
// fine: anything omitted keeps its default.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(cleanPath), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	if c.WeightConst != nil && *c.WeightConst <= 0 {
		return fmt.Errorf("weight_const must be positive, got %g", *c.WeightConst)
	}
	if c.FinetuneIterations != nil && *c.FinetuneIterations < 0 {
		return fmt.Errorf("finetune_iterations must be non-negative, got %d", *c.FinetuneIterations)
	}
	if c.BackgroundPenalty != nil && *c.BackgroundPenalty < 0 {
		return fmt.Errorf("background_penalty must be non-negative, got %g", *c.BackgroundPenalty)
	}
	for name, v := range map[string]*int{"threshold": c.Threshold, "diff_threshold": c.DiffThreshold} {
		if v != nil && (*v < 0 || *v > 255) {
			return fmt.Errorf("%s must be between 0 and 255, got %d", name, *v)
		}
	}
	if c.MinCourtArea != nil && (*c.MinCourtArea < 0 || *c.MinCourtArea >= 1) {
		return fmt.Errorf("min_court_area must be in [0, 1), got %g", *c.MinCourtArea)
	}
	if c.Tau != nil && *c.Tau < 1 {
		return fmt.Errorf("tau must be at least 1, got %d", *c.Tau)
	}
	return nil
}

// GetCourt returns the court name or the default.
func (c *Config) GetCourt(def string) string {
	if c.Court == nil || *c.Court == "" {
		return def
	}
	return *c.Court
}

// ApplyFitter overlays the fitter fields onto p.
func (c *Config) ApplyFitter(p fitter.Params) fitter.Params {
	if c.WeightConst != nil {
		p.WeightConst = *c.WeightConst
	}
	if c.FinetuneIterations != nil {
		p = p.WithFinetuneIterations(*c.FinetuneIterations)
	}
	if c.Workers != nil {
		p = p.WithWorkers(*c.Workers)
	}
	return p
}

// ApplyModel overlays the model fields onto p.
func (c *Config) ApplyModel(p model.Params) model.Params {
	if c.MaxLinesPerCluster != nil {
		p = p.WithMaxLinesPerCluster(*c.MaxLinesPerCluster)
	}
	if c.MinPairSeparation != nil {
		p.MinPairSeparation = *c.MinPairSeparation
	}
	if c.BackgroundPenalty != nil {
		p = p.WithBackgroundPenalty(*c.BackgroundPenalty)
	}
	if c.SampleStep != nil {
		p.SampleStep = *c.SampleStep
	}
	if c.RefineBand != nil {
		p.RefineBand = *c.RefineBand
	}
	if c.MinRefinePixels != nil {
		p.MinRefinePixels = *c.MinRefinePixels
	}
	if c.MinCourtArea != nil {
		p.MinCourtArea = *c.MinCourtArea
	}
	if c.SnapAngle != nil {
		p.SnapAngle = *c.SnapAngle
	}
	return p
}

// ApplyDetect overlays the detection fields onto p.
func (c *Config) ApplyDetect(p detect.Params) detect.Params {
	if c.Threshold != nil || c.DiffThreshold != nil {
		threshold, diff := p.Threshold, p.DiffThreshold
		if c.Threshold != nil {
			threshold = uint8(*c.Threshold)
		}
		if c.DiffThreshold != nil {
			diff = uint8(*c.DiffThreshold)
		}
		p = p.WithThresholds(threshold, diff)
	}
	if c.Tau != nil {
		p = p.WithTau(*c.Tau)
	}
	if c.BlurRadius != nil {
		p.BlurRadius = *c.BlurRadius
	}
	if c.HoughThreshold != nil {
		p.HoughThreshold = *c.HoughThreshold
	}
	if c.MaxLines != nil {
		p.MaxLines = *c.MaxLines
	}
	if c.DetectRefineBand != nil {
		p.RefineBand = *c.DetectRefineBand
	}
	if c.MinSupport != nil {
		p.MinSupport = *c.MinSupport
	}
	if c.MergeAngle != nil {
		p.MergeAngle = *c.MergeAngle
	}
	if c.MergeDistance != nil {
		p.MergeDistance = *c.MergeDistance
	}
	return p
}
