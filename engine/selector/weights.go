package selector

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// Weights is the selection-tuning table. Every multiplier the selector uses
// lives here so balance work targets one file instead of scattered literals.
type Weights struct {
	Base                float64 `yaml:"base"`
	HarshWeatherBoost   float64 `yaml:"harsh_weather_boost"`
	DangerHighBoost     float64 `yaml:"danger_high_boost"`
	OpportunityLowBoost float64 `yaml:"opportunity_low_boost"`
	RecentPenalty       float64 `yaml:"recent_penalty"`
	RecentWindow        int     `yaml:"recent_window"`
	DangerScaleStep     float64 `yaml:"danger_scale_step"`
}

// DefaultWeights returns the embedded tuning table.
func DefaultWeights() Weights {
	var w Weights
	// The embedded table is part of the build; a parse failure here is a
	// packaging bug, not a runtime condition.
	if err := yaml.Unmarshal(defaultWeightsYAML, &w); err != nil {
		panic(fmt.Sprintf("embedded weights.yaml: %v", err))
	}
	return w
}

// LoadWeights reads a tuning table from path, filling unset fields from the
// embedded defaults. A missing file returns the defaults without error.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return w, fmt.Errorf("reading weights %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("parsing weights %s: %w", path, err)
	}
	if w.Base <= 0 {
		w.Base = 1.0
	}
	if w.RecentWindow <= 0 {
		w.RecentWindow = DefaultWeights().RecentWindow
	}
	return w, nil
}
