// Package preset saves and loads design-storm request presets as JSON
// files, so a configured storm can be rebuilt later without retyping the
// parameters.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Preset captures the inputs of a build request in portable form. Optional
// fields are pointers so that loading a preset can distinguish "unset"
// from a deliberate zero.
type Preset struct {
	Location       string   `json:"location,omitempty"` // "lat,lon"
	DurationHr     float64  `json:"duration_hr"`
	ReturnPeriodYr float64  `json:"return_period_yr"`
	DepthIn        *float64 `json:"depth_in,omitempty"`
	TimestepMin    float64  `json:"timestep_min"`
	Distribution   string   `json:"distribution"`
	CustomCurve    string   `json:"custom_curve,omitempty"`
	StartDatetime  string   `json:"start_datetime,omitempty"` // RFC 3339
	GaugeName      string   `json:"gauge_name"`
	ExportType     string   `json:"export_type"`
}

// Save writes the preset as indented JSON.
func Save(path string, p Preset) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// Load reads a preset file.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}
