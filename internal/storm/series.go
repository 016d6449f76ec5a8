package storm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Bin is one fixed-width interval of a built storm series.
type Bin struct {
	TimeMin       float64   `json:"time_min"`
	IntensityInHr float64   `json:"intensity_in_hr"`
	VolumeIn      float64   `json:"volume_in"`
	CumulativeIn  float64   `json:"cumulative_in"`
	Timestamp     time.Time `json:"timestamp,omitzero"`
}

// Series is the tabular output of a build: the synthetic hyetograph plus
// the request parameters that produced it. A Series is a value object owned
// by the caller; the builder holds no reference to it after returning.
type Series struct {
	ID           string    `json:"id"`
	Distribution string    `json:"distribution"`
	DepthIn      float64   `json:"depth_in"`
	DurationHr   float64   `json:"duration_hr"`
	TimestepMin  float64   `json:"timestep_min"`
	GeneratedAt  time.Time `json:"generated_at"`
	Bins         []Bin     `json:"bins"`
}

// TotalIn returns the cumulative depth through the final bin.
func (s Series) TotalIn() float64 {
	if len(s.Bins) == 0 {
		return 0
	}
	return s.Bins[len(s.Bins)-1].CumulativeIn
}

// seriesID produces a deterministic ID from the build inputs. Rebuilding
// the same storm yields the same ID, enabling idempotent upserts downstream
// (ON CONFLICT DO NOTHING) and replay safety.
func seriesID(distribution string, depth, durationHr, timestepMin float64, start time.Time) string {
	startStr := ""
	if !start.IsZero() {
		startStr = start.UTC().Format(time.RFC3339)
	}
	input := fmt.Sprintf("%s|%g|%g|%g|%s", distribution, depth, durationHr, timestepMin, startStr)
	hash := sha256.Sum256([]byte(input))
	return "storm-" + hex.EncodeToString(hash[:8])
}
