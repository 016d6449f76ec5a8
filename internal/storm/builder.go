package storm

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrValidation marks hard caller-input failures: non-positive duration or
// timestep, malformed curve data, unknown distribution names, or a missing
// custom-curve path. Check with errors.Is. Soft numerical degeneracy never
// produces this error; it is absorbed by documented fallbacks instead.
var ErrValidation = errors.New("invalid storm request")

// Request holds the inputs for one storm build.
type Request struct {
	DepthIn         float64
	DurationHr      float64
	TimestepMin     float64
	Distribution    string
	CustomCurvePath string    // required only for the "user" distribution
	Start           time.Time // optional; zero means no timestamps
}

// Builder turns build requests into storm series using a curve library.
// It is stateless apart from the read-only library, so a single Builder is
// safe for concurrent use.
type Builder struct {
	lib *Library
}

// NewBuilder creates a Builder over the given library.
func NewBuilder(lib *Library) *Builder {
	return &Builder{lib: lib}
}

// Build validates the request, selects the temporal pattern source, and
// produces the binned series. It is a pure computation over the request:
// identical requests yield identical series (GeneratedAt aside, which
// follows the package clock).
func (b *Builder) Build(req Request) (Series, error) {
	if req.DurationHr <= 0 || req.TimestepMin <= 0 {
		return Series{}, fmt.Errorf("%w: duration and timestep must be positive", ErrValidation)
	}

	// Ceiling so the series never falls short of the requested duration;
	// the excess of a final partial bin is accepted.
	n := int(math.Ceil(req.DurationHr * 60.0 / req.TimestepMin))
	if n < 1 {
		n = 1
	}

	src, err := b.lib.source(req.Distribution, req.CustomCurvePath)
	if err != nil {
		return Series{}, err
	}
	inc, err := src.increments(n, req.DepthIn)
	if err != nil {
		return Series{}, err
	}

	bins := make([]Bin, n)
	cumulative := 0.0
	for i, v := range inc {
		cumulative += v
		bins[i] = Bin{
			TimeMin:      float64(i) * req.TimestepMin,
			VolumeIn:     v,
			CumulativeIn: cumulative,
		}
		if n == 1 {
			// A single bin's nominal timestep may exceed the actual duration
			// when the ceiling produced one bin from a short storm; dividing
			// by the timestep would distort the intensity.
			bins[i].IntensityInHr = req.DepthIn / req.DurationHr
		} else {
			bins[i].IntensityInHr = v / (req.TimestepMin / 60.0)
		}
		if !req.Start.IsZero() {
			bins[i].Timestamp = req.Start.Add(time.Duration(float64(i) * req.TimestepMin * float64(time.Minute)))
		}
	}

	return Series{
		ID:           seriesID(req.Distribution, req.DepthIn, req.DurationHr, req.TimestepMin, req.Start),
		Distribution: req.Distribution,
		DepthIn:      req.DepthIn,
		DurationHr:   req.DurationHr,
		TimestepMin:  req.TimestepMin,
		GeneratedAt:  clock.Now().UTC(),
		Bins:         bins,
	}, nil
}

// patternSource is the closed set of temporal pattern kinds the builder
// dispatches over. Each variant yields n increments summing to depth.
type patternSource interface {
	increments(n int, depth float64) ([]float64, error)
}

type tableSource struct {
	curve Curve
}

func (s tableSource) increments(n int, depth float64) ([]float64, error) {
	return ResampleCurve(s.curve, n, depth)
}

type customSource struct {
	path string
}

func (s customSource) increments(n int, depth float64) ([]float64, error) {
	pdf, err := LoadCustomCurve(s.path, n)
	if err != nil {
		return nil, err
	}
	return Scale(pdf, depth), nil
}

type betaSource struct {
	params BetaParams
}

func (s betaSource) increments(n int, depth float64) ([]float64, error) {
	return Scale(BetaShape(n, s.params), depth), nil
}
