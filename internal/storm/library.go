package storm

import (
	"fmt"
	"sort"
)

// Distribution names accepted by the builder.
const (
	DistSCSTypeI   = "scs_type_i"
	DistSCSTypeIA  = "scs_type_ia"
	DistSCSTypeII  = "scs_type_ii"
	DistSCSTypeIII = "scs_type_iii"

	DistHuffQ1 = "huff_q1"
	DistHuffQ2 = "huff_q2"
	DistHuffQ3 = "huff_q3"
	DistHuffQ4 = "huff_q4"

	// DistUser selects a caller-supplied cumulative curve file.
	DistUser = "user"
)

// Curve is a dimensionless cumulative rainfall curve: cumulative fraction of
// total depth at evenly spaced progress points, non-decreasing from 0 to 1.
type Curve []float64

// BetaParams selects a Beta(α,β) probability density on [0,1] used as an
// approximate temporal pattern when no official table exists.
type BetaParams struct {
	Alpha float64
	Beta  float64
}

// Library is a read-only registry of named dimensionless curves and Beta
// presets. It is built once at startup and never mutated afterwards, so it
// is safe to share across goroutines without locking.
type Library struct {
	curves map[string]Curve
	betas  map[string]BetaParams
}

// NewLibrary builds the default registry: the four official SCS/NRCS
// dimensionless tables plus the Beta presets. The SCS entries also appear
// as Beta approximations for backward compatibility, but the official
// tables shadow them during dispatch.
func NewLibrary() *Library {
	return &Library{
		curves: map[string]Curve{
			DistSCSTypeI:   scsTypeI,
			DistSCSTypeIA:  scsTypeIA,
			DistSCSTypeII:  scsTypeII,
			DistSCSTypeIII: scsTypeIII,
		},
		betas: map[string]BetaParams{
			// SCS approximations, only used if the table were missing.
			DistSCSTypeI:  {Alpha: 2.0, Beta: 5.0},
			DistSCSTypeIA: {Alpha: 2.0, Beta: 6.0},
			// Type II wants an earlier peak; mode = (α−1)/(α+β−2) ≈ 0.333.
			DistSCSTypeII:  {Alpha: 3.5, Beta: 6.0},
			DistSCSTypeIII: {Alpha: 5.0, Beta: 2.0},

			// Huff quartile approximations.
			DistHuffQ1: {Alpha: 1.5, Beta: 5.0},
			DistHuffQ2: {Alpha: 2.0, Beta: 3.0},
			DistHuffQ3: {Alpha: 3.0, Beta: 2.0},
			DistHuffQ4: {Alpha: 5.0, Beta: 1.5},
		},
	}
}

// Curve returns the registered dimensionless curve for name.
func (l *Library) Curve(name string) (Curve, bool) {
	c, ok := l.curves[name]
	return c, ok
}

// Beta returns the registered Beta preset for name.
func (l *Library) Beta(name string) (BetaParams, bool) {
	p, ok := l.betas[name]
	return p, ok
}

// Distributions lists every accepted distribution name, sorted, including
// the "user" sentinel. Intended for CLI help text and request validation
// messages.
func (l *Library) Distributions() []string {
	seen := make(map[string]struct{}, len(l.curves)+len(l.betas)+1)
	for name := range l.curves {
		seen[name] = struct{}{}
	}
	for name := range l.betas {
		seen[name] = struct{}{}
	}
	seen[DistUser] = struct{}{}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// source selects the pattern source for a distribution name. Official
// tables win over Beta presets with the same name; "user" requires a
// custom curve path.
func (l *Library) source(name, customCurvePath string) (patternSource, error) {
	if curve, ok := l.curves[name]; ok {
		return tableSource{curve: curve}, nil
	}
	if name == DistUser {
		if customCurvePath == "" {
			return nil, fmt.Errorf("%w: custom curve path required for %q distribution", ErrValidation, DistUser)
		}
		return customSource{path: customCurvePath}, nil
	}
	if params, ok := l.betas[name]; ok {
		return betaSource{params: params}, nil
	}
	return nil, fmt.Errorf("%w: unknown distribution %q", ErrValidation, name)
}
