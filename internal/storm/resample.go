package storm

import (
	"fmt"
	"math"
)

// ResampleCurve resamples a dimensionless cumulative curve onto n bins and
// scales it so the returned increments sum to depth.
//
// The curve's own index positions are treated as evenly spaced progress
// markers in [0,1]: element i sits at i/(len−1). This assumes the source
// samples are evenly spaced in time, which holds for all registered tables.
// A curve whose final value is 0 carries no shape information and is
// replaced by a linear 0→1 ramp of the same length.
func ResampleCurve(curve Curve, n int, depth float64) ([]float64, error) {
	if len(curve) < 2 {
		return nil, fmt.Errorf("%w: malformed curve: need at least two values, got %d", ErrValidation, len(curve))
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			return nil, fmt.Errorf("%w: malformed curve: values must be non-decreasing", ErrValidation)
		}
	}

	norm := make([]float64, len(curve))
	if last := curve[len(curve)-1]; last == 0 {
		for i := range norm {
			norm[i] = float64(i) / float64(len(norm)-1)
		}
	} else {
		for i, v := range curve {
			norm[i] = v / last
		}
	}

	// Interpolate the normalized curve onto an n+1 point grid and difference.
	inc := make([]float64, n)
	prev := interpAt(norm, 0)
	for i := 1; i <= n; i++ {
		cur := interpAt(norm, float64(i)/float64(n))
		inc[i-1] = cur - prev
		prev = cur
	}

	return rescaleToDepth(inc, depth), nil
}

// interpAt linearly interpolates a curve sampled at evenly spaced positions
// in [0,1], evaluated at x in [0,1].
func interpAt(vals []float64, x float64) float64 {
	pos := x * float64(len(vals)-1)
	i := int(math.Floor(pos))
	if i < 0 {
		return vals[0]
	}
	if i >= len(vals)-1 {
		return vals[len(vals)-1]
	}
	frac := pos - float64(i)
	return vals[i] + frac*(vals[i+1]-vals[i])
}

// rescaleToDepth rescales increments so they sum exactly to depth. If the
// increment sum is degenerate (non-finite or ≤ 0, as with an all-equal
// curve), the depth is split uniformly instead. The rescale is what keeps
// the mass balance exact regardless of interpolation error.
func rescaleToDepth(inc []float64, depth float64) []float64 {
	sum := 0.0
	for _, v := range inc {
		sum += v
	}
	if math.IsInf(sum, 0) || math.IsNaN(sum) || sum <= 0 {
		uniform := depth / float64(len(inc))
		for i := range inc {
			inc[i] = uniform
		}
		return inc
	}
	scale := depth / sum
	for i := range inc {
		inc[i] *= scale
	}
	return inc
}
