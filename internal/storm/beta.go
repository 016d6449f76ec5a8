package storm

import "math"

// logClip keeps log arguments away from zero so shapes with α<1 or β<1,
// which diverge at the domain boundary, stay finite.
const logClip = 1e-12

// BetaShape returns n probabilities sampled from a Beta(α,β) density,
// normalized to sum to 1.
//
// The density is evaluated at mid-bin points x = (i+0.5)/n, never at the
// exact boundary, and in log space for stability with fractional α/β. If
// the normalization sum is degenerate the shape falls back to uniform 1/n.
func BetaShape(n int, params BetaParams) []float64 {
	pdf := make([]float64, n)
	sum := 0.0
	for i := range pdf {
		x := (float64(i) + 0.5) / float64(n)
		logpdf := (params.Alpha-1.0)*math.Log(clip(x)) + (params.Beta-1.0)*math.Log(clip(1.0-x))
		pdf[i] = math.Exp(logpdf)
		sum += pdf[i]
	}

	if math.IsInf(sum, 0) || math.IsNaN(sum) || sum <= 0 {
		for i := range pdf {
			pdf[i] = 1.0 / float64(n)
		}
		return pdf
	}
	for i := range pdf {
		pdf[i] /= sum
	}
	return pdf
}

// ShiftPeak circularly rotates pdf so its maximum lands at the given bin
// index. Ties in the maximum resolve to the lowest index. Kept for
// backward-compatible callers that reposition a Beta shape's peak; none of
// the registered presets request a shift.
func ShiftPeak(pdf []float64, peak int) []float64 {
	n := len(pdf)
	if n == 0 {
		return pdf
	}

	maxIdx := 0
	for i, v := range pdf {
		if v > pdf[maxIdx] {
			maxIdx = i
		}
	}

	shift := ((peak-maxIdx)%n + n) % n
	if shift == 0 {
		return pdf
	}
	shifted := make([]float64, n)
	for i, v := range pdf {
		shifted[(i+shift)%n] = v
	}
	return shifted
}

// Scale converts a probability shape into depth increments.
func Scale(pdf []float64, depth float64) []float64 {
	inc := make([]float64, len(pdf))
	for i, p := range pdf {
		inc[i] = p * depth
	}
	return inc
}

func clip(x float64) float64 {
	if x < logClip {
		return logClip
	}
	if x > 1.0 {
		return 1.0
	}
	return x
}
