package storm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetaShape(t *testing.T) {
	t.Run("uniform when alpha and beta are 1", func(t *testing.T) {
		pdf := BetaShape(10, BetaParams{Alpha: 1, Beta: 1})

		require.Len(t, pdf, 10)
		for _, p := range pdf {
			assert.InDelta(t, 0.1, p, 1e-12)
		}
	})

	t.Run("sums to one", func(t *testing.T) {
		for _, params := range []BetaParams{
			{Alpha: 2.0, Beta: 5.0},
			{Alpha: 3.5, Beta: 6.0},
			{Alpha: 5.0, Beta: 1.5},
			{Alpha: 0.5, Beta: 0.5}, // diverges at both boundaries
		} {
			pdf := BetaShape(24, params)
			assert.InDelta(t, 1.0, sum(pdf), 1e-9, "alpha=%g beta=%g", params.Alpha, params.Beta)
			for i, p := range pdf {
				require.False(t, math.IsNaN(p) || math.IsInf(p, 0), "bin %d", i)
				require.GreaterOrEqual(t, p, 0.0, "bin %d", i)
			}
		}
	})

	t.Run("skewed preset peaks early", func(t *testing.T) {
		// Beta(3.5, 6) has mode ≈ 0.33, so the mass peaks in the first half.
		pdf := BetaShape(12, BetaParams{Alpha: 3.5, Beta: 6.0})

		maxIdx := 0
		for i, p := range pdf {
			if p > pdf[maxIdx] {
				maxIdx = i
			}
		}
		assert.Less(t, maxIdx, 6)
	})
}

func TestShiftPeak(t *testing.T) {
	t.Run("rotates maximum to requested index", func(t *testing.T) {
		pdf := BetaShape(8, BetaParams{Alpha: 3.5, Beta: 6.0})

		maxIdx := 0
		for i, p := range pdf {
			if p > pdf[maxIdx] {
				maxIdx = i
			}
		}
		require.Equal(t, 2, maxIdx, "natural peak expected at index 2")

		shifted := ShiftPeak(pdf, 5)

		// Maximum now at index 5, and the array is a circular rotation by 3.
		newMax := 0
		for i, p := range shifted {
			if p > shifted[newMax] {
				newMax = i
			}
		}
		assert.Equal(t, 5, newMax)
		for i := range pdf {
			assert.Equal(t, pdf[i], shifted[(i+3)%8], "element %d", i)
		}
	})

	t.Run("no-op when peak already in place", func(t *testing.T) {
		pdf := []float64{0.1, 0.6, 0.3}
		assert.Equal(t, pdf, ShiftPeak(pdf, 1))
	})

	t.Run("negative offset wraps", func(t *testing.T) {
		pdf := []float64{0.1, 0.2, 0.6, 0.1}
		shifted := ShiftPeak(pdf, 0)
		assert.Equal(t, 0.6, shifted[0])
		assert.InDelta(t, sum(pdf), sum(shifted), 1e-12)
	})

	t.Run("tie resolves to first maximum", func(t *testing.T) {
		pdf := []float64{0.2, 0.3, 0.3, 0.2}
		shifted := ShiftPeak(pdf, 3)
		// argmax is index 1 (first of the tied pair), so the rotation is 2.
		assert.Equal(t, []float64{0.3, 0.2, 0.2, 0.3}, shifted)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ShiftPeak(nil, 3))
	})
}

func TestScale(t *testing.T) {
	inc := Scale([]float64{0.25, 0.5, 0.25}, 2.0)
	assert.Equal(t, []float64{0.5, 1.0, 0.5}, inc)
}
