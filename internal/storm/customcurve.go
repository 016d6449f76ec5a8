package storm

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

// LoadCustomCurve reads a two-column cumulative curve file and returns n
// probabilities summing to 1. The first column is time (or fraction of
// duration), the second cumulative fraction (or cumulative amount).
//
// Normalization is a per-column heuristic: a column whose maximum exceeds 1
// is divided by that maximum; a column already within [0,1] is trusted
// as-is. There is no signal distinguishing "already normalized" from "needs
// scaling", so a partial curve in absolute units gets capped at 1 at its
// last supplied point. Known sharp edge, preserved deliberately.
func LoadCustomCurve(path string, n int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open custom curve: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed curve: %v", ErrValidation, err)
	}

	var ts, cs []float64
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		t, errT := strconv.ParseFloat(rec[0], 64)
		c, errC := strconv.ParseFloat(rec[1], 64)
		if errT != nil || errC != nil {
			// Header row or stray text; skip.
			continue
		}
		ts = append(ts, t)
		cs = append(cs, c)
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("%w: malformed curve: need at least two numeric rows", ErrValidation)
	}

	normalizeColumn(ts)
	normalizeColumn(cs)

	pdf := make([]float64, n)
	prev := interpPoints(ts, cs, 0)
	for i := 1; i <= n; i++ {
		cur := interpPoints(ts, cs, float64(i)/float64(n))
		pdf[i-1] = cur - prev
		prev = cur
	}

	sum := 0.0
	for _, v := range pdf {
		sum += v
	}
	if math.IsInf(sum, 0) || math.IsNaN(sum) || sum <= 0 {
		for i := range pdf {
			pdf[i] = 1.0 / float64(n)
		}
		return pdf, nil
	}
	for i := range pdf {
		pdf[i] /= sum
	}
	return pdf, nil
}

// normalizeColumn divides the column by its maximum only when that maximum
// exceeds 1.
func normalizeColumn(col []float64) {
	max := col[0]
	for _, v := range col[1:] {
		if v > max {
			max = v
		}
	}
	if max > 1 {
		for i := range col {
			col[i] /= max
		}
	}
}

// interpPoints linearly interpolates the piecewise function through
// (xs, ys) at x, clamping outside the sampled range. xs is expected to be
// non-decreasing; the curve file supplies it in time order.
func interpPoints(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	if x1 == x0 {
		return y0
	}
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}
