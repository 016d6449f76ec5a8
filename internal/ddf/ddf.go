// Package ddf resolves precipitation depths from NOAA Atlas 14
// depth-duration-frequency (DDF) tables.
//
// The upstream Precipitation Frequency Data Server returns a "free text
// CSV": a header line carrying the return-period years after an
// "ARI (years)" marker, followed by rows of the form
//
//	6-hr: 1.2 1.8 2.3 3.0
//
// interleaved with metadata lines (Latitude:, Longitude:, station info)
// that must be filtered out. ParseText turns that text into a numeric
// Table; Resolver fetches the text through a Fetcher collaborator and
// picks out a single depth.
//
// Missing data is a soft condition throughout: fetch failures, absent
// headers, unknown return periods, and non-finite cells all resolve to an
// absent result instead of an error, so a degraded upstream never aborts a
// storm build. The fetch is attempted exactly once per resolution; there
// is no retry.
package ddf

import "math"

// Table is a parsed DDF matrix: rows keyed by duration label in source
// order, columns keyed by return-period years. Cells hold depths in
// inches; NaN marks a value the source did not supply. Read-only after
// parsing.
type Table struct {
	Durations []string    `json:"durations"`
	Years     []string    `json:"years"`
	Depths    [][]float64 `json:"depths"`
}

// Depth returns the cell for a duration label and return-period column.
// The second result is false when the row or column is unknown or the cell
// is non-finite.
func (t *Table) Depth(duration, years string) (float64, bool) {
	row := -1
	for i, d := range t.Durations {
		if d == duration {
			row = i
			break
		}
	}
	col := -1
	for j, y := range t.Years {
		if y == years {
			col = j
			break
		}
	}
	if row < 0 || col < 0 {
		return 0, false
	}
	v := t.Depths[row][col]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
