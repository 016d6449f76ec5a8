package ddf

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Fetcher retrieves the raw DDF table text for a coordinate. Implementations
// own timeout and transport policy; the resolver issues exactly one fetch
// per resolution and degrades to an absent result on any failure.
type Fetcher interface {
	FetchText(ctx context.Context, lat, lon float64) (string, error)
}

// Resolver turns coordinates, a duration, and a return period into a single
// rainfall depth by fetching and parsing the upstream DDF table.
type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewResolver creates a Resolver over the given transport.
func NewResolver(fetcher Fetcher, logger *slog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// ResolveTable fetches and parses the DDF table for a coordinate. It
// returns nil when the fetch fails or the response carries no table;
// transport failures are logged, never propagated.
func (r *Resolver) ResolveTable(ctx context.Context, lat, lon float64) *Table {
	text, err := r.fetcher.FetchText(ctx, lat, lon)
	if err != nil {
		r.logger.Warn("ddf table fetch failed", "lat", lat, "lon", lon, "error", err)
		return nil
	}
	table := ParseText(text)
	if table == nil {
		r.logger.Warn("ddf response contained no table", "lat", lat, "lon", lon)
	}
	return table
}

// ResolveDepth resolves the depth for a duration and return period (ARI in
// years). The row with the smallest absolute minute difference from the
// requested duration is chosen (first row on ties); the column must match
// the return period rounded to the nearest integer year exactly — no
// interpolation happens at this layer. The second result is false when the
// table, column, or cell is unavailable.
func (r *Resolver) ResolveDepth(ctx context.Context, lat, lon, durationHr, ari float64) (float64, bool) {
	table := r.ResolveTable(ctx, lat, lon)
	if table == nil {
		return 0, false
	}

	ariKey := strconv.Itoa(int(math.Round(ari)))
	row := nearestRow(table, durationHr*60.0)
	if row < 0 {
		return 0, false
	}
	return table.Depth(table.Durations[row], ariKey)
}

// nearestRow returns the index of the duration row closest in minutes to
// the target, or -1 for an empty table. Unparsable labels compare as
// infinitely far, so they are never chosen unless every row is unparsable.
func nearestRow(t *Table, targetMinutes float64) int {
	best := -1
	bestDiff := math.Inf(1)
	for i, label := range t.Durations {
		minutes := labelToMinutes(label)
		diff := math.Abs(minutes - targetMinutes)
		if math.IsNaN(diff) {
			diff = math.Inf(1)
		}
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}
	if best < 0 && len(t.Durations) > 0 {
		best = 0
	}
	return best
}

// labelToMinutes converts a duration label like "6-hr" or "30 minutes" to
// minutes. Unparsable labels map to +Inf.
func labelToMinutes(label string) float64 {
	m := durationLabelRe.FindStringSubmatch(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	if m == nil {
		return math.Inf(1)
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.Inf(1)
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "min"):
		return num
	case strings.HasPrefix(unit, "hr"), strings.HasPrefix(unit, "hour"):
		return num * 60.0
	default:
		return num * 1440.0 // day
	}
}
