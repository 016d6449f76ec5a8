package storm

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	fixedTime := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	builder := NewBuilder(NewLibrary())

	t.Run("table distribution conserves depth", func(t *testing.T) {
		series, err := builder.Build(Request{
			DepthIn:      3.6,
			DurationHr:   24,
			TimestepMin:  5,
			Distribution: DistSCSTypeII,
		})
		require.NoError(t, err)

		assert.Equal(t, 288, len(series.Bins))
		total := 0.0
		prevCum := 0.0
		for i, bin := range series.Bins {
			assert.Equal(t, float64(i)*5.0, bin.TimeMin)
			assert.GreaterOrEqual(t, bin.CumulativeIn, prevCum, "bin %d", i)
			assert.InDelta(t, bin.VolumeIn/(5.0/60.0), bin.IntensityInHr, 1e-9, "bin %d", i)
			total += bin.VolumeIn
			prevCum = bin.CumulativeIn
		}
		assert.InEpsilon(t, 3.6, total, 1e-9)
		assert.InEpsilon(t, 3.6, series.TotalIn(), 1e-9)
		assert.Equal(t, fixedTime, series.GeneratedAt)
	})

	t.Run("single bin uses duration for intensity", func(t *testing.T) {
		series, err := builder.Build(Request{
			DepthIn:      2.0,
			DurationHr:   1.0,
			TimestepMin:  60.0,
			Distribution: DistSCSTypeII,
		})
		require.NoError(t, err)

		require.Len(t, series.Bins, 1)
		assert.Equal(t, 2.0, series.Bins[0].IntensityInHr)
		assert.InDelta(t, 2.0, series.Bins[0].VolumeIn, 1e-12)
	})

	t.Run("ceiling rounds partial bins up", func(t *testing.T) {
		// 1.1 hours at 30-minute steps → 66/30 = 2.2 → 3 bins.
		series, err := builder.Build(Request{
			DepthIn:      1.0,
			DurationHr:   1.1,
			TimestepMin:  30,
			Distribution: DistHuffQ2,
		})
		require.NoError(t, err)
		assert.Len(t, series.Bins, 3)
		assert.InEpsilon(t, 1.0, series.TotalIn(), 1e-9)
	})

	t.Run("beta preset distribution", func(t *testing.T) {
		series, err := builder.Build(Request{
			DepthIn:      1.5,
			DurationHr:   6,
			TimestepMin:  15,
			Distribution: DistHuffQ1,
		})
		require.NoError(t, err)

		assert.Len(t, series.Bins, 24)
		assert.InEpsilon(t, 1.5, series.TotalIn(), 1e-9)
	})

	t.Run("user distribution", func(t *testing.T) {
		path := writeCurveFile(t, "0,0\n0.5,0.8\n1,1\n")

		series, err := builder.Build(Request{
			DepthIn:         2.5,
			DurationHr:      1,
			TimestepMin:     30,
			Distribution:    DistUser,
			CustomCurvePath: path,
		})
		require.NoError(t, err)

		require.Len(t, series.Bins, 2)
		assert.InDelta(t, 2.0, series.Bins[0].VolumeIn, 1e-9)
		assert.InDelta(t, 0.5, series.Bins[1].VolumeIn, 1e-9)
	})

	t.Run("user distribution without path", func(t *testing.T) {
		_, err := builder.Build(Request{
			DepthIn:      1,
			DurationHr:   1,
			TimestepMin:  5,
			Distribution: DistUser,
		})
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "custom curve path required")
	})

	t.Run("timestamps attached when start given", func(t *testing.T) {
		start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
		series, err := builder.Build(Request{
			DepthIn:      1,
			DurationHr:   1,
			TimestepMin:  20,
			Distribution: DistSCSTypeIII,
			Start:        start,
		})
		require.NoError(t, err)

		require.Len(t, series.Bins, 3)
		assert.Equal(t, start, series.Bins[0].Timestamp)
		assert.Equal(t, start.Add(20*time.Minute), series.Bins[1].Timestamp)
		assert.Equal(t, start.Add(40*time.Minute), series.Bins[2].Timestamp)
	})

	t.Run("no timestamps without start", func(t *testing.T) {
		series, err := builder.Build(Request{
			DepthIn:      1,
			DurationHr:   1,
			TimestepMin:  20,
			Distribution: DistSCSTypeIII,
		})
		require.NoError(t, err)
		for _, bin := range series.Bins {
			assert.True(t, bin.Timestamp.IsZero())
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		req := Request{
			DepthIn:      2.2,
			DurationHr:   12,
			TimestepMin:  10,
			Distribution: DistSCSTypeI,
		}

		first, err := builder.Build(req)
		require.NoError(t, err)
		second, err := builder.Build(req)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("distinct inputs produce distinct IDs", func(t *testing.T) {
		a, err := builder.Build(Request{DepthIn: 1, DurationHr: 6, TimestepMin: 5, Distribution: DistSCSTypeII})
		require.NoError(t, err)
		b, err := builder.Build(Request{DepthIn: 2, DurationHr: 6, TimestepMin: 5, Distribution: DistSCSTypeII})
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name    string
			req     Request
			message string
		}{
			{"zero duration", Request{DepthIn: 1, DurationHr: 0, TimestepMin: 5, Distribution: DistSCSTypeII}, "must be positive"},
			{"negative duration", Request{DepthIn: 1, DurationHr: -2, TimestepMin: 5, Distribution: DistSCSTypeII}, "must be positive"},
			{"zero timestep", Request{DepthIn: 1, DurationHr: 6, TimestepMin: 0, Distribution: DistSCSTypeII}, "must be positive"},
			{"unknown distribution", Request{DepthIn: 1, DurationHr: 6, TimestepMin: 5, Distribution: "huff_q9"}, "unknown distribution"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := builder.Build(tt.req)
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.message)
			})
		}
	})
}

func TestLibraryDistributions(t *testing.T) {
	names := NewLibrary().Distributions()

	assert.Contains(t, names, DistSCSTypeII)
	assert.Contains(t, names, DistHuffQ4)
	assert.Contains(t, names, DistUser)
	assert.IsIncreasing(t, names)
}

func TestSeriesID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := seriesID("scs_type_ii", 2.0, 24, 5, time.Time{})
		b := seriesID("scs_type_ii", 2.0, 24, 5, time.Time{})
		assert.Equal(t, a, b)
		assert.Contains(t, a, "storm-")
	})

	t.Run("start time changes the ID", func(t *testing.T) {
		start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		a := seriesID("scs_type_ii", 2.0, 24, 5, time.Time{})
		b := seriesID("scs_type_ii", 2.0, 24, 5, start)
		assert.NotEqual(t, a, b)
	})
}
