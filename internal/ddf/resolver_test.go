package ddf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	text  string
	err   error
	calls int
}

func (m *mockFetcher) FetchText(_ context.Context, _, _ float64) (string, error) {
	m.calls++
	return m.text, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveTable(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fetcher := &mockFetcher{text: sampleTable}
		r := NewResolver(fetcher, discardLogger())

		table := r.ResolveTable(context.Background(), 40.44, -79.99)
		require.NotNil(t, table)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("transport failure degrades to absent", func(t *testing.T) {
		fetcher := &mockFetcher{err: errors.New("connection refused")}
		r := NewResolver(fetcher, discardLogger())

		assert.Nil(t, r.ResolveTable(context.Background(), 40.44, -79.99))
		assert.Equal(t, 1, fetcher.calls, "exactly one fetch, no retry")
	})

	t.Run("unparsable response degrades to absent", func(t *testing.T) {
		fetcher := &mockFetcher{text: "<html>service unavailable</html>"}
		r := NewResolver(fetcher, discardLogger())

		assert.Nil(t, r.ResolveTable(context.Background(), 40.44, -79.99))
	})
}

func TestResolveDepth(t *testing.T) {
	t.Run("exact duration row", func(t *testing.T) {
		r := NewResolver(&mockFetcher{text: sampleTable}, discardLogger())

		v, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 6, 10)
		require.True(t, ok)
		assert.Equal(t, 2.3, v)
	})

	t.Run("nearest row by minutes not by label", func(t *testing.T) {
		// 5 hours = 300 min: nearest to 6-hr (360) over 30-min (30) and
		// 24-hr (1440), even though "24-hr" sorts before "6-hr" as a string.
		r := NewResolver(&mockFetcher{text: sampleTable}, discardLogger())

		v, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 5, 25)
		require.True(t, ok)
		assert.Equal(t, 3.0, v)
	})

	t.Run("tie resolves to first row", func(t *testing.T) {
		// "24-hr" and "1-day" are both 1440 minutes; the earlier row wins.
		r := NewResolver(&mockFetcher{text: sampleTable}, discardLogger())

		v, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 24, 2)
		require.True(t, ok)
		assert.Equal(t, 2.4, v)
	})

	t.Run("return period rounded to nearest year", func(t *testing.T) {
		r := NewResolver(&mockFetcher{text: sampleTable}, discardLogger())

		v, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 6, 9.7)
		require.True(t, ok)
		assert.Equal(t, 2.3, v)
	})

	t.Run("missing return period column", func(t *testing.T) {
		r := NewResolver(&mockFetcher{text: sampleTable}, discardLogger())

		_, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 6, 100)
		assert.False(t, ok)
	})

	t.Run("absent table", func(t *testing.T) {
		r := NewResolver(&mockFetcher{err: errors.New("timeout")}, discardLogger())

		_, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 6, 10)
		assert.False(t, ok)
	})

	t.Run("non-finite cell", func(t *testing.T) {
		r := NewResolver(&mockFetcher{text: "ARI (years): 2 5\n6-hr: 1.2\n"}, discardLogger())

		_, ok := r.ResolveDepth(context.Background(), 40.44, -79.99, 6, 5)
		assert.False(t, ok)
	})
}

func TestLabelToMinutes(t *testing.T) {
	tests := []struct {
		label    string
		expected float64
	}{
		{"30-min", 30},
		{"30 minutes", 30},
		{"6-hr", 360},
		{"2 hours", 120},
		{"1-day", 1440},
		{"3 days", 4320},
		{"6-hr:", 360},
		{"2.5 hours", 150},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, labelToMinutes(tt.label))
		})
	}

	t.Run("unparsable is infinitely far", func(t *testing.T) {
		assert.True(t, math.IsInf(labelToMinutes("Latitude"), 1))
		assert.True(t, math.IsInf(labelToMinutes("6 fortnights"), 1))
	})
}
