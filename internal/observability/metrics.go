package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the design-storm
// service.
type Metrics struct {
	StormsBuilt   *prometheus.CounterVec // labels: distribution
	BuildErrors   prometheus.Counter
	BuildDuration prometheus.Histogram

	SeriesPublished prometheus.Counter

	// DDF resolution metrics.
	DDFFetches       *prometheus.CounterVec // labels: outcome={success,error,empty}
	DDFFetchDuration prometheus.Histogram
	DDFCache         *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		StormsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "design_storm",
			Name:      "storms_built_total",
			Help:      "Total storm series built, by distribution.",
		}, []string{"distribution"}),
		BuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "design_storm",
			Name:      "build_errors_total",
			Help:      "Total storm build failures.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "design_storm",
			Name:      "build_duration_seconds",
			Help:      "Duration of a complete storm build.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		SeriesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "design_storm",
			Name:      "series_published_total",
			Help:      "Total storm series published to the sink topic.",
		}),
		DDFFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "design_storm",
			Name:      "ddf_fetch_total",
			Help:      "DDF table fetches by outcome.",
		}, []string{"outcome"}),
		DDFFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "design_storm",
			Name:      "ddf_fetch_duration_seconds",
			Help:      "NOAA PFDS request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		DDFCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "design_storm",
			Name:      "ddf_cache_total",
			Help:      "DDF table cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.StormsBuilt,
		m.BuildErrors,
		m.BuildDuration,
		m.SeriesPublished,
		m.DDFFetches,
		m.DDFFetchDuration,
		m.DDFCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		StormsBuilt:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "design_storm", Name: "storms_built_total"}, []string{"distribution"}),
		BuildErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "design_storm", Name: "build_errors_total"}),
		BuildDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "design_storm", Name: "build_duration_seconds"}),
		SeriesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "design_storm", Name: "series_published_total"}),
		DDFFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "design_storm", Name: "ddf_fetch_total"}, []string{"outcome"}),
		DDFFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "design_storm", Name: "ddf_fetch_duration_seconds"}),
		DDFCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "design_storm", Name: "ddf_cache_total"}, []string{"result"}),
	}
}
