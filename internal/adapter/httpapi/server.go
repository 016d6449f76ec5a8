// Package httpapi exposes the storm builder and DDF resolver over HTTP,
// alongside the service's health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/design-storm/internal/ddf"
	"github.com/couchcryptid/design-storm/internal/observability"
	"github.com/couchcryptid/design-storm/internal/storm"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DepthResolver looks up depth-duration-frequency data for a location.
type DepthResolver interface {
	ResolveTable(ctx context.Context, lat, lon float64) *ddf.Table
	ResolveDepth(ctx context.Context, lat, lon, durationHr, ari float64) (float64, bool)
}

// Publisher sends built series to the downstream sink. A nil Publisher
// disables publishing.
type Publisher interface {
	Publish(ctx context.Context, series storm.Series) error
}

// Server exposes storm building, DDF lookup, health, and metrics routes.
type Server struct {
	httpServer *http.Server
	builder    *storm.Builder
	resolver   DepthResolver
	publisher  Publisher
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the HTTP routes. resolver and publisher may be nil; the
// corresponding features respond with errors or are skipped.
func NewServer(addr string, builder *storm.Builder, resolver DepthResolver, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder:   builder,
		resolver:  resolver,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/storms", s.handleBuildStorm)
	mux.HandleFunc("GET /v1/ddf", s.handleDDFTable)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// buildStormRequest is the POST /v1/storms payload. DepthIn is optional;
// when omitted, Lat, Lon, and ReturnPeriodYr select a depth from the DDF
// table for the location.
type buildStormRequest struct {
	DepthIn        *float64 `json:"depth_in,omitempty"`
	DurationHr     float64  `json:"duration_hr"`
	TimestepMin    float64  `json:"timestep_min"`
	Distribution   string   `json:"distribution"`
	Start          string   `json:"start,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lon            *float64 `json:"lon,omitempty"`
	ReturnPeriodYr float64  `json:"return_period_yr,omitempty"`
}

func (s *Server) handleBuildStorm(w http.ResponseWriter, r *http.Request) {
	var req buildStormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	var start time.Time
	if req.Start != "" {
		parsed, err := time.Parse(time.RFC3339, req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start datetime: "+err.Error())
			return
		}
		start = parsed
	}

	depth, status, msg := s.resolveDepth(r.Context(), req)
	if msg != "" {
		writeError(w, status, msg)
		return
	}

	timer := time.Now()
	series, err := s.builder.Build(storm.Request{
		DepthIn:      depth,
		DurationHr:   req.DurationHr,
		TimestepMin:  req.TimestepMin,
		Distribution: req.Distribution,
		Start:        start,
	})
	if err != nil {
		s.metrics.BuildErrors.Inc()
		if errors.Is(err, storm.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("storm build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "storm build failed")
		return
	}
	s.metrics.BuildDuration.Observe(time.Since(timer).Seconds())
	s.metrics.StormsBuilt.WithLabelValues(series.Distribution).Inc()

	if s.publisher != nil {
		if err := s.publisher.Publish(r.Context(), series); err != nil {
			// The series is still returned; publishing is best effort.
			s.logger.Error("series publish failed", "series_id", series.ID, "error", err)
		} else {
			s.metrics.SeriesPublished.Inc()
		}
	}

	writeJSON(w, http.StatusOK, series)
}

// resolveDepth returns the depth to build with, or a non-empty error
// message with the HTTP status to report.
func (s *Server) resolveDepth(ctx context.Context, req buildStormRequest) (float64, int, string) {
	if req.DepthIn != nil {
		return *req.DepthIn, 0, ""
	}
	if req.Lat == nil || req.Lon == nil {
		return 0, http.StatusBadRequest, "either depth_in or lat/lon with return_period_yr is required"
	}
	if s.resolver == nil {
		return 0, http.StatusServiceUnavailable, "DDF lookup is not configured"
	}
	ari := req.ReturnPeriodYr
	if ari == 0 {
		ari = 10
	}
	depth, ok := s.resolver.ResolveDepth(ctx, *req.Lat, *req.Lon, req.DurationHr, ari)
	if !ok {
		return 0, http.StatusUnprocessableEntity, "no DDF depth available for the requested location"
	}
	return depth, 0, ""
}

func (s *Server) handleDDFTable(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "DDF lookup is not configured")
		return
	}

	lat, ok := parseCoord(r.URL.Query().Get("lat"))
	if !ok {
		writeError(w, http.StatusBadRequest, "lat query parameter is required")
		return
	}
	lon, ok := parseCoord(r.URL.Query().Get("lon"))
	if !ok {
		writeError(w, http.StatusBadRequest, "lon query parameter is required")
		return
	}

	table := s.resolver.ResolveTable(r.Context(), lat, lon)
	if table == nil {
		writeError(w, http.StatusNotFound, "no DDF table available for the requested location")
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func parseCoord(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
