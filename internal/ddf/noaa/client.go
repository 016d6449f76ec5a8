// Package noaa fetches depth-duration-frequency tables from the NOAA
// Atlas 14 Precipitation Frequency Data Server (PFDS). It implements
// ddf.Fetcher over the "free text CSV" endpoint.
package noaa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/design-storm/internal/observability"
)

// Client implements ddf.Fetcher against the PFDS text endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a PFDS client. baseURL points at the fe_text CSV
// endpoint; the timeout bounds the single fetch a resolution performs.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchText retrieves the raw DDF table text for a coordinate. Depths are
// requested in English units (inches) from the partial-duration series,
// matching the rest of the tool's unit conventions.
func (c *Client) FetchText(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"data":   {"depth"},
		"lat":    {fmt.Sprintf("%.6f", lat)},
		"lon":    {fmt.Sprintf("%.6f", lon)},
		"series": {"pds"},
		"units":  {"english"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "design-storm")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.DDFFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DDFFetches.WithLabelValues("error").Inc()
		return "", fmt.Errorf("pfds request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.DDFFetches.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pfds error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.DDFFetches.WithLabelValues("error").Inc()
		return "", fmt.Errorf("read response: %w", err)
	}
	if len(body) == 0 {
		c.metrics.DDFFetches.WithLabelValues("empty").Inc()
		return "", nil
	}

	c.metrics.DDFFetches.WithLabelValues("success").Inc()
	c.logger.Debug("pfds table fetched", "lat", lat, "lon", lon, "bytes", len(body))
	return string(body), nil
}
