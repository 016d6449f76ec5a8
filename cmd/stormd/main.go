// Command stormd serves design-storm generation and DDF lookup over HTTP,
// optionally publishing built series to a Kafka sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/design-storm/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/design-storm/internal/adapter/kafka"
	"github.com/couchcryptid/design-storm/internal/config"
	"github.com/couchcryptid/design-storm/internal/ddf"
	"github.com/couchcryptid/design-storm/internal/ddf/noaa"
	"github.com/couchcryptid/design-storm/internal/observability"
	"github.com/couchcryptid/design-storm/internal/storm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	builder := storm.NewBuilder(storm.NewLibrary())

	client := noaa.NewClient(cfg.NOAABaseURL, cfg.NOAATimeout, metrics, logger)
	fetcher := noaa.NewCachedFetcher(client, cfg.DDFCacheSize, metrics)
	resolver := ddf.NewResolver(fetcher, logger)
	logger.Info("NOAA DDF lookup enabled", "base_url", cfg.NOAABaseURL, "cache_size", cfg.DDFCacheSize)

	// The publisher is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher httpapi.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka sink disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, builder, resolver, publisher, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
