// Package kafka publishes built storm series to a Kafka sink topic for the
// downstream hydrology pipeline.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/design-storm/internal/config"
	"github.com/couchcryptid/design-storm/internal/storm"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces storm series messages to the configured sink topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one series and writes it to the sink topic. The key is
// the deterministic series ID, so replays and rebuilds of the same storm
// land on the same partition and can be deduplicated downstream.
func (w *Writer) Publish(ctx context.Context, series storm.Series) error {
	msg, err := serializeToMessage(series)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish series: %w", err)
	}
	w.logger.Debug("series published", "series_id", series.ID, "bins", len(series.Bins))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Series into a Kafka message.
func serializeToMessage(series storm.Series) (kafkago.Message, error) {
	data, err := json.Marshal(series)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize series: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(series.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "distribution", Value: []byte(series.Distribution)},
			{Key: "generated_at", Value: []byte(series.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
