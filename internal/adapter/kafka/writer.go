// Package kafka provides the Kafka producer for scored trip summaries.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/roadrank/tripsim/internal/config"
	"github.com/roadrank/tripsim/internal/score"
)

// Writer produces messages to a Kafka topic.
// It implements feed.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSummaryTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes a batch of trip summaries in a
// single WriteMessages call for efficiency.
func (w *Writer) PublishSummaries(ctx context.Context, summaries []score.Summary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Summary into a Kafka message keyed by trip ID.
func serializeToMessage(summary score.Summary) (kafkago.Message, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize trip summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.TripID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_category", Value: []byte(summary.RiskCategory)},
			{Key: "started_at", Value: []byte(summary.StartedAt.Format(time.RFC3339))},
		},
	}, nil
}
