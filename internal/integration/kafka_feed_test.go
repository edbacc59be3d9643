//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/roadrank/tripsim/internal/adapter/kafka"
	"github.com/roadrank/tripsim/internal/config"
	"github.com/roadrank/tripsim/internal/dataset"
	"github.com/roadrank/tripsim/internal/feed"
	"github.com/roadrank/tripsim/internal/observability"
	"github.com/roadrank/tripsim/internal/score"
)

const testSummaryTopic = "test-trip-summaries"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// readSummary reads and deserializes one message from the summary topic.
func readSummary(ctx context.Context, t *testing.T, consumer *kafkago.Reader) (score.Summary, map[string]string) {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from summary topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var summary score.Summary
	require.NoError(t, json.Unmarshal(msg.Value, &summary), "unmarshal summary message")
	require.Equal(t, summary.TripID, string(msg.Key), "message key should be the trip id")
	return summary, headers
}

// TestWriterPublishesSummaries verifies the Kafka adapter round-trips a
// generated batch of summaries through a real broker.
func TestWriterPublishesSummaries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}

	// Generate a small deterministic batch.
	rng := rand.New(rand.NewPCG(7, 11))
	ds, trialErrs := dataset.New(nil, 1).Generate(rng, 10)
	require.Empty(t, trialErrs)

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishSummaries(ctx, ds.Summaries))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	published := make(map[string]score.Summary, len(ds.Summaries))
	for _, s := range ds.Summaries {
		published[s.TripID] = s
	}

	for range ds.Summaries {
		got, headers := readSummary(ctx, t, consumer)

		want, ok := published[got.TripID]
		require.True(t, ok, "unexpected trip id %q", got.TripID)
		assert.Equal(t, want, got)

		assert.Equal(t, string(want.RiskCategory), headers["risk_category"])
		_, err := time.Parse(time.RFC3339, headers["started_at"])
		assert.NoError(t, err, "started_at should be valid RFC3339")
	}
}

// TestFeedEndToEnd runs the full feed loop against a real broker and verifies
// batches arrive on the summary topic.
func TestFeedEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	const batchTrips = 5
	f := feed.New(dataset.New(nil, 2), writer, discardLogger(), observability.NewMetricsForTesting(), feed.Options{
		RNG:        rand.New(rand.NewPCG(1, 2)),
		BatchTrips: batchTrips,
		Interval:   500 * time.Millisecond,
	})

	feedCtx, feedCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- f.Run(feedCtx) }()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSummaryTopic,
		GroupID:     fmt.Sprintf("test-feed-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	// Read at least two full batches.
	seen := make(map[string]struct{})
	for len(seen) < 2*batchTrips {
		summary, headers := readSummary(ctx, t, consumer)
		seen[summary.TripID] = struct{}{}

		assert.NotEmpty(t, summary.DriverID)
		assert.GreaterOrEqual(t, summary.SafeDrivingScore, 0.0)
		assert.LessOrEqual(t, summary.SafeDrivingScore, 100.0)
		assert.NotEmpty(t, headers["risk_category"])
	}

	assert.NoError(t, f.CheckReadiness(ctx))

	feedCancel()
	require.NoError(t, <-errCh)
}
