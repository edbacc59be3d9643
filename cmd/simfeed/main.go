// Command simfeed runs the trip feed service: it generates batches of
// synthetic trips on an interval, scores them, and publishes the summaries to
// Kafka, exposing health and metrics over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/roadrank/tripsim/internal/adapter/http"
	kafkaadapter "github.com/roadrank/tripsim/internal/adapter/kafka"
	"github.com/roadrank/tripsim/internal/config"
	"github.com/roadrank/tripsim/internal/dataset"
	"github.com/roadrank/tripsim/internal/feed"
	"github.com/roadrank/tripsim/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Publishing is feature-flagged via KAFKA_ENABLED so the service can run
	// as a pure generator during load tests.
	var writer *kafkaadapter.Writer
	var publisher feed.Publisher
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Info("seeding batch random source", "seed", seed)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	f := feed.New(dataset.New(nil, cfg.Workers), publisher, logger, metrics, feed.Options{
		RNG:        rng,
		BatchTrips: cfg.BatchTrips,
		Interval:   cfg.BatchInterval,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, f, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start feed loop.
	go func() {
		if err := f.Run(ctx); err != nil {
			logger.Error("feed error", "error", err)
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
