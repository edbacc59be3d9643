// Package feed runs the batch generation loop of the simulator service: on a
// fixed interval it generates a batch of synthetic trips, scores them, and
// publishes the summaries for downstream training pipelines.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/roadrank/tripsim/internal/dataset"
	"github.com/roadrank/tripsim/internal/observability"
	"github.com/roadrank/tripsim/internal/score"
)

// Publisher delivers a batch of trip summaries to the sink.
type Publisher interface {
	PublishSummaries(ctx context.Context, summaries []score.Summary) error
}

// Options configures a Feed.
type Options struct {
	// Clock drives the batch interval; nil selects the real clock.
	Clock clockwork.Clock
	// RNG seeds the batch trials. Required.
	RNG *rand.Rand
	// BatchTrips is the number of trips generated per interval.
	BatchTrips int
	// Interval between batch starts.
	Interval time.Duration
}

// Feed orchestrates the generate-score-publish loop.
type Feed struct {
	batches   *dataset.Generator
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	clock      clockwork.Clock
	rng        *rand.Rand
	batchTrips int
	interval   time.Duration

	ready atomic.Bool
}

// New creates a Feed. A nil publisher disables publishing; batches are still
// generated and measured, which keeps the service useful for soak testing
// without a broker.
func New(batches *dataset.Generator, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Feed {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Feed{
		batches:    batches,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		clock:      clock,
		rng:        opts.RNG,
		batchTrips: opts.BatchTrips,
		interval:   opts.Interval,
	}
}

// CheckReadiness returns nil once at least one batch has completed.
func (f *Feed) CheckReadiness(_ context.Context) error {
	if !f.ready.Load() {
		return errors.New("feed has not completed a batch yet")
	}
	return nil
}

type batchResult int

const (
	batchOK batchResult = iota
	batchRetry
	batchStop
)

// Run executes the batch loop until the context is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	f.logger.Info("feed started", "batch_trips", f.batchTrips, "interval", f.interval)
	f.metrics.FeedRunning.Set(1)
	defer f.metrics.FeedRunning.Set(0)

	// Exponential backoff for publish failures: start at 200ms, double each
	// retry, cap at 5s. Applied between batches, not per message.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		switch f.runBatch(ctx, &backoff, maxBackoff) {
		case batchStop:
			f.logger.Info("feed stopping", "reason", ctx.Err())
			return nil
		case batchRetry:
			// The backoff wait already happened; run the next batch without
			// parking on the full interval.
			continue
		case batchOK:
		}

		select {
		case <-ctx.Done():
			f.logger.Info("feed stopping", "reason", ctx.Err())
			return nil
		case <-f.clock.After(f.interval):
		}
	}
}

// runBatch generates, scores, and publishes one batch.
func (f *Feed) runBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) batchResult {
	if ctx.Err() != nil {
		return batchStop
	}

	start := time.Now()
	ds, trialErrs := f.batches.Generate(f.rng, f.batchTrips)

	for _, te := range trialErrs {
		f.logger.Warn("trial failed, skipping trip", "trial", te.Trial, "error", te.Err)
		f.metrics.TrialErrors.Inc()
	}

	summaries := make([]score.Summary, 0, len(ds.Summaries))
	for i := range ds.Summaries {
		if ds.Summaries[i].TripID == "" {
			continue
		}
		summaries = append(summaries, ds.Summaries[i])
		f.metrics.ScoreDistribution.Observe(ds.Summaries[i].SafeDrivingScore)
	}
	f.metrics.TripsGenerated.Add(float64(len(summaries)))

	if f.publisher != nil && len(summaries) > 0 {
		if err := f.publisher.PublishSummaries(ctx, summaries); err != nil {
			f.logger.Error("publish batch failed", "error", err, "batch_size", len(summaries))
			f.metrics.PublishErrors.Inc()
			if !f.backoffOrStop(ctx, backoff, maxBackoff) {
				return batchStop
			}
			return batchRetry
		}
		f.metrics.SummariesPublished.Add(float64(len(summaries)))
	}

	*backoff = 200 * time.Millisecond
	f.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	f.ready.Store(true)

	f.logger.Debug("batch complete", "trips", len(summaries), "failed_trials", len(trialErrs))
	return batchOK
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the context was cancelled while waiting.
func (f *Feed) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-f.clock.After(*backoff):
	}
	*backoff = min(*backoff*2, maxBackoff)
	return true
}
