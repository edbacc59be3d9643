package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// trip generation feed.
type Metrics struct {
	TripsGenerated     prometheus.Counter
	TrialErrors        prometheus.Counter
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	FeedRunning        prometheus.Gauge

	// Batch processing metrics.
	BatchDuration prometheus.Histogram

	// Distribution of safe-driving scores across generated trips.
	ScoreDistribution prometheus.Histogram
}

// NewMetrics creates and registers all feed metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TripsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsim",
			Name:      "trips_generated_total",
			Help:      "Total synthetic trips generated.",
		}),
		TrialErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsim",
			Name:      "trial_errors_total",
			Help:      "Total trials that failed to generate or score.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsim",
			Name:      "summaries_published_total",
			Help:      "Total trip summaries written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripsim",
			Name:      "publish_errors_total",
			Help:      "Total failed publish attempts.",
		}),
		FeedRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripsim",
			Name:      "feed_running",
			Help:      "1 when the feed loop is active, 0 when shut down.",
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripsim",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete generate-score-publish batch.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ScoreDistribution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripsim",
			Name:      "safe_driving_score",
			Help:      "Distribution of safe-driving scores over generated trips.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
	}

	prometheus.MustRegister(
		m.TripsGenerated,
		m.TrialErrors,
		m.SummariesPublished,
		m.PublishErrors,
		m.FeedRunning,
		m.BatchDuration,
		m.ScoreDistribution,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TripsGenerated:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripsim", Name: "trips_generated_total"}),
		TrialErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripsim", Name: "trial_errors_total"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripsim", Name: "summaries_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripsim", Name: "publish_errors_total"}),
		FeedRunning:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tripsim", Name: "feed_running"}),
		BatchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tripsim", Name: "batch_duration_seconds"}),
		ScoreDistribution:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tripsim", Name: "safe_driving_score"}),
	}
}
