package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "birdband"

// Metrics holds the Prometheus counters, histograms, and gauges for ingestion
// and search.
type Metrics struct {
	SightingsIngested prometheus.Counter
	SightingsOrphaned prometheus.Counter
	BirdsCreated      prometheus.Counter
	Birds             prometheus.Gauge
	IndexEntries      prometheus.Gauge
	PipelineRunning   prometheus.Gauge

	FeedFetchDuration prometheus.Histogram

	SearchQueries       prometheus.Counter
	SearchQueryDuration prometheus.Histogram

	// Kafka stream and publishing metrics.
	MessagesConsumed prometheus.Counter
	TransformErrors  prometheus.Counter
	BirdsPublished   prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		SightingsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sightings_ingested_total",
			Help:      "Total sightings added to the store.",
		}),
		SightingsOrphaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sightings_orphaned_total",
			Help:      "Sightings without a band number, never attached to a bird.",
		}),
		BirdsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "birds_created_total",
			Help:      "Total birds created by the aggregator.",
		}),
		Birds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "birds",
			Help:      "Distinct birds currently known.",
		}),
		IndexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_index_entries",
			Help:      "Entries in the search index after the last rebuild.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of the initial feed fetch.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SearchQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_queries_total",
			Help:      "Total search queries answered.",
		}),
		SearchQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_query_duration_seconds",
			Help:      "Search query latency.",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total raw sighting messages read from the stream topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Stream messages that could not be decoded as feed rows.",
		}),
		BirdsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "birds_published_total",
			Help:      "Bird summaries written to the sink topic.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SightingsIngested,
		m.SightingsOrphaned,
		m.BirdsCreated,
		m.Birds,
		m.IndexEntries,
		m.PipelineRunning,
		m.FeedFetchDuration,
		m.SearchQueries,
		m.SearchQueryDuration,
		m.MessagesConsumed,
		m.TransformErrors,
		m.BirdsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
