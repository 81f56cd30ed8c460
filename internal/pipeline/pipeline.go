package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/birdband-service/internal/domain"
	"github.com/couchcryptid/birdband-service/internal/observability"
	"github.com/couchcryptid/birdband-service/internal/search"
	"github.com/couchcryptid/birdband-service/internal/store"
)

// FeedExtractor performs the single bulk feed fetch.
type FeedExtractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
}

// BatchExtractor reads up to batchSize raw sighting rows from a stream.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// BirdLoader publishes bird summaries downstream.
type BirdLoader interface {
	LoadBirds(ctx context.Context, birds []domain.BirdSummary) error
}

// Pipeline ingests the feed into the store, keeps the search index in sync,
// and serves read access to both. Ingestion is the only writer.
type Pipeline struct {
	feed      FeedExtractor
	stream    BatchExtractor
	loader    BirdLoader
	store     *store.Store
	index     *search.Index
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int

	mu sync.RWMutex
}

// Option configures optional pipeline stages.
type Option func(*Pipeline)

// WithStream consumes additional raw sightings after the initial feed.
func WithStream(e BatchExtractor, batchSize int) Option {
	return func(p *Pipeline) {
		p.stream = e
		p.batchSize = batchSize
	}
}

// WithBirdLoader publishes summaries of new and updated birds.
func WithBirdLoader(l BirdLoader) Option {
	return func(p *Pipeline) { p.loader = l }
}

// New creates a Pipeline over the given store and index.
func New(feed FeedExtractor, st *store.Store, idx *search.Index, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		feed:      feed,
		store:     st,
		index:     idx,
		logger:    logger,
		metrics:   metrics,
		batchSize: 50,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once the initial feed has been ingested.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("feed has not been ingested yet")
	}
	return nil
}

// Ready reports whether the initial feed has been ingested.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// Run fetches the feed once and ingests it. A fetch failure is returned
// without retry. With a stream configured, Run then consumes batches until
// the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	start := time.Now()
	rows, err := p.feed.Extract(ctx)
	p.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}

	added := p.Ingest(rows)
	p.publish(ctx, added)
	p.ready.Store(true)
	p.logger.Info("feed ingested",
		"rows", len(rows),
		"sightings", p.store.Len(),
		"birds", p.store.Aggregator().Len(),
		"index_entries", p.index.Len(),
	)

	if p.stream == nil {
		return nil
	}
	return p.consume(ctx)
}

// Ingest adds rows to the store and rebuilds the search index over the whole
// store. It returns the sightings created.
func (p *Pipeline) Ingest(rows []domain.RawRecord) []*domain.Sighting {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := p.store.Load(rows)
	p.index.Rebuild(p.store.Sightings())
	p.metrics.IndexEntries.Set(float64(p.index.Len()))
	return added
}

// publish sends summaries of the birds owning the given sightings.
func (p *Pipeline) publish(ctx context.Context, sightings []*domain.Sighting) {
	if p.loader == nil {
		return
	}

	p.mu.RLock()
	birds := p.store.Aggregator().BirdsFor(sightings)
	summaries := make([]domain.BirdSummary, 0, len(birds))
	for _, b := range birds {
		summaries = append(summaries, b.Summarize())
	}
	p.mu.RUnlock()

	if len(summaries) == 0 {
		return
	}
	if err := p.loader.LoadBirds(ctx, summaries); err != nil {
		p.logger.Error("publish birds failed", "error", err, "birds", len(summaries))
		return
	}
	p.metrics.BirdsPublished.Add(float64(len(summaries)))
}

// Search answers a type-ahead query against the index.
func (p *Pipeline) Search(partial string, limit int) []search.Entry {
	start := time.Now()
	results := p.index.Query(partial, limit)
	p.metrics.SearchQueries.Inc()
	p.metrics.SearchQueryDuration.Observe(time.Since(start).Seconds())
	return results
}

// Birds returns summaries of every bird in creation order.
func (p *Pipeline) Birds() []domain.BirdSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	birds := p.store.Aggregator().Birds()
	out := make([]domain.BirdSummary, 0, len(birds))
	for _, b := range birds {
		out = append(out, b.Summarize())
	}
	return out
}

// Bird returns the summary of one bird.
func (p *Pipeline) Bird(id domain.BandNumber) (domain.BirdSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	b, ok := p.store.Aggregator().Lookup(id)
	if !ok {
		return domain.BirdSummary{}, false
	}
	return b.Summarize(), true
}

// Owner returns the summary of the bird a sighting belongs to.
func (p *Pipeline) Owner(s *domain.Sighting) (domain.BirdSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	b, ok := p.store.Aggregator().Owner(s)
	if !ok {
		return domain.BirdSummary{}, false
	}
	return b.Summarize(), true
}
