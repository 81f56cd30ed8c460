// Package store owns the ordered collection of sightings.
package store

import (
	"errors"
	"log/slog"

	"github.com/couchcryptid/birdband-service/internal/aggregate"
	"github.com/couchcryptid/birdband-service/internal/domain"
	"github.com/couchcryptid/birdband-service/internal/observability"
)

// Store holds every ingested Sighting in ingestion order. Each sighting is
// attached to its Bird before it becomes part of the store.
type Store struct {
	sightings  []*domain.Sighting
	aggregator *aggregate.Aggregator
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates an empty Store that aggregates through agg.
func New(agg *aggregate.Aggregator, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		aggregator: agg,
		logger:     logger,
		metrics:    metrics,
	}
}

// Load normalizes raw feed rows, builds a Sighting for each, and appends them
// to the store. It returns the sightings created by this call.
func (s *Store) Load(records []domain.RawRecord) []*domain.Sighting {
	added := make([]*domain.Sighting, 0, len(records))
	for _, rec := range records {
		added = append(added, s.Add(domain.Normalize(rec)))
	}
	return added
}

// Add constructs a Sighting from a normalized payload, attaches it to its
// Bird, and appends it. Sightings without a band number are kept but never
// attached.
func (s *Store) Add(p domain.Payload) *domain.Sighting {
	sighting := domain.NewSighting(len(s.sightings), p)

	bird, created, err := s.aggregator.Attach(sighting)
	switch {
	case errors.Is(err, aggregate.ErrMissingBandNumber):
		s.logger.Debug("sighting has no band number, not aggregated",
			"seq", sighting.Seq,
			"bandstring", sighting.BandString(),
		)
		s.metrics.SightingsOrphaned.Inc()
	case created:
		s.metrics.BirdsCreated.Inc()
		s.metrics.Birds.Set(float64(s.aggregator.Len()))
		s.logger.Debug("bird created",
			"bandnumber", bird.BandNumber.String(),
			"bandstring", bird.BandString,
			"marker", string(bird.Marker),
		)
	}

	if _, ok := p.Field(domain.FieldDate); ok && !p.DateValid {
		s.logger.Debug("unparseable sighting date", "seq", sighting.Seq)
	}

	s.sightings = append(s.sightings, sighting)
	s.metrics.SightingsIngested.Inc()
	return sighting
}

// Sightings returns every sighting in ingestion order.
func (s *Store) Sightings() []*domain.Sighting {
	out := make([]*domain.Sighting, len(s.sightings))
	copy(out, s.sightings)
	return out
}

// Len returns the number of sightings.
func (s *Store) Len() int { return len(s.sightings) }

// Aggregator returns the aggregator the store attaches through.
func (s *Store) Aggregator() *aggregate.Aggregator { return s.aggregator }
