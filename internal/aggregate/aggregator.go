// Package aggregate groups sightings into per-bird identities keyed by band
// number.
package aggregate

import (
	"errors"

	"github.com/couchcryptid/birdband-service/internal/domain"
)

// ErrMissingBandNumber is returned when a sighting has no usable band number.
// Such sightings stay in the store but never belong to a Bird.
var ErrMissingBandNumber = errors.New("sighting has no band number")

// State is the aggregation state for one process or session: the band-number
// index, the birds in creation order, and the marker counter.
type State struct {
	byBand  map[domain.BandNumber]*domain.Bird
	order   []*domain.Bird
	created int
}

// NewState returns empty aggregation state.
func NewState() *State {
	return &State{byBand: make(map[domain.BandNumber]*domain.Bird)}
}

// Aggregator finds or creates the Bird owning each sighting.
type Aggregator struct {
	state *State
}

// New creates an Aggregator over the given state. A nil state starts empty.
func New(state *State) *Aggregator {
	if state == nil {
		state = NewState()
	}
	return &Aggregator{state: state}
}

// Attach appends s to the Bird owning its band number, creating the Bird on
// first sight. The boolean reports whether a new Bird was created.
func (a *Aggregator) Attach(s *domain.Sighting) (*domain.Bird, bool, error) {
	if !s.HasBandNumber {
		return nil, false, ErrMissingBandNumber
	}

	bird, ok := a.state.byBand[s.BandNumber]
	created := false
	if !ok {
		bird = &domain.Bird{
			BandNumber: s.BandNumber,
			BandString: s.BandString(),
			Marker:     a.nextMarker(),
		}
		a.state.byBand[s.BandNumber] = bird
		a.state.order = append(a.state.order, bird)
		created = true
	}

	bird.AddSighting(s)
	s.BirdID = bird.BandNumber
	s.Attached = true
	return bird, created, nil
}

// nextMarker advances the creation counter and picks the palette slot.
// Slot 0 of every cycle of five is [domain.NoMarker].
func (a *Aggregator) nextMarker() domain.Marker {
	index := a.state.created % len(domain.MarkerPalette)
	a.state.created++
	return domain.MarkerPalette[index]
}

// Lookup returns the Bird for a band number.
func (a *Aggregator) Lookup(id domain.BandNumber) (*domain.Bird, bool) {
	b, ok := a.state.byBand[id]
	return b, ok
}

// Owner resolves a sighting's BirdID back to its Bird.
func (a *Aggregator) Owner(s *domain.Sighting) (*domain.Bird, bool) {
	if !s.Attached {
		return nil, false
	}
	return a.Lookup(s.BirdID)
}

// Birds returns every Bird in creation order.
func (a *Aggregator) Birds() []*domain.Bird {
	out := make([]*domain.Bird, len(a.state.order))
	copy(out, a.state.order)
	return out
}

// BirdsFor resolves the distinct owners of a subset of sightings in order of
// first appearance. Orphaned sightings are skipped.
func (a *Aggregator) BirdsFor(sightings []*domain.Sighting) []*domain.Bird {
	seen := make(map[domain.BandNumber]struct{})
	var out []*domain.Bird
	for _, s := range sightings {
		b, ok := a.Owner(s)
		if !ok {
			continue
		}
		if _, dup := seen[b.BandNumber]; dup {
			continue
		}
		seen[b.BandNumber] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Len returns the number of Birds.
func (a *Aggregator) Len() int { return len(a.state.order) }

// Created returns how many Birds have been created, which drives the marker
// rotation.
func (a *Aggregator) Created() int { return a.state.created }
