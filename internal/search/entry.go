// Package search builds a prefix index over the band-string and band number
// of every sighting and answers type-ahead queries against it.
package search

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/birdband-service/internal/domain"
)

// EntryType tells which identifier an index entry carries.
type EntryType int

const (
	BandStringEntry EntryType = iota
	BandNumberEntry
)

func (t EntryType) String() string {
	switch t {
	case BandStringEntry:
		return "bandstring"
	case BandNumberEntry:
		return "bandnumber"
	default:
		return fmt.Sprintf("EntryType(%d)", int(t))
	}
}

// MarshalText encodes the type as "bandstring" or "bandnumber".
func (t EntryType) MarshalText() ([]byte, error) {
	switch t {
	case BandStringEntry, BandNumberEntry:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("unknown entry type %d", int(t))
	}
}

// Entry is one searchable value derived from a sighting. Tokens holds the band
// readings in ul, ur, lr, ll order and is not used for matching.
type Entry struct {
	Tokens [4]string
	Val    string
	Type   EntryType
	Source *domain.Sighting
}

// Selection is what a consumer receives when a result is picked.
type Selection struct {
	Type   EntryType
	Val    string
	Source *domain.Sighting
}

// Select classifies the entry for the consumer.
func (e Entry) Select() Selection {
	return Selection{Type: e.Type, Val: e.Val, Source: e.Source}
}

// Tokenize splits s on whitespace into lower-case tokens. Indexing and
// querying share it.
func Tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Build derives two entries per sighting, band-string then band number,
// preserving input order. It never mutates the sightings.
func Build(sightings []*domain.Sighting) []Entry {
	entries := make([]Entry, 0, 2*len(sightings))
	for _, s := range sightings {
		tokens := s.Bands()
		entries = append(entries, Entry{
			Tokens: tokens,
			Val:    s.BandString(),
			Type:   BandStringEntry,
			Source: s,
		})

		var number string
		if s.HasBandNumber {
			number = s.BandNumber.String()
		}
		entries = append(entries, Entry{
			Tokens: tokens,
			Val:    number,
			Type:   BandNumberEntry,
			Source: s,
		})
	}
	return entries
}
