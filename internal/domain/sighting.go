package domain

import (
	"strings"
	"time"
)

// MissingBand is substituted for an unread band position.
const MissingBand = "X"

// BandNumber is the authoritative numeric identifier of a bird.
type BandNumber float64

// String renders the band number in its shortest decimal form, e.g. "1234".
func (b BandNumber) String() string { return formatNumber(float64(b)) }

// Sighting is one observed-and-recorded event of a banded bird. Band
// positions are empty when unread.
type Sighting struct {
	Seq              int
	UL, UR, LR, LL   string
	BandNumber       BandNumber
	HasBandNumber    bool
	SightingLocation string
	Lat, Lng         float64
	hasLat, hasLng   bool
	Date             time.Time
	DateValid        bool
	IngestedAt       time.Time

	// BirdID is a non-owning reference to the owning Bird, resolved through
	// the aggregator. Zero until the sighting has been attached.
	BirdID   BandNumber
	Attached bool

	fields map[string]Value
}

// NewSighting builds a Sighting from a normalized payload. seq is the
// sighting's position in the store.
func NewSighting(seq int, p Payload) *Sighting {
	s := &Sighting{
		Seq:        seq,
		Date:       p.Date,
		DateValid:  p.DateValid,
		IngestedAt: clock.Now(),
		fields:     p.Fields,
	}

	s.UL = bandField(p, FieldUL)
	s.UR = bandField(p, FieldUR)
	s.LR = bandField(p, FieldLR)
	s.LL = bandField(p, FieldLL)

	if v, ok := p.Field(FieldSightingLocation); ok {
		s.SightingLocation = v.String()
	}
	if v, ok := p.Field(FieldLat); ok {
		s.Lat, s.hasLat = v.Number()
	}
	if v, ok := p.Field(FieldLng); ok {
		s.Lng, s.hasLng = v.Number()
	}

	s.BandNumber, s.HasBandNumber = p.BirdID, p.HasBirdID
	return s
}

func bandField(p Payload, name string) string {
	v, ok := p.Field(name)
	if !ok {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(v.String()))
}

// BandString concatenates the band readings in ul, ll, ur, lr order,
// substituting [MissingBand] for unread positions.
func (s *Sighting) BandString() string {
	var b strings.Builder
	b.Grow(4)
	for _, pos := range [...]string{s.UL, s.LL, s.UR, s.LR} {
		if pos == "" {
			pos = MissingBand
		}
		b.WriteString(pos)
	}
	return b.String()
}

// Bands returns the readings in ul, ur, lr, ll order, empty when unread.
func (s *Sighting) Bands() [4]string {
	return [4]string{s.UL, s.UR, s.LR, s.LL}
}

// HasLocation reports whether both coordinates are present.
func (s *Sighting) HasLocation() bool { return s.hasLat && s.hasLng }

// Field returns the normalized value of an allowed field.
func (s *Sighting) Field(name string) (Value, bool) {
	v, ok := s.fields[name]
	return v, ok
}
