package domain

// Marker is a visual category assigned to a Bird at creation. The zero value
// means no marker.
type Marker string

// NoMarker is the empty palette slot.
const NoMarker Marker = ""

// MarkerPalette is the rotating palette; slot 0 is always [NoMarker].
var MarkerPalette = [5]Marker{NoMarker, "bluepoi", "sienna", "turquoise", "purplepoi"}

// URL returns the marker image path, or "" for [NoMarker].
func (m Marker) URL() string {
	if m == NoMarker {
		return ""
	}
	return "images/" + string(m) + ".png"
}

// Bird groups every sighting sharing a band number. BandString is a snapshot
// of the founding sighting and is not refreshed by later sightings.
type Bird struct {
	BandNumber BandNumber
	BandString string
	Sightings  []*Sighting
	Marker     Marker
}

// AddSighting appends a sighting in discovery order.
func (b *Bird) AddSighting(s *Sighting) *Bird {
	b.Sightings = append(b.Sightings, s)
	return b
}

// TaggedAt is the location of the first sighting.
func (b *Bird) TaggedAt() string {
	if len(b.Sightings) == 0 {
		return ""
	}
	return b.Sightings[0].SightingLocation
}

// BirdSummary is a read-only copy of a Bird for consumers outside the
// ingestion pass.
type BirdSummary struct {
	BandNumber   BandNumber        `json:"bandnumber"`
	BandString   string            `json:"bandstring"`
	Marker       Marker            `json:"marker,omitempty"`
	MarkerURL    string            `json:"marker_url,omitempty"`
	NumSightings int               `json:"num_sightings"`
	TaggedAt     string            `json:"tagged_at,omitempty"`
	Sightings    []SightingSummary `json:"sightings,omitempty"`
}

// SightingSummary is the serialized form of a Sighting.
type SightingSummary struct {
	Seq              int      `json:"seq"`
	BandString       string   `json:"bandstring"`
	BandNumber       *float64 `json:"bandnumber,omitempty"`
	SightingLocation string   `json:"sightinglocation,omitempty"`
	Lat              *float64 `json:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty"`
	Date             *string  `json:"date,omitempty"`
}

// Summarize copies the bird and its sightings.
func (b *Bird) Summarize() BirdSummary {
	sum := BirdSummary{
		BandNumber:   b.BandNumber,
		BandString:   b.BandString,
		Marker:       b.Marker,
		MarkerURL:    b.Marker.URL(),
		NumSightings: len(b.Sightings),
		TaggedAt:     b.TaggedAt(),
		Sightings:    make([]SightingSummary, 0, len(b.Sightings)),
	}
	for _, s := range b.Sightings {
		sum.Sightings = append(sum.Sightings, s.Summarize())
	}
	return sum
}

// Summarize copies the sighting into its serialized form.
func (s *Sighting) Summarize() SightingSummary {
	out := SightingSummary{
		Seq:              s.Seq,
		BandString:       s.BandString(),
		SightingLocation: s.SightingLocation,
	}
	if s.HasBandNumber {
		n := float64(s.BandNumber)
		out.BandNumber = &n
	}
	if s.HasLocation() {
		lat, lng := s.Lat, s.Lng
		out.Lat, out.Lng = &lat, &lng
	}
	if s.DateValid {
		d := s.Date.Format("2006-01-02")
		out.Date = &d
	}
	return out
}
