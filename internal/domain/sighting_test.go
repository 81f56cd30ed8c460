package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSighting_EndToEndRow(t *testing.T) {
	s := NewSighting(0, Normalize(row(map[string]string{
		"ul": "A", "ur": "B", "ll": "C", "lr": "D",
		"bandnumber":       "1234",
		"sightinglocation": "JCNWR",
		"lat":              "21.3",
		"lng":              "-157.8",
		"date":             "2021-05-01",
	})))

	require.True(t, s.HasBandNumber)
	assert.Equal(t, BandNumber(1234), s.BandNumber)
	assert.Equal(t, testRefuge, s.SightingLocation)
	assert.True(t, s.HasLocation())
	assert.Equal(t, "ACBD", s.BandString())
	assert.Equal(t, [4]string{"A", "B", "D", "C"}, s.Bands())
	assert.True(t, s.DateValid)
	assert.False(t, s.Attached)
}

func TestSighting_BandString(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"all present", map[string]string{"ul": "A", "ur": "B", "lr": "C", "ll": "D"}, "ADBC"},
		{"ur missing", map[string]string{"ul": "A", "lr": "C", "ll": "D"}, "ADXC"},
		{"none", map[string]string{}, "XXXX"},
		{"lower case read", map[string]string{"ul": "a"}, "AXXX"},
		{"blank counts as missing", map[string]string{"ul": " ", "ll": "B"}, "XBXX"},
		{"unrelated fields", map[string]string{"ul": "A", "bandnumber": "9", "lat": "1"}, "AXXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSighting(0, Normalize(row(tt.fields)))
			got := s.BandString()
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 4)
		})
	}
}

func TestSighting_HasLocation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		want   bool
	}{
		{"both", map[string]string{"lat": "21.3", "lng": "-157.8"}, true},
		{"zero coordinates", map[string]string{"lat": "0", "lng": "0"}, true},
		{"lat only", map[string]string{"lat": "21.3"}, false},
		{"non-numeric", map[string]string{"lat": "north", "lng": "-157.8"}, false},
		{"neither", map[string]string{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSighting(0, Normalize(row(tt.fields)))
			assert.Equal(t, tt.want, s.HasLocation())
		})
	}
}

func TestSighting_Summarize(t *testing.T) {
	s := NewSighting(3, Normalize(row(map[string]string{
		"ul": "A", "bandnumber": "1234", "lat": "21.3", "lng": "-157.8", "date": "2021-05-01",
	})))

	sum := s.Summarize()
	assert.Equal(t, 3, sum.Seq)
	assert.Equal(t, "AXXX", sum.BandString)
	require.NotNil(t, sum.BandNumber)
	assert.Equal(t, 1234.0, *sum.BandNumber)
	require.NotNil(t, sum.Lat)
	assert.Equal(t, 21.3, *sum.Lat)
	require.NotNil(t, sum.Date)
	assert.Equal(t, "2021-05-01", *sum.Date)

	empty := NewSighting(4, Normalize(row(nil))).Summarize()
	assert.Nil(t, empty.BandNumber)
	assert.Nil(t, empty.Lat)
	assert.Nil(t, empty.Date)
}

func TestSighting_Field(t *testing.T) {
	s := NewSighting(0, Normalize(row(map[string]string{"bandnumber": "1234"})))

	v, ok := s.Field(FieldBandNumber)
	require.True(t, ok)
	assert.Equal(t, KindNumber, v.Kind())
	assert.Equal(t, "1234", v.String())

	_, ok = s.Field(FieldDate)
	assert.False(t, ok)
}

func TestBandNumber_String(t *testing.T) {
	assert.Equal(t, "1234", BandNumber(1234).String())
	assert.Equal(t, "1234.5", BandNumber(1234.5).String())
}

func TestMarker_URL(t *testing.T) {
	assert.Empty(t, NoMarker.URL())
	assert.Equal(t, "images/sienna.png", Marker("sienna").URL())
}

func TestBird_TaggedAt(t *testing.T) {
	b := &Bird{BandNumber: 1}
	assert.Empty(t, b.TaggedAt())

	b.AddSighting(NewSighting(0, Normalize(row(map[string]string{"sightinglocation": "JCNWR"}))))
	b.AddSighting(NewSighting(1, Normalize(row(map[string]string{"sightinglocation": "Kahuku"}))))
	assert.Equal(t, testRefuge, b.TaggedAt())

	sum := b.Summarize()
	assert.Equal(t, 2, sum.NumSightings)
	assert.Len(t, sum.Sightings, 2)
}
