package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRefuge = "James Campebell National Wildlife Refuge"

// row builds a feed row with "gsx$"-prefixed, "$t"-wrapped cells.
func row(fields map[string]string) RawRecord {
	rec := RawRecord{}
	for k, v := range fields {
		rec[FieldPrefix+k] = json.RawMessage(fmt.Sprintf(`{"$t":%q}`, v))
	}
	return rec
}

func TestNormalize_EndToEndRow(t *testing.T) {
	p := Normalize(row(map[string]string{
		"ul": "A", "ur": "B", "ll": "C", "lr": "D",
		"bandnumber":       "1234",
		"sightinglocation": "JCNWR",
		"lat":              "21.3",
		"lng":              "-157.8",
		"date":             "2021-05-01",
	}))

	bn, ok := p.Fields[FieldBandNumber].Number()
	require.True(t, ok)
	assert.Equal(t, 1234.0, bn)
	assert.True(t, p.HasBirdID)
	assert.Equal(t, BandNumber(1234), p.BirdID)

	assert.Equal(t, testRefuge, p.Fields[FieldSightingLocation].String())

	lat, ok := p.Fields[FieldLat].Number()
	require.True(t, ok)
	assert.Equal(t, 21.3, lat)

	assert.True(t, p.DateValid)
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, "A", p.Fields[FieldUL].String())
}

func TestNormalize_AllowList(t *testing.T) {
	rec := row(map[string]string{"ul": "A", "observer": "KM", "notes": "tagged"})
	rec["id"] = json.RawMessage(`{"$t":"row-1"}`)
	rec["gsx$bandnumberx"] = json.RawMessage(`{"$t":"9"}`)

	p := Normalize(rec)

	assert.Len(t, p.Fields, 1)
	assert.Contains(t, p.Fields, FieldUL)
}

func TestNormalize_CellShapes(t *testing.T) {
	rec := RawRecord{
		"gsx$ul":         json.RawMessage(`{"text":"A"}`),
		"gsx$ur":         json.RawMessage(`"B"`),
		"gsx$lr":         json.RawMessage(`"C"`),
		"gsx$bandnumber": json.RawMessage(`1234`),
		"gsx$ll":         json.RawMessage(`null`),
		"gsx$lat":        json.RawMessage(`{"other":"1"}`),
		"gsx$lng":        json.RawMessage(`[1,2]`),
	}

	p := Normalize(rec)

	assert.Equal(t, "A", p.Fields[FieldUL].String())
	assert.Equal(t, "B", p.Fields[FieldUR].String())
	assert.Equal(t, "C", p.Fields[FieldLR].String())
	n, ok := p.Fields[FieldBandNumber].Number()
	assert.True(t, ok)
	assert.Equal(t, 1234.0, n)
	assert.NotContains(t, p.Fields, FieldLL)
	assert.NotContains(t, p.Fields, FieldLat)
	assert.NotContains(t, p.Fields, FieldLng)
}

func TestNormalize_UnprefixedColumnsDropped(t *testing.T) {
	rec := RawRecord{
		"gsx$bandnumber": json.RawMessage(`{"$t":"1234"}`),
		"bandnumber":     json.RawMessage(`"9999"`),
		"ul":             json.RawMessage(`"A"`),
		"lat":            json.RawMessage(`"21.3"`),
	}

	for range 50 {
		p := Normalize(rec)
		require.True(t, p.HasBirdID)
		assert.Equal(t, BandNumber(1234), p.BirdID)
		assert.NotContains(t, p.Fields, FieldUL)
		assert.NotContains(t, p.Fields, FieldLat)
	}
}

func TestNormalize_LocationShortcutFailsOpen(t *testing.T) {
	p := Normalize(row(map[string]string{"sightinglocation": "Kaena Point"}))
	assert.Equal(t, "Kaena Point", p.Fields[FieldSightingLocation].String())
}

func TestNormalize_MissingBandNumber(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"absent", map[string]string{"ul": "A"}},
		{"empty", map[string]string{"bandnumber": ""}},
		{"not numeric", map[string]string{"bandnumber": "unread"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(row(tt.fields))
			assert.False(t, p.HasBirdID)
		})
	}
}

func TestNormalize_Dates(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  time.Time
		valid bool
	}{
		{"iso", "2021-05-01", time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"us slash", "5/14/2021", time.Date(2021, 5, 14, 0, 0, 0, 0, time.UTC), true},
		{"month name", "May 3, 2021", time.Date(2021, 5, 3, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not a date", time.Time{}, false},
		{"blank", "  ", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(row(map[string]string{"date": tt.raw}))
			assert.Equal(t, tt.valid, p.DateValid)
			assert.Equal(t, tt.want, p.Date)
		})
	}
}

func TestNormalize_NoDateField(t *testing.T) {
	p := Normalize(row(map[string]string{"ul": "A"}))
	assert.False(t, p.DateValid)
	assert.True(t, p.Date.IsZero())
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		numeric bool
		want    float64
	}{
		{"integer", "1234", true, 1234},
		{"decimal", "21.3", true, 21.3},
		{"negative", "-157.8", true, -157.8},
		{"padded", " 42 ", true, 42},
		{"hex literal", "0x1F", false, 0},
		{"binary literal", "0b1", false, 0},
		{"octal literal", "0o17", false, 0},
		{"hex float", "0x1Fp0", false, 0},
		{"underscored", "1_000", false, 0},
		{"leading zero", "0017", true, 17},
		{"exponent", "1e3", true, 1000},
		{"letter", "A", false, 0},
		{"trailing text", "12abc", false, 0},
		{"empty", "", false, 0},
		{"infinity", "Inf", false, 0},
		{"nan", "NaN", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := coerce(StringValue(tt.in))
			n, ok := v.Number()
			assert.Equal(t, tt.numeric, ok)
			if tt.numeric {
				assert.Equal(t, tt.want, n)
			} else {
				assert.Equal(t, tt.in, v.String())
			}
		})
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	for _, in := range []string{"1234", "21.3", "A", "", "0x1F"} {
		once := coerce(StringValue(in))
		assert.Equal(t, once, coerce(once), in)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{
		"n": NumberValue(1234),
		"s": StringValue("A"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1234,"s":"A"}`, string(data))
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"gsx$ul":{"$t":"A"}}`))
	require.NoError(t, err)
	assert.Len(t, rec, 1)

	_, err = ParseRecord([]byte(`not-json{{{`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse feed row")

	_, err = ParseRecord([]byte(`null`))
	require.Error(t, err)
}

func TestNewSighting_IngestedAt(t *testing.T) {
	fixed := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	s := NewSighting(0, Normalize(row(map[string]string{"ul": "A"})))
	assert.Equal(t, fixed, s.IngestedAt)
}
