package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// FieldPrefix is the column prefix the spreadsheet feed puts on every key.
const FieldPrefix = "gsx$"

// Field names kept from a feed row.
const (
	FieldLat              = "lat"
	FieldLng              = "lng"
	FieldLL               = "ll"
	FieldLR               = "lr"
	FieldUL               = "ul"
	FieldUR               = "ur"
	FieldSightingLocation = "sightinglocation"
	FieldDate             = "date"
	FieldBandNumber       = "bandnumber"
)

// AllowedFields is the closed set of columns read from a feed row.
var AllowedFields = map[string]struct{}{
	FieldLat:              {},
	FieldLng:              {},
	FieldLL:               {},
	FieldLR:               {},
	FieldUL:               {},
	FieldUR:               {},
	FieldSightingLocation: {},
	FieldDate:             {},
	FieldBandNumber:       {},
}

// LocationShortcuts expands location codes typed into the sheet.
var LocationShortcuts = map[string]string{
	"JCNWR": "James Campebell National Wildlife Refuge",
}

// RawRecord is one feed row: column name to the cell's JSON value.
type RawRecord map[string]json.RawMessage

// Payload is a normalized feed row ready for Sighting construction. No field
// is guaranteed present.
type Payload struct {
	Fields    map[string]Value
	Date      time.Time
	DateValid bool
	BirdID    BandNumber
	HasBirdID bool
}

// Field returns a normalized field by base name.
func (p Payload) Field(name string) (Value, bool) {
	v, ok := p.Fields[name]
	return v, ok
}

// Normalize turns one feed row into a typed payload. It keeps only
// [AllowedFields], unwraps cell values, expands location shortcuts, coerces
// numeric text and parses the date. Malformed values are tolerated.
func Normalize(rec RawRecord) Payload {
	p := Payload{Fields: make(map[string]Value, len(AllowedFields))}

	var rawDate string
	for key, raw := range rec {
		name, ok := strings.CutPrefix(key, FieldPrefix)
		if !ok {
			continue
		}
		if _, ok := AllowedFields[name]; !ok {
			continue
		}
		text, ok := unwrapCell(raw)
		if !ok {
			continue
		}
		if expanded, ok := LocationShortcuts[text]; ok {
			text = expanded
		}
		if name == FieldDate {
			rawDate = text
		}
		p.Fields[name] = coerce(StringValue(text))
	}

	if _, ok := p.Fields[FieldDate]; ok {
		p.Date, p.DateValid = parseDate(rawDate)
	}

	if v, ok := p.Fields[FieldBandNumber]; ok {
		if n, ok := v.Number(); ok {
			p.BirdID = BandNumber(n)
			p.HasBirdID = true
		}
	}

	return p
}

// unwrapCell extracts the cell text from {"$t": "..."} or {"text": "..."}
// wrappers, or from a plain JSON scalar.
func unwrapCell(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	switch raw[0] {
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return "", false
		}
		for _, k := range []string{"$t", "text"} {
			if inner, ok := wrapper[k]; ok {
				return unwrapCell(inner)
			}
		}
		return "", false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '[':
		return "", false
	default:
		// numbers and booleans keep their literal text
		return string(raw), true
	}
}

// parseDate accepts the date layouts spreadsheet users type, in UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseRecord decodes a single JSON feed row.
func ParseRecord(data []byte) (RawRecord, error) {
	var rec RawRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse feed row: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("parse feed row: not an object")
	}
	return rec, nil
}
