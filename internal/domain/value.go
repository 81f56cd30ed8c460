package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValueKind tells whether a normalized field holds text or a number.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
)

// Value is a single normalized field. Numbers keep the text they were parsed
// from so re-coercion is a no-op.
type Value struct {
	kind ValueKind
	str  string
	num  float64
}

// StringValue wraps raw text.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a number.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, str: formatNumber(f), num: f}
}

// Kind reports the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the numeric value and whether the field is numeric.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// String returns the text form. Numbers render in their shortest decimal form.
func (v Value) String() string { return v.str }

// MarshalJSON emits numbers as JSON numbers and strings as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// coerce converts text that parses completely as a decimal or an integer into
// a number. Anything else stays a string.
func coerce(v Value) Value {
	if v.kind == KindNumber {
		return v
	}
	s := strings.TrimSpace(v.str)
	if s == "" {
		return v
	}
	// Decimal only: ParseFloat also takes hex floats and underscores.
	if strings.ContainsAny(s, "xX_") {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return NumberValue(f)
	}
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
