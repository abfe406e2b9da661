package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotAMapping is returned when an input element is not a JSON object.
// It marks a broken caller, unlike missing or malformed fields, which only
// degrade to defaults.
var ErrNotAMapping = errors.New("record is not a mapping")

// numberRegexp captures the first number in free text such as "$1,299.99" or "150 sold".
var numberRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Record is one raw listing as a flat mapping of named fields.
type Record map[string]any

// Text returns the field as a string, or "" when missing or null.
func (r Record) Text(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// Float returns the field as a non-negative number. Missing, null, or
// unparseable values yield 0 and ok=false.
func (r Record) Float(key string) (val float64, ok bool) {
	v, present := r[key]
	if !present || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		val = t
	case float32:
		val = float64(t)
	case int:
		val = float64(t)
	case int64:
		val = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		val = f
	case string:
		f, parsed := ParseNumber(t)
		if !parsed {
			return 0, false
		}
		val = f
	default:
		return 0, false
	}
	if math.IsNaN(val) || val < 0 {
		return 0, false
	}
	return val, true
}

// Int returns the field as a non-negative integer, truncating fractions.
// Missing or malformed values yield 0; counts too large for an int
// saturate at math.MaxInt.
func (r Record) Int(key string) int {
	f, ok := r.Float(key)
	if !ok {
		return 0
	}
	return CountFromFloat(f)
}

// CountFromFloat truncates a parsed count to an int in [0, math.MaxInt].
func CountFromFloat(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	}
	return int(f)
}

// ParseNumber extracts the first number from text, ignoring thousands
// separators. It reports false when no number is present.
func ParseNumber(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, ",", "")
	match := numberRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ListingFromRecord maps a Record onto a Listing, defaulting every absent field.
func ListingFromRecord(r Record) *Listing {
	price, hasPrice := r.Float("price")
	return &Listing{
		Title:         r.Text("title"),
		Price:         price,
		HasPrice:      hasPrice,
		SoldCount:     r.Int("sold_count"),
		Watchers:      r.Int("watchers"),
		Shipping:      r.Text("shipping"),
		Seller:        r.Text("seller"),
		SearchKeyword: r.Text("search_keyword"),
		URL:           r.Text("url"),
		ImageURL:      r.Text("image_url"),
		ScrapedAt:     r.Text("scraped_at"),
	}
}

// DecodeRecords decodes a JSON array of objects. Any element that is not an
// object fails the whole batch with ErrNotAMapping.
func DecodeRecords(data []byte) ([]Record, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("records: decode array: %w", err)
	}

	records := make([]Record, 0, len(elems))
	for i, raw := range elems {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("records: element %d: %w", i, ErrNotAMapping)
		}

		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("records: element %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
