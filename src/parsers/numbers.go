// backend/src/parsers/numbers.go
package parsers

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber is the strict coercion primitive shared by every place a number
// is read from CSV text: empty input yields nil, anything that does not parse
// to a finite float yields nil. Keep all numeric field parsing on this
// function instead of re-deriving ad hoc rules per field.
func ParseNumber(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// dateLayouts covers the formats seen in broker exports (generic ISO,
// MT4/MT5 dotted timestamps, US slash dates, European dash dates).
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
}

// ParseDate coerces a date string from a CSV field. The returned raw string
// preserves the source text so that "no date supplied" (nil date, empty raw)
// stays distinguishable from "date supplied but unparseable" (nil date,
// non-empty raw) for diagnostics. Both fail the simulator's usability check.
func ParseDate(s string) (*time.Time, string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t, trimmed
		}
	}
	return nil, trimmed
}
