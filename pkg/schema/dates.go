package schema

import (
	"strings"
	"time"
)

// DateLayout is the collection-date format every submission schema expects.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when reading a collection date.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// ParseDate reads a collection date in any of the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate rewrites a collection date as YYYY-MM-DD. Dates that cannot be
// parsed are returned unchanged so they surface in the submission for review.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(DateLayout)
}

// CollectionYear returns the year of a collection date, or fallback when the
// date cannot be parsed.
func CollectionYear(raw string, fallback time.Time) int {
	if t, ok := ParseDate(raw); ok {
		return t.Year()
	}
	return fallback.Year()
}
