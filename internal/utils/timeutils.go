package utils

import (
	"strings"
	"time"
)

// looseDateFormats lists the date layouts shop-floor capture forms and
// spreadsheet exports produce, tried in order.
var looseDateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// ParseLooseDate parses a capture-form date. Returns ok=false for blank or
// unparsable values; callers treat that as "absent" rather than an error.
func ParseLooseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range looseDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns whole calendar days from b to a (a minus b), ignoring
// time of day. Negative when a precedes b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(a).Sub(DateOnly(b)).Hours() / 24)
}
