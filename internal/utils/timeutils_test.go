package utils

import (
	"testing"
	"time"
)

func TestParseLooseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-15", "2024/03/15", "03/15/2024"} {
		got, ok := ParseLooseDate(raw)
		if !ok {
			t.Fatalf("ParseLooseDate(%q) not ok", raw)
		}
		if !DateOnly(got).Equal(want) {
			t.Errorf("ParseLooseDate(%q) = %v, want %v", raw, got, want)
		}
	}

	got, ok := ParseLooseDate("2024-03-15 13:45:00")
	if !ok || got.Hour() != 13 {
		t.Errorf("datetime layout: got %v ok=%v", got, ok)
	}

	for _, raw := range []string{"", "  ", "15.03.2024", "yesterday"} {
		if _, ok := ParseLooseDate(raw); ok {
			t.Errorf("ParseLooseDate(%q) unexpectedly ok", raw)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 2, 15, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 2, 10, 0, 1, 0, 0, time.UTC)

	if got := DaysBetween(a, b); got != 5 {
		t.Errorf("DaysBetween = %d, want 5", got)
	}
	if got := DaysBetween(b, a); got != -5 {
		t.Errorf("DaysBetween reversed = %d, want -5", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("DaysBetween same day = %d, want 0", got)
	}
}
