package utils

import (
	"math"
	"strconv"
	"strings"
)

// SafeFloat parses raw as a float, returning def on blank, null-ish, or
// non-numeric input. Shared by every engine component so the "never raises"
// contract stays uniform.
func SafeFloat(raw string, def float64) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || isNullish(s) {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// SafeInt parses raw as an integer, accepting float-formatted input ("3.0"),
// returning def on any failure.
func SafeInt(raw string, def int) int {
	s := strings.TrimSpace(raw)
	if s == "" || isNullish(s) {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return int(f)
}

// TruthyFlag reports whether a capture-form yes/no flag reads as yes.
func TruthyFlag(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "yes")
}

func isNullish(s string) bool {
	switch strings.ToLower(s) {
	case "null", "none", "nan", "n/a":
		return true
	}
	return false
}
