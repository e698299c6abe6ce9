package utils

import "testing"

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		def  float64
		want float64
	}{
		{"plain", "12.5", 0, 12.5},
		{"integer", "30", 0, 30},
		{"padded", "  4.2  ", 0, 4.2},
		{"blank", "", 7, 7},
		{"null", "null", 7, 7},
		{"none", "None", 7, 7},
		{"nan literal", "NaN", 7, 7},
		{"not a number", "abc", 7, 7},
		{"negative", "-3.5", 0, -3.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeFloat(tc.raw, tc.def); got != tc.want {
				t.Errorf("SafeFloat(%q, %g) = %g, want %g", tc.raw, tc.def, got, tc.want)
			}
		})
	}
}

func TestSafeInt(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		def  int
		want int
	}{
		{"plain", "42", 0, 42},
		{"float formatted", "3.0", 0, 3},
		{"float truncates", "3.9", 0, 3},
		{"blank", "", 5, 5},
		{"n/a", "N/A", 5, 5},
		{"garbage", "??", 5, 5},
		{"negative", "-2", 0, -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeInt(tc.raw, tc.def); got != tc.want {
				t.Errorf("SafeInt(%q, %d) = %d, want %d", tc.raw, tc.def, got, tc.want)
			}
		})
	}
}

func TestTruthyFlag(t *testing.T) {
	for raw, want := range map[string]bool{
		"Yes":   true,
		"yes":   true,
		" YES ": true,
		"No":    false,
		"":      false,
		"true":  false,
		"1":     false,
	} {
		if got := TruthyFlag(raw); got != want {
			t.Errorf("TruthyFlag(%q) = %v, want %v", raw, got, want)
		}
	}
}
