package utils

import (
	"errors"
	"testing"
)

func TestAppError(t *testing.T) {
	inner := errors.New("boom")
	err := NewAppError("tables.load", "invalid tables", inner)

	if got := err.Error(); got != "tables.load: invalid tables: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should expose the inner error")
	}

	bare := NewAppError("cache.connect", "ping failed", nil)
	if got := bare.Error(); got != "cache.connect: ping failed" {
		t.Errorf("Error() = %q", got)
	}
}
