package engine

import (
	"testing"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

func TestEstimateDowntimeOnly(t *testing.T) {
	e := NewCostEstimator()
	got := e.Estimate(models.Record{
		ID:           "U725",
		Line:         "Line 1",
		DowntimeMins: "30",
		DefectQty:    "0",
	}, testTables().Cost)

	if got.DowntimeCost != 60 {
		t.Errorf("DowntimeCost = %g, want 60", got.DowntimeCost)
	}
	if got.ScrapCost != 0 {
		t.Errorf("ScrapCost = %g, want 0", got.ScrapCost)
	}
	if got.COPQ != 60 {
		t.Errorf("COPQ = %g, want 60", got.COPQ)
	}
}

func TestEstimateScrapRates(t *testing.T) {
	e := NewCostEstimator()
	cfg := testTables().Cost

	overridden := e.Estimate(models.Record{PartNumber: "P-100", DefectQty: "4"}, cfg)
	if overridden.ScrapCost != 100 {
		t.Errorf("part override ScrapCost = %g, want 100", overridden.ScrapCost)
	}

	fallback := e.Estimate(models.Record{PartNumber: "P-999", DefectQty: "4"}, cfg)
	if fallback.ScrapCost != 40 {
		t.Errorf("default ScrapCost = %g, want 40", fallback.ScrapCost)
	}
}

func TestEstimateUnknownLineRatesZero(t *testing.T) {
	e := NewCostEstimator()
	got := e.Estimate(models.Record{Line: "Line 9", DowntimeMins: "120"}, testTables().Cost)
	if got.DowntimeCost != 0 {
		t.Errorf("DowntimeCost = %g, want 0 for unmapped line", got.DowntimeCost)
	}
}

func TestEstimateCoercesBadNumerics(t *testing.T) {
	e := NewCostEstimator()
	got := e.Estimate(models.Record{
		Line:         "Line 1",
		DowntimeMins: "n/a",
		DefectQty:    "??",
	}, testTables().Cost)

	if got.COPQ != 0 {
		t.Errorf("COPQ = %g, want 0 for unparsable inputs", got.COPQ)
	}
}
