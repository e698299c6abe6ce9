package engine

import (
	"strings"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// CostBreakdown is the monetary impact estimated for one record.
// COPQ is always DowntimeCost + ScrapCost.
type CostBreakdown struct {
	DowntimeCost float64
	ScrapCost    float64
	COPQ         float64
}

// CostEstimator derives per-record cost-of-poor-quality estimates from a
// cost-rate table.
type CostEstimator struct{}

// NewCostEstimator creates a cost estimator.
func NewCostEstimator() *CostEstimator {
	return &CostEstimator{}
}

// Estimate computes the downtime and scrap cost for one record. A line absent
// from the rate table contributes 0; a part absent from the scrap overrides
// falls back to the default scrap rate. Unparsable numeric inputs coerce to 0.
func (e *CostEstimator) Estimate(rec models.Record, cfg models.CostConfig) CostBreakdown {
	line := strings.TrimSpace(rec.Line)
	part := strings.TrimSpace(rec.PartNumber)

	downtimeMins := utils.SafeFloat(rec.DowntimeMins, 0)
	defectQty := utils.SafeInt(rec.DefectQty, 0)

	downtimeRate := cfg.DowntimeCostPerMin[line]
	scrapRate := cfg.ScrapCostDefault
	if rate, ok := cfg.ScrapCostByPart[part]; ok {
		scrapRate = rate
	}

	downtimeCost := downtimeMins * downtimeRate
	scrapCost := float64(defectQty) * scrapRate

	return CostBreakdown{
		DowntimeCost: downtimeCost,
		ScrapCost:    scrapCost,
		COPQ:         downtimeCost + scrapCost,
	}
}
