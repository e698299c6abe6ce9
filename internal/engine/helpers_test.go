package engine

import (
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

// testTables mirrors the shipped defaults so threshold expectations in the
// tests stay explicit.
func testTables() models.Tables {
	return models.Tables{
		Cost: models.CostConfig{
			DowntimeCostPerMin: map[string]float64{"Line 1": 2.0, "Line 2": 2.5},
			ScrapCostDefault:   10.0,
			ScrapCostByPart:    map[string]float64{"P-100": 25.0},
		},
		Risk: models.RiskConfig{
			AndonAlwaysCritical: true,
			CustomerRiskMap:     map[string]string{},
			COPQThresholds:      models.CostThresholds{Medium: 500, High: 2000, Critical: 5000},
			DefectQtyThresholds: models.CountThresholds{Medium: 5, High: 20, Critical: 50},
			RepeatEscalation:    models.RepeatEscalation{WatchScore: 40, HighScore: 80, CriticalScore: 120},
			GageCalibration: models.GageCalibrationRules{
				DueSoonDays: 14,
				OverdueCriticalityMap: map[string]string{
					"Low":      "High",
					"Medium":   "High",
					"High":     "Critical",
					"Critical": "Critical",
				},
			},
		},
		Repeat: models.RepeatRules{
			WindowDays:                   7,
			PartDefectRepeatThreshold:    3,
			MachineDefectRepeatThreshold: 5,
			Weights:                      models.RepeatWeights{PartDefectRepeat: 40, MachineRepeat: 25},
			ScoreBands:                   models.ScoreBands{WatchMin: 40, RepeatMin: 80},
		},
	}
}

func asOfDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
