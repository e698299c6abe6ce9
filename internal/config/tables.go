package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// DefaultTables returns the site-default threshold tables. Every value can be
// overridden by the tables YAML file.
func DefaultTables() models.Tables {
	return models.Tables{
		Cost: models.CostConfig{
			DowntimeCostPerMin: map[string]float64{},
			ScrapCostDefault:   0,
			ScrapCostByPart:    map[string]float64{},
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

// LoadTables reads the threshold tables from a YAML file layered over the
// defaults, then validates them. The engine itself assumes valid tables, so
// validation must happen here, before anything evaluates.
func LoadTables(path string) (models.Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return tables, nil
		}
		return models.Tables{}, fmt.Errorf("read tables: %w", err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return models.Tables{}, fmt.Errorf("parse tables: %w", err)
	}

	if err := ValidateTables(tables); err != nil {
		return models.Tables{}, utils.NewAppError("tables.load", fmt.Sprintf("invalid tables in %s", path), err)
	}
	return tables, nil
}

// ValidateTables rejects threshold tables the engine would silently
// misclassify with: non-monotonic escalation bands, inverted score bands, and
// severity labels outside the four bands.
func ValidateTables(t models.Tables) error {
	copq := t.Risk.COPQThresholds
	if enabled(copq.Medium, copq.High) && copq.Medium >= copq.High {
		return fmt.Errorf("copq_thresholds: medium (%g) must be below high (%g)", copq.Medium, copq.High)
	}
	if enabled(copq.High, copq.Critical) && copq.High >= copq.Critical {
		return fmt.Errorf("copq_thresholds: high (%g) must be below critical (%g)", copq.High, copq.Critical)
	}

	qty := t.Risk.DefectQtyThresholds
	if enabled(float64(qty.Medium), float64(qty.High)) && qty.Medium >= qty.High {
		return fmt.Errorf("defect_qty_thresholds: medium (%d) must be below high (%d)", qty.Medium, qty.High)
	}
	if enabled(float64(qty.High), float64(qty.Critical)) && qty.High >= qty.Critical {
		return fmt.Errorf("defect_qty_thresholds: high (%d) must be below critical (%d)", qty.High, qty.Critical)
	}

	rep := t.Risk.RepeatEscalation
	if enabled(float64(rep.WatchScore), float64(rep.HighScore)) && rep.WatchScore >= rep.HighScore {
		return fmt.Errorf("repeat_offender_escalation: watch_score (%d) must be below high_score (%d)", rep.WatchScore, rep.HighScore)
	}
	if enabled(float64(rep.HighScore), float64(rep.CriticalScore)) && rep.HighScore >= rep.CriticalScore {
		return fmt.Errorf("repeat_offender_escalation: high_score (%d) must be below critical_score (%d)", rep.HighScore, rep.CriticalScore)
	}

	for label, mapped := range t.Risk.CustomerRiskMap {
		if _, ok := models.ParseSeverity(mapped); !ok {
			return fmt.Errorf("customer_risk_map: %q maps to unknown severity %q", label, mapped)
		}
	}
	for crit, mapped := range t.Risk.GageCalibration.OverdueCriticalityMap {
		if _, ok := models.ParseSeverity(mapped); !ok {
			return fmt.Errorf("overdue_criticality_map: %q maps to unknown severity %q", crit, mapped)
		}
	}
	if t.Risk.GageCalibration.DueSoonDays < 0 {
		return fmt.Errorf("gage_calibration_escalation: due_soon_days must not be negative")
	}

	r := t.Repeat
	if r.WindowDays <= 0 {
		return fmt.Errorf("repeat rules: window_days must be positive")
	}
	if r.PartDefectRepeatThreshold <= 0 || r.MachineDefectRepeatThreshold <= 0 {
		return fmt.Errorf("repeat rules: repeat thresholds must be positive")
	}
	if r.ScoreBands.WatchMin <= 0 || r.ScoreBands.RepeatMin <= 0 {
		return fmt.Errorf("repeat rules: score bands must be positive")
	}
	if r.ScoreBands.WatchMin > r.ScoreBands.RepeatMin {
		return fmt.Errorf("repeat rules: watch_min (%d) must not exceed repeat_min (%d)", r.ScoreBands.WatchMin, r.ScoreBands.RepeatMin)
	}

	return nil
}

// enabled reports whether both thresholds of a pair are in use; a threshold
// set to zero or below is disabled and exempt from ordering checks.
func enabled(a, b float64) bool {
	return a > 0 && b > 0
}
