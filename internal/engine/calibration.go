package engine

import (
	"strings"
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// CalibrationEvaluator computes per-gage due-status from calibration metadata.
type CalibrationEvaluator struct{}

// NewCalibrationEvaluator creates a calibration evaluator.
func NewCalibrationEvaluator() *CalibrationEvaluator {
	return &CalibrationEvaluator{}
}

// Evaluate derives the due-status of one gage as of the given day. An absent
// or unparsable last-calibration date, or a non-positive frequency, yields
// Unknown with no due date.
func (e *CalibrationEvaluator) Evaluate(g models.Gage, rules models.GageCalibrationRules, asOf time.Time) models.CalibrationStatus {
	last, ok := utils.ParseLooseDate(g.LastCalibrationDate)
	if !ok || g.CalibrationFrequencyDays <= 0 {
		return models.CalibrationStatus{GageID: g.GageID, Status: models.CalibrationUnknown}
	}

	nextDue := last.AddDate(0, 0, g.CalibrationFrequencyDays)
	days := utils.DaysBetween(nextDue, asOf)

	status := models.CalibrationOK
	switch {
	case days < 0:
		status = models.CalibrationOverdue
	case days <= rules.DueSoonDays:
		status = models.CalibrationDueSoon
	}

	return models.CalibrationStatus{
		GageID:       g.GageID,
		NextDueDate:  nextDue.Format("2006-01-02"),
		DaysUntilDue: &days,
		Status:       status,
	}
}

// OverdueSeverity resolves the escalation severity for an overdue gage through
// the criticality map, defaulting to High for unmapped criticalities.
func OverdueSeverity(g models.Gage, rules models.GageCalibrationRules) models.Severity {
	crit := strings.TrimSpace(g.Criticality)
	if crit == "" {
		crit = "Medium"
	}
	if mapped, ok := rules.OverdueCriticalityMap[crit]; ok {
		if sev, valid := models.ParseSeverity(mapped); valid {
			return sev
		}
	}
	return models.SeverityHigh
}
