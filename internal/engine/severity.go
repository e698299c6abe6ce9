package engine

import (
	"fmt"
	"strings"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// SeverityAssigner classifies one enriched record into a severity band with
// human-readable reasons.
type SeverityAssigner struct{}

// NewSeverityAssigner creates a severity assigner.
func NewSeverityAssigner() *SeverityAssigner {
	return &SeverityAssigner{}
}

// SeverityInputs carries the cross-record escalation signals the pipeline
// resolves before assignment. GageOverdue is empty when the referenced gage
// (if any) is not overdue.
type SeverityInputs struct {
	COPQ          float64
	RepeatScore   int
	OverdueAction bool
	OverdueNCR    bool
	GageOverdue   models.Severity
}

// severityTrigger is one independent escalation rule outcome. The final
// severity is the maximum over fired triggers, so the result is
// order-independent even though the reasons list preserves trigger order.
type severityTrigger struct {
	fired  bool
	to     models.Severity
	reason string
}

// Assign folds the escalation triggers over the record, starting at Low and
// raising only. Returns the final severity and the reasons for every fired
// trigger in evaluation order.
func (a *SeverityAssigner) Assign(rec models.Record, risk models.RiskConfig, in SeverityInputs) (models.Severity, []string) {
	severity := models.SeverityLow
	var reasons []string
	for _, t := range a.triggers(rec, risk, in) {
		if !t.fired {
			continue
		}
		severity = models.MaxSeverity(severity, t.to)
		reasons = append(reasons, t.reason)
	}
	return severity, reasons
}

func (a *SeverityAssigner) triggers(rec models.Record, risk models.RiskConfig, in SeverityInputs) []severityTrigger {
	triggers := make([]severityTrigger, 0, 8)

	// Andon
	if risk.AndonAlwaysCritical && utils.TruthyFlag(rec.AndonFlag) {
		triggers = append(triggers, severityTrigger{true, models.SeverityCritical, "Andon flagged"})
	}

	// Customer risk label, mapped through the configured table with an
	// identity fallback for unmapped labels.
	if cust := strings.TrimSpace(rec.CustomerRisk); cust != "" {
		mapped := cust
		if m, ok := risk.CustomerRiskMap[cust]; ok {
			mapped = m
		}
		if sev, valid := models.ParseSeverity(mapped); valid {
			triggers = append(triggers, severityTrigger{true, sev, fmt.Sprintf("Customer risk = %s", cust)})
		}
	}

	// COPQ thresholds, most-severe-first so only the highest band fires.
	copqThr := risk.COPQThresholds
	switch {
	case copqThr.Critical > 0 && in.COPQ >= copqThr.Critical:
		triggers = append(triggers, severityTrigger{true, models.SeverityCritical, fmt.Sprintf("COPQ >= %g", copqThr.Critical)})
	case copqThr.High > 0 && in.COPQ >= copqThr.High:
		triggers = append(triggers, severityTrigger{true, models.SeverityHigh, fmt.Sprintf("COPQ >= %g", copqThr.High)})
	case copqThr.Medium > 0 && in.COPQ >= copqThr.Medium:
		triggers = append(triggers, severityTrigger{true, models.SeverityMedium, fmt.Sprintf("COPQ >= %g", copqThr.Medium)})
	}

	// Defect quantity thresholds.
	qty := utils.SafeInt(rec.DefectQty, 0)
	qtyThr := risk.DefectQtyThresholds
	switch {
	case qtyThr.Critical > 0 && qty >= qtyThr.Critical:
		triggers = append(triggers, severityTrigger{true, models.SeverityCritical, fmt.Sprintf("Defect qty >= %d", qtyThr.Critical)})
	case qtyThr.High > 0 && qty >= qtyThr.High:
		triggers = append(triggers, severityTrigger{true, models.SeverityHigh, fmt.Sprintf("Defect qty >= %d", qtyThr.High)})
	case qtyThr.Medium > 0 && qty >= qtyThr.Medium:
		triggers = append(triggers, severityTrigger{true, models.SeverityMedium, fmt.Sprintf("Defect qty >= %d", qtyThr.Medium)})
	}

	// Repeat score thresholds (watch band escalates to Medium).
	rep := risk.RepeatEscalation
	switch {
	case rep.CriticalScore > 0 && in.RepeatScore >= rep.CriticalScore:
		triggers = append(triggers, severityTrigger{true, models.SeverityCritical, fmt.Sprintf("Repeat score >= %d", rep.CriticalScore)})
	case rep.HighScore > 0 && in.RepeatScore >= rep.HighScore:
		triggers = append(triggers, severityTrigger{true, models.SeverityHigh, fmt.Sprintf("Repeat score >= %d", rep.HighScore)})
	case rep.WatchScore > 0 && in.RepeatScore >= rep.WatchScore:
		triggers = append(triggers, severityTrigger{true, models.SeverityMedium, fmt.Sprintf("Repeat score >= %d", rep.WatchScore)})
	}

	// Overdue action item / NCR aging.
	if in.OverdueAction {
		triggers = append(triggers, severityTrigger{true, models.SeverityHigh, "Overdue action item"})
	}
	if in.OverdueNCR {
		triggers = append(triggers, severityTrigger{true, models.SeverityHigh, "NCR aging threshold exceeded"})
	}

	// Gage calibration escalation resolved by the calibration evaluator.
	if sev, valid := models.ParseSeverity(string(in.GageOverdue)); valid {
		triggers = append(triggers, severityTrigger{true, sev, fmt.Sprintf("Gage calibration status triggers %s", sev)})
	}

	return triggers
}
