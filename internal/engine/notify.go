package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// NotificationGenerator turns an enriched batch plus gage states into a flat
// alert list for supervisors.
type NotificationGenerator struct {
	calibration *CalibrationEvaluator
}

// NewNotificationGenerator creates a notification generator.
func NewNotificationGenerator() *NotificationGenerator {
	return &NotificationGenerator{calibration: NewCalibrationEvaluator()}
}

// Generate produces the ordered alert list. copq maps record ids to estimated
// COPQ (the enrichment computed by the cost estimator); missing ids rate 0.
//
// Per record: an andon event always yields exactly one Critical alert and
// short-circuits the remaining per-record checks. Otherwise a High/Critical
// customer-risk label yields a Risk alert, and independently the COPQ
// thresholds yield at most one COPQ alert (critical takes precedence).
func (n *NotificationGenerator) Generate(batch []models.Record, gages []models.Gage, risk models.RiskConfig, copq map[string]float64, asOf time.Time) []models.Alert {
	alerts := make([]models.Alert, 0)

	for _, rec := range batch {
		if utils.TruthyFlag(rec.AndonFlag) {
			alerts = append(alerts, newAlert(models.SeverityCritical, models.AlertAndon, "Andon event",
				fmt.Sprintf("%s %s Tool %s Part %s", rec.Line, rec.Machine, rec.ToolNum, rec.PartNumber),
				map[string]string{"entry_id": rec.ID}, asOf))
			continue
		}

		if sev, valid := models.ParseSeverity(strings.TrimSpace(rec.CustomerRisk)); valid && sev.AtLeast(models.SeverityHigh) {
			alerts = append(alerts, newAlert(sev, models.AlertRisk, fmt.Sprintf("%s customer risk entry", sev),
				fmt.Sprintf("%s %s Part %s Defect %s", rec.Line, rec.Machine, rec.PartNumber, rec.DefectCode),
				map[string]string{"entry_id": rec.ID}, asOf))
		}

		cost := copq[rec.ID]
		thr := risk.COPQThresholds
		switch {
		case thr.Critical > 0 && cost >= thr.Critical:
			alerts = append(alerts, newAlert(models.SeverityCritical, models.AlertCOPQ, "Critical COPQ event",
				fmt.Sprintf("Entry %s COPQ $%.2f", rec.ID, cost),
				map[string]string{"entry_id": rec.ID}, asOf))
		case thr.High > 0 && cost >= thr.High:
			alerts = append(alerts, newAlert(models.SeverityHigh, models.AlertCOPQ, "High COPQ event",
				fmt.Sprintf("Entry %s COPQ $%.2f", rec.ID, cost),
				map[string]string{"entry_id": rec.ID}, asOf))
		}
	}

	for _, g := range gages {
		status := n.calibration.Evaluate(g, risk.GageCalibration, asOf)
		if status.Status != models.CalibrationOverdue && status.Status != models.CalibrationDueSoon {
			continue
		}

		crit := strings.TrimSpace(g.Criticality)
		if crit == "" {
			crit = "Medium"
		}
		severity := models.SeverityMedium
		if status.Status == models.CalibrationOverdue {
			severity = OverdueSeverity(g, risk.GageCalibration)
		}

		alerts = append(alerts, newAlert(severity, models.AlertCalibration, fmt.Sprintf("Gage %s", status.Status),
			fmt.Sprintf("%s %s (%s) due %s", g.GageID, g.Name, crit, status.NextDueDate),
			map[string]string{"gage_id": g.GageID}, asOf))
	}

	return alerts
}

func newAlert(sev models.Severity, typ models.AlertType, title, details string, related map[string]string, asOf time.Time) models.Alert {
	return models.Alert{
		ID:        uuid.NewString(),
		Severity:  sev,
		Type:      typ,
		Title:     title,
		Details:   details,
		Related:   related,
		CreatedAt: asOf,
	}
}

