package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// HealthChecker flags structurally or logically inconsistent records. Every
// rule is evaluated independently per record; an unparsable field simply
// fails to trigger its dependent rule.
type HealthChecker struct {
	calibration *CalibrationEvaluator
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{calibration: NewCalibrationEvaluator()}
}

var requiredFields = []struct {
	name  string
	value func(models.Record) string
}{
	{"Line", func(r models.Record) string { return r.Line }},
	{"Machine", func(r models.Record) string { return r.Machine }},
	{"Tool_Num", func(r models.Record) string { return r.ToolNum }},
	{"Reason", func(r models.Record) string { return r.Reason }},
	{"Part_Number", func(r models.Record) string { return r.PartNumber }},
}

// Check runs the rule set over the batch and collects issues. Gage-related
// rules resolve the referenced gage against the supplied list; rules is the
// calibration escalation config used for due-status.
func (h *HealthChecker) Check(batch []models.Record, gages []models.Gage, rules models.GageCalibrationRules, asOf time.Time) []models.HealthIssue {
	issues := make([]models.HealthIssue, 0)
	if len(batch) == 0 {
		return issues
	}

	type gageState struct {
		gage   models.Gage
		status models.CalibrationStatus
	}
	states := make(map[string]gageState, len(gages))
	for _, g := range gages {
		if g.GageID == "" {
			continue
		}
		states[g.GageID] = gageState{gage: g, status: h.calibration.Evaluate(g, rules, asOf)}
	}

	add := func(sev models.Severity, entryID string, cat models.IssueCategory, issue, suggestion string) {
		issues = append(issues, models.HealthIssue{
			Severity:   sev,
			EntryID:    entryID,
			Category:   cat,
			Issue:      issue,
			Suggestion: suggestion,
		})
	}

	for _, rec := range batch {
		entryID := rec.ID

		for _, f := range requiredFields {
			if strings.TrimSpace(f.value(rec)) == "" {
				add(models.SeverityHigh, entryID, models.IssueMissingField,
					fmt.Sprintf("Missing required field: %s", f.name),
					fmt.Sprintf("Fill %s before saving/closing.", f.name))
			}
		}

		defectsPresent := strings.ToLower(strings.TrimSpace(rec.DefectsPresent))
		defectQty := utils.SafeInt(rec.DefectQty, 0)
		defectCode := strings.TrimSpace(rec.DefectCode)

		if defectsPresent == "yes" && defectQty <= 0 {
			add(models.SeverityHigh, entryID, models.IssueDefectsLogic,
				"Defects_Present=Yes but Defect_Qty is 0/blank",
				"Enter a valid defect quantity (or set Defects_Present=No).")
		}
		if defectsPresent == "no" && defectQty > 0 {
			add(models.SeverityMedium, entryID, models.IssueDefectsLogic,
				"Defects_Present=No but Defect_Qty > 0",
				"Set Defects_Present=Yes or set Defect_Qty to 0.")
		}
		if defectsPresent == "yes" && defectCode == "" {
			add(models.SeverityHigh, entryID, models.IssueDefectClass,
				"Defects present but Defect_Code is blank",
				"Select a Defect_Code for Pareto and NCR tracking.")
		}

		qcStatus := strings.TrimSpace(rec.QCStatus)
		if (qcStatus == "Verified" || qcStatus == "Closed") &&
			(strings.TrimSpace(rec.QualityUser) == "" || strings.TrimSpace(rec.QualityTime) == "") {
			add(models.SeverityMedium, entryID, models.IssueQCWorkflow,
				fmt.Sprintf("QC_Status=%s but missing Quality_User/Quality_Time", qcStatus),
				"Set Quality_User and Quality_Time when verifying.")
		}

		if strings.TrimSpace(rec.NCRID) != "" && strings.TrimSpace(rec.NCRStatus) == "Closed" &&
			strings.TrimSpace(rec.NCRCloseDate) == "" {
			add(models.SeverityHigh, entryID, models.IssueNCR,
				"NCR_Status=Closed but NCR_Close_Date is blank",
				"Enter NCR_Close_Date or reopen the NCR.")
		}

		actionStatus := strings.TrimSpace(rec.ActionStatus)
		if actionStatus == "Open" || actionStatus == "Overdue" {
			if due, ok := utils.ParseLooseDate(rec.ActionDueDate); ok && utils.DaysBetween(due, asOf) < 0 {
				add(models.SeverityHigh, entryID, models.IssueActions,
					fmt.Sprintf("Action is overdue (due %s)", due.Format("2006-01-02")),
					"Complete the action or update the due date/owner.")
			}
		}

		gageUsed := strings.TrimSpace(rec.GageUsed)
		if gageUsed == "" {
			continue
		}
		state, found := states[gageUsed]
		if !found {
			add(models.SeverityMedium, entryID, models.IssueGageCalibration,
				fmt.Sprintf("Gage_Used=%s not found in the gage list", gageUsed),
				"Add the gage in the calibration manager or correct the gage ID.")
			continue
		}

		crit := strings.TrimSpace(state.gage.Criticality)
		if crit == "" {
			crit = "Medium"
		}
		switch state.status.Status {
		case models.CalibrationOverdue:
			sev := models.SeverityHigh
			if crit == "High" || crit == "Critical" {
				sev = models.SeverityCritical
			}
			add(sev, entryID, models.IssueGageCalibration,
				fmt.Sprintf("Gage %s is Overdue (criticality=%s, due %s)", gageUsed, crit, state.status.NextDueDate),
				"Stop using this gage until calibrated (or correct last calibration date).")
		case models.CalibrationDueSoon:
			add(models.SeverityMedium, entryID, models.IssueGageCalibration,
				fmt.Sprintf("Gage %s is Due Soon (criticality=%s, due %s)", gageUsed, crit, state.status.NextDueDate),
				"Plan calibration before due date to avoid escalation.")
		}
	}

	return issues
}
