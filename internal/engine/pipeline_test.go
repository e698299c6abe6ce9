package engine

import (
	"reflect"
	"testing"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

func TestPipelineEvaluate(t *testing.T) {
	p := NewPipeline(nil)
	tables := testTables()
	asOf := asOfDay(2024, 3, 14)

	batch := []models.Record{
		{
			ID: "R1", Date: "2024-03-13",
			Line: "Line 1", Machine: "M1", ToolNum: "T1",
			PartNumber: "P-100", Reason: "Tooling",
			DowntimeMins: "30", DefectsPresent: "Yes", DefectQty: "10", DefectCode: "D1",
			GageUsed: "G-OVD",
		},
		{
			ID: "R2", Date: "2024-03-13",
			Line: "Line 2", Machine: "M2", ToolNum: "T2",
			PartNumber: "P-200", Reason: "Material",
			DowntimeMins: "0", DefectsPresent: "No", DefectQty: "0",
			AndonFlag: "Yes",
		},
	}
	gages := []models.Gage{
		{GageID: "G-OVD", Name: "Caliper", Criticality: "High",
			LastCalibrationDate: "2024-01-01", CalibrationFrequencyDays: 30},
	}

	result := p.Evaluate(batch, gages, tables, asOf)

	if !result.AsOf.Equal(asOf) {
		t.Errorf("AsOf = %v", result.AsOf)
	}
	if len(result.Assessments) != 2 {
		t.Fatalf("assessments = %d, want 2", len(result.Assessments))
	}

	// R1: 30 min on Line 1 at 2.0 plus 10 defects at the P-100 scrap rate.
	r1 := result.Assessments[0]
	if r1.RecordID != "R1" || r1.DowntimeCost != 60 || r1.ScrapCost != 250 || r1.COPQ != 310 {
		t.Errorf("R1 assessment = %+v", r1)
	}
	// Defect qty 10 fires Medium; the overdue High-criticality gage raises to
	// Critical.
	if r1.Severity != models.SeverityCritical {
		t.Errorf("R1 severity = %s, want Critical", r1.Severity)
	}

	r2 := result.Assessments[1]
	if r2.Severity != models.SeverityCritical {
		t.Errorf("R2 severity = %s, want Critical (andon)", r2.Severity)
	}
	if r2.COPQ != 0 {
		t.Errorf("R2 COPQ = %g, want 0", r2.COPQ)
	}

	if len(result.GageStatuses) != 1 || result.GageStatuses[0].Status != models.CalibrationOverdue {
		t.Errorf("gage statuses = %+v", result.GageStatuses)
	}

	// One andon alert plus one calibration alert.
	if len(result.Alerts) != 2 {
		t.Fatalf("alerts = %+v, want 2", result.Alerts)
	}
	if result.Alerts[0].Type != models.AlertAndon {
		t.Errorf("first alert = %+v", result.Alerts[0])
	}
	if result.Alerts[1].Type != models.AlertCalibration {
		t.Errorf("second alert = %+v", result.Alerts[1])
	}

	// R1 uses an overdue gage.
	gageIssues := 0
	for _, it := range result.Issues {
		if it.Category == models.IssueGageCalibration && it.EntryID == "R1" {
			gageIssues++
		}
	}
	if gageIssues != 1 {
		t.Errorf("issues = %+v, want one gage issue for R1", result.Issues)
	}
}

func TestPipelineEvaluateEmptyBatch(t *testing.T) {
	p := NewPipeline(nil)
	result := p.Evaluate(nil, nil, testTables(), asOfDay(2024, 3, 14))

	if len(result.Assessments) != 0 || len(result.GageStatuses) != 0 ||
		len(result.Alerts) != 0 || len(result.Issues) != 0 {
		t.Errorf("empty inputs produced output: %+v", result)
	}
}

func TestPipelineEvaluateIsDeterministic(t *testing.T) {
	p := NewPipeline(nil)
	tables := testTables()
	asOf := asOfDay(2024, 3, 14)

	batch := []models.Record{
		{ID: "R1", Date: "2024-03-13", Line: "Line 1", Machine: "M1", ToolNum: "T1",
			PartNumber: "P1", Reason: "Tooling", DowntimeMins: "45",
			DefectsPresent: "Yes", DefectQty: "6", DefectCode: "D1", CustomerRisk: "High"},
	}

	first := p.Evaluate(batch, nil, tables, asOf)
	second := p.Evaluate(batch, nil, tables, asOf)

	if !reflect.DeepEqual(first.Assessments, second.Assessments) {
		t.Errorf("assessments differ between runs:\n%+v\n%+v", first.Assessments, second.Assessments)
	}
}

func TestFilterAlerts(t *testing.T) {
	alerts := []models.Alert{
		{ID: "a", Severity: models.SeverityMedium},
		{ID: "b", Severity: models.SeverityCritical},
		{ID: "c", Severity: models.SeverityLow},
		{ID: "d", Severity: models.SeverityHigh},
		{ID: "e", Severity: models.SeverityCritical},
	}

	got := FilterAlerts(alerts, models.SeverityHigh)
	if len(got) != 3 {
		t.Fatalf("filtered = %+v", got)
	}
	// Most severe first, original order within a band.
	if got[0].ID != "b" || got[1].ID != "e" || got[2].ID != "d" {
		t.Errorf("order = %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestFilterIssues(t *testing.T) {
	issues := []models.HealthIssue{
		{EntryID: "1", Severity: models.SeverityLow},
		{EntryID: "2", Severity: models.SeverityHigh},
		{EntryID: "3", Severity: models.SeverityMedium},
	}

	got := FilterIssues(issues, models.SeverityMedium)
	if len(got) != 2 || got[0].EntryID != "2" || got[1].EntryID != "3" {
		t.Errorf("filtered = %+v", got)
	}
}
