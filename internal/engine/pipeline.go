package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// Pipeline orchestrates one evaluation over a record batch: repeat detection
// and cost estimation enrich the batch, severity assignment consumes the
// enrichment plus gage calibration state, and notifications and health checks
// run independently over the same enriched inputs.
//
// The pipeline is stateless between invocations and never mutates input
// records; callers may run it concurrently against different batches.
type Pipeline struct {
	logger      *slog.Logger
	cost        *CostEstimator
	calibration *CalibrationEvaluator
	severity    *SeverityAssigner
	repeat      *RepeatDetector
	notify      *NotificationGenerator
	health      *HealthChecker
}

// NewPipeline constructs an evaluation pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:      logger,
		cost:        NewCostEstimator(),
		calibration: NewCalibrationEvaluator(),
		severity:    NewSeverityAssigner(),
		repeat:      NewRepeatDetector(),
		notify:      NewNotificationGenerator(),
		health:      NewHealthChecker(),
	}
}

// Evaluate runs the full flow over a batch as of the given day. Empty batches
// and gage lists yield empty results, never errors.
func (p *Pipeline) Evaluate(batch []models.Record, gages []models.Gage, tables models.Tables, asOf time.Time) models.Evaluation {
	annotations := p.repeat.Detect(batch, tables.Repeat, asOf)

	copqByID := make(map[string]float64, len(batch))
	breakdowns := make([]CostBreakdown, len(batch))
	for i, rec := range batch {
		breakdowns[i] = p.cost.Estimate(rec, tables.Cost)
		if rec.ID != "" {
			copqByID[rec.ID] = breakdowns[i].COPQ
		}
	}

	statuses := make([]models.CalibrationStatus, 0, len(gages))
	overdueSeverity := make(map[string]models.Severity, len(gages))
	for _, g := range gages {
		status := p.calibration.Evaluate(g, tables.Risk.GageCalibration, asOf)
		statuses = append(statuses, status)
		if status.Status == models.CalibrationOverdue && g.GageID != "" {
			overdueSeverity[g.GageID] = OverdueSeverity(g, tables.Risk.GageCalibration)
		}
	}

	assessments := make([]models.Assessment, len(batch))
	for i, rec := range batch {
		inputs := SeverityInputs{
			COPQ:          breakdowns[i].COPQ,
			RepeatScore:   annotations[i].Score,
			OverdueAction: actionOverdue(rec, asOf),
			OverdueNCR:    ncrOverdue(rec),
			GageOverdue:   overdueSeverity[strings.TrimSpace(rec.GageUsed)],
		}
		severity, reasons := p.severity.Assign(rec, tables.Risk, inputs)

		assessments[i] = models.Assessment{
			RecordID:     rec.ID,
			DowntimeCost: breakdowns[i].DowntimeCost,
			ScrapCost:    breakdowns[i].ScrapCost,
			COPQ:         breakdowns[i].COPQ,
			RepeatScore:  annotations[i].Score,
			RepeatFlag:   annotations[i].Flag,
			RepeatReason: annotations[i].Reason,
			Severity:     severity,
			Reasons:      reasons,
		}
	}

	alerts := p.notify.Generate(batch, gages, tables.Risk, copqByID, asOf)
	issues := p.health.Check(batch, gages, tables.Risk.GageCalibration, asOf)

	p.logger.Debug("evaluation complete",
		slog.Int("records", len(batch)),
		slog.Int("gages", len(gages)),
		slog.Int("alerts", len(alerts)),
		slog.Int("issues", len(issues)))

	return models.Evaluation{
		AsOf:         asOf,
		Assessments:  assessments,
		GageStatuses: statuses,
		Alerts:       alerts,
		Issues:       issues,
	}
}

// SummarizeRepeats builds the windowed repeat-offender aggregate tables,
// using freshly estimated COPQ per record.
func (p *Pipeline) SummarizeRepeats(batch []models.Record, tables models.Tables, minCount int, asOf time.Time) RepeatSummary {
	copqByID := make(map[string]float64, len(batch))
	for _, rec := range batch {
		if rec.ID != "" {
			copqByID[rec.ID] = p.cost.Estimate(rec, tables.Cost).COPQ
		}
	}
	return p.repeat.Summarize(batch, tables.Repeat, copqByID, minCount, asOf)
}

// actionOverdue reports an Open/Overdue action item whose due date has passed.
func actionOverdue(rec models.Record, asOf time.Time) bool {
	status := strings.TrimSpace(rec.ActionStatus)
	if status != "Open" && status != "Overdue" {
		return false
	}
	due, ok := utils.ParseLooseDate(rec.ActionDueDate)
	return ok && utils.DaysBetween(due, asOf) < 0
}

// ncrOverdue reports an NCR flagged past its aging threshold by the workflow.
func ncrOverdue(rec models.Record) bool {
	return strings.TrimSpace(rec.NCRID) != "" && strings.TrimSpace(rec.NCRStatus) == "Overdue"
}
