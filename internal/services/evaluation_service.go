package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/cache"
	"github.com/shopfloorstack/shopfloor-qre/internal/engine"
	"github.com/shopfloorstack/shopfloor-qre/internal/metrics"
	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// EvaluationService wraps the engine pipeline with the operational concerns
// the API layer should not know about: the live threshold tables, alert
// cooldown suppression, metrics, and latency tracking.
type EvaluationService struct {
	logger   *slog.Logger
	pipeline *engine.Pipeline
	provider cache.Provider
	cooldown time.Duration
	latency  *utils.LatencyTracker

	mu     sync.RWMutex
	tables models.Tables
}

// NewEvaluationService builds a service around the given tables and cache
// provider. A nil provider disables alert suppression.
func NewEvaluationService(logger *slog.Logger, tables models.Tables, provider cache.Provider, cooldown time.Duration) *EvaluationService {
	if logger == nil {
		logger = slog.Default()
	}
	if provider == nil {
		provider = cache.NewNoopProvider()
	}
	return &EvaluationService{
		logger:   logger,
		pipeline: engine.NewPipeline(logger),
		provider: provider,
		cooldown: cooldown,
		latency:  utils.NewLatencyTracker(512),
		tables:   tables,
	}
}

// Tables returns the active threshold tables.
func (s *EvaluationService) Tables() models.Tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables
}

// UpdateTables swaps in a new set of threshold tables. In-flight evaluations
// keep the snapshot they started with.
func (s *EvaluationService) UpdateTables(t models.Tables) {
	s.mu.Lock()
	s.tables = t
	s.mu.Unlock()
	s.logger.Info("threshold tables updated")
}

// Evaluate runs the pipeline over a batch as of the given day. minSeverity,
// when set, filters both alerts and health issues; the cooldown cache then
// drops alerts whose fingerprint fired within the cooldown window.
func (s *EvaluationService) Evaluate(ctx context.Context, batch []models.Record, gages []models.Gage, asOf time.Time, minSeverity models.Severity) models.Evaluation {
	start := time.Now()
	tables := s.Tables()

	result := s.pipeline.Evaluate(batch, gages, tables, asOf)

	if minSeverity != "" {
		result.Alerts = engine.FilterAlerts(result.Alerts, minSeverity)
		result.Issues = engine.FilterIssues(result.Issues, minSeverity)
	}
	result.Alerts = s.suppressRepeats(ctx, result.Alerts)

	for _, a := range result.Alerts {
		metrics.CountAlert(a.Severity)
	}

	elapsed := time.Since(start)
	metrics.ObserveEvaluation(elapsed, metrics.OutcomeSuccess)
	s.latency.Observe(elapsed)
	if n := s.latency.Count(); n >= 20 && n%20 == 0 {
		s.logger.Info("evaluation latency",
			slog.Duration("p50", s.latency.Percentile(50)),
			slog.Duration("p95", s.latency.Percentile(95)),
			slog.Int("samples", n))
	}

	return result
}

// GageStatuses evaluates calibration state for a gage list without records.
func (s *EvaluationService) GageStatuses(gages []models.Gage, asOf time.Time) []models.CalibrationStatus {
	return s.pipeline.Evaluate(nil, gages, s.Tables(), asOf).GageStatuses
}

// SummarizeRepeats builds the windowed repeat-offender aggregates.
func (s *EvaluationService) SummarizeRepeats(batch []models.Record, minCount int, asOf time.Time) engine.RepeatSummary {
	return s.pipeline.SummarizeRepeats(batch, s.Tables(), minCount, asOf)
}

// suppressRepeats drops alerts whose fingerprint already fired inside the
// cooldown window. Cache failures fail open: the alert is kept.
func (s *EvaluationService) suppressRepeats(ctx context.Context, alerts []models.Alert) []models.Alert {
	if s.cooldown <= 0 {
		return alerts
	}

	kept := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		first, err := s.provider.SetNX(ctx, alertFingerprint(a), string(a.Severity), s.cooldown)
		if err != nil {
			s.logger.Warn("alert cooldown check failed", slog.Any("error", err))
			kept = append(kept, a)
			continue
		}
		if !first {
			metrics.CountSuppressedAlert()
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// alertFingerprint identifies an alert across batches. The generated ID and
// timestamp change every run, so the key is built from the alert type, title,
// and the related entity ids.
func alertFingerprint(a models.Alert) string {
	parts := make([]string, 0, len(a.Related))
	for k, v := range a.Related {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return fmt.Sprintf("qre:alert:%s:%s:%s", a.Type, a.Title, strings.Join(parts, ","))
}
