package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

const (
	// OutcomeSuccess labels completed evaluations.
	OutcomeSuccess = "success"
	// OutcomeError labels evaluations rejected before the engine ran.
	OutcomeError = "error"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopfloor_qre",
			Name:      "evaluations_total",
			Help:      "Total number of batch evaluations handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	evaluationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shopfloor_qre",
			Name:      "evaluation_seconds",
			Help:      "Batch evaluation latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	alertsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopfloor_qre",
			Name:      "alerts_emitted_total",
			Help:      "Alerts emitted to callers, partitioned by severity.",
		},
		[]string{"severity"},
	)

	alertsSuppressedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shopfloor_qre",
			Name:      "alerts_suppressed_total",
			Help:      "Alerts suppressed by the cooldown cache.",
		},
	)
)

// Register attaches the QRE collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		evaluationsTotal,
		evaluationDurationSeconds,
		alertsEmittedTotal,
		alertsSuppressedTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation records an evaluation duration and outcome label.
func ObserveEvaluation(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	evaluationsTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	evaluationDurationSeconds.Observe(duration.Seconds())
}

// CountAlert records one emitted alert by severity.
func CountAlert(sev models.Severity) {
	alertsEmittedTotal.WithLabelValues(string(sev)).Inc()
}

// CountSuppressedAlert records one alert held back by the cooldown cache.
func CountSuppressedAlert() {
	alertsSuppressedTotal.Inc()
}
