package engine

import (
	"sort"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

// FilterAlerts keeps alerts at or above min severity, sorted most severe
// first while preserving generation order within a band.
func FilterAlerts(alerts []models.Alert, min models.Severity) []models.Alert {
	filtered := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity.AtLeast(min) {
			filtered = append(filtered, a)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Severity.Rank() > filtered[j].Severity.Rank()
	})
	return filtered
}

// FilterIssues keeps health issues at or above min severity, sorted most
// severe first while preserving scan order within a band.
func FilterIssues(issues []models.HealthIssue, min models.Severity) []models.HealthIssue {
	filtered := make([]models.HealthIssue, 0, len(issues))
	for _, it := range issues {
		if it.Severity.AtLeast(min) {
			filtered = append(filtered, it)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Severity.Rank() > filtered[j].Severity.Rank()
	})
	return filtered
}
