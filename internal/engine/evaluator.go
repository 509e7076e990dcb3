package engine

import (
	"strconv"

	"renalert/internal/models"
)

// Evaluator maps a consultation (plus resolved limits and patient
// history) to zero or one alert. Evaluators are pure: they never touch
// storage and return at most the highest applicable severity. Missing
// required fields mean not-applicable, never an error.
type Evaluator interface {
	Metric() models.MetricType
	Evaluate(c *models.Consultation, limits Limits, history []models.Consultation) (*models.Alert, error)
}

// classify checks value against the limits in descending severity order:
// critical first, then high, then warning. Bounds are inclusive, so a
// value equal to a cut point belongs to that severity. Returns the
// matched severity and crossed cut point.
func classify(value float64, l Limits) (models.Severity, float64, bool) {
	if l.Critical != nil && value >= *l.Critical {
		return models.SeverityCritical, *l.Critical, true
	}
	if l.High != nil && value >= *l.High {
		return models.SeverityHigh, *l.High, true
	}
	if l.Warning != nil && value >= *l.Warning {
		return models.SeverityWarning, *l.Warning, true
	}
	return "", 0, false
}

// formatNumber renders a measurement without trailing zeros ("3", "2.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
