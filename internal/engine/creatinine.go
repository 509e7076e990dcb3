package engine

import (
	"fmt"
	"strconv"

	"renalert/internal/models"
)

// creatinineQualifier is the French severity wording for creatinine
// messages.
var creatinineQualifier = map[models.Severity]string{
	models.SeverityCritical: "critique",
	models.SeverityHigh:     "élevé",
	models.SeverityWarning:  "anormal",
}

// CreatinineEvaluator raises an alert when the serum creatinine level
// crosses a resolved cut point.
type CreatinineEvaluator struct{}

func (CreatinineEvaluator) Metric() models.MetricType { return models.MetricCreatinine }

func (CreatinineEvaluator) Evaluate(c *models.Consultation, limits Limits, _ []models.Consultation) (*models.Alert, error) {
	if c.Creatinine == nil {
		return nil, nil
	}

	value, err := strconv.ParseFloat(*c.Creatinine, 64)
	if err != nil {
		return nil, fmt.Errorf("parse creatinine %q: %w", *c.Creatinine, err)
	}

	severity, cut, ok := classify(value, limits)
	if !ok {
		return nil, nil
	}

	consultationID := c.ID
	return &models.Alert{
		PatientID:      c.PatientID,
		ConsultationID: &consultationID,
		Type:           models.MetricCreatinine,
		Severity:       severity,
		Message:        fmt.Sprintf("Niveau de créatinine %s: %s mg/dL", creatinineQualifier[severity], formatNumber(value)),
		Value:          formatNumber(value),
		Threshold:      fmt.Sprintf(">%s mg/dL", formatNumber(cut)),
	}, nil
}
