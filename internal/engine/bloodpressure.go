package engine

import (
	"fmt"

	"renalert/internal/models"
)

var bloodPressureQualifier = map[models.Severity]string{
	models.SeverityCritical: "critique",
	models.SeverityHigh:     "élevée",
	models.SeverityWarning:  "anormale",
}

// BloodPressureEvaluator raises an alert when the systolic pressure
// crosses a resolved cut point. Both values must be recorded; the
// diastolic value is carried in the message and value but does not
// change the severity.
type BloodPressureEvaluator struct{}

func (BloodPressureEvaluator) Metric() models.MetricType { return models.MetricBloodPressure }

func (BloodPressureEvaluator) Evaluate(c *models.Consultation, limits Limits, _ []models.Consultation) (*models.Alert, error) {
	if c.SystolicBP == nil || c.DiastolicBP == nil {
		return nil, nil
	}

	systolic := *c.SystolicBP
	diastolic := *c.DiastolicBP

	severity, cut, ok := classify(float64(systolic), limits)
	if !ok {
		return nil, nil
	}

	consultationID := c.ID
	return &models.Alert{
		PatientID:      c.PatientID,
		ConsultationID: &consultationID,
		Type:           models.MetricBloodPressure,
		Severity:       severity,
		Message:        fmt.Sprintf("Tension artérielle %s: %d/%d mmHg", bloodPressureQualifier[severity], systolic, diastolic),
		Value:          fmt.Sprintf("%d/%d", systolic, diastolic),
		Threshold:      fmt.Sprintf(">%s mmHg", formatNumber(cut)),
	}, nil
}
