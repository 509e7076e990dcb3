package engine

import (
	"fmt"
	"math"
	"strconv"

	"renalert/internal/models"
)

// Weight loss rule: losing at least 2 kg within 14 days raises an alert,
// critical when the two measurements are at most 7 days apart, high
// otherwise. There is no warning tier for this metric.
const (
	weightLossMinDeltaKg   = 2.0
	weightLossWindowDays   = 14
	weightLossCriticalDays = 7
)

// WeightLossEvaluator compares the consultation's weight with the most
// recent prior weighted consultation of the same patient.
type WeightLossEvaluator struct{}

func (WeightLossEvaluator) Metric() models.MetricType { return models.MetricWeightLoss }

func (WeightLossEvaluator) Evaluate(c *models.Consultation, _ Limits, history []models.Consultation) (*models.Alert, error) {
	if c.Weight == nil {
		return nil, nil
	}

	current, err := strconv.ParseFloat(*c.Weight, 64)
	if err != nil {
		return nil, fmt.Errorf("parse weight %q: %w", *c.Weight, err)
	}

	// Most recent prior consultation with a recorded weight. The history
	// may include the triggering consultation itself; skip it.
	var previous *models.Consultation
	for i := range history {
		h := &history[i]
		if h.ID == c.ID || h.Weight == nil || h.Date.After(c.Date) {
			continue
		}
		if previous == nil || h.Date.After(previous.Date) {
			previous = h
		}
	}
	if previous == nil {
		return nil, nil
	}

	previousWeight, err := strconv.ParseFloat(*previous.Weight, 64)
	if err != nil {
		return nil, fmt.Errorf("parse previous weight %q: %w", *previous.Weight, err)
	}

	delta := previousWeight - current
	if delta < weightLossMinDeltaKg {
		return nil, nil
	}

	days := int(math.Ceil(c.Date.Sub(previous.Date).Hours() / 24))
	if days > weightLossWindowDays {
		return nil, nil
	}

	severity := models.SeverityHigh
	if days <= weightLossCriticalDays {
		severity = models.SeverityCritical
	}

	consultationID := c.ID
	return &models.Alert{
		PatientID:      c.PatientID,
		ConsultationID: &consultationID,
		Type:           models.MetricWeightLoss,
		Severity:       severity,
		Message:        fmt.Sprintf("Perte de poids rapide: -%.1fkg en %d jours", delta, days),
		Value:          formatNumber(-delta),
		Threshold:      "-2kg/14jours",
	}, nil
}
