package models

import (
	"errors"
	"time"
)

// AlertThreshold configures the severity cutoffs for one metric, either
// globally (PatientID nil, IsGlobal true) or for a single patient. A nil
// level disables that severity for the scope.
type AlertThreshold struct {
	ID            string     `json:"id"`
	PatientID     *string    `json:"patientId"`
	Type          MetricType `json:"type"`
	CriticalValue *float64   `json:"criticalValue"`
	HighValue     *float64   `json:"highValue"`
	WarningValue  *float64   `json:"warningValue"`
	IsGlobal      bool       `json:"isGlobal"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

var ErrInvalidThresholdScope = errors.New("threshold must be either global or patient-scoped")

// Validate checks the metric type and the scope invariant: a threshold
// is global exactly when it names no patient.
func (t *AlertThreshold) Validate() error {
	if !t.Type.IsValid() {
		return ErrInvalidMetricType
	}

	if t.IsGlobal == (t.PatientID != nil && *t.PatientID != "") {
		return ErrInvalidThresholdScope
	}

	return nil
}
