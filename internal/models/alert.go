package models

import (
	"errors"
	"time"
)

// Alert is a clinical alert raised by a metric evaluator. Value and
// Threshold are display strings whose format depends on the metric.
type Alert struct {
	ID             string     `json:"id"`
	PatientID      string     `json:"patientId"`
	ConsultationID *string    `json:"consultationId"`
	Type           MetricType `json:"type"`
	Severity       Severity   `json:"severity"`
	Message        string     `json:"message"`
	Value          string     `json:"value"`
	Threshold      string     `json:"threshold"`
	IsRead         bool       `json:"isRead"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// AlertWithPatient is an alert joined with the patient it concerns and,
// when present, the consultation that triggered it.
type AlertWithPatient struct {
	Alert
	Patient      Patient       `json:"patient"`
	Consultation *Consultation `json:"consultation,omitempty"`
}

var (
	ErrInvalidMetricType = errors.New("unknown metric type")
	ErrInvalidSeverity   = errors.New("unknown severity")
	ErrEmptyMessage      = errors.New("message is required")
)

// Validate checks that the alert carries a valid type, severity and
// the required fields.
func (a *Alert) Validate() error {
	if a.PatientID == "" {
		return ErrEmptyPatientID
	}

	if !a.Type.IsValid() {
		return ErrInvalidMetricType
	}

	if !a.Severity.IsValid() {
		return ErrInvalidSeverity
	}

	if a.Message == "" {
		return ErrEmptyMessage
	}

	return nil
}
