package storage

import (
	"context"
	"errors"

	"renalert/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Stats are the dashboard counters.
type Stats struct {
	TotalPatients      int `json:"totalPatients"`
	TodayConsultations int `json:"todayConsultations"`
	ActiveAlerts       int `json:"activeAlerts"`
}

// PatientStore persists patients.
type PatientStore interface {
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	ListPatients(ctx context.Context) ([]models.Patient, error)
	CreatePatient(ctx context.Context, p *models.Patient) error
	UpdatePatient(ctx context.Context, p *models.Patient) error
	// DeletePatient removes the patient and cascades to consultations,
	// alerts and patient-scoped thresholds.
	DeletePatient(ctx context.Context, id string) error
}

// ConsultationStore persists consultations.
type ConsultationStore interface {
	GetConsultation(ctx context.Context, id string) (*models.Consultation, error)
	ListConsultations(ctx context.Context) ([]models.Consultation, error)
	RecentConsultations(ctx context.Context, limit int) ([]models.Consultation, error)
	// ConsultationsByPatient returns the patient's consultations, most
	// recent first.
	ConsultationsByPatient(ctx context.Context, patientID string) ([]models.Consultation, error)
	CreateConsultation(ctx context.Context, c *models.Consultation) error
	UpdateConsultation(ctx context.Context, c *models.Consultation) error
	DeleteConsultation(ctx context.Context, id string) error
}

// AlertStore persists alerts.
type AlertStore interface {
	// CreateAlert inserts the alert. Re-inserting an alert for the same
	// (consultation, type) pair is a no-op so that re-running an
	// evaluation pass never duplicates alerts.
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context) ([]models.AlertWithPatient, error)
	ListUnreadAlerts(ctx context.Context) ([]models.AlertWithPatient, error)
	AlertsByPatient(ctx context.Context, patientID string) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, id string) error
}

// ThresholdStore persists alert thresholds. For a given (type, scope)
// pair at most one row is current; writes upsert on that key.
type ThresholdStore interface {
	// GlobalThreshold returns the global row for the metric, nil if none.
	GlobalThreshold(ctx context.Context, metric models.MetricType) (*models.AlertThreshold, error)
	// PatientThreshold returns the patient-scoped row for the metric,
	// nil if none.
	PatientThreshold(ctx context.Context, patientID string, metric models.MetricType) (*models.AlertThreshold, error)
	ListGlobalThresholds(ctx context.Context) ([]models.AlertThreshold, error)
	ListPatientThresholds(ctx context.Context, patientID string) ([]models.AlertThreshold, error)
	// ThresholdExists reports whether any row, global or patient-scoped,
	// exists for the metric.
	ThresholdExists(ctx context.Context, metric models.MetricType) (bool, error)
	UpsertThreshold(ctx context.Context, t *models.AlertThreshold) error
}

// Store groups all persistence operations.
type Store interface {
	PatientStore
	ConsultationStore
	AlertStore
	ThresholdStore

	GetStats(ctx context.Context) (*Stats, error)
}
