package engine_test

import (
	"context"
	"errors"
	"sync"

	"renalert/internal/models"
)

// In-memory fakes implementing the engine's store interfaces, so the
// engine and resolver are testable without a database.

type thresholdKey struct {
	metric  models.MetricType
	patient string // empty for global rows
}

type fakeThresholds struct {
	mu      sync.Mutex
	rows    map[thresholdKey]*models.AlertThreshold
	upserts int

	failExists error
	failUpsert error
}

func newFakeThresholds() *fakeThresholds {
	return &fakeThresholds{rows: make(map[thresholdKey]*models.AlertThreshold)}
}

func (f *fakeThresholds) GlobalThreshold(_ context.Context, metric models.MetricType) (*models.AlertThreshold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[thresholdKey{metric, ""}], nil
}

func (f *fakeThresholds) PatientThreshold(_ context.Context, patientID string, metric models.MetricType) (*models.AlertThreshold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[thresholdKey{metric, patientID}], nil
}

func (f *fakeThresholds) ThresholdExists(_ context.Context, metric models.MetricType) (bool, error) {
	if f.failExists != nil {
		return false, f.failExists
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.rows {
		if key.metric == metric {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeThresholds) UpsertThreshold(_ context.Context, t *models.AlertThreshold) error {
	if f.failUpsert != nil {
		return f.failUpsert
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := thresholdKey{t.Type, ""}
	if t.PatientID != nil {
		key.patient = *t.PatientID
	}
	row := *t
	f.rows[key] = &row
	return nil
}

func (f *fakeThresholds) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeHistory struct {
	consultations []models.Consultation
	err           error
}

func (f *fakeHistory) ConsultationsByPatient(_ context.Context, patientID string) ([]models.Consultation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Consultation
	for _, c := range f.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

type alertKey struct {
	consultation string
	metric       models.MetricType
}

// fakeAlerts mirrors the storage layer's idempotent insert: re-creating
// an alert for the same (consultation, type) pair is a no-op.
type fakeAlerts struct {
	mu      sync.Mutex
	created []models.Alert
	seen    map[alertKey]bool
	err     error
}

func newFakeAlerts() *fakeAlerts {
	return &fakeAlerts{seen: make(map[alertKey]bool)}
}

func (f *fakeAlerts) CreateAlert(_ context.Context, a *models.Alert) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ConsultationID != nil {
		key := alertKey{*a.ConsultationID, a.Type}
		if f.seen[key] {
			return nil
		}
		f.seen[key] = true
	}
	f.created = append(f.created, *a)
	return nil
}

func (f *fakeAlerts) byType(metric models.MetricType) *models.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.created {
		if f.created[i].Type == metric {
			return &f.created[i]
		}
	}
	return nil
}

var errStoreDown = errors.New("store unavailable")
