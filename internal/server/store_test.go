package server_test

import (
	"context"
	"sort"
	"time"

	"renalert/internal/models"
	"renalert/internal/storage"
)

// memStore is an in-memory storage.Store for handler tests.
type memStore struct {
	patients      map[string]models.Patient
	consultations map[string]models.Consultation
	alerts        map[string]models.Alert
	thresholds    map[string]models.AlertThreshold
}

func newMemStore() *memStore {
	return &memStore{
		patients:      make(map[string]models.Patient),
		consultations: make(map[string]models.Consultation),
		alerts:        make(map[string]models.Alert),
		thresholds:    make(map[string]models.AlertThreshold),
	}
}

func (m *memStore) GetPatient(_ context.Context, id string) (*models.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) ListPatients(_ context.Context) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range m.patients {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) CreatePatient(_ context.Context, p *models.Patient) error {
	m.patients[p.ID] = *p
	return nil
}

func (m *memStore) UpdatePatient(_ context.Context, p *models.Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return storage.ErrNotFound
	}
	m.patients[p.ID] = *p
	return nil
}

func (m *memStore) DeletePatient(_ context.Context, id string) error {
	if _, ok := m.patients[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.patients, id)
	for cid, c := range m.consultations {
		if c.PatientID == id {
			delete(m.consultations, cid)
		}
	}
	for aid, a := range m.alerts {
		if a.PatientID == id {
			delete(m.alerts, aid)
		}
	}
	for tid, t := range m.thresholds {
		if t.PatientID != nil && *t.PatientID == id {
			delete(m.thresholds, tid)
		}
	}
	return nil
}

func (m *memStore) GetConsultation(_ context.Context, id string) (*models.Consultation, error) {
	c, ok := m.consultations[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) listConsultations() []models.Consultation {
	var out []models.Consultation
	for _, c := range m.consultations {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (m *memStore) ListConsultations(_ context.Context) ([]models.Consultation, error) {
	return m.listConsultations(), nil
}

func (m *memStore) RecentConsultations(_ context.Context, limit int) ([]models.Consultation, error) {
	out := m.listConsultations()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) ConsultationsByPatient(_ context.Context, patientID string) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, c := range m.listConsultations() {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) CreateConsultation(_ context.Context, c *models.Consultation) error {
	m.consultations[c.ID] = *c
	return nil
}

func (m *memStore) UpdateConsultation(_ context.Context, c *models.Consultation) error {
	if _, ok := m.consultations[c.ID]; !ok {
		return storage.ErrNotFound
	}
	m.consultations[c.ID] = *c
	return nil
}

func (m *memStore) DeleteConsultation(_ context.Context, id string) error {
	if _, ok := m.consultations[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.consultations, id)
	return nil
}

func (m *memStore) CreateAlert(_ context.Context, a *models.Alert) error {
	if a.ConsultationID != nil {
		for _, existing := range m.alerts {
			if existing.ConsultationID != nil &&
				*existing.ConsultationID == *a.ConsultationID &&
				existing.Type == a.Type {
				return nil
			}
		}
	}
	m.alerts[a.ID] = *a
	return nil
}

func (m *memStore) listAlerts() []models.Alert {
	var out []models.Alert
	for _, a := range m.alerts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) joinPatients(alerts []models.Alert) []models.AlertWithPatient {
	var out []models.AlertWithPatient
	for _, a := range alerts {
		aw := models.AlertWithPatient{Alert: a, Patient: m.patients[a.PatientID]}
		if a.ConsultationID != nil {
			if c, ok := m.consultations[*a.ConsultationID]; ok {
				aw.Consultation = &c
			}
		}
		out = append(out, aw)
	}
	return out
}

func (m *memStore) ListAlerts(_ context.Context) ([]models.AlertWithPatient, error) {
	return m.joinPatients(m.listAlerts()), nil
}

func (m *memStore) ListUnreadAlerts(_ context.Context) ([]models.AlertWithPatient, error) {
	var unread []models.Alert
	for _, a := range m.listAlerts() {
		if !a.IsRead {
			unread = append(unread, a)
		}
	}
	return m.joinPatients(unread), nil
}

func (m *memStore) AlertsByPatient(_ context.Context, patientID string) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range m.listAlerts() {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) MarkAlertRead(_ context.Context, id string) error {
	a, ok := m.alerts[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.IsRead = true
	m.alerts[id] = a
	return nil
}

func thresholdMapKey(t *models.AlertThreshold) string {
	if t.PatientID != nil {
		return string(t.Type) + "/" + *t.PatientID
	}
	return string(t.Type) + "/global"
}

func (m *memStore) GlobalThreshold(_ context.Context, metric models.MetricType) (*models.AlertThreshold, error) {
	t, ok := m.thresholds[string(metric)+"/global"]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memStore) PatientThreshold(_ context.Context, patientID string, metric models.MetricType) (*models.AlertThreshold, error) {
	t, ok := m.thresholds[string(metric)+"/"+patientID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memStore) ListGlobalThresholds(_ context.Context) ([]models.AlertThreshold, error) {
	var out []models.AlertThreshold
	for _, t := range m.thresholds {
		if t.IsGlobal {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (m *memStore) ListPatientThresholds(_ context.Context, patientID string) ([]models.AlertThreshold, error) {
	var out []models.AlertThreshold
	for _, t := range m.thresholds {
		if t.PatientID != nil && *t.PatientID == patientID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (m *memStore) ThresholdExists(_ context.Context, metric models.MetricType) (bool, error) {
	for _, t := range m.thresholds {
		if t.Type == metric {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpsertThreshold(_ context.Context, t *models.AlertThreshold) error {
	key := thresholdMapKey(t)
	if existing, ok := m.thresholds[key]; ok {
		existing.CriticalValue = t.CriticalValue
		existing.HighValue = t.HighValue
		existing.WarningValue = t.WarningValue
		existing.UpdatedAt = t.UpdatedAt
		m.thresholds[key] = existing
		return nil
	}
	m.thresholds[key] = *t
	return nil
}

func (m *memStore) GetStats(_ context.Context) (*storage.Stats, error) {
	st := &storage.Stats{TotalPatients: len(m.patients)}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, c := range m.consultations {
		if !c.Date.Before(today) && c.Date.Before(today.Add(24*time.Hour)) {
			st.TodayConsultations++
		}
	}
	for _, a := range m.alerts {
		if !a.IsRead {
			st.ActiveAlerts++
		}
	}
	return st, nil
}
