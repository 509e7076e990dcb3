package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"renalert/internal/models"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Connect opens a pool, verifies connectivity and applies the schema.
func Connect(ctx context.Context, databaseURL string, maxConns, minConns int32) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgres(pool), nil
}

// Close releases the underlying pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

// ---------------------------------------------------------------------------
// Patients
// ---------------------------------------------------------------------------

const patientColumns = `id, first_name, last_name, date_of_birth, gender,
	coalesce(phone, ''), coalesce(email, ''), coalesce(address, ''),
	coalesce(emergency_contact, ''), medical_history, ckd_stage,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	var p models.Patient
	var history []byte
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.Phone, &p.Email, &p.Address, &p.EmergencyContact, &history,
		&p.CKDStage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &p.MedicalHistory); err != nil {
		return nil, fmt.Errorf("decode medical history: %w", err)
	}
	return &p, nil
}

func (s *Postgres) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	p, err := scanPatient(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *Postgres) ListPatients(ctx context.Context) ([]models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}

func (s *Postgres) CreatePatient(ctx context.Context, p *models.Patient) error {
	history, err := json.Marshal(p.MedicalHistory)
	if err != nil {
		return fmt.Errorf("encode medical history: %w", err)
	}
	const query = `INSERT INTO patients
		(id, first_name, last_name, date_of_birth, gender, phone, email,
		 address, emergency_contact, medical_history, ckd_stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = s.pool.Exec(ctx, query, p.ID, p.FirstName, p.LastName, p.DateOfBirth,
		p.Gender, p.Phone, p.Email, p.Address, p.EmergencyContact, history,
		p.CKDStage, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (s *Postgres) UpdatePatient(ctx context.Context, p *models.Patient) error {
	history, err := json.Marshal(p.MedicalHistory)
	if err != nil {
		return fmt.Errorf("encode medical history: %w", err)
	}
	const query = `UPDATE patients SET
		first_name = $2, last_name = $3, date_of_birth = $4, gender = $5,
		phone = $6, email = $7, address = $8, emergency_contact = $9,
		medical_history = $10, ckd_stage = $11, updated_at = $12
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, p.ID, p.FirstName, p.LastName,
		p.DateOfBirth, p.Gender, p.Phone, p.Email, p.Address,
		p.EmergencyContact, history, p.CKDStage, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeletePatient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Consultations
// ---------------------------------------------------------------------------

const consultationColumns = `id, patient_id, date, creatinine::text,
	weight::text, systolic_bp, diastolic_bp, coalesce(notes, ''),
	doctor_name, created_at`

func scanConsultation(row pgx.Row) (*models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.Date, &c.Creatinine, &c.Weight,
		&c.SystolicBP, &c.DiastolicBP, &c.Notes, &c.DoctorName, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Postgres) queryConsultations(ctx context.Context, query string, args ...any) ([]models.Consultation, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query consultations: %w", err)
	}
	defer rows.Close()

	var consultations []models.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, *c)
	}
	return consultations, rows.Err()
}

func (s *Postgres) GetConsultation(ctx context.Context, id string) (*models.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`
	c, err := scanConsultation(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListConsultations(ctx context.Context) ([]models.Consultation, error) {
	return s.queryConsultations(ctx,
		`SELECT `+consultationColumns+` FROM consultations ORDER BY date DESC`)
}

func (s *Postgres) RecentConsultations(ctx context.Context, limit int) ([]models.Consultation, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryConsultations(ctx,
		`SELECT `+consultationColumns+` FROM consultations ORDER BY date DESC LIMIT $1`, limit)
}

func (s *Postgres) ConsultationsByPatient(ctx context.Context, patientID string) ([]models.Consultation, error) {
	return s.queryConsultations(ctx,
		`SELECT `+consultationColumns+` FROM consultations WHERE patient_id = $1 ORDER BY date DESC`,
		patientID)
}

func (s *Postgres) CreateConsultation(ctx context.Context, c *models.Consultation) error {
	const query = `INSERT INTO consultations
		(id, patient_id, date, creatinine, weight, systolic_bp, diastolic_bp,
		 notes, doctor_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.pool.Exec(ctx, query, c.ID, c.PatientID, c.Date, c.Creatinine,
		c.Weight, c.SystolicBP, c.DiastolicBP, c.Notes, c.DoctorName, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}
	return nil
}

func (s *Postgres) UpdateConsultation(ctx context.Context, c *models.Consultation) error {
	const query = `UPDATE consultations SET
		date = $2, creatinine = $3, weight = $4, systolic_bp = $5,
		diastolic_bp = $6, notes = $7, doctor_name = $8
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, c.ID, c.Date, c.Creatinine, c.Weight,
		c.SystolicBP, c.DiastolicBP, c.Notes, c.DoctorName)
	if err != nil {
		return fmt.Errorf("update consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) DeleteConsultation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Alerts
// ---------------------------------------------------------------------------

func (s *Postgres) CreateAlert(ctx context.Context, a *models.Alert) error {
	// ON CONFLICT DO NOTHING on (consultation_id, type): re-running an
	// evaluation pass on the same consultation must not duplicate alerts.
	const query = `INSERT INTO alerts
		(id, patient_id, consultation_id, type, severity, message, value,
		 threshold, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (consultation_id, type) WHERE consultation_id IS NOT NULL
		DO NOTHING`
	_, err := s.pool.Exec(ctx, query, a.ID, a.PatientID, a.ConsultationID,
		a.Type, a.Severity, a.Message, a.Value, a.Threshold, a.IsRead, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

const alertJoinQuery = `SELECT
	a.id, a.patient_id, a.consultation_id, a.type, a.severity, a.message,
	a.value, a.threshold, a.is_read, a.created_at,
	p.id, p.first_name, p.last_name, p.date_of_birth, p.gender,
	coalesce(p.phone, ''), coalesce(p.email, ''), coalesce(p.address, ''),
	coalesce(p.emergency_contact, ''), p.medical_history, p.ckd_stage,
	p.created_at, p.updated_at
	FROM alerts a
	JOIN patients p ON p.id = a.patient_id`

func (s *Postgres) queryAlertsWithPatients(ctx context.Context, query string, args ...any) ([]models.AlertWithPatient, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.AlertWithPatient
	for rows.Next() {
		var aw models.AlertWithPatient
		var history []byte
		err := rows.Scan(
			&aw.ID, &aw.PatientID, &aw.ConsultationID, &aw.Type, &aw.Severity,
			&aw.Message, &aw.Value, &aw.Threshold, &aw.IsRead, &aw.CreatedAt,
			&aw.Patient.ID, &aw.Patient.FirstName, &aw.Patient.LastName,
			&aw.Patient.DateOfBirth, &aw.Patient.Gender, &aw.Patient.Phone,
			&aw.Patient.Email, &aw.Patient.Address, &aw.Patient.EmergencyContact,
			&history, &aw.Patient.CKDStage, &aw.Patient.CreatedAt, &aw.Patient.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		if err := json.Unmarshal(history, &aw.Patient.MedicalHistory); err != nil {
			return nil, fmt.Errorf("decode medical history: %w", err)
		}
		if aw.ConsultationID != nil {
			c, err := s.GetConsultation(ctx, *aw.ConsultationID)
			if err == nil {
				aw.Consultation = c
			} else if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		alerts = append(alerts, aw)
	}
	return alerts, rows.Err()
}

func (s *Postgres) ListAlerts(ctx context.Context) ([]models.AlertWithPatient, error) {
	return s.queryAlertsWithPatients(ctx, alertJoinQuery+` ORDER BY a.created_at DESC`)
}

func (s *Postgres) ListUnreadAlerts(ctx context.Context) ([]models.AlertWithPatient, error) {
	return s.queryAlertsWithPatients(ctx,
		alertJoinQuery+` WHERE NOT a.is_read ORDER BY a.created_at DESC`)
}

func (s *Postgres) AlertsByPatient(ctx context.Context, patientID string) ([]models.Alert, error) {
	const query = `SELECT id, patient_id, consultation_id, type, severity,
		message, value, threshold, is_read, created_at
		FROM alerts WHERE patient_id = $1 ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("alerts by patient: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(&a.ID, &a.PatientID, &a.ConsultationID, &a.Type,
			&a.Severity, &a.Message, &a.Value, &a.Threshold, &a.IsRead, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *Postgres) MarkAlertRead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Thresholds
// ---------------------------------------------------------------------------

const thresholdColumns = `id, patient_id, type, critical_value::float8,
	high_value::float8, warning_value::float8, is_global, created_at, updated_at`

func scanThreshold(row pgx.Row) (*models.AlertThreshold, error) {
	var t models.AlertThreshold
	err := row.Scan(&t.ID, &t.PatientID, &t.Type, &t.CriticalValue,
		&t.HighValue, &t.WarningValue, &t.IsGlobal, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Postgres) GlobalThreshold(ctx context.Context, metric models.MetricType) (*models.AlertThreshold, error) {
	query := `SELECT ` + thresholdColumns + ` FROM alert_thresholds
		WHERE type = $1 AND is_global`
	t, err := scanThreshold(s.pool.QueryRow(ctx, query, metric))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("global threshold: %w", err)
	}
	return t, nil
}

func (s *Postgres) PatientThreshold(ctx context.Context, patientID string, metric models.MetricType) (*models.AlertThreshold, error) {
	query := `SELECT ` + thresholdColumns + ` FROM alert_thresholds
		WHERE type = $1 AND patient_id = $2`
	t, err := scanThreshold(s.pool.QueryRow(ctx, query, metric, patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("patient threshold: %w", err)
	}
	return t, nil
}

func (s *Postgres) queryThresholds(ctx context.Context, query string, args ...any) ([]models.AlertThreshold, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query thresholds: %w", err)
	}
	defer rows.Close()

	var thresholds []models.AlertThreshold
	for rows.Next() {
		t, err := scanThreshold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan threshold: %w", err)
		}
		thresholds = append(thresholds, *t)
	}
	return thresholds, rows.Err()
}

func (s *Postgres) ListGlobalThresholds(ctx context.Context) ([]models.AlertThreshold, error) {
	return s.queryThresholds(ctx,
		`SELECT `+thresholdColumns+` FROM alert_thresholds WHERE is_global ORDER BY type`)
}

func (s *Postgres) ListPatientThresholds(ctx context.Context, patientID string) ([]models.AlertThreshold, error) {
	return s.queryThresholds(ctx,
		`SELECT `+thresholdColumns+` FROM alert_thresholds WHERE patient_id = $1 ORDER BY type`,
		patientID)
}

func (s *Postgres) ThresholdExists(ctx context.Context, metric models.MetricType) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alert_thresholds WHERE type = $1)`, metric).
		Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("threshold exists: %w", err)
	}
	return exists, nil
}

func (s *Postgres) UpsertThreshold(ctx context.Context, t *models.AlertThreshold) error {
	if t.IsGlobal {
		const query = `INSERT INTO alert_thresholds
			(id, patient_id, type, critical_value, high_value, warning_value,
			 is_global, created_at, updated_at)
			VALUES ($1, NULL, $2, $3, $4, $5, TRUE, $6, $6)
			ON CONFLICT (type) WHERE is_global DO UPDATE SET
				critical_value = EXCLUDED.critical_value,
				high_value     = EXCLUDED.high_value,
				warning_value  = EXCLUDED.warning_value,
				updated_at     = EXCLUDED.updated_at`
		_, err := s.pool.Exec(ctx, query, t.ID, t.Type, t.CriticalValue,
			t.HighValue, t.WarningValue, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert global threshold: %w", err)
		}
		return nil
	}

	const query = `INSERT INTO alert_thresholds
		(id, patient_id, type, critical_value, high_value, warning_value,
		 is_global, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7)
		ON CONFLICT (patient_id, type) WHERE patient_id IS NOT NULL DO UPDATE SET
			critical_value = EXCLUDED.critical_value,
			high_value     = EXCLUDED.high_value,
			warning_value  = EXCLUDED.warning_value,
			updated_at     = EXCLUDED.updated_at`
	_, err := s.pool.Exec(ctx, query, t.ID, t.PatientID, t.Type,
		t.CriticalValue, t.HighValue, t.WarningValue, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert patient threshold: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func (s *Postgres) GetStats(ctx context.Context) (*Stats, error) {
	const query = `SELECT
		(SELECT count(*) FROM patients),
		(SELECT count(*) FROM consultations WHERE date >= date_trunc('day', now())
			AND date < date_trunc('day', now()) + interval '1 day'),
		(SELECT count(*) FROM alerts WHERE NOT is_read)`
	var st Stats
	if err := s.pool.QueryRow(ctx, query).Scan(&st.TotalPatients, &st.TodayConsultations, &st.ActiveAlerts); err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return &st, nil
}
