package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the SQL DDL for all tables. It is safe to execute multiple
// times (uses IF NOT EXISTS) and runs at application startup as an
// auto-migration step.
//
// The partial unique indexes on alert_thresholds enforce the
// one-current-row-per-(type, scope) invariant at the storage layer, so
// concurrent default seeding cannot leave duplicate rows. The unique
// index on alerts (consultation_id, type) makes alert creation
// idempotent per evaluation pass.
const Schema = `
CREATE TABLE IF NOT EXISTS patients (
    id                TEXT PRIMARY KEY,
    first_name        TEXT NOT NULL,
    last_name         TEXT NOT NULL,
    date_of_birth     TIMESTAMPTZ NOT NULL,
    gender            VARCHAR(10) NOT NULL,
    phone             TEXT,
    email             TEXT,
    address           TEXT,
    emergency_contact TEXT,
    medical_history   JSONB NOT NULL DEFAULT '[]',
    ckd_stage         INTEGER NOT NULL DEFAULT 1,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS consultations (
    id            TEXT PRIMARY KEY,
    patient_id    TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
    date          TIMESTAMPTZ NOT NULL DEFAULT now(),
    creatinine    DECIMAL(4,2),
    weight        DECIMAL(5,2),
    systolic_bp   INTEGER,
    diastolic_bp  INTEGER,
    notes         TEXT,
    doctor_name   TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_consultations_patient_date
    ON consultations (patient_id, date DESC);

CREATE TABLE IF NOT EXISTS alerts (
    id              TEXT PRIMARY KEY,
    patient_id      TEXT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
    consultation_id TEXT REFERENCES consultations(id) ON DELETE CASCADE,
    type            VARCHAR(50) NOT NULL,
    severity        VARCHAR(20) NOT NULL,
    message         TEXT NOT NULL,
    value           TEXT NOT NULL,
    threshold       TEXT NOT NULL,
    is_read         BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_consultation_type
    ON alerts (consultation_id, type) WHERE consultation_id IS NOT NULL;

CREATE INDEX IF NOT EXISTS idx_alerts_unread
    ON alerts (created_at DESC) WHERE NOT is_read;

CREATE TABLE IF NOT EXISTS alert_thresholds (
    id             TEXT PRIMARY KEY,
    patient_id     TEXT REFERENCES patients(id) ON DELETE CASCADE,
    type           VARCHAR(50) NOT NULL,
    critical_value DECIMAL(10,2),
    high_value     DECIMAL(10,2),
    warning_value  DECIMAL(10,2),
    is_global      BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_thresholds_global_type
    ON alert_thresholds (type) WHERE is_global;

CREATE UNIQUE INDEX IF NOT EXISTS idx_thresholds_patient_type
    ON alert_thresholds (patient_id, type) WHERE patient_id IS NOT NULL;
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
