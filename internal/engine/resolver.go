package engine

import (
	"context"
	"fmt"

	"renalert/internal/models"
)

// ThresholdSource reads configured thresholds.
type ThresholdSource interface {
	GlobalThreshold(ctx context.Context, metric models.MetricType) (*models.AlertThreshold, error)
	PatientThreshold(ctx context.Context, patientID string, metric models.MetricType) (*models.AlertThreshold, error)
}

// Limits are the resolved cut points for one metric. A nil level disables
// that severity for the evaluation.
type Limits struct {
	Critical *float64
	High     *float64
	Warning  *float64
}

// Resolver resolves the applicable cut points for a metric and patient,
// applying the precedence patient-specific → global → hardcoded defaults.
// All evaluators share this single precedence policy.
type Resolver struct {
	thresholds ThresholdSource
}

// NewResolver creates a resolver backed by the given threshold source.
func NewResolver(src ThresholdSource) *Resolver {
	return &Resolver{thresholds: src}
}

// Resolve returns the cut points for the metric. Each level falls back
// independently from the patient row to the global row. The hardcoded
// defaults apply only when no configured row exists for the metric at
// all. The result is always structurally complete; levels may be nil.
func (r *Resolver) Resolve(ctx context.Context, metric models.MetricType, patientID string) (Limits, error) {
	var patient *models.AlertThreshold
	if patientID != "" {
		t, err := r.thresholds.PatientThreshold(ctx, patientID, metric)
		if err != nil {
			return Limits{}, fmt.Errorf("patient threshold %s: %w", metric, err)
		}
		patient = t
	}

	global, err := r.thresholds.GlobalThreshold(ctx, metric)
	if err != nil {
		return Limits{}, fmt.Errorf("global threshold %s: %w", metric, err)
	}

	if patient == nil && global == nil {
		return defaultLimits(metric), nil
	}

	return Limits{
		Critical: pickLevel(patient, global, func(t *models.AlertThreshold) *float64 { return t.CriticalValue }),
		High:     pickLevel(patient, global, func(t *models.AlertThreshold) *float64 { return t.HighValue }),
		Warning:  pickLevel(patient, global, func(t *models.AlertThreshold) *float64 { return t.WarningValue }),
	}, nil
}

// pickLevel takes the patient's value for a level when set, else the
// global's.
func pickLevel(patient, global *models.AlertThreshold, level func(*models.AlertThreshold) *float64) *float64 {
	if patient != nil {
		if v := level(patient); v != nil {
			return v
		}
	}
	if global != nil {
		return level(global)
	}
	return nil
}
