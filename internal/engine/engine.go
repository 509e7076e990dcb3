package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"renalert/internal/logger"
	"renalert/internal/metrics"
	"renalert/internal/models"
	"renalert/internal/notify"
)

// ThresholdStore is the threshold access the engine needs.
type ThresholdStore interface {
	ThresholdSource
	ThresholdExists(ctx context.Context, metric models.MetricType) (bool, error)
	UpsertThreshold(ctx context.Context, t *models.AlertThreshold) error
}

// HistorySource supplies a patient's prior consultations, most recent
// first, as a finite snapshot of the persisted state at call time.
type HistorySource interface {
	ConsultationsByPatient(ctx context.Context, patientID string) ([]models.Consultation, error)
}

// AlertSink persists generated alerts.
type AlertSink interface {
	CreateAlert(ctx context.Context, a *models.Alert) error
}

// Engine runs all metric evaluators against incoming consultations and
// persists the alerts they produce. It is stateless: each consultation
// triggers one independent evaluation pass.
type Engine struct {
	resolver   *Resolver
	thresholds ThresholdStore
	history    HistorySource
	alerts     AlertSink
	notifier   notify.Notifier
	evaluators []Evaluator
	log        zerolog.Logger
}

// New creates the engine with the full evaluator set. A nil notifier
// disables alert fan-out.
func New(thresholds ThresholdStore, history HistorySource, alerts AlertSink, notifier notify.Notifier) *Engine {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Engine{
		resolver:   NewResolver(thresholds),
		thresholds: thresholds,
		history:    history,
		alerts:     alerts,
		notifier:   notifier,
		evaluators: []Evaluator{
			CreatinineEvaluator{},
			BloodPressureEvaluator{},
			WeightLossEvaluator{},
		},
		log: logger.WithComponent("alert_engine"),
	}
}

// Resolver exposes the engine's threshold resolver.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// SeedDefaultThresholds creates global default threshold rows for the
// metrics that have none. Idempotent: metrics with any configured row,
// global or patient-scoped, are left untouched. Called from bootstrap
// and defensively at the start of every evaluation pass; the storage
// layer's uniqueness constraint on (type, scope) covers the race between
// concurrent passes.
func (e *Engine) SeedDefaultThresholds(ctx context.Context) error {
	for _, metric := range seededMetrics {
		exists, err := e.thresholds.ThresholdExists(ctx, metric)
		if err != nil {
			return fmt.Errorf("check thresholds for %s: %w", metric, err)
		}
		if exists {
			continue
		}

		defaults := defaultLimits(metric)
		now := time.Now().UTC()
		t := &models.AlertThreshold{
			ID:            uuid.New().String(),
			Type:          metric,
			CriticalValue: defaults.Critical,
			HighValue:     defaults.High,
			WarningValue:  defaults.Warning,
			IsGlobal:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := e.thresholds.UpsertThreshold(ctx, t); err != nil {
			return fmt.Errorf("seed default threshold for %s: %w", metric, err)
		}

		metrics.ThresholdSeeds.WithLabelValues(string(metric)).Inc()
		e.log.Info().Str("type", string(metric)).Msg("default threshold seeded")
	}
	return nil
}

// OnConsultationCreated runs one evaluation pass for a newly persisted
// consultation. It never fails: every error is logged and swallowed so
// that alert generation can never block clinical data entry. The worst
// outcome is a missed alert.
func (e *Engine) OnConsultationCreated(ctx context.Context, c *models.Consultation) {
	log := e.log.With().
		Str("consultation_id", c.ID).
		Str("patient_id", c.PatientID).
		Logger()

	metrics.ConsultationsEvaluated.Inc()

	if err := e.SeedDefaultThresholds(ctx); err != nil {
		log.Error().Err(err).Msg("failed to seed default thresholds")
	}

	// Only the weight-loss evaluator needs history; one fetch serves the
	// whole pass.
	var history []models.Consultation
	if c.Weight != nil {
		h, err := e.history.ConsultationsByPatient(ctx, c.PatientID)
		if err != nil {
			log.Error().Err(err).Msg("failed to fetch consultation history")
		} else {
			history = h
		}
	}

	for _, ev := range e.evaluators {
		alert := e.runEvaluator(ctx, ev, c, history, log)
		if alert == nil {
			continue
		}

		alert.ID = uuid.New().String()
		alert.IsRead = false
		alert.CreatedAt = time.Now().UTC()

		if err := e.alerts.CreateAlert(ctx, alert); err != nil {
			metrics.AlertPersistFailures.Inc()
			log.Error().Err(err).
				Str("type", string(alert.Type)).
				Msg("failed to persist alert")
			continue
		}

		metrics.AlertsGenerated.WithLabelValues(string(alert.Type), string(alert.Severity)).Inc()
		log.Info().
			Str("alert_id", alert.ID).
			Str("type", string(alert.Type)).
			Str("severity", string(alert.Severity)).
			Str("value", alert.Value).
			Msg("alert created")

		if err := e.notifier.AlertCreated(ctx, alert); err != nil {
			log.Warn().Err(err).Str("alert_id", alert.ID).Msg("alert notification failed")
		}
	}
}

// runEvaluator resolves the thresholds and runs one evaluator, catching
// errors and panics so one failing metric never prevents the others from
// running.
func (e *Engine) runEvaluator(ctx context.Context, ev Evaluator, c *models.Consultation, history []models.Consultation, log zerolog.Logger) (alert *models.Alert) {
	metric := ev.Metric()

	defer func() {
		if r := recover(); r != nil {
			metrics.EvaluationFailures.WithLabelValues(string(metric)).Inc()
			metrics.PanicsRecovered.WithLabelValues("alert_engine").Inc()
			log.Error().
				Interface("panic", r).
				Str("type", string(metric)).
				Str("stack", string(debug.Stack())).
				Msg("evaluator panicked")
			alert = nil
		}
	}()

	limits, err := e.resolver.Resolve(ctx, metric, c.PatientID)
	if err != nil {
		metrics.EvaluationFailures.WithLabelValues(string(metric)).Inc()
		log.Error().Err(err).Str("type", string(metric)).Msg("threshold resolution failed")
		return nil
	}

	a, err := ev.Evaluate(c, limits, history)
	if err != nil {
		metrics.EvaluationFailures.WithLabelValues(string(metric)).Inc()
		log.Error().Err(err).Str("type", string(metric)).Msg("evaluator failed")
		return nil
	}
	return a
}
