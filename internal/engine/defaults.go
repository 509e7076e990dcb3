package engine

import (
	"renalert/internal/models"
)

// Hardcoded default cut points, used when no threshold row is configured
// for a metric and seeded as global rows on bootstrap. Weight loss has no
// configurable cut points; its rule is fixed (see weightloss.go).
var (
	defaultCreatinineLimits = Limits{ // mg/dL
		Critical: f64(3.0),
		High:     f64(2.0),
		Warning:  f64(1.3),
	}
	defaultBloodPressureLimits = Limits{ // systolic, mmHg
		Critical: f64(180),
		High:     f64(160),
		Warning:  f64(140),
	}
)

// seededMetrics lists the metrics that get global default rows created
// when none exist.
var seededMetrics = []models.MetricType{models.MetricCreatinine, models.MetricBloodPressure}

// defaultLimits returns a fresh copy of the hardcoded defaults for the
// metric, all-nil for metrics without defaults.
func defaultLimits(metric models.MetricType) Limits {
	switch metric {
	case models.MetricCreatinine:
		return copyLimits(defaultCreatinineLimits)
	case models.MetricBloodPressure:
		return copyLimits(defaultBloodPressureLimits)
	default:
		return Limits{}
	}
}

func copyLimits(l Limits) Limits {
	return Limits{
		Critical: copyFloat(l.Critical),
		High:     copyFloat(l.High),
		Warning:  copyFloat(l.Warning),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func f64(v float64) *float64 { return &v }
