package models

// Severity represents alert severity levels, from most to least urgent.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityWarning  Severity = "warning"
)

var severityRank = map[Severity]int{
	SeverityCritical: 3,
	SeverityHigh:     2,
	SeverityWarning:  1,
}

// Rank returns the urgency rank of the severity; higher is more urgent.
// Unknown severities rank below every valid one.
func (s Severity) Rank() int {
	return severityRank[s]
}

// MoreUrgentThan reports whether s outranks other.
func (s Severity) MoreUrgentThan(other Severity) bool {
	return s.Rank() > other.Rank()
}

// IsValid checks if the severity level is valid.
func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// MetricType identifies the clinical metric an alert or threshold
// applies to.
type MetricType string

const (
	MetricCreatinine    MetricType = "creatinine"
	MetricBloodPressure MetricType = "blood_pressure"
	MetricWeightLoss    MetricType = "weight_loss"
)

// MetricTypes lists every known metric type.
var MetricTypes = []MetricType{MetricCreatinine, MetricBloodPressure, MetricWeightLoss}

// IsValid checks if the metric type is one of the known metrics.
func (m MetricType) IsValid() bool {
	switch m {
	case MetricCreatinine, MetricBloodPressure, MetricWeightLoss:
		return true
	default:
		return false
	}
}
