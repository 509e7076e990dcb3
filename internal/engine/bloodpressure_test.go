package engine_test

import (
	"testing"

	"renalert/internal/engine"
	"renalert/internal/models"
)

func defaultBPLimits() engine.Limits {
	return engine.Limits{Critical: f64(180), High: f64(160), Warning: f64(140)}
}

func TestBloodPressureEvaluatorSeverity(t *testing.T) {
	tests := []struct {
		name         string
		systolic     *int
		diastolic    *int
		wantSeverity models.Severity
		wantAlert    bool
	}{
		{"above critical", intptr(185), intptr(110), models.SeverityCritical, true},
		{"exactly critical cut point", intptr(180), intptr(100), models.SeverityCritical, true},
		{"high", intptr(165), intptr(95), models.SeverityHigh, true},
		{"exactly high cut point", intptr(160), intptr(90), models.SeverityHigh, true},
		{"warning", intptr(145), intptr(85), models.SeverityWarning, true},
		{"exactly warning cut point", intptr(140), intptr(85), models.SeverityWarning, true},
		{"normal", intptr(120), intptr(80), "", false},
		{"high diastolic alone does not drive severity", intptr(130), intptr(115), "", false},
		{"missing systolic", nil, intptr(95), "", false},
		{"missing diastolic", intptr(185), nil, "", false},
	}

	ev := engine.BloodPressureEvaluator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Consultation{
				ID:          "consult-1",
				PatientID:   "patient-1",
				SystolicBP:  tt.systolic,
				DiastolicBP: tt.diastolic,
			}
			alert, err := ev.Evaluate(c, defaultBPLimits(), nil)
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if !tt.wantAlert {
				if alert != nil {
					t.Fatalf("Evaluate returned alert %+v, want none", alert)
				}
				return
			}
			if alert == nil {
				t.Fatal("Evaluate returned no alert, want one")
			}
			if alert.Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", alert.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestBloodPressureEvaluatorAlertFields(t *testing.T) {
	ev := engine.BloodPressureEvaluator{}
	c := &models.Consultation{
		ID:          "consult-1",
		PatientID:   "patient-1",
		SystolicBP:  intptr(185),
		DiastolicBP: intptr(110),
	}

	alert, err := ev.Evaluate(c, defaultBPLimits(), nil)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if alert == nil {
		t.Fatal("Evaluate returned no alert")
	}
	if alert.Value != "185/110" {
		t.Errorf("Value = %q, want 185/110", alert.Value)
	}
	if alert.Message != "Tension artérielle critique: 185/110 mmHg" {
		t.Errorf("Message = %q", alert.Message)
	}
	if alert.Threshold != ">180 mmHg" {
		t.Errorf("Threshold = %q, want >180 mmHg", alert.Threshold)
	}
}

// The diastolic value must appear in the value field even when severity
// comes from a lower tier.
func TestBloodPressureEvaluatorCarriesDiastolic(t *testing.T) {
	ev := engine.BloodPressureEvaluator{}
	c := &models.Consultation{
		ID:          "consult-1",
		PatientID:   "patient-1",
		SystolicBP:  intptr(142),
		DiastolicBP: intptr(88),
	}

	alert, err := ev.Evaluate(c, defaultBPLimits(), nil)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if alert == nil {
		t.Fatal("Evaluate returned no alert")
	}
	if alert.Severity != models.SeverityWarning {
		t.Errorf("Severity = %s, want warning", alert.Severity)
	}
	if alert.Value != "142/88" {
		t.Errorf("Value = %q, want 142/88", alert.Value)
	}
}
