package notify_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"renalert/internal/models"
	"renalert/internal/notify"
)

// skipIfNoKafka skips the test if Kafka is not available
func skipIfNoKafka(t *testing.T) {
	if os.Getenv("KAFKA_TEST") != "1" {
		t.Skip("Skipping Kafka integration test. Set KAFKA_TEST=1 to run.")
	}
}

func testAlert() *models.Alert {
	consultationID := "consult-1"
	return &models.Alert{
		ID:             "alert-1",
		PatientID:      "patient-1",
		ConsultationID: &consultationID,
		Type:           models.MetricCreatinine,
		Severity:       models.SeverityCritical,
		Message:        "Niveau de créatinine critique: 3.2 mg/dL",
		Value:          "3.2",
		Threshold:      ">3 mg/dL",
		CreatedAt:      time.Now().UTC(),
	}
}

func TestNewKafkaNotifierValidation(t *testing.T) {
	if _, err := notify.NewKafkaNotifier(notify.KafkaConfig{Topic: "renalert.alerts"}); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := notify.NewKafkaNotifier(notify.KafkaConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("expected error without topic")
	}
}

func TestKafkaNotifierClosedRejectsEvents(t *testing.T) {
	n, err := notify.NewKafkaNotifier(notify.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "renalert.alerts",
	})
	if err != nil {
		t.Fatalf("NewKafkaNotifier: %v", err)
	}

	// No events queued, so Close does not touch the broker.
	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	if err := n.AlertCreated(context.Background(), testAlert()); !errors.Is(err, notify.ErrNotifierClosed) {
		t.Errorf("AlertCreated after Close = %v, want ErrNotifierClosed", err)
	}
}

func TestKafkaNotifierPublish(t *testing.T) {
	skipIfNoKafka(t)

	n, err := notify.NewKafkaNotifier(notify.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "renalert.alerts.test",
	})
	if err != nil {
		t.Fatalf("NewKafkaNotifier: %v", err)
	}
	defer n.Close()

	if err := n.AlertCreated(context.Background(), testAlert()); err != nil {
		t.Fatalf("AlertCreated: %v", err)
	}
}

func TestNoopNotifier(t *testing.T) {
	var n notify.Notifier = notify.Noop{}
	if err := n.AlertCreated(context.Background(), testAlert()); err != nil {
		t.Errorf("Noop AlertCreated = %v, want nil", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("Noop Close = %v, want nil", err)
	}
}
