package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"renalert/internal/logger"
	"renalert/internal/metrics"
	"renalert/internal/models"
)

// Notifier errors
var (
	ErrNotifierClosed = errors.New("notifier is closed")
)

// AlertEvent is the JSON payload published for every persisted alert.
type AlertEvent struct {
	AlertID        string    `json:"alert_id"`
	PatientID      string    `json:"patient_id"`
	ConsultationID string    `json:"consultation_id,omitempty"`
	Type           string    `json:"type"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	Value          string    `json:"value"`
	Threshold      string    `json:"threshold"`
	CreatedAt      time.Time `json:"created_at"`
}

// KafkaConfig holds configuration for the Kafka notifier.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	QueueSize    int
	WriteTimeout time.Duration
}

// KafkaNotifier publishes alert events to a Kafka topic. Events are
// queued on a buffered channel and written by a background goroutine so
// that the evaluation pass never blocks on the broker; when the queue is
// full the event is dropped and counted.
type KafkaNotifier struct {
	writer       *kafka.Writer
	queue        chan *AlertEvent
	writeTimeout time.Duration

	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewKafkaNotifier creates the notifier and starts its publish loop.
func NewKafkaNotifier(cfg KafkaConfig) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	n := &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{}, // partition by patient for ordering
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequireOne,
		},
		queue:        make(chan *AlertEvent, cfg.QueueSize),
		writeTimeout: cfg.WriteTimeout,
	}

	n.wg.Add(1)
	go n.publishLoop()

	return n, nil
}

// AlertCreated enqueues the alert for publishing. It never blocks: when
// the queue is full the event is dropped.
func (n *KafkaNotifier) AlertCreated(ctx context.Context, alert *models.Alert) error {
	if n.closed.Load() {
		return ErrNotifierClosed
	}

	event := &AlertEvent{
		AlertID:   alert.ID,
		PatientID: alert.PatientID,
		Type:      string(alert.Type),
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		Value:     alert.Value,
		Threshold: alert.Threshold,
		CreatedAt: alert.CreatedAt,
	}
	if alert.ConsultationID != nil {
		event.ConsultationID = *alert.ConsultationID
	}

	select {
	case n.queue <- event:
		return nil
	default:
		metrics.NotifyPublishTotal.WithLabelValues("dropped").Inc()
		return errors.New("notify queue full, event dropped")
	}
}

func (n *KafkaNotifier) publishLoop() {
	defer n.wg.Done()
	log := logger.WithComponent("kafka_notifier")

	for event := range n.queue {
		data, err := json.Marshal(event)
		if err != nil {
			metrics.NotifyPublishTotal.WithLabelValues("failed").Inc()
			log.Error().Err(err).Str("alert_id", event.AlertID).Msg("failed to serialize alert event")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), n.writeTimeout)
		err = n.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.PatientID),
			Value: data,
			Headers: []kafka.Header{
				{Key: "alert_id", Value: []byte(event.AlertID)},
				{Key: "severity", Value: []byte(event.Severity)},
			},
		})
		cancel()

		if err != nil {
			metrics.NotifyPublishTotal.WithLabelValues("failed").Inc()
			log.Error().Err(err).Str("alert_id", event.AlertID).Msg("failed to publish alert event")
			continue
		}

		metrics.NotifyPublishTotal.WithLabelValues("success").Inc()
		log.Debug().
			Str("alert_id", event.AlertID).
			Str("severity", event.Severity).
			Msg("alert event published")
	}
}

// Close drains the queue and closes the writer.
func (n *KafkaNotifier) Close() error {
	if n.closed.Swap(true) {
		return nil
	}
	close(n.queue)
	n.wg.Wait()
	return n.writer.Close()
}
