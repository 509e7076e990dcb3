package notify

import (
	"context"

	"renalert/internal/models"
)

// Notifier fans out created alerts to external systems. Publishing is a
// secondary effect: callers log failures and move on, alert persistence
// never depends on it.
type Notifier interface {
	AlertCreated(ctx context.Context, alert *models.Alert) error
	Close() error
}

// Noop discards all notifications. Used when no brokers are configured.
type Noop struct{}

func (Noop) AlertCreated(ctx context.Context, alert *models.Alert) error { return nil }
func (Noop) Close() error                                                { return nil }
