package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error

	// Update persists the delivery bookkeeping of n.
	Update(ctx context.Context, n *notification.Notification) error

	// ListUnpublished returns the oldest notifications not yet handed to the
	// broker that have been tried fewer than maxAttempts times. Rows nobody has
	// tried yet are left to the dispatcher that stored them for a grace period.
	ListUnpublished(ctx context.Context, limit, maxAttempts int) ([]*notification.Notification, error)
}

// NotificationSink stores and delivers customer notifications. Callers treat
// its failures as non fatal.
type NotificationSink interface {
	Publish(ctx context.Context, draft notification.Draft) error
}

// MessagePublisher hands a stored notification to the message broker.
type MessagePublisher interface {
	Publish(ctx context.Context, n *notification.Notification) error
}

// EarningsCacheInvalidator drops a shipper's cached earnings summary once a
// completion changes it.
type EarningsCacheInvalidator interface {
	Invalidate(ctx context.Context, shipperID kernel.UUID) error
}
