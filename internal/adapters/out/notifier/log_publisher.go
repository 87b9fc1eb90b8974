package notifier

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/notification"
)

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	p.logger.InfoContext(ctx, "notification",
		"notification_id", n.ID().String(),
		"routing_key", n.Type().RoutingKey(),
		"recipient_id", n.RecipientID().String(),
		"order_id", n.OrderID().String(),
		"message", n.Message(),
	)
	return nil
}
