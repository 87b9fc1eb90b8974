// Package notifier stores customer notifications and hands them to the
// message broker. A notification is written first and published second, so
// a broker outage leaves an unpublished row the relay picks up later.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const DefaultMaxAttempts = 10

var _ ports.NotificationSink = (*Dispatcher)(nil)

type Dispatcher struct {
	repository  ports.NotificationRepository
	publisher   ports.MessagePublisher
	logger      *slog.Logger
	maxAttempts int
	clock       func() time.Time
}

func NewDispatcher(
	repository ports.NotificationRepository,
	publisher ports.MessagePublisher,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if repository == nil {
		return nil, errs.NewValueIsRequiredError("repository")
	}
	if publisher == nil {
		return nil, errs.NewValueIsRequiredError("publisher")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		repository:  repository,
		publisher:   publisher,
		logger:      logger.With("component", "notifier"),
		maxAttempts: DefaultMaxAttempts,
		clock:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithMaxAttempts caps how many times the relay retries one notification.
func (d *Dispatcher) WithMaxAttempts(n int) *Dispatcher {
	if n > 0 {
		d.maxAttempts = n
	}
	return d
}

func (d *Dispatcher) WithClock(clock func() time.Time) *Dispatcher {
	if clock != nil {
		d.clock = clock
	}
	return d
}

// Publish stores the draft and tries to publish it right away. Only a failure
// to store is returned; a publish failure is recorded on the row for Relay.
func (d *Dispatcher) Publish(ctx context.Context, draft notification.Draft) error {
	n, err := notification.New(kernel.NewUUID(), draft, d.clock())
	if err != nil {
		return errs.NewNotificationError(string(draft.Type), err)
	}

	if err = d.repository.Add(ctx, n); err != nil {
		return errs.NewNotificationError(string(draft.Type), err)
	}

	d.deliver(ctx, n)
	return nil
}

// Relay retries up to limit stored notifications that were never published
// and returns how many went out.
func (d *Dispatcher) Relay(ctx context.Context, limit int) (int, error) {
	pending, err := d.repository.ListUnpublished(ctx, limit, d.maxAttempts)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, n := range pending {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}
		if d.deliver(ctx, n) {
			published++
		}
	}
	return published, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *notification.Notification) bool {
	log := d.logger.With("notification_id", n.ID().String(), "type", string(n.Type()))

	if err := d.publisher.Publish(ctx, n); err != nil {
		n.MarkFailed(err)
		log.WarnContext(ctx, "publish notification failed", "attempts", n.Attempts(), "error", err)
	} else {
		n.MarkPublished()
	}

	if err := d.repository.Update(ctx, n); err != nil {
		log.ErrorContext(ctx, "record notification delivery", "error", err)
	}
	return n.Published()
}
