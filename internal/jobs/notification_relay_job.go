package jobs

import (
	"context"
	"log/slog"
	"sync"
)

const (
	// DefaultRelaySchedule runs the relay every five seconds.
	DefaultRelaySchedule = "*/5 * * * * *"
	DefaultRelayBatch    = 100
)

// NotificationRelay republishes stored notifications the broker never received.
type NotificationRelay interface {
	Relay(ctx context.Context, limit int) (int, error)
}

// NotificationRelayJob retries unpublished notifications on a schedule.
// A run that is still going when the next tick fires makes that tick a no-op.
type NotificationRelayJob struct {
	relay    NotificationRelay
	schedule string
	batch    int
	logger   *slog.Logger

	running sync.Mutex
}

func NewNotificationRelayJob(relay NotificationRelay, schedule string, batch int, logger *slog.Logger) *NotificationRelayJob {
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}
	if batch <= 0 {
		batch = DefaultRelayBatch
	}
	return &NotificationRelayJob{
		relay:    relay,
		schedule: schedule,
		batch:    batch,
		logger:   logger.With("component", "notification_relay_job"),
	}
}

func (j *NotificationRelayJob) Name() string     { return "notification relay" }
func (j *NotificationRelayJob) Schedule() string { return j.schedule }

func (j *NotificationRelayJob) Run(ctx context.Context) {
	if !j.running.TryLock() {
		return
	}
	defer j.running.Unlock()

	published, err := j.relay.Relay(ctx, j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification relay failed", "error", err)
		return
	}
	if published > 0 {
		j.logger.InfoContext(ctx, "Notifications relayed", "published", published)
	}
}
