package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	// Schedule is a cron expression with a leading seconds field.
	Schedule() string
	Run(ctx context.Context)
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	cron   *cron.Cron
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func NewJobManager(logger *slog.Logger, jobs ...Job) *JobManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &JobManager{
		cron:   cron.New(cron.WithSeconds()),
		jobs:   jobs,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "job_manager"),
	}
}

// StartAll schedules every job and starts the scheduler.
// Returns an error if any schedule is invalid; nothing is started then.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if _, err := jm.cron.AddFunc(job.Schedule(), func() { job.Run(jm.ctx) }); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.Name(), err)
		}
	}

	jm.cron.Start()
	for _, job := range jm.jobs {
		jm.logger.InfoContext(jm.ctx, "Job started", "job", job.Name(), "schedule", job.Schedule())
	}
	return nil
}

// StopAll stops scheduling, cancels running jobs and waits for them to return.
func (jm *JobManager) StopAll() {
	done := jm.cron.Stop()
	jm.cancel()
	<-done.Done()
	jm.logger.InfoContext(context.Background(), "Jobs stopped")
}
