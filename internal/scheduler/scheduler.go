// Package scheduler runs the notification generators periodically.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/metrics"
	"github.com/starford/lifeflow/internal/models"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = time.Hour

// Generator creates notifications; notify.Service implements it.
type Generator interface {
	GenerateHabitReminders(ctx context.Context, offsetMinutes int) ([]models.Notification, error)
	GenerateAtRiskNotifications(ctx context.Context, offsetMinutes int) ([]models.Notification, error)
}

type job struct {
	name string
	run  func(ctx context.Context, offsetMinutes int) ([]models.Notification, error)
}

// Scheduler invokes the reminder and at-risk generators on a fixed interval.
// With no client to ask, "today" is the host's local date.
type Scheduler struct {
	interval time.Duration
	jobs     []job
	logger   *slog.Logger
	offset   func() int
}

// New creates a Scheduler.
func New(gen Generator, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		logger:   logger,
		offset:   func() int { return clock.ServerOffset(time.Now()) },
		jobs: []job{
			{name: "reminders", run: gen.GenerateHabitReminders},
			{name: "at_risk", run: gen.GenerateAtRiskNotifications},
		},
	}
}

// Run executes one pass immediately and then one per interval until ctx is
// cancelled. Job failures are logged and never stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler: started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every job once.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		created, err := j.run(ctx, s.offset())
		if err != nil {
			metrics.SchedulerRuns.WithLabelValues(j.name, "error").Inc()
			s.logger.Error("scheduler: job failed",
				slog.String("job", j.name),
				slog.String("error", err.Error()))
			continue
		}
		metrics.SchedulerRuns.WithLabelValues(j.name, "ok").Inc()
		if len(created) > 0 {
			s.logger.Info("scheduler: notifications created",
				slog.String("job", j.name),
				slog.Int("count", len(created)))
		}
	}
}
