// Package habit records habit check-ins and maintains streaks.
package habit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/metrics"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/store"
	"github.com/starford/lifeflow/internal/streak"
)

const (
	DefaultCheckinLimit = 30
	MaxCheckinLimit     = 365
)

// Notifier runs the follow-up checks after a new check-in commits.
type Notifier interface {
	CheckStreakAchievement(ctx context.Context, habitID string, streak int, title string) (*models.Notification, error)
	CheckDailyComplete(ctx context.Context, offsetMinutes int) (*models.Notification, error)
}

// Service records check-ins.
type Service struct {
	db       *store.DB
	notifier Notifier
	now      clock.Clock
	logger   *slog.Logger
}

// New returns a check-in service. notifier may be nil.
func New(db *store.DB, notifier Notifier, now clock.Clock, logger *slog.Logger) *Service {
	return &Service{db: db, notifier: notifier, now: now, logger: logger}
}

// CheckIn records a check-in of taskID for the caller's local date and
// returns the task afterwards. created is false when the task was already
// checked in that day, in which case nothing is written. Offsets outside
// clock.MinOffset..clock.MaxOffset are a validation error.
func (s *Service) CheckIn(ctx context.Context, taskID string, offsetMinutes int) (task *models.Task, created bool, err error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, false, err
	}
	now := s.now().UTC()
	today := clock.LocalDate(offsetMinutes, now)

	task, err = s.db.GetTask(ctx, taskID)
	if err != nil {
		return nil, false, err
	}
	done, err := s.db.HasCheckin(ctx, taskID, today)
	if err != nil {
		return nil, false, err
	}
	if done {
		metrics.Checkins.WithLabelValues("duplicate").Inc()
		return task, false, nil
	}

	err = s.db.WithTx(ctx, func(tx *store.Tx) error {
		t, err := tx.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := tx.InsertCheckin(ctx, models.CheckinRecord{
			ID:          uuid.NewString(),
			TaskID:      taskID,
			CheckinDate: today,
			CheckinTime: now,
		}); err != nil {
			return err
		}

		next := streak.Next(t.LastCheckinDate, t.CurrentStreak, today)
		longest := max(t.LongestStreak, next)
		if err := tx.SetStreak(ctx, taskID, next, longest, today, now); err != nil {
			return err
		}

		t.CurrentStreak = next
		t.LongestStreak = longest
		t.LastCheckinDate = &today
		t.UpdatedAt = now
		task = t
		return nil
	})
	if errors.Is(err, apperr.ErrConflict) {
		// A concurrent request recorded today's check-in first.
		metrics.Checkins.WithLabelValues("duplicate").Inc()
		task, err = s.db.GetTask(ctx, taskID)
		return task, false, err
	}
	if err != nil {
		return nil, false, err
	}

	metrics.Checkins.WithLabelValues("created").Inc()
	s.logger.Info("habit checked in",
		slog.String("task", taskID),
		slog.String("date", today.String()),
		slog.Int("streak", task.CurrentStreak))
	s.followUp(ctx, task, offsetMinutes)
	return task, true, nil
}

// followUp runs the achievement and daily-complete checks. Their failures
// never fail the check-in.
func (s *Service) followUp(ctx context.Context, task *models.Task, offsetMinutes int) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.CheckStreakAchievement(ctx, task.ID, task.CurrentStreak, task.Title); err != nil {
		metrics.FollowUpFailures.WithLabelValues("achievement").Inc()
		s.logger.Warn("achievement check failed",
			slog.String("task", task.ID),
			slog.String("error", err.Error()))
	}
	if _, err := s.notifier.CheckDailyComplete(ctx, offsetMinutes); err != nil {
		metrics.FollowUpFailures.WithLabelValues("daily_complete").Inc()
		s.logger.Warn("daily complete check failed", slog.String("error", err.Error()))
	}
}

// ListCheckins returns the most recent check-ins of taskID, newest first.
// limit defaults to DefaultCheckinLimit and is clamped to MaxCheckinLimit.
func (s *Service) ListCheckins(ctx context.Context, taskID string, limit int) ([]models.CheckinRecord, error) {
	if _, err := s.db.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultCheckinLimit
	}
	limit = min(limit, MaxCheckinLimit)
	return s.db.ListCheckins(ctx, taskID, limit)
}
