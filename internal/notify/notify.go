// Package notify generates and manages in-app notifications: daily habit
// reminders, at-risk warnings, streak achievements and the daily-complete
// message. The notifications table is the only dedup ledger.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/store"
)

// Milestones are the streak lengths that earn an achievement.
var Milestones = []int{7, 14, 30, 60, 100}

// Service generates notifications against the store.
type Service struct {
	db     *store.DB
	now    clock.Clock
	logger *slog.Logger
}

// New returns a notification service.
func New(db *store.DB, now clock.Clock, logger *slog.Logger) *Service {
	return &Service{db: db, now: now, logger: logger}
}

// GenerateHabitReminders creates one reminder per active habit that has no
// streak and no check-in on the caller's local day, unless a plain reminder
// for it already exists in the current UTC day.
func (s *Service) GenerateHabitReminders(ctx context.Context, offsetMinutes int) ([]models.Notification, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	now := s.now()
	today := clock.LocalDate(offsetMinutes, now)
	from, to := clock.UTCDay(now)

	habits, err := s.db.ActiveHabits(ctx)
	if err != nil {
		return nil, err
	}

	created := []models.Notification{}
	notAtRisk := false
	for _, h := range habits {
		if h.CheckedInOn(today) || h.CurrentStreak > 0 {
			continue
		}
		exists, err := s.db.NotificationExists(ctx, store.NotificationQuery{
			Category: models.CategoryHabitReminder,
			From:     from,
			To:       to,
			HabitID:  h.ID,
			AtRisk:   &notAtRisk,
		})
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		n, err := s.create(ctx,
			"Habit reminder: "+h.Title,
			fmt.Sprintf("Don't forget to check in on %q today!", h.Title),
			models.ReminderPayload{HabitID: h.ID, HabitTitle: h.Title, CurrentStreak: h.CurrentStreak},
		)
		if err != nil {
			return created, err
		}
		created = append(created, *n)
	}
	return created, nil
}

// GenerateAtRiskNotifications warns about every active habit with a running
// streak that has not been checked in on the caller's local day, once per
// habit per UTC day.
func (s *Service) GenerateAtRiskNotifications(ctx context.Context, offsetMinutes int) ([]models.Notification, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	now := s.now()
	today := clock.LocalDate(offsetMinutes, now)
	from, to := clock.UTCDay(now)

	habits, err := s.db.ActiveHabits(ctx)
	if err != nil {
		return nil, err
	}

	created := []models.Notification{}
	atRisk := true
	for _, h := range habits {
		if h.CurrentStreak <= 0 || h.CheckedInOn(today) {
			continue
		}
		exists, err := s.db.NotificationExists(ctx, store.NotificationQuery{
			Category: models.CategoryHabitReminder,
			From:     from,
			To:       to,
			HabitID:  h.ID,
			AtRisk:   &atRisk,
		})
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		n, err := s.create(ctx,
			"Your streak is about to break",
			fmt.Sprintf("%q is on a %d-day streak and hasn't been checked in today!", h.Title, h.CurrentStreak),
			models.AtRiskPayload{HabitID: h.ID, HabitTitle: h.Title, CurrentStreak: h.CurrentStreak},
		)
		if err != nil {
			return created, err
		}
		created = append(created, *n)
	}
	return created, nil
}

// CheckStreakAchievement records an achievement when streak is a milestone
// not yet awarded to the habit. It returns nil when nothing was created.
func (s *Service) CheckStreakAchievement(ctx context.Context, habitID string, streak int, title string) (*models.Notification, error) {
	if !slices.Contains(Milestones, streak) {
		return nil, nil
	}
	exists, err := s.db.NotificationExists(ctx, store.NotificationQuery{
		Category:  models.CategoryAchievement,
		HabitID:   habitID,
		Milestone: streak,
	})
	if err != nil || exists {
		return nil, err
	}
	return s.create(ctx,
		"Achievement unlocked!",
		fmt.Sprintf("Congratulations! %q has a %d-day streak!", title, streak),
		models.AchievementPayload{HabitID: habitID, HabitTitle: title, Streak: streak, Milestone: streak},
	)
}

// CheckDailyComplete records the daily-complete message once per UTC day
// when every active habit has been checked in on the caller's local day.
func (s *Service) CheckDailyComplete(ctx context.Context, offsetMinutes int) (*models.Notification, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	now := s.now()
	today := clock.LocalDate(offsetMinutes, now)
	from, to := clock.UTCDay(now)

	habits, err := s.db.ActiveHabits(ctx)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, nil
	}
	for _, h := range habits {
		if !h.CheckedInOn(today) {
			return nil, nil
		}
	}

	exists, err := s.db.NotificationExists(ctx, store.NotificationQuery{
		Category: models.CategoryDailyComplete,
		From:     from,
		To:       to,
	})
	if err != nil || exists {
		return nil, err
	}
	return s.create(ctx,
		"All habits done today!",
		fmt.Sprintf("Great job! You completed all %d habits today!", len(habits)),
		models.DailyCompletePayload{CompletedCount: len(habits), Date: today},
	)
}

func (s *Service) create(ctx context.Context, title, message string, p models.Payload) (*models.Notification, error) {
	return s.insert(ctx, &models.Notification{Category: p.Category(), Payload: p}, title, message)
}

func newID() string { return uuid.NewString() }
