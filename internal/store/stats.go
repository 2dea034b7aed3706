package store

import (
	"context"
	"fmt"
	"math"

	"cloud.google.com/go/civil"
	"github.com/starford/lifeflow/internal/models"
)

// Overview computes the statistics overview. A task counts as completed once
// it has any check-in; today is the caller's local date.
func (db *DB) Overview(ctx context.Context, today civil.Date) (*models.StatsOverview, error) {
	var o models.StatsOverview
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM task_cards WHERE is_deleted = 0),
			(SELECT COUNT(DISTINCT t.id) FROM task_cards t
				JOIN checkin_records c ON c.task_id = t.id
				WHERE t.is_deleted = 0),
			(SELECT COALESCE(MAX(MAX(current_streak, longest_streak)), 0) FROM task_cards
				WHERE is_habit = 1 AND is_deleted = 0),
			(SELECT COUNT(*) FROM checkin_records WHERE checkin_date = ?)
	`, today.String()).Scan(&o.TotalTasks, &o.CompletedTasks, &o.LongestStreak, &o.TodayCheckins)
	if err != nil {
		return nil, fmt.Errorf("store: overview: %w", err)
	}
	o.PendingTasks = o.TotalTasks - o.CompletedTasks
	o.CompletionRate = percent(o.CompletedTasks, o.TotalTasks)
	return &o, nil
}

// DailyRing counts active habits and how many of them were checked in on day.
func (db *DB) DailyRing(ctx context.Context, day civil.Date) (*models.DailyRing, error) {
	r := models.DailyRing{Date: day}
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM task_cards WHERE is_habit = 1 AND is_deleted = 0),
			(SELECT COUNT(DISTINCT c.task_id) FROM checkin_records c
				JOIN task_cards t ON t.id = c.task_id
				WHERE c.checkin_date = ? AND t.is_habit = 1 AND t.is_deleted = 0)
	`, day.String()).Scan(&r.TotalHabits, &r.CompletedHabits)
	if err != nil {
		return nil, fmt.Errorf("store: daily ring: %w", err)
	}
	r.Percentage = percent(r.CompletedHabits, r.TotalHabits)
	return &r, nil
}

// percent returns part/whole as a percentage rounded to one decimal.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
