package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/starford/lifeflow/internal/streak"
)

// Reconcile brings every task's streak fields back in line with its
// check-in history:
//   - tasks with records get current, longest and last date from a replay
//   - tasks without records are reset to zero
//
// It returns the number of tasks that were rewritten.
func Reconcile(ctx context.Context, db *DB, now time.Time, logger *slog.Logger) (int, error) {
	history, err := db.CheckinDates(ctx)
	if err != nil {
		return 0, err
	}
	tasks, err := db.ListTasks(ctx, TaskFilter{IncludeDeleted: true})
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, t := range tasks {
		sum := streak.Replay(history[t.ID])

		same := t.CurrentStreak == sum.Current && t.LongestStreak == sum.Longest
		switch {
		case sum.Last == nil:
			same = same && t.LastCheckinDate == nil
		default:
			same = same && t.LastCheckinDate != nil && *t.LastCheckinDate == *sum.Last
		}
		if same {
			continue
		}

		_, err := db.conn.ExecContext(ctx, `
			UPDATE task_cards SET
				current_streak    = ?,
				longest_streak    = ?,
				last_checkin_date = ?,
				updated_at        = ?
			WHERE id = ?
		`, sum.Current, sum.Longest, nullDate(sum.Last), formatTime(now), t.ID)
		if err != nil {
			logger.Warn("reconcile: update failed", slog.String("task", t.ID), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("reconcile: fixed streak",
			slog.String("task", t.ID),
			slog.Int("current", sum.Current),
			slog.Int("longest", sum.Longest))
		fixed++
	}
	return fixed, nil
}
