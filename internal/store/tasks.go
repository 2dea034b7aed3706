package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

const taskColumns = `id, title, content, list_id, is_habit, reminder_time,
	current_streak, longest_streak, last_checkin_date, created_at, updated_at, is_deleted`

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	ListID         *string
	IncludeDeleted bool
}

func scanTask(s scanner) (models.Task, error) {
	var (
		t                  models.Task
		listID             sql.NullString
		reminder, lastDate sql.NullString
		created, updated   string
	)
	err := s.Scan(&t.ID, &t.Title, &t.Content, &listID, &t.IsHabit, &reminder,
		&t.CurrentStreak, &t.LongestStreak, &lastDate, &created, &updated, &t.IsDeleted)
	if err != nil {
		return t, err
	}
	t.ListID = ptrString(listID)
	if t.ReminderTime, err = parseNullTime(reminder); err != nil {
		return t, err
	}
	if t.LastCheckinDate, err = parseNullDate(lastDate); err != nil {
		return t, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return t, err
	}
	return t, nil
}

func queryTasks(ctx context.Context, q querier, query string, args ...any) ([]models.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func getTask(ctx context.Context, q querier, id string) (*models.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM task_cards WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: task %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return &t, nil
}

// ListTasks returns tasks newest first.
func (db *DB) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM task_cards WHERE 1 = 1`
	var args []any
	if !f.IncludeDeleted {
		query += ` AND is_deleted = 0`
	}
	if f.ListID != nil {
		query += ` AND list_id = ?`
		args = append(args, *f.ListID)
	}
	query += ` ORDER BY created_at DESC`

	out, err := queryTasks(ctx, db.conn, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	return out, nil
}

// ActiveHabits returns every habit that is not soft-deleted.
func (db *DB) ActiveHabits(ctx context.Context) ([]models.Task, error) {
	out, err := queryTasks(ctx, db.conn,
		`SELECT `+taskColumns+` FROM task_cards WHERE is_habit = 1 AND is_deleted = 0 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: active habits: %w", err)
	}
	return out, nil
}

// GetTask returns the task with id, including soft-deleted ones.
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, db.conn, id)
}

// CreateTask inserts t as-is.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO task_cards (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Content, nullString(t.ListID), t.IsHabit, nullTime(t.ReminderTime),
		t.CurrentStreak, t.LongestStreak, nullDate(t.LastCheckinDate),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt), t.IsDeleted)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("store: create task: list: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: create task: %w", err)
	}
	return nil
}

// UpdateTask writes the editable fields of t. Streak fields are owned by
// check-in transactions and are left untouched.
func (db *DB) UpdateTask(ctx context.Context, t *models.Task) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE task_cards SET
			title         = ?,
			content       = ?,
			list_id       = ?,
			is_habit      = ?,
			reminder_time = ?,
			is_deleted    = ?,
			updated_at    = ?
		WHERE id = ?
	`, t.Title, t.Content, nullString(t.ListID), t.IsHabit, nullTime(t.ReminderTime),
		t.IsDeleted, formatTime(t.UpdatedAt), t.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("store: update task: list: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("store: update task: %w", err)
	}
	return expectAffected(res, "task", t.ID)
}

// SoftDeleteTask marks a task deleted.
func (db *DB) SoftDeleteTask(ctx context.Context, id string, now time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE task_cards SET is_deleted = 1, updated_at = ? WHERE id = ?`, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("store: soft delete task: %w", err)
	}
	return expectAffected(res, "task", id)
}

// DeleteTask removes a task and its check-in history.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM task_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	return expectAffected(res, "task", id)
}

// GetTask returns the task with id inside the transaction.
func (tx *Tx) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, tx.tx, id)
}

// SetStreak records the streak state computed for a check-in.
func (tx *Tx) SetStreak(ctx context.Context, id string, current, longest int, last civil.Date, now time.Time) error {
	res, err := tx.tx.ExecContext(ctx, `
		UPDATE task_cards SET
			current_streak    = ?,
			longest_streak    = ?,
			last_checkin_date = ?,
			updated_at        = ?
		WHERE id = ?
	`, current, longest, last.String(), formatTime(now), id)
	if err != nil {
		return fmt.Errorf("store: set streak: %w", err)
	}
	return expectAffected(res, "task", id)
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %s: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}
