package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

func hasCheckin(ctx context.Context, q querier, taskID string, day civil.Date) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM checkin_records WHERE task_id = ? AND checkin_date = ? LIMIT 1`,
		taskID, day.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: has checkin: %w", err)
	}
	return true, nil
}

// HasCheckin reports whether taskID has a record on day.
func (db *DB) HasCheckin(ctx context.Context, taskID string, day civil.Date) (bool, error) {
	return hasCheckin(ctx, db.conn, taskID, day)
}

// HasCheckin reports whether taskID has a record on day inside the transaction.
func (tx *Tx) HasCheckin(ctx context.Context, taskID string, day civil.Date) (bool, error) {
	return hasCheckin(ctx, tx.tx, taskID, day)
}

// InsertCheckin stores r. A second record for the same task and date fails
// with apperr.ErrConflict.
func (tx *Tx) InsertCheckin(ctx context.Context, r models.CheckinRecord) error {
	_, err := tx.tx.ExecContext(ctx, `
		INSERT INTO checkin_records (id, task_id, checkin_date, checkin_time)
		VALUES (?, ?, ?, ?)
	`, r.ID, r.TaskID, r.CheckinDate.String(), formatTime(r.CheckinTime))
	if isUniqueViolation(err) {
		return fmt.Errorf("store: checkin %s on %s: %w", r.TaskID, r.CheckinDate, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("store: insert checkin: %w", err)
	}
	return nil
}

// ListCheckins returns up to limit records for taskID, newest date first.
func (db *DB) ListCheckins(ctx context.Context, taskID string, limit int) ([]models.CheckinRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, task_id, checkin_date, checkin_time
		FROM checkin_records
		WHERE task_id = ?
		ORDER BY checkin_date DESC
		LIMIT ?
	`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list checkins: %w", err)
	}
	defer rows.Close()

	out := []models.CheckinRecord{}
	for rows.Next() {
		r, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list checkins: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CheckinDates returns every check-in date per task, ascending.
func (db *DB) CheckinDates(ctx context.Context) (map[string][]civil.Date, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT task_id, checkin_date FROM checkin_records ORDER BY task_id, checkin_date`)
	if err != nil {
		return nil, fmt.Errorf("store: checkin dates: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]civil.Date)
	for rows.Next() {
		var taskID, raw string
		if err := rows.Scan(&taskID, &raw); err != nil {
			return nil, err
		}
		d, err := civil.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("store: parse checkin date %q: %w", raw, err)
		}
		out[taskID] = append(out[taskID], d)
	}
	return out, rows.Err()
}

func scanCheckin(s scanner) (models.CheckinRecord, error) {
	var (
		r          models.CheckinRecord
		date, when string
	)
	if err := s.Scan(&r.ID, &r.TaskID, &date, &when); err != nil {
		return r, err
	}
	d, err := civil.ParseDate(date)
	if err != nil {
		return r, fmt.Errorf("store: parse checkin date %q: %w", date, err)
	}
	r.CheckinDate = d
	if r.CheckinTime, err = parseTime(when); err != nil {
		return r, err
	}
	return r, nil
}
