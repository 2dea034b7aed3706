package store

import (
	"context"
	"fmt"

	"github.com/starford/lifeflow/internal/models"
)

// Snapshot is every row of user data, including soft-deleted rows.
type Snapshot struct {
	Lists    []models.List
	Tasks    []models.Task
	Checkins []models.CheckinRecord
	Entries  []models.LifeEntry
	Settings []models.Setting
}

// Snapshot reads all user data in a single read transaction.
func (db *DB) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // read-only

	var s Snapshot

	rows, err := tx.QueryContext(ctx, `SELECT id, name, color, sort_order, created_at FROM card_lists ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot lists: %w", err)
	}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: snapshot lists: %w", err)
		}
		s.Lists = append(s.Lists, l)
	}
	rows.Close()

	if s.Tasks, err = queryTasks(ctx, tx, `SELECT `+taskColumns+` FROM task_cards ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("store: snapshot tasks: %w", err)
	}

	rows, err = tx.QueryContext(ctx, `SELECT id, task_id, checkin_date, checkin_time FROM checkin_records ORDER BY task_id, checkin_date`)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot checkins: %w", err)
	}
	for rows.Next() {
		r, err := scanCheckin(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: snapshot checkins: %w", err)
		}
		s.Checkins = append(s.Checkins, r)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT id, content, created_at, updated_at, is_deleted FROM life_entries ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot entries: %w", err)
	}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: snapshot entries: %w", err)
		}
		s.Entries = append(s.Entries, e)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("store: snapshot settings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			st      models.Setting
			updated string
		)
		if err := rows.Scan(&st.Key, &st.Value, &updated); err != nil {
			return nil, fmt.Errorf("store: snapshot settings: %w", err)
		}
		if st.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		s.Settings = append(s.Settings, st)
	}
	return &s, rows.Err()
}
