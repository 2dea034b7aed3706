package store

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/lifeflow/internal/models"
)

// ListSettings returns every stored setting ordered by key.
func (db *DB) ListSettings(ctx context.Context) ([]models.Setting, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("store: list settings: %w", err)
	}
	defer rows.Close()

	out := []models.Setting{}
	for rows.Next() {
		var (
			s       models.Setting
			updated string
		)
		if err := rows.Scan(&s.Key, &s.Value, &updated); err != nil {
			return nil, fmt.Errorf("store: list settings: %w", err)
		}
		if s.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PutSettings upserts every key in values atomically.
func (db *DB) PutSettings(ctx context.Context, values map[string]string, now time.Time) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for k, v := range values {
			_, err := tx.tx.ExecContext(ctx, `
				INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET
					value      = excluded.value,
					updated_at = excluded.updated_at
			`, k, v, formatTime(now))
			if err != nil {
				return fmt.Errorf("store: put setting %s: %w", k, err)
			}
		}
		return nil
	})
}
