//go:build !sqlite_fts5

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/lifeflow/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; Search scans task and entry text with LIKE.
	return nil
}

// Search performs a LIKE-based search over live tasks and life entries
// (fallback when FTS5 is not compiled in).
func (db *DB) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.QueryContext(ctx, `
		SELECT 'task', id, title, substr(content, 1, 200)
		FROM task_cards
		WHERE is_deleted = 0 AND (title LIKE ? OR content LIKE ?)
		UNION ALL
		SELECT 'life_entry', id, '', substr(content, 1, 200)
		FROM life_entries
		WHERE is_deleted = 0 AND content LIKE ?
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	out := []models.SearchHit{}
	for rows.Next() {
		var h models.SearchHit
		if err := rows.Scan(&h.Kind, &h.ID, &h.Title, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
