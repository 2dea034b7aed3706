//go:build sqlite_fts5

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/lifeflow/internal/models"
)

// The FTS table is kept in sync by triggers, so repository writes need no
// extra statements.
const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS search_fts USING fts5(
	kind UNINDEXED,
	ref_id UNINDEXED,
	title,
	body,
	tokenize = 'unicode61 remove_diacritics 2'
);

CREATE TRIGGER IF NOT EXISTS task_cards_fts_ai AFTER INSERT ON task_cards BEGIN
	INSERT INTO search_fts (kind, ref_id, title, body) VALUES ('task', new.id, new.title, new.content);
END;
CREATE TRIGGER IF NOT EXISTS task_cards_fts_au AFTER UPDATE OF title, content ON task_cards BEGIN
	DELETE FROM search_fts WHERE kind = 'task' AND ref_id = old.id;
	INSERT INTO search_fts (kind, ref_id, title, body) VALUES ('task', new.id, new.title, new.content);
END;
CREATE TRIGGER IF NOT EXISTS task_cards_fts_ad AFTER DELETE ON task_cards BEGIN
	DELETE FROM search_fts WHERE kind = 'task' AND ref_id = old.id;
END;

CREATE TRIGGER IF NOT EXISTS life_entries_fts_ai AFTER INSERT ON life_entries BEGIN
	INSERT INTO search_fts (kind, ref_id, title, body) VALUES ('life_entry', new.id, '', new.content);
END;
CREATE TRIGGER IF NOT EXISTS life_entries_fts_au AFTER UPDATE OF content ON life_entries BEGIN
	DELETE FROM search_fts WHERE kind = 'life_entry' AND ref_id = old.id;
	INSERT INTO search_fts (kind, ref_id, title, body) VALUES ('life_entry', new.id, '', new.content);
END;
CREATE TRIGGER IF NOT EXISTS life_entries_fts_ad AFTER DELETE ON life_entries BEGIN
	DELETE FROM search_fts WHERE kind = 'life_entry' AND ref_id = old.id;
END;
`

func initFTS(conn *sql.DB) error {
	if _, err := conn.Exec(ftsSchemaSQL); err != nil {
		return err
	}
	// Backfill rows written before FTS5 was compiled in.
	_, err := conn.Exec(`
		INSERT INTO search_fts (kind, ref_id, title, body)
		SELECT 'task', id, title, content FROM task_cards
		WHERE NOT EXISTS (SELECT 1 FROM search_fts WHERE kind = 'task' AND ref_id = task_cards.id);
		INSERT INTO search_fts (kind, ref_id, title, body)
		SELECT 'life_entry', id, '', content FROM life_entries
		WHERE NOT EXISTS (SELECT 1 FROM search_fts WHERE kind = 'life_entry' AND ref_id = life_entries.id);
	`)
	return err
}

// Search performs an FTS5 full-text search over live tasks and life entries.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT f.kind, f.ref_id, f.title,
		       snippet(search_fts, 3, '<b>', '</b>', '...', 32)
		FROM search_fts f
		LEFT JOIN task_cards t ON f.kind = 'task' AND t.id = f.ref_id
		LEFT JOIN life_entries e ON f.kind = 'life_entry' AND e.id = f.ref_id
		WHERE search_fts MATCH ?
		  AND COALESCE(t.is_deleted, e.is_deleted, 0) = 0
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
