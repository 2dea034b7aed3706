package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

func scanEntry(s scanner) (models.LifeEntry, error) {
	var (
		e                models.LifeEntry
		created, updated string
	)
	if err := s.Scan(&e.ID, &e.Content, &created, &updated, &e.IsDeleted); err != nil {
		return e, err
	}
	var err error
	if e.CreatedAt, err = parseTime(created); err != nil {
		return e, err
	}
	e.UpdatedAt, err = parseTime(updated)
	return e, err
}

// ListEntries returns one page of entries newest first and the total count.
func (db *DB) ListEntries(ctx context.Context, limit, offset int, includeDeleted bool) ([]models.LifeEntry, int, error) {
	where := ` WHERE is_deleted = 0`
	if includeDeleted {
		where = ``
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM life_entries`+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count entries: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content, created_at, updated_at, is_deleted FROM life_entries`+where+
			` ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list entries: %w", err)
	}
	defer rows.Close()

	out := []models.LifeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: list entries: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// GetEntry returns the entry with id, including soft-deleted ones.
func (db *DB) GetEntry(ctx context.Context, id string) (*models.LifeEntry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, content, created_at, updated_at, is_deleted FROM life_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: entry %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get entry: %w", err)
	}
	return &e, nil
}

// CreateEntry inserts e.
func (db *DB) CreateEntry(ctx context.Context, e *models.LifeEntry) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO life_entries (id, content, created_at, updated_at, is_deleted) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Content, formatTime(e.CreatedAt), formatTime(e.UpdatedAt), e.IsDeleted)
	if err != nil {
		return fmt.Errorf("store: create entry: %w", err)
	}
	return nil
}

// UpdateEntry writes content, deletion flag and updated_at. created_at is
// never rewritten.
func (db *DB) UpdateEntry(ctx context.Context, e *models.LifeEntry) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE life_entries SET content = ?, is_deleted = ?, updated_at = ? WHERE id = ?`,
		e.Content, e.IsDeleted, formatTime(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("store: update entry: %w", err)
	}
	return expectAffected(res, "entry", e.ID)
}

// SoftDeleteEntry marks an entry deleted.
func (db *DB) SoftDeleteEntry(ctx context.Context, id string, now time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE life_entries SET is_deleted = 1, updated_at = ? WHERE id = ?`, formatTime(now), id)
	if err != nil {
		return fmt.Errorf("store: soft delete entry: %w", err)
	}
	return expectAffected(res, "entry", id)
}

// DeleteEntry removes an entry permanently.
func (db *DB) DeleteEntry(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM life_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete entry: %w", err)
	}
	return expectAffected(res, "entry", id)
}
