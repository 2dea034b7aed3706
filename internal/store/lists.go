package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

func scanList(s scanner) (models.List, error) {
	var (
		l       models.List
		created string
	)
	if err := s.Scan(&l.ID, &l.Name, &l.Color, &l.SortOrder, &created); err != nil {
		return l, err
	}
	var err error
	l.CreatedAt, err = parseTime(created)
	return l, err
}

// ListLists returns every list ordered by sort_order, then creation time.
func (db *DB) ListLists(ctx context.Context) ([]models.List, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, color, sort_order, created_at FROM card_lists ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("store: list lists: %w", err)
	}
	defer rows.Close()

	out := []models.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list lists: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetList returns the list with id.
func (db *DB) GetList(ctx context.Context, id string) (*models.List, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, color, sort_order, created_at FROM card_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: list %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get list: %w", err)
	}
	return &l, nil
}

// CreateList inserts l.
func (db *DB) CreateList(ctx context.Context, l *models.List) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO card_lists (id, name, color, sort_order, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Color, l.SortOrder, formatTime(l.CreatedAt))
	if err != nil {
		return fmt.Errorf("store: create list: %w", err)
	}
	return nil
}

// UpdateList writes name, color and sort order.
func (db *DB) UpdateList(ctx context.Context, l *models.List) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE card_lists SET name = ?, color = ?, sort_order = ? WHERE id = ?`,
		l.Name, l.Color, l.SortOrder, l.ID)
	if err != nil {
		return fmt.Errorf("store: update list: %w", err)
	}
	return expectAffected(res, "list", l.ID)
}

// DeleteList removes a list. Its tasks are kept and detached.
func (db *DB) DeleteList(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM card_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete list: %w", err)
	}
	return expectAffected(res, "list", id)
}
