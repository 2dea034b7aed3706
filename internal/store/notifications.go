package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

const notificationColumns = `id, type, title, message, data, is_read, created_at, user_id`

// NotificationQuery selects notifications for dedup checks. Zero-valued
// fields are not filtered on.
type NotificationQuery struct {
	Category  models.Category
	From, To  time.Time // half-open [From, To)
	HabitID   string
	AtRisk    *bool
	Milestone int
}

func scanNotification(s scanner) (models.Notification, error) {
	var (
		n       models.Notification
		data    sql.NullString
		created string
	)
	if err := s.Scan(&n.ID, &n.Category, &n.Title, &n.Message, &data, &n.IsRead, &created, &n.UserID); err != nil {
		return n, err
	}
	var err error
	if n.CreatedAt, err = parseTime(created); err != nil {
		return n, err
	}
	if data.Valid {
		if n.Payload, err = models.DecodePayload(n.Category, []byte(data.String)); err != nil {
			return n, fmt.Errorf("store: notification %s: %w", n.ID, err)
		}
	}
	return n, nil
}

// InsertNotification stores n.
func (db *DB) InsertNotification(ctx context.Context, n *models.Notification) error {
	var data sql.NullString
	if n.Payload != nil {
		raw, err := json.Marshal(n.Payload)
		if err != nil {
			return fmt.Errorf("store: encode payload: %w", err)
		}
		data = sql.NullString{String: string(raw), Valid: true}
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Category, n.Title, n.Message, data, n.IsRead, formatTime(n.CreatedAt), n.UserID)
	if err != nil {
		return fmt.Errorf("store: insert notification: %w", err)
	}
	return nil
}

// NotificationExists reports whether any notification matches q.
func (db *DB) NotificationExists(ctx context.Context, q NotificationQuery) (bool, error) {
	query := `SELECT 1 FROM notifications WHERE type = ?`
	args := []any{q.Category}
	if !q.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, formatTime(q.From))
	}
	if !q.To.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, formatTime(q.To))
	}
	if q.HabitID != "" {
		query += ` AND json_extract(data, '$.habit_id') = ?`
		args = append(args, q.HabitID)
	}
	if q.AtRisk != nil {
		query += ` AND COALESCE(json_extract(data, '$.at_risk'), 0) = ?`
		args = append(args, *q.AtRisk)
	}
	if q.Milestone != 0 {
		query += ` AND json_extract(data, '$.milestone') = ?`
		args = append(args, q.Milestone)
	}
	query += ` LIMIT 1`

	var one int
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: notification exists: %w", err)
	}
	return true, nil
}

// NotificationPage is one page of notifications plus counters.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int                   `json:"total"`
	UnreadCount   int                   `json:"unread_count"`
}

// ListNotifications returns notifications newest first. Total counts every
// notification regardless of unreadOnly.
func (db *DB) ListNotifications(ctx context.Context, limit, offset int, unreadOnly bool) (*NotificationPage, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	defer rows.Close()

	page := &NotificationPage{Notifications: []models.Notification{}}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list notifications: %w", err)
		}
		page.Notifications = append(page.Notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_read = 0 THEN 1 ELSE 0 END), 0)
		FROM notifications
	`).Scan(&page.Total, &page.UnreadCount)
	if err != nil {
		return nil, fmt.Errorf("store: count notifications: %w", err)
	}
	return page, nil
}

// UnreadCount returns the number of unread notifications.
func (db *DB) UnreadCount(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE is_read = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: unread count: %w", err)
	}
	return n, nil
}

// GetNotification returns the notification with id.
func (db *DB) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: notification %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get notification: %w", err)
	}
	return &n, nil
}

// MarkNotificationRead sets is_read on one notification.
func (db *DB) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: mark read: %w", err)
	}
	return expectAffected(res, "notification", id)
}

// MarkAllNotificationsRead marks every unread notification read and returns
// how many changed.
func (db *DB) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	res, err := db.conn.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE is_read = 0`)
	if err != nil {
		return 0, fmt.Errorf("store: mark all read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteNotification removes one notification.
func (db *DB) DeleteNotification(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete notification: %w", err)
	}
	return expectAffected(res, "notification", id)
}
