package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/metrics"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/store"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// CreateInput is a client-supplied notification.
type CreateInput struct {
	Type    models.Category `json:"type"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Validate implements validation.Validatable.
func (in CreateInput) Validate() error {
	categories := make([]any, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = c
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, validation.Required, validation.In(categories...)),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 100),
			validation.By(func(any) error {
				if strings.TrimSpace(in.Title) == "" {
					return errors.New("cannot be blank")
				}
				return nil
			})),
		validation.Field(&in.Message, validation.Length(0, 500)),
	)
}

// Create validates and stores a notification.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Notification, error) {
	if err := in.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	p, err := models.DecodePayload(in.Type, in.Data)
	if err != nil {
		return nil, apperr.Validation(validation.Errors{"data": err})
	}
	if p == nil {
		n := &models.Notification{Category: in.Type}
		return s.insert(ctx, n, in.Title, in.Message)
	}
	return s.create(ctx, in.Title, in.Message, p)
}

func (s *Service) insert(ctx context.Context, n *models.Notification, title, message string) (*models.Notification, error) {
	n.ID = newID()
	n.Title = title
	n.Message = message
	n.CreatedAt = s.now().UTC()
	n.UserID = models.DefaultUserID
	if err := s.db.InsertNotification(ctx, n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Category)).Inc()
	s.logger.Debug("notification created",
		slog.String("id", n.ID),
		slog.String("type", string(n.Category)))
	return n, nil
}

// List returns a page of notifications newest first. Non-positive limits fall
// back to the default page size.
func (s *Service) List(ctx context.Context, limit, offset int, unreadOnly bool) (*store.NotificationPage, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)
	offset = max(offset, 0)
	return s.db.ListNotifications(ctx, limit, offset, unreadOnly)
}

// UnreadCount returns the number of unread notifications.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	return s.db.UnreadCount(ctx)
}

// MarkRead marks one notification read and returns it.
func (s *Service) MarkRead(ctx context.Context, id string) (*models.Notification, error) {
	if err := s.db.MarkNotificationRead(ctx, id); err != nil {
		return nil, err
	}
	return s.db.GetNotification(ctx, id)
}

// MarkAllRead marks every notification read and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	return s.db.MarkAllNotificationsRead(ctx)
}

// Delete removes one notification.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.DeleteNotification(ctx, id)
}
