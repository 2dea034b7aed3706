package taskservice

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/store"
)

// reminderSkew is how far in the past a reminder may be set to absorb clock
// differences between client and server.
const reminderSkew = time.Minute

// TaskCreate is the payload for a new task.
type TaskCreate struct {
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	ListID       *string    `json:"list_id"`
	IsHabit      bool       `json:"is_habit"`
	ReminderTime *time.Time `json:"reminder_time"`
}

// TaskUpdate is a partial update; nil fields are left unchanged.
// ClearReminder takes precedence over ReminderTime.
type TaskUpdate struct {
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	ListID        *string    `json:"list_id"`
	IsHabit       *bool      `json:"is_habit"`
	ReminderTime  *time.Time `json:"reminder_time"`
	ClearReminder bool       `json:"clear_reminder"`
}

func (s *Service) notInPast() validation.Rule {
	return validation.By(func(v any) error {
		t, _ := v.(*time.Time)
		if t == nil {
			return nil
		}
		if t.Before(s.now().Add(-reminderSkew)) {
			return errors.New("reminder time cannot be in the past")
		}
		return nil
	})
}

// ListTasks returns tasks newest first.
func (s *Service) ListTasks(ctx context.Context, listID *string, includeDeleted bool) ([]models.Task, error) {
	return s.db.ListTasks(ctx, store.TaskFilter{ListID: listID, IncludeDeleted: includeDeleted})
}

// GetTask returns one task, including soft-deleted ones.
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return s.db.GetTask(ctx, id)
}

// CreateTask validates in and stores a new task.
func (s *Service) CreateTask(ctx context.Context, in TaskCreate) (*models.Task, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, notBlank),
		validation.Field(&in.ReminderTime, s.notInPast()),
	)
	if err != nil {
		return nil, apperr.Validation(err)
	}
	if err := s.checkList(ctx, in.ListID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t := &models.Task{
		ID:           uuid.NewString(),
		Title:        *trimPtr(&in.Title),
		Content:      in.Content,
		ListID:       in.ListID,
		IsHabit:      in.IsHabit,
		ReminderTime: utcPtr(in.ReminderTime),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies in to the task with id.
func (s *Service) UpdateTask(ctx context.Context, id string, in TaskUpdate) (*models.Task, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, notBlank),
		validation.Field(&in.ReminderTime, s.notInPast()),
	)
	if err != nil {
		return nil, apperr.Validation(err)
	}

	t, err := s.db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		t.Title = *trimPtr(in.Title)
	}
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.ListID != nil {
		if err := s.checkList(ctx, in.ListID); err != nil {
			return nil, err
		}
		t.ListID = in.ListID
	}
	if in.IsHabit != nil {
		t.IsHabit = *in.IsHabit
	}
	switch {
	case in.ClearReminder:
		t.ReminderTime = nil
	case in.ReminderTime != nil:
		t.ReminderTime = utcPtr(in.ReminderTime)
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.db.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	// Re-read so streak fields reflect any check-in that committed meanwhile.
	return s.db.GetTask(ctx, id)
}

// DeleteTask soft-deletes a task, or removes it with its history when hard.
func (s *Service) DeleteTask(ctx context.Context, id string, hard bool) error {
	if hard {
		return s.db.DeleteTask(ctx, id)
	}
	return s.db.SoftDeleteTask(ctx, id, s.now().UTC())
}

func (s *Service) checkList(ctx context.Context, listID *string) error {
	if listID == nil {
		return nil
	}
	_, err := s.db.GetList(ctx, *listID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Validation(validation.Errors{"list_id": errors.New("list does not exist")})
	}
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
