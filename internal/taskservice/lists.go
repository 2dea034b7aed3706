package taskservice

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

// ListCreate is the payload for a new list.
type ListCreate struct {
	Name      string  `json:"name"`
	Color     *string `json:"color"`
	SortOrder int     `json:"sort_order"`
}

// ListUpdate is a partial list update.
type ListUpdate struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	SortOrder *int    `json:"sort_order"`
}

func (s *Service) ListLists(ctx context.Context) ([]models.List, error) {
	return s.db.ListLists(ctx)
}

func (s *Service) GetList(ctx context.Context, id string) (*models.List, error) {
	return s.db.GetList(ctx, id)
}

// CreateList stores a new list. The color defaults to models.DefaultListColor.
func (s *Service) CreateList(ctx context.Context, in ListCreate) (*models.List, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, notBlank),
		validation.Field(&in.Color, is.HexColor),
	)
	if err != nil {
		return nil, apperr.Validation(err)
	}

	l := &models.List{
		ID:        uuid.NewString(),
		Name:      *trimPtr(&in.Name),
		Color:     models.DefaultListColor,
		SortOrder: in.SortOrder,
		CreatedAt: s.now().UTC(),
	}
	if in.Color != nil && *in.Color != "" {
		l.Color = *in.Color
	}
	if err := s.db.CreateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateList applies in to the list with id.
func (s *Service) UpdateList(ctx context.Context, id string, in ListUpdate) (*models.List, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, notBlank),
		validation.Field(&in.Color, is.HexColor),
	)
	if err != nil {
		return nil, apperr.Validation(err)
	}

	l, err := s.db.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		l.Name = *trimPtr(in.Name)
	}
	if in.Color != nil && *in.Color != "" {
		l.Color = *in.Color
	}
	if in.SortOrder != nil {
		l.SortOrder = *in.SortOrder
	}
	if err := s.db.UpdateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteList removes a list; its tasks stay and lose their list.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	return s.db.DeleteList(ctx, id)
}
