package taskservice

import (
	"context"

	"cloud.google.com/go/civil"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// EntryInput is the payload for creating or updating a life entry.
type EntryInput struct {
	Content *string `json:"content"`
}

// PageParams selects one page of entries.
type PageParams struct {
	Page           int  `json:"page"`
	PageSize       int  `json:"page_size"`
	IncludeDeleted bool `json:"include_deleted"`
}

// Validate implements validation.Validatable.
func (p PageParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Page, validation.Required, validation.Min(1)),
		validation.Field(&p.PageSize, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
	)
}

// EntryPage is one page of life entries.
type EntryPage struct {
	Items      []models.LifeEntry `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// DateGroup holds the entries created on one UTC date.
type DateGroup struct {
	Date    civil.Date         `json:"date"`
	Entries []models.LifeEntry `json:"entries"`
}

// GroupedEntryPage is one page of life entries grouped by date.
type GroupedEntryPage struct {
	Groups     []DateGroup `json:"groups"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// ListEntries returns entries newest first.
func (s *Service) ListEntries(ctx context.Context, p PageParams) (*EntryPage, error) {
	if err := p.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}
	items, total, err := s.db.ListEntries(ctx, p.PageSize, (p.Page-1)*p.PageSize, p.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	return &EntryPage{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages(total, p.PageSize),
	}, nil
}

// GroupedEntries returns one page of entries grouped by UTC creation date,
// newest date first.
func (s *Service) GroupedEntries(ctx context.Context, p PageParams) (*GroupedEntryPage, error) {
	page, err := s.ListEntries(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &GroupedEntryPage{
		Groups:     []DateGroup{},
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	// Items are already newest first, so groups come out in date order.
	for _, e := range page.Items {
		d := civil.DateOf(e.CreatedAt.UTC())
		if n := len(out.Groups); n > 0 && out.Groups[n-1].Date == d {
			out.Groups[n-1].Entries = append(out.Groups[n-1].Entries, e)
			continue
		}
		out.Groups = append(out.Groups, DateGroup{Date: d, Entries: []models.LifeEntry{e}})
	}
	return out, nil
}

func (s *Service) GetEntry(ctx context.Context, id string) (*models.LifeEntry, error) {
	return s.db.GetEntry(ctx, id)
}

// CreateEntry stores a new entry with trimmed content.
func (s *Service) CreateEntry(ctx context.Context, in EntryInput) (*models.LifeEntry, error) {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.NotNil, notBlank),
	)
	if err != nil {
		return nil, apperr.Validation(err)
	}
	now := s.now().UTC()
	e := &models.LifeEntry{
		ID:        uuid.NewString(),
		Content:   *trimPtr(in.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry replaces the content of an entry. created_at is preserved.
func (s *Service) UpdateEntry(ctx context.Context, id string, in EntryInput) (*models.LifeEntry, error) {
	if err := validation.ValidateStruct(&in, validation.Field(&in.Content, notBlank)); err != nil {
		return nil, apperr.Validation(err)
	}
	e, err := s.db.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Content == nil {
		return e, nil
	}
	e.Content = *trimPtr(in.Content)
	e.UpdatedAt = s.now().UTC()
	if err := s.db.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntry soft-deletes an entry, or removes it when hard.
func (s *Service) DeleteEntry(ctx context.Context, id string, hard bool) error {
	if hard {
		return s.db.DeleteEntry(ctx, id)
	}
	return s.db.SoftDeleteEntry(ctx, id, s.now().UTC())
}

func totalPages(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
