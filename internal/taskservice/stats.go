package taskservice

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/models"
)

// Overview returns task statistics for the caller's local date.
func (s *Service) Overview(ctx context.Context, offsetMinutes int) (*models.StatsOverview, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	return s.db.Overview(ctx, clock.LocalDate(offsetMinutes, s.now()))
}

// DailyRing returns habit completion for target, or for the caller's local
// date when target is nil.
func (s *Service) DailyRing(ctx context.Context, offsetMinutes int, target *civil.Date) (*models.DailyRing, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	day := clock.LocalDate(offsetMinutes, s.now())
	if target != nil {
		day = *target
	}
	return s.db.DailyRing(ctx, day)
}

// Search finds live tasks and life entries matching q.
func (s *Service) Search(ctx context.Context, q string, limit int) ([]models.SearchHit, error) {
	q = strings.TrimSpace(q)
	if err := validation.Validate(q, validation.Required); err != nil {
		return nil, apperr.Validation(validation.Errors{"q": err})
	}
	return s.db.Search(ctx, q, min(max(limit, 0), 100))
}
