// Package taskservice validates and applies CRUD operations on tasks, lists,
// life entries and settings, and serves the read-only statistics.
package taskservice

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/store"
)

// Service coordinates validation and store operations.
type Service struct {
	db  *store.DB
	now clock.Clock
}

// New creates a new board data service.
func New(db *store.DB, now clock.Clock) *Service {
	return &Service{db: db, now: now}
}

// notBlank rejects strings that are empty after trimming. It skips nil
// pointers so it can guard optional update fields.
var notBlank = validation.By(func(v any) error {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case *string:
		if x == nil {
			return nil
		}
		s = *x
	default:
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty or whitespace only")
	}
	return nil
})

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
