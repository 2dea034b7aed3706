package habit

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/starford/lifeflow/internal/clock"
)

// Status is the streak state of one active habit as seen from the caller's
// local date.
type Status struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	CurrentStreak   int         `json:"current_streak"`
	LongestStreak   int         `json:"longest_streak"`
	LastCheckinDate *civil.Date `json:"last_checkin_date"`
	CheckedInToday  bool        `json:"checked_in_today"`
	// AtRisk is set when a running streak will break unless the habit is
	// checked in today.
	AtRisk bool `json:"at_risk"`
}

// Streaks lists every active habit with its streak state.
func (s *Service) Streaks(ctx context.Context, offsetMinutes int) ([]Status, error) {
	if err := clock.ValidateOffset(offsetMinutes); err != nil {
		return nil, err
	}
	habits, err := s.db.ActiveHabits(ctx)
	if err != nil {
		return nil, err
	}
	today := clock.LocalDate(offsetMinutes, s.now())
	out := make([]Status, 0, len(habits))
	for _, h := range habits {
		st := Status{
			ID:              h.ID,
			Title:           h.Title,
			CurrentStreak:   h.CurrentStreak,
			LongestStreak:   h.LongestStreak,
			LastCheckinDate: h.LastCheckinDate,
			CheckedInToday:  h.CheckedInOn(today),
		}
		st.AtRisk = !st.CheckedInToday && h.CurrentStreak > 0 &&
			h.LastCheckinDate != nil && today.DaysSince(*h.LastCheckinDate) == 1
		out = append(out, st)
	}
	return out, nil
}
