// Package clock resolves calendar dates from UTC instants and client offsets.
package clock

import (
	"time"

	"cloud.google.com/go/civil"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/lifeflow/internal/apperr"
)

// Offsets in use range from UTC+14 (-840) to UTC-12 (720).
const (
	MinOffset = -840
	MaxOffset = 720
)

// Clock returns the current instant. Services take a Clock so tests can
// advance the date.
type Clock func() time.Time

// System is the wall clock.
func System() time.Time { return time.Now().UTC() }

// LocalDate returns the calendar date at now for a client whose UTC offset is
// offsetMinutes. Positive offsets are west of UTC (300 is UTC-5), negative
// offsets east (-480 is UTC+8).
func LocalDate(offsetMinutes int, now time.Time) civil.Date {
	local := now.UTC().Add(-time.Duration(offsetMinutes) * time.Minute)
	return civil.DateOf(local)
}

// ValidateOffset rejects offsets outside [MinOffset, MaxOffset] with a
// validation error on the timezone_offset field.
func ValidateOffset(offsetMinutes int) error {
	err := validation.Validate(offsetMinutes, validation.Min(MinOffset), validation.Max(MaxOffset))
	if err != nil {
		return apperr.Validation(validation.Errors{"timezone_offset": err})
	}
	return nil
}

// ServerOffset returns the host zone's offset at now in LocalDate's
// convention.
func ServerOffset(now time.Time) int {
	_, secs := now.In(time.Local).Zone()
	return -secs / 60
}

// UTCDay returns the half-open UTC day [start, end) containing now.
func UTCDay(now time.Time) (start, end time.Time) {
	d := civil.DateOf(now.UTC())
	start = d.In(time.UTC)
	return start, start.Add(24 * time.Hour)
}

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
