// Package streak computes habit streaks from local calendar dates.
package streak

import (
	"sort"

	"cloud.google.com/go/civil"
)

// Next returns the streak after a check-in on today, given the previous
// check-in date (nil when the habit was never checked in) and the streak
// recorded at that check-in.
func Next(last *civil.Date, current int, today civil.Date) int {
	switch {
	case last == nil:
		return 1
	case *last == today:
		return current
	case today.DaysSince(*last) == 1:
		return current + 1
	default:
		// Gap of two or more days, or a last date in the future.
		return 1
	}
}

// Summary is the streak state implied by a check-in history.
type Summary struct {
	Current int
	Longest int
	Last    *civil.Date
}

// Replay folds Next over dates in ascending order. Duplicate dates count once.
func Replay(dates []civil.Date) Summary {
	sorted := append([]civil.Date(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var s Summary
	for _, d := range sorted {
		s.Current = Next(s.Last, s.Current, d)
		s.Longest = max(s.Longest, s.Current)
		day := d
		s.Last = &day
	}
	return s
}
