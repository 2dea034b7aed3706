package streak

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func ptr(d civil.Date) *civil.Date { return &d }

func TestNext(t *testing.T) {
	today := date(2024, 5, 20)

	tests := []struct {
		name    string
		last    *civil.Date
		current int
		want    int
	}{
		{"first check-in", nil, 5, 1},
		{"same day keeps streak", ptr(today), 5, 5},
		{"consecutive day increments", ptr(today.AddDays(-1)), 5, 6},
		{"two day gap resets", ptr(today.AddDays(-2)), 5, 1},
		{"three day gap resets", ptr(today.AddDays(-3)), 5, 1},
		{"future last date resets", ptr(today.AddDays(1)), 5, 1},
		{"zero streak consecutive", ptr(today.AddDays(-1)), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.last, tt.current, today))
		})
	}
}

func TestNext_AcrossMonthAndYear(t *testing.T) {
	assert.Equal(t, 10, Next(ptr(date(2024, 4, 30)), 9, date(2024, 5, 1)))
	assert.Equal(t, 4, Next(ptr(date(2023, 12, 31)), 3, date(2024, 1, 1)))
	assert.Equal(t, 2, Next(ptr(date(2024, 2, 28)), 1, date(2024, 2, 29)))
}

func TestNext_Deterministic(t *testing.T) {
	today := date(2024, 1, 1)
	last := ptr(date(2023, 12, 31))
	for i := 0; i < 10; i++ {
		assert.Equal(t, 8, Next(last, 7, today))
	}
}

func TestReplay(t *testing.T) {
	d := date(2024, 6, 1)
	history := []civil.Date{
		d.AddDays(5), d, d.AddDays(1), d.AddDays(2), // run of 3, then gap
		d.AddDays(6), d.AddDays(2), // duplicate day counts once
	}
	s := Replay(history)
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 3, s.Longest)
	if assert.NotNil(t, s.Last) {
		assert.Equal(t, d.AddDays(6), *s.Last)
	}
}

func TestReplay_Empty(t *testing.T) {
	s := Replay(nil)
	assert.Zero(t, s.Current)
	assert.Zero(t, s.Longest)
	assert.Nil(t, s.Last)
}

func TestReplay_LongestNeverBelowCurrent(t *testing.T) {
	d := date(2024, 2, 27)
	var history []civil.Date
	for i := 0; i < 40; i += 1 + i%3 {
		history = append(history, d.AddDays(i))
		s := Replay(history)
		assert.GreaterOrEqual(t, s.Longest, s.Current)
	}
}
