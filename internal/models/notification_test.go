package models

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_ReminderVersusAtRisk(t *testing.T) {
	raw, err := json.Marshal(AtRiskPayload{HabitID: "h1", HabitTitle: "Run", CurrentStreak: 4})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"at_risk":true`)

	p, err := DecodePayload(CategoryHabitReminder, raw)
	require.NoError(t, err)
	assert.True(t, IsAtRisk(p))
	assert.Equal(t, AtRiskPayload{HabitID: "h1", HabitTitle: "Run", CurrentStreak: 4}, p)

	p, err = DecodePayload(CategoryHabitReminder, []byte(`{"habit_id":"h2","habit_title":"Read","current_streak":0}`))
	require.NoError(t, err)
	assert.False(t, IsAtRisk(p))
	assert.Equal(t, ReminderPayload{HabitID: "h2", HabitTitle: "Read"}, p)
}

func TestDecodePayload_Categories(t *testing.T) {
	p, err := DecodePayload(CategoryAchievement, []byte(`{"habit_id":"h","habit_title":"x","streak":7,"milestone":7}`))
	require.NoError(t, err)
	assert.Equal(t, 7, p.(AchievementPayload).Milestone)

	p, err = DecodePayload(CategoryDailyComplete, []byte(`{"completed_count":3,"date":"2024-03-01"}`))
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 1}, p.(DailyCompletePayload).Date)

	p, err = DecodePayload(CategorySystem, []byte(`{"note":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, SystemPayload{"note": "hello"}, p)
}

func TestDecodePayload_Empty(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		p, err := DecodePayload(CategoryAchievement, []byte(raw))
		require.NoError(t, err)
		assert.Nil(t, p)
	}
}

func TestDecodePayload_Errors(t *testing.T) {
	_, err := DecodePayload("bogus", []byte(`{}`))
	assert.Error(t, err)

	_, err = DecodePayload(CategoryAchievement, []byte(`{"streak":"seven"}`))
	assert.ErrorContains(t, err, "decode achievement payload")
}

func TestNotificationJSON(t *testing.T) {
	n := Notification{
		ID:        "n1",
		Category:  CategoryAchievement,
		Title:     "7-day streak!",
		Message:   "Keep going",
		Payload:   AchievementPayload{HabitID: "h", HabitTitle: "Run", Streak: 7, Milestone: 7},
		CreatedAt: time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC),
		UserID:    DefaultUserID,
	}
	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "achievement", got["type"])
	assert.Equal(t, false, got["is_read"])
	assert.Equal(t, "default", got["user_id"])
	data, ok := got["data"].(map[string]any)
	require.True(t, ok, "payload should be rendered under data")
	assert.Equal(t, float64(7), data["milestone"])
	assert.NotContains(t, got, "Payload")
}
