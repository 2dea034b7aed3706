package models

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Category is the notification type.
type Category string

// Notification categories. At-risk warnings share CategoryHabitReminder and
// are told apart by the at_risk marker in their payload.
const (
	CategoryHabitReminder Category = "habit_reminder"
	CategoryAchievement   Category = "achievement"
	CategoryDailyComplete Category = "daily_complete"
	CategorySystem        Category = "system"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryHabitReminder,
	CategoryAchievement,
	CategoryDailyComplete,
	CategorySystem,
}

// DefaultUserID tags every notification; LifeFlow is single-user.
const DefaultUserID = "default"

// Notification is an in-app message stored server-side.
type Notification struct {
	ID        string    `json:"id"`
	Category  Category  `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Payload   Payload   `json:"-"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// MarshalJSON renders Payload under the "data" key.
func (n Notification) MarshalJSON() ([]byte, error) {
	type plain Notification
	return json.Marshal(struct {
		plain
		Data Payload `json:"data"`
	}{plain(n), n.Payload})
}

// Payload is the category-specific data attached to a notification.
type Payload interface {
	Category() Category
}

// ReminderPayload accompanies a plain habit reminder.
type ReminderPayload struct {
	HabitID       string `json:"habit_id"`
	HabitTitle    string `json:"habit_title"`
	CurrentStreak int    `json:"current_streak"`
}

func (ReminderPayload) Category() Category { return CategoryHabitReminder }

// AtRiskPayload accompanies a warning that an active streak may break today.
type AtRiskPayload struct {
	HabitID       string `json:"habit_id"`
	HabitTitle    string `json:"habit_title"`
	CurrentStreak int    `json:"current_streak"`
}

func (AtRiskPayload) Category() Category { return CategoryHabitReminder }

// MarshalJSON always sets the at_risk marker.
func (p AtRiskPayload) MarshalJSON() ([]byte, error) {
	type plain AtRiskPayload
	return json.Marshal(struct {
		plain
		AtRisk bool `json:"at_risk"`
	}{plain(p), true})
}

// AchievementPayload accompanies a streak milestone.
type AchievementPayload struct {
	HabitID    string `json:"habit_id"`
	HabitTitle string `json:"habit_title"`
	Streak     int    `json:"streak"`
	Milestone  int    `json:"milestone"`
}

func (AchievementPayload) Category() Category { return CategoryAchievement }

// DailyCompletePayload accompanies the all-habits-done notification.
type DailyCompletePayload struct {
	CompletedCount int        `json:"completed_count"`
	Date           civil.Date `json:"date"`
}

func (DailyCompletePayload) Category() Category { return CategoryDailyComplete }

// SystemPayload is free-form data for system notifications.
type SystemPayload map[string]any

func (SystemPayload) Category() Category { return CategorySystem }

// DecodePayload decodes raw JSON into the payload type for category.
// An empty or null raw value yields a nil payload.
func DecodePayload(category Category, raw []byte) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch category {
	case CategoryHabitReminder:
		var marker struct {
			AtRisk bool `json:"at_risk"`
		}
		if err := json.Unmarshal(raw, &marker); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", category, err)
		}
		if marker.AtRisk {
			var p AtRiskPayload
			err := json.Unmarshal(raw, &p)
			return p, wrapDecode(category, err)
		}
		var p ReminderPayload
		err := json.Unmarshal(raw, &p)
		return p, wrapDecode(category, err)
	case CategoryAchievement:
		var p AchievementPayload
		err := json.Unmarshal(raw, &p)
		return p, wrapDecode(category, err)
	case CategoryDailyComplete:
		var p DailyCompletePayload
		err := json.Unmarshal(raw, &p)
		return p, wrapDecode(category, err)
	case CategorySystem:
		var p SystemPayload
		err := json.Unmarshal(raw, &p)
		return p, wrapDecode(category, err)
	default:
		return nil, fmt.Errorf("unknown notification category %q", category)
	}
}

func wrapDecode(category Category, err error) error {
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", category, err)
	}
	return nil
}

// IsAtRisk reports whether p is an at-risk warning.
func IsAtRisk(p Payload) bool {
	_, ok := p.(AtRiskPayload)
	return ok
}
