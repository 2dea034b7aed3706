// Package models defines the domain types for LifeFlow.
package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Task is a card on a list. A task with IsHabit set is tracked with streaks.
type Task struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Content         string      `json:"content"`
	ListID          *string     `json:"list_id"`
	IsHabit         bool        `json:"is_habit"`
	ReminderTime    *time.Time  `json:"reminder_time"`
	CurrentStreak   int         `json:"current_streak"`
	LongestStreak   int         `json:"longest_streak"`
	LastCheckinDate *civil.Date `json:"last_checkin_date"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	IsDeleted       bool        `json:"is_deleted"`
}

// CheckedInOn reports whether the task's last check-in falls on day.
func (t *Task) CheckedInOn(day civil.Date) bool {
	return t.LastCheckinDate != nil && *t.LastCheckinDate == day
}

// CheckinRecord is one check-in of a task on a local calendar date.
type CheckinRecord struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	CheckinDate civil.Date `json:"checkin_date"`
	CheckinTime time.Time  `json:"checkin_time"`
}
