package models

import "cloud.google.com/go/civil"

// StatsOverview summarizes tasks and check-ins.
type StatsOverview struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	LongestStreak  int     `json:"longest_streak"`
	TodayCheckins  int     `json:"today_checkins"`
}

// DailyRing is habit completion progress for one local date.
type DailyRing struct {
	Date            civil.Date `json:"date"`
	TotalHabits     int        `json:"total_habits"`
	CompletedHabits int        `json:"completed_habits"`
	Percentage      float64    `json:"percentage"`
}

// SearchHit is one full-text search match.
type SearchHit struct {
	Kind    string `json:"kind"` // "task" or "life_entry"
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}
