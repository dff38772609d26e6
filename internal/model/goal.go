package model

import (
	"time"
)

const (
	GoalTypeHabit    = "habit"
	GoalTypeMainTask = "main_task"

	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

// GoalTypeValid reports whether t is one of the two supported goal types.
func GoalTypeValid(t string) bool {
	return t == GoalTypeHabit || t == GoalTypeMainTask
}

type Goal struct {
	ID                     int64     `db:"id"`
	UserID                 int64     `db:"user_id"`
	Title                  string    `db:"title"`
	Description            *string   `db:"description"`
	Type                   string    `db:"type"`
	IsPublic               bool      `db:"is_public"`
	EnableTimer            bool      `db:"enable_timer"`
	DurationMinutes        int       `db:"duration_minutes"`
	ReminderTime           *string   `db:"reminder_time"`
	TotalHours             float64   `db:"total_hours"`
	CompletedHours         float64   `db:"completed_hours"`
	MorningReminderTime    string    `db:"morning_reminder_time"`
	AfternoonReminderTime  string    `db:"afternoon_reminder_time"`
	SessionDurationMinutes int       `db:"session_duration_minutes"`
	StreakDays             int       `db:"streak_days"`
	TotalCompletedDays     int       `db:"total_completed_days"`
	LastCompletedDate      *string   `db:"last_completed_date"` // YYYY-MM-DD, UTC
	Status                 string    `db:"status"`
	CreatedAt              time.Time `db:"created_at"`
}
