package model

import (
	"time"
)

// Completion is an immutable record of one finished session for a goal.
// Rows are only ever inserted; streaks and hour totals on the goal are
// derived from the ordered sequence of these records.
type Completion struct {
	ID              int64     `db:"id"`
	GoalID          int64     `db:"goal_id"`
	DurationMinutes int       `db:"duration_minutes"`
	Notes           *string   `db:"notes"`
	CompletedAt     time.Time `db:"completed_at"`
}
