package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

// ErrStaleGoal means the goal's streak state changed between the caller's
// read and its write. The whole record-completion unit rolled back; the
// caller should re-read and retry.
var ErrStaleGoal = errors.New("goal progress changed concurrently")

// ProgressUpdate carries the streak transition computed by the service.
// StreakDays and LastCompletedDate are absolute; the day and hour counters
// are increments so concurrent same-day completions stay additive.
type ProgressUpdate struct {
	GoalID            int64
	PrevCompletedDate string // CAS guard: value read before computing, "" for never-completed
	StreakDays        int
	CompletedDaysInc  int
	CompletedHoursInc float64
	LastCompletedDate string
}

// GoalProgress is the goal's counters as stored after the guarded update,
// so callers report exact totals even when another same-day writer got in
// between their read and write.
type GoalProgress struct {
	StreakDays         int
	CompletedHours     float64
	TotalCompletedDays int
}

type CompletionRepository interface {
	Record(completion *model.Completion, update ProgressUpdate) (*GoalProgress, error)
	Recent(goalID int64, limit int) ([]*model.Completion, error)
	Aggregates(goalID int64) (hours float64, days int, lastDate *string, err error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

// Record appends the immutable completion and applies the goal's aggregate
// update in one transaction. The UPDATE is guarded by the last completed
// date the caller read; if another writer moved it, nothing is written and
// ErrStaleGoal is returned. On success the counters are read back from the
// same UPDATE, so the result reflects increments from writers that slipped
// in without moving the date.
func (r *completionRepository) Record(completion *model.Completion, update ProgressUpdate) (*GoalProgress, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insert := `INSERT INTO goal_completions (goal_id, duration_minutes, notes, completed_at)
	           VALUES ($1, $2, $3, $4) RETURNING id`

	err = tx.QueryRow(insert,
		completion.GoalID,
		completion.DurationMinutes,
		completion.Notes,
		completion.CompletedAt,
	).Scan(&completion.ID)
	if err != nil {
		return nil, err
	}

	guard := `UPDATE goals SET
	              streak_days = $1,
	              total_completed_days = total_completed_days + $2,
	              completed_hours = completed_hours + $3,
	              last_completed_date = $4
	          WHERE id = $5 AND COALESCE(last_completed_date, '') = $6
	          RETURNING streak_days, completed_hours, total_completed_days`

	progress := &GoalProgress{}
	err = tx.QueryRow(guard,
		update.StreakDays,
		update.CompletedDaysInc,
		update.CompletedHoursInc,
		update.LastCompletedDate,
		update.GoalID,
		update.PrevCompletedDate,
	).Scan(&progress.StreakDays, &progress.CompletedHours, &progress.TotalCompletedDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaleGoal
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *completionRepository) Recent(goalID int64, limit int) ([]*model.Completion, error) {
	completions := []*model.Completion{}
	query := `SELECT * FROM goal_completions
	          WHERE goal_id = $1
	          ORDER BY completed_at DESC
	          LIMIT $2`

	err := r.db.Select(&completions, query, goalID, limit)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// Aggregates recomputes the goal's denormalized progress from the
// completion log. The hot path never calls this; it exists so consistency
// checks can compare the cached counters against the source of truth.
func (r *completionRepository) Aggregates(goalID int64) (float64, int, *string, error) {
	row := struct {
		Hours    float64 `db:"hours"`
		Days     int     `db:"days"`
		LastDate *string `db:"last_date"`
	}{}

	query := `SELECT COALESCE(SUM(duration_minutes), 0) / 60.0 AS hours,
	                 COUNT(DISTINCT date(completed_at)) AS days,
	                 MAX(date(completed_at)) AS last_date
	          FROM goal_completions
	          WHERE goal_id = $1`

	err := r.db.Get(&row, query, goalID)
	if err != nil {
		return 0, 0, nil, err
	}

	return row.Hours, row.Days, row.LastDate, nil
}
