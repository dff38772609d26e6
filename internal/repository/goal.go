package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

// GoalWithAuthor is a public-feed row: the goal joined with its author's
// display fields.
type GoalWithAuthor struct {
	model.Goal
	AuthorName   string  `db:"author_name"`
	AuthorAvatar *string `db:"author_avatar"`
}

type GoalFilter struct {
	Type   string // empty = any
	Status string // empty = any
}

type GoalRepository interface {
	Create(goal *model.Goal, motivationIDs []int64) error
	ByID(userID, goalID int64) (*model.Goal, error)
	Goals(userID int64, filter GoalFilter) ([]*model.Goal, error)
	PublicGoals(goalType string, limit, offset int) ([]*GoalWithAuthor, error)
	HasActiveMainTask(userID, excludeGoalID int64) (bool, error)
	Update(userID, goalID int64, fields map[string]any) error
	ReplaceMotivationLinks(goalID int64, motivationIDs []int64) error
	Delete(userID, goalID int64) error
	MotivationSummaries(goalID int64) ([]model.MotivationSummary, error)
	MotivationPreviews(goalID int64) ([]model.MotivationPreview, error)
	LinkedMotivationIDs(goalID int64) ([]int64, error)
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Create inserts the goal and its ordered motivation links in one
// transaction: links must never exist without the goal and vice versa.
func (r *goalRepository) Create(goal *model.Goal, motivationIDs []int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO goals (
	              user_id, title, description, type, is_public, enable_timer,
	              duration_minutes, reminder_time, total_hours, completed_hours,
	              morning_reminder_time, afternoon_reminder_time, session_duration_minutes,
	              streak_days, total_completed_days, last_completed_date, status, created_at
	          ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	          RETURNING id`

	err = tx.QueryRow(query,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Type,
		goal.IsPublic,
		goal.EnableTimer,
		goal.DurationMinutes,
		goal.ReminderTime,
		goal.TotalHours,
		goal.CompletedHours,
		goal.MorningReminderTime,
		goal.AfternoonReminderTime,
		goal.SessionDurationMinutes,
		goal.StreakDays,
		goal.TotalCompletedDays,
		goal.LastCompletedDate,
		goal.Status,
		goal.CreatedAt,
	).Scan(&goal.ID)
	if err != nil {
		return err
	}

	err = insertMotivationLinks(tx, goal.ID, motivationIDs)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goalRepository) ByID(userID, goalID int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

// Goals lists the user's goals with main tasks pinned first, newest first
// within each group.
func (r *goalRepository) Goals(userID int64, filter GoalFilter) ([]*model.Goal, error) {
	query := `SELECT * FROM goals WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND type = $` + itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}

	query += ` ORDER BY CASE WHEN type = 'main_task' THEN 0 ELSE 1 END, created_at DESC`

	goals := []*model.Goal{}
	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// PublicGoals returns the public active feed ordered by streak length, then
// recency.
func (r *goalRepository) PublicGoals(goalType string, limit, offset int) ([]*GoalWithAuthor, error) {
	query := `SELECT g.*, u.nickname AS author_name, u.avatar_url AS author_avatar
	          FROM goals g
	          JOIN users u ON g.user_id = u.id
	          WHERE g.is_public = TRUE AND g.status = $1`
	args := []any{model.GoalStatusActive}

	if goalType != "" {
		args = append(args, goalType)
		query += ` AND g.type = $` + itoa(len(args))
	}

	args = append(args, limit, offset)
	query += ` ORDER BY g.streak_days DESC, g.created_at DESC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	goals := []*GoalWithAuthor{}
	err := r.db.Select(&goals, query, args...)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// HasActiveMainTask reports whether the user already has an active main
// task, ignoring excludeGoalID (0 = exclude nothing) so status updates on
// the task itself don't trip over their own row.
func (r *goalRepository) HasActiveMainTask(userID, excludeGoalID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals
	          WHERE user_id = $1 AND type = $2 AND status = $3 AND id != $4`

	err := r.db.QueryRow(query, userID, model.GoalTypeMainTask, model.GoalStatusActive, excludeGoalID).Scan(&count)
	return count > 0, err
}

// Update applies a sparse update; only the columns present in fields are
// touched. The ownership filter makes a foreign goal indistinguishable
// from a missing one.
func (r *goalRepository) Update(userID, goalID int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	set, args := buildSet(fields)
	args = append(args, goalID, userID)
	query := `UPDATE goals SET ` + set +
		` WHERE id = $` + itoa(len(args)-1) + ` AND user_id = $` + itoa(len(args))

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// ReplaceMotivationLinks swaps the goal's motivation list wholesale:
// delete all, reinsert in submitted order, one transaction.
func (r *goalRepository) ReplaceMotivationLinks(goalID int64, motivationIDs []int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM goal_motivations WHERE goal_id = $1`, goalID)
	if err != nil {
		return err
	}

	err = insertMotivationLinks(tx, goalID, motivationIDs)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertMotivationLinks(tx *sqlx.Tx, goalID int64, motivationIDs []int64) error {
	query := `INSERT INTO goal_motivations (goal_id, motivation_id, sort_order) VALUES ($1, $2, $3)`

	for i, id := range motivationIDs {
		_, err := tx.Exec(query, goalID, id, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the goal; completions and motivation links cascade.
func (r *goalRepository) Delete(userID, goalID int64) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) MotivationSummaries(goalID int64) ([]model.MotivationSummary, error) {
	rows := []struct {
		ID    int64   `db:"id"`
		Title *string `db:"title"`
		Type  string  `db:"type"`
	}{}

	query := `SELECT m.id, m.title, m.type
	          FROM motivations m
	          JOIN goal_motivations gm ON m.id = gm.motivation_id
	          WHERE gm.goal_id = $1
	          ORDER BY gm.sort_order`

	err := r.db.Select(&rows, query, goalID)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.MotivationSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, model.MotivationSummary{ID: row.ID, Title: row.Title, Type: row.Type})
	}
	return summaries, nil
}

// MotivationPreviews returns the goal's linked motivations, each with its
// first media item for thumbnail display.
func (r *goalRepository) MotivationPreviews(goalID int64) ([]model.MotivationPreview, error) {
	query := `SELECT m.id, m.title, m.content, m.type,
	                 mm.url AS first_media_url, mm.media_type AS first_media_type
	          FROM motivations m
	          JOIN goal_motivations gm ON m.id = gm.motivation_id
	          LEFT JOIN (
	              SELECT motivation_id, url, media_type
	              FROM motivation_media
	              WHERE sort_order = 0
	          ) mm ON m.id = mm.motivation_id
	          WHERE gm.goal_id = $1
	          ORDER BY gm.sort_order`

	previews := []model.MotivationPreview{}
	err := r.db.Select(&previews, query, goalID)
	if err != nil {
		return nil, err
	}

	return previews, nil
}

func (r *goalRepository) LinkedMotivationIDs(goalID int64) ([]int64, error) {
	ids := []int64{}
	query := `SELECT motivation_id FROM goal_motivations WHERE goal_id = $1 ORDER BY sort_order`

	err := r.db.Select(&ids, query, goalID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
