package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

const recentCompletionLimit = 30

type GoalService struct {
	repo        repository.GoalRepository
	completions repository.CompletionRepository
	motivations repository.MotivationRepository
}

func NewGoalService(repo repository.GoalRepository, completions repository.CompletionRepository, motivations repository.MotivationRepository) *GoalService {
	return &GoalService{
		repo:        repo,
		completions: completions,
		motivations: motivations,
	}
}

// CreateGoalInput carries everything a caller may set when creating a goal.
type CreateGoalInput struct {
	Title                  string
	Description            *string
	Type                   string
	IsPublic               bool
	EnableTimer            bool
	DurationMinutes        int
	ReminderTime           *string
	TotalHours             float64
	MorningReminderTime    string
	AfternoonReminderTime  string
	SessionDurationMinutes int
	MotivationIDs          []int64
}

// UpdateGoalInput is sparse: nil fields are left untouched.
type UpdateGoalInput struct {
	Title                  *string
	Description            *string
	IsPublic               *bool
	EnableTimer            *bool
	DurationMinutes        *int
	ReminderTime           *string
	TotalHours             *float64
	MorningReminderTime    *string
	AfternoonReminderTime  *string
	SessionDurationMinutes *int
	Status                 *string
	MotivationIDs          *[]int64
}

// GoalListItem is a goal enriched with its linked motivation summaries.
type GoalListItem struct {
	*model.Goal
	Motivations []model.MotivationSummary
}

// GoalDetail adds the first-media previews and the recent completion log.
type GoalDetail struct {
	*model.Goal
	Motivations       []model.MotivationPreview
	RecentCompletions []*model.Completion
}

// PublicGoalItem is one entry of the public goal feed.
type PublicGoalItem struct {
	*model.Goal
	Author model.AuthorSummary
}

// SessionMotivation is a linked motivation with its full ordered media,
// for display during a timer session.
type SessionMotivation struct {
	ID      int64
	Title   *string
	Content *string
	Type    string
	Media   []model.Media
}

// GoalSession is the payload backing the in-session motivation screen.
type GoalSession struct {
	Goal        *model.Goal
	Motivations []SessionMotivation
}

// Create validates the input, enforces the one-active-main-task rule and
// persists the goal with its ordered motivation links.
func (s *GoalService) Create(userID int64, input CreateGoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.Validation("title", "title is required")
	}
	if !model.GoalTypeValid(input.Type) {
		return nil, apperror.Validation("type", "type must be habit or main_task")
	}

	if input.Type == model.GoalTypeMainTask {
		exists, err := s.repo.HasActiveMainTask(userID, 0)
		if err != nil {
			return nil, apperror.Store(err)
		}
		if exists {
			return nil, apperror.Conflict("an active main task already exists; complete or archive it first")
		}
	}

	// Main tasks always run with the timer; habits opt in.
	enableTimer := input.EnableTimer
	if input.Type == model.GoalTypeMainTask {
		enableTimer = true
	}

	goal := &model.Goal{
		UserID:                 userID,
		Title:                  title,
		Description:            input.Description,
		Type:                   input.Type,
		IsPublic:               input.IsPublic,
		EnableTimer:            enableTimer,
		DurationMinutes:        defaultInt(input.DurationMinutes, 10),
		ReminderTime:           input.ReminderTime,
		TotalHours:             input.TotalHours,
		MorningReminderTime:    defaultString(input.MorningReminderTime, "09:00:00"),
		AfternoonReminderTime:  defaultString(input.AfternoonReminderTime, "14:00:00"),
		SessionDurationMinutes: defaultInt(input.SessionDurationMinutes, 240),
		Status:                 model.GoalStatusActive,
		CreatedAt:              time.Now(),
	}

	err := s.repo.Create(goal, input.MotivationIDs)
	if err != nil {
		return nil, apperror.Store(err)
	}

	return goal, nil
}

// Goals lists the user's goals, main tasks first. Status defaults to
// active when the caller passes none.
func (s *GoalService) Goals(userID int64, goalType, status string) ([]*GoalListItem, error) {
	if status == "" {
		status = model.GoalStatusActive
	}

	goals, err := s.repo.Goals(userID, repository.GoalFilter{Type: goalType, Status: status})
	if err != nil {
		return nil, apperror.Store(err)
	}

	items := make([]*GoalListItem, 0, len(goals))
	for _, goal := range goals {
		motivations, err := s.repo.MotivationSummaries(goal.ID)
		if err != nil {
			return nil, apperror.Store(err)
		}
		items = append(items, &GoalListItem{Goal: goal, Motivations: motivations})
	}

	return items, nil
}

// PublicGoals returns the public feed: active public goals ordered by
// streak length, then recency.
func (s *GoalService) PublicGoals(goalType string, page, limit int) ([]*PublicGoalItem, error) {
	page, limit = NormalizePage(page, limit)

	rows, err := s.repo.PublicGoals(goalType, limit, pageOffset(page, limit))
	if err != nil {
		return nil, apperror.Store(err)
	}

	items := make([]*PublicGoalItem, 0, len(rows))
	for _, row := range rows {
		goal := row.Goal
		items = append(items, &PublicGoalItem{
			Goal: &goal,
			Author: model.AuthorSummary{
				ID:        row.UserID,
				Nickname:  row.AuthorName,
				AvatarURL: row.AuthorAvatar,
			},
		})
	}

	return items, nil
}

// Detail returns the owner's view of a goal: previews of its motivations
// and the most recent completions, newest first.
func (s *GoalService) Detail(userID, goalID int64) (*GoalDetail, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, translateGoalErr(err)
	}

	motivations, err := s.repo.MotivationPreviews(goalID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	completions, err := s.completions.Recent(goalID, recentCompletionLimit)
	if err != nil {
		return nil, apperror.Store(err)
	}

	return &GoalDetail{
		Goal:              goal,
		Motivations:       motivations,
		RecentCompletions: completions,
	}, nil
}

// Update applies the sparse field set. Reactivating a main task re-checks
// the single-active rule just like creation does.
func (s *GoalService) Update(userID, goalID int64, input UpdateGoalInput) error {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return translateGoalErr(err)
	}

	if input.Status != nil && *input.Status == model.GoalStatusActive &&
		goal.Type == model.GoalTypeMainTask && goal.Status != model.GoalStatusActive {
		exists, err := s.repo.HasActiveMainTask(userID, goalID)
		if err != nil {
			return apperror.Store(err)
		}
		if exists {
			return apperror.Conflict("an active main task already exists; complete or archive it first")
		}
	}

	fields := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return apperror.Validation("title", "title is required")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}
	if input.EnableTimer != nil {
		fields["enable_timer"] = *input.EnableTimer
	}
	if input.DurationMinutes != nil {
		fields["duration_minutes"] = *input.DurationMinutes
	}
	if input.ReminderTime != nil {
		fields["reminder_time"] = *input.ReminderTime
	}
	if input.TotalHours != nil {
		fields["total_hours"] = *input.TotalHours
	}
	if input.MorningReminderTime != nil {
		fields["morning_reminder_time"] = *input.MorningReminderTime
	}
	if input.AfternoonReminderTime != nil {
		fields["afternoon_reminder_time"] = *input.AfternoonReminderTime
	}
	if input.SessionDurationMinutes != nil {
		fields["session_duration_minutes"] = *input.SessionDurationMinutes
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}

	if len(fields) > 0 {
		err = s.repo.Update(userID, goalID, fields)
		if err != nil {
			return translateGoalErr(err)
		}
	}

	if input.MotivationIDs != nil {
		err = s.repo.ReplaceMotivationLinks(goalID, *input.MotivationIDs)
		if err != nil {
			return apperror.Store(err)
		}
	}

	return nil
}

func (s *GoalService) Delete(userID, goalID int64) error {
	err := s.repo.Delete(userID, goalID)
	if err != nil {
		return translateGoalErr(err)
	}
	return nil
}

// Session returns the goal plus its linked motivations with full media,
// for the in-session motivation screen.
func (s *GoalService) Session(userID, goalID int64) (*GoalSession, error) {
	goal, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, translateGoalErr(err)
	}

	previews, err := s.repo.MotivationPreviews(goalID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	// The session screen needs every attachment, not just the first.
	motivations := make([]SessionMotivation, 0, len(previews))
	for _, p := range previews {
		media, err := s.motivations.MediaFor(p.ID)
		if err != nil {
			return nil, apperror.Store(err)
		}
		motivations = append(motivations, SessionMotivation{
			ID:      p.ID,
			Title:   p.Title,
			Content: p.Content,
			Type:    p.Type,
			Media:   media,
		})
	}

	return &GoalSession{Goal: goal, Motivations: motivations}, nil
}

func translateGoalErr(err error) error {
	if errors.Is(err, repository.ErrGoalNotFound) {
		return apperror.NotFound("goal")
	}
	return apperror.Store(err)
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
