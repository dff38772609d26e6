package service

import (
	"errors"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/clock"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

// recordAttempts bounds the retry loop when a concurrent completion of the
// same goal wins the compare-and-set.
const recordAttempts = 3

type CompletionService struct {
	goals       repository.GoalRepository
	completions repository.CompletionRepository
	clock       clock.Clock
}

func NewCompletionService(goals repository.GoalRepository, completions repository.CompletionRepository, clk clock.Clock) *CompletionService {
	return &CompletionService{
		goals:       goals,
		completions: completions,
		clock:       clk,
	}
}

// CompletionResult reports the goal's progress after a completion is
// recorded.
type CompletionResult struct {
	Completion     *model.Completion
	StreakDays     int
	CompletedHours float64
	TotalDays      int
}

// Record logs a completed session and advances the goal's streak and
// aggregates. The streak rule works in whole UTC days: a repeat completion
// on the same day leaves the streak unchanged, a completion the day after
// the last one extends it, and any longer gap resets it to one.
//
// The aggregate update is guarded by a compare-and-set on the goal's last
// completed date, so two concurrent completions cannot clobber each other;
// the loser reloads the goal and retries.
func (s *CompletionService) Record(userID, goalID int64, durationMinutes int, notes *string) (*CompletionResult, error) {
	if durationMinutes <= 0 {
		return nil, apperror.Validation("duration", "duration must be a positive number of minutes")
	}

	now := s.clock.Now().UTC()
	today := clock.Date(now)
	yesterday := clock.Date(now.AddDate(0, 0, -1))

	for attempt := 0; attempt < recordAttempts; attempt++ {
		goal, err := s.goals.ByID(userID, goalID)
		if err != nil {
			return nil, translateGoalErr(err)
		}
		if goal.Status != model.GoalStatusActive {
			return nil, apperror.Conflict("goal is not active")
		}

		streak, newDay := nextStreak(goal.StreakDays, goal.LastCompletedDate, today, yesterday)

		prevDate := ""
		if goal.LastCompletedDate != nil {
			prevDate = *goal.LastCompletedDate
		}

		update := repository.ProgressUpdate{
			GoalID:            goalID,
			PrevCompletedDate: prevDate,
			StreakDays:        streak,
			CompletedHoursInc: float64(durationMinutes) / 60.0,
			LastCompletedDate: today,
		}
		if newDay {
			update.CompletedDaysInc = 1
		}

		completion := &model.Completion{
			GoalID:          goalID,
			DurationMinutes: durationMinutes,
			Notes:           notes,
			CompletedAt:     now,
		}

		progress, err := s.completions.Record(completion, update)
		if errors.Is(err, repository.ErrStaleGoal) {
			continue
		}
		if err != nil {
			return nil, apperror.Store(err)
		}

		return &CompletionResult{
			Completion:     completion,
			StreakDays:     progress.StreakDays,
			CompletedHours: progress.CompletedHours,
			TotalDays:      progress.TotalCompletedDays,
		}, nil
	}

	return nil, apperror.Conflict("goal was updated concurrently, try again")
}

// History returns the goal's most recent completions, newest first.
func (s *CompletionService) History(userID, goalID int64, limit int) ([]*model.Completion, error) {
	if _, err := s.goals.ByID(userID, goalID); err != nil {
		return nil, translateGoalErr(err)
	}
	if limit <= 0 || limit > 100 {
		limit = recentCompletionLimit
	}

	completions, err := s.completions.Recent(goalID, limit)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return completions, nil
}

// nextStreak computes the streak after a completion today, and whether
// today is a new completed day.
func nextStreak(current int, last *string, today, yesterday string) (streak int, newDay bool) {
	switch {
	case last != nil && *last == today:
		return current, false
	case last != nil && *last == yesterday:
		return current + 1, true
	default:
		return 1, true
	}
}
