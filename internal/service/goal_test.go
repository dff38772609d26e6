package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

func TestCreateGoalDefaults(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	goal, err := env.goals.Create(user.ID, CreateGoalInput{
		Title: "  morning run  ",
		Type:  model.GoalTypeHabit,
	})
	require.NoError(t, err)

	assert.Equal(t, "morning run", goal.Title)
	assert.Equal(t, 10, goal.DurationMinutes)
	assert.Equal(t, "09:00:00", goal.MorningReminderTime)
	assert.Equal(t, "14:00:00", goal.AfternoonReminderTime)
	assert.Equal(t, 240, goal.SessionDurationMinutes)
	assert.Equal(t, model.GoalStatusActive, goal.Status)
	assert.False(t, goal.EnableTimer)
	assert.Zero(t, goal.StreakDays)
}

func TestCreateGoalValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	_, err := env.goals.Create(user.ID, CreateGoalInput{Title: "   ", Type: model.GoalTypeHabit})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "x", Type: "sprint"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestMainTaskAlwaysHasTimer(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	goal, err := env.goals.Create(user.ID, CreateGoalInput{
		Title:       "ship the thesis",
		Type:        model.GoalTypeMainTask,
		EnableTimer: false,
	})
	require.NoError(t, err)
	assert.True(t, goal.EnableTimer)
}

func TestSingleActiveMainTask(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	first, err := env.goals.Create(user.ID, CreateGoalInput{Title: "thesis", Type: model.GoalTypeMainTask})
	require.NoError(t, err)

	// A second active main task is rejected; habits are unaffected.
	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "second", Type: model.GoalTypeMainTask})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "a habit", Type: model.GoalTypeHabit})
	require.NoError(t, err)

	// Completing the task frees the slot.
	done := model.GoalStatusCompleted
	require.NoError(t, env.goals.Update(user.ID, first.ID, UpdateGoalInput{Status: &done}))
	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "second", Type: model.GoalTypeMainTask})
	require.NoError(t, err)
}

func TestMainTaskReactivationRechecksRule(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	first, err := env.goals.Create(user.ID, CreateGoalInput{Title: "thesis", Type: model.GoalTypeMainTask})
	require.NoError(t, err)
	done := model.GoalStatusCompleted
	require.NoError(t, env.goals.Update(user.ID, first.ID, UpdateGoalInput{Status: &done}))

	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "next thesis", Type: model.GoalTypeMainTask})
	require.NoError(t, err)

	// Reactivating the finished task would make two active main tasks.
	active := model.GoalStatusActive
	err = env.goals.Update(user.ID, first.ID, UpdateGoalInput{Status: &active})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAnotherUsersMainTaskDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "13811111111")
	bob := env.user(t, "13822222222")

	_, err := env.goals.Create(alice.ID, CreateGoalInput{Title: "thesis", Type: model.GoalTypeMainTask})
	require.NoError(t, err)

	_, err = env.goals.Create(bob.ID, CreateGoalInput{Title: "thesis", Type: model.GoalTypeMainTask})
	require.NoError(t, err)
}

func TestUpdateGoalSparseFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")
	goal := env.habit(t, user.ID)

	title := "evening run"
	isPublic := true
	require.NoError(t, env.goals.Update(user.ID, goal.ID, UpdateGoalInput{
		Title:    &title,
		IsPublic: &isPublic,
	}))

	detail, err := env.goals.Detail(user.ID, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening run", detail.Goal.Title)
	assert.True(t, detail.Goal.IsPublic)
	// Untouched fields survive.
	assert.Equal(t, 10, detail.Goal.DurationMinutes)

	empty := "   "
	err = env.goals.Update(user.ID, goal.ID, UpdateGoalInput{Title: &empty})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGoalListSortedWithMotivations(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	m, err := env.motivations.Create(user.ID, CreateMotivationInput{
		Title: strptr("keep going"),
		Type:  model.MotivationTypePositive,
	})
	require.NoError(t, err)

	_, err = env.goals.Create(user.ID, CreateGoalInput{
		Title:         "habit with motivation",
		Type:          model.GoalTypeHabit,
		MotivationIDs: []int64{m.ID},
	})
	require.NoError(t, err)
	_, err = env.goals.Create(user.ID, CreateGoalInput{Title: "main", Type: model.GoalTypeMainTask})
	require.NoError(t, err)

	items, err := env.goals.Goals(user.ID, "", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.GoalTypeMainTask, items[0].Type)
	require.Len(t, items[1].Motivations, 1)
	assert.Equal(t, m.ID, items[1].Motivations[0].ID)
}

func TestGoalDeleteIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "13811111111")
	other := env.user(t, "13822222222")
	goal := env.habit(t, owner.ID)

	err := env.goals.Delete(other.ID, goal.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	require.NoError(t, env.goals.Delete(owner.ID, goal.ID))
	_, err = env.goals.Detail(owner.ID, goal.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func strptr(s string) *string { return &s }
