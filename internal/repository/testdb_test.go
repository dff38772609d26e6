package repository

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/GuoYangtuo/potato-timer/internal/db"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

// newTestDB opens an in-memory database with the full schema applied.
// A single connection keeps every query on the same memory instance.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

func seedUser(t *testing.T, conn *sqlx.DB, phone string) *model.User {
	t.Helper()

	user := &model.User{
		PhoneNumber: phone,
		Nickname:    "用户" + phone[len(phone)-4:],
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, NewUserRepository(conn).Create(user))
	return user
}

func seedGoal(t *testing.T, conn *sqlx.DB, userID int64, mutate func(*model.Goal)) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		UserID:                 userID,
		Title:                  "read every day",
		Type:                   model.GoalTypeHabit,
		DurationMinutes:        10,
		MorningReminderTime:    "09:00:00",
		AfternoonReminderTime:  "14:00:00",
		SessionDurationMinutes: 240,
		Status:                 model.GoalStatusActive,
		CreatedAt:              time.Now().UTC(),
	}
	if mutate != nil {
		mutate(goal)
	}
	require.NoError(t, NewGoalRepository(conn).Create(goal, nil))
	return goal
}

func seedMotivation(t *testing.T, conn *sqlx.DB, userID int64, mutate func(*model.Motivation)) *model.Motivation {
	t.Helper()

	title := "remember why you started"
	m := &model.Motivation{
		UserID:    userID,
		Title:     &title,
		Type:      model.MotivationTypePositive,
		IsPublic:  true,
		CreatedAt: time.Now().UTC(),
	}
	if mutate != nil {
		mutate(m)
	}
	require.NoError(t, NewMotivationRepository(conn).Create(m, nil, nil))
	return m
}
