package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/GuoYangtuo/potato-timer/internal/db"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

// fakeClock pins "now" so streak transitions can be driven day by day.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	conn        *sqlx.DB
	clock       *fakeClock
	users       repository.UserRepository
	goals       *GoalService
	completions *CompletionService
	motivations *MotivationService
	engagements *EngagementService
	tags        *TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	clk := &fakeClock{now: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)}

	users := repository.NewUserRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	completionRepo := repository.NewCompletionRepository(conn)
	motivationRepo := repository.NewMotivationRepository(conn)
	engagementRepo := repository.NewEngagementRepository(conn)
	tagRepo := repository.NewTagRepository(conn)

	return &testEnv{
		conn:        conn,
		clock:       clk,
		users:       users,
		goals:       NewGoalService(goalRepo, completionRepo, motivationRepo),
		completions: NewCompletionService(goalRepo, completionRepo, clk),
		motivations: NewMotivationService(motivationRepo, engagementRepo),
		engagements: NewEngagementService(engagementRepo, motivationRepo),
		tags:        NewTagService(tagRepo),
	}
}

func (e *testEnv) user(t *testing.T, phone string) *model.User {
	t.Helper()
	user := &model.User{
		PhoneNumber: phone,
		Nickname:    "用户" + phone[len(phone)-4:],
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) habit(t *testing.T, userID int64) *model.Goal {
	t.Helper()
	goal, err := e.goals.Create(userID, CreateGoalInput{
		Title: "read every day",
		Type:  model.GoalTypeHabit,
	})
	require.NoError(t, err)
	return goal
}
