package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuoYangtuo/potato-timer/internal/model"
)

func TestUserCreateAndLookup(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "13812345678")
	assert.NotZero(t, user.ID)

	byID, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "13812345678", byID.PhoneNumber)
	assert.Equal(t, "用户5678", byID.Nickname)

	byPhone, err := repo.ByPhone("13812345678")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)
}

func TestUserDuplicatePhone(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	seedUser(t, conn, "13812345678")

	dup := &model.User{PhoneNumber: "13812345678", Nickname: "x", CreatedAt: time.Now()}
	err := repo.Create(dup)
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}

func TestUserNotFound(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	_, err := repo.ByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.ByPhone("13900000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdateProfile(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := seedUser(t, conn, "13812345678")

	err := repo.UpdateProfile(user.ID, map[string]any{"nickname": "potato"})
	require.NoError(t, err)

	updated, err := repo.ByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "potato", updated.Nickname)
	assert.Equal(t, "13812345678", updated.PhoneNumber)

	err = repo.UpdateProfile(999, map[string]any{"nickname": "potato"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
