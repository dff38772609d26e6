package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/identity"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

func newAuthService(t *testing.T, env *testEnv, expiry time.Duration) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(env.conn), identity.StaticResolver{}, "test-secret", expiry)
}

func TestLoginRegistersNewUser(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env, time.Hour)

	result, err := auth.Login(context.Background(), "13812345678")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "13812345678", result.User.PhoneNumber)
	assert.Equal(t, "用户5678", result.User.Nickname)

	userID, err := auth.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestLoginReturningUserKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env, time.Hour)

	first, err := auth.LoginWithPhone("13812345678")
	require.NoError(t, err)

	nickname := "potato"
	_, err = auth.UpdateProfile(first.User.ID, UpdateProfileInput{Nickname: &nickname})
	require.NoError(t, err)

	second, err := auth.LoginWithPhone("13812345678")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "potato", second.User.Nickname)
}

func TestLoginRejectsBadPhone(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env, time.Hour)

	for _, phone := range []string{"12812345678", "1381234567", "138123456789", "abc", ""} {
		_, err := auth.LoginWithPhone(phone)
		assert.ErrorIs(t, err, apperror.ErrValidation, "phone %q", phone)
	}
}

func TestVerifyTokenRejectsExpiredAndGarbage(t *testing.T) {
	env := newTestEnv(t)

	expired := newAuthService(t, env, -time.Minute)
	result, err := expired.LoginWithPhone("13812345678")
	require.NoError(t, err)

	_, err = expired.VerifyToken(result.Token)
	assert.Error(t, err)

	valid := newAuthService(t, env, time.Hour)
	_, err = valid.VerifyToken("not-a-token")
	assert.Error(t, err)

	// A token signed with a different secret fails verification.
	otherSecret := NewAuthService(repository.NewUserRepository(env.conn), identity.StaticResolver{}, "other-secret", time.Hour)
	foreign, err := otherSecret.LoginWithPhone("13898765432")
	require.NoError(t, err)
	_, err = valid.VerifyToken(foreign.Token)
	assert.Error(t, err)
}

func TestUpdateProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(t, env, time.Hour)

	result, err := auth.LoginWithPhone("13812345678")
	require.NoError(t, err)

	empty := ""
	_, err = auth.UpdateProfile(result.User.ID, UpdateProfileInput{Nickname: &empty})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	avatar := "https://cdn.example.com/me.jpg"
	updated, err := auth.UpdateProfile(result.User.ID, UpdateProfileInput{AvatarURL: &avatar})
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)
	// Nickname untouched by the sparse update.
	assert.Equal(t, "用户5678", updated.Nickname)
}
