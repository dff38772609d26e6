package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

func publicPost(t *testing.T, env *testEnv, authorID int64) *model.Motivation {
	t.Helper()
	m, err := env.motivations.Create(authorID, CreateMotivationInput{
		Title:    strptr("a post"),
		Type:     model.MotivationTypePositive,
		IsPublic: true,
	})
	require.NoError(t, err)
	return m
}

func TestLikeTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "13811111111")
	viewer := env.user(t, "13822222222")
	m := publicPost(t, env, author.ID)

	require.NoError(t, env.engagements.Like(viewer.ID, m.ID))
	err := env.engagements.Like(viewer.ID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUnlikeWithoutLikeIsNoop(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "13811111111")
	viewer := env.user(t, "13822222222")
	m := publicPost(t, env, author.ID)

	require.NoError(t, env.engagements.Unlike(viewer.ID, m.ID))
}

func TestEngagingPrivateForeignPostIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "13811111111")
	other := env.user(t, "13822222222")

	m, err := env.motivations.Create(owner.ID, CreateMotivationInput{
		Title:    strptr("private"),
		Type:     model.MotivationTypePositive,
		IsPublic: false,
	})
	require.NoError(t, err)

	err = env.engagements.Like(other.ID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	err = env.engagements.Favorite(other.ID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// The owner may engage their own private post.
	require.NoError(t, env.engagements.Like(owner.ID, m.ID))
}

func TestFavoriteTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "13811111111")
	viewer := env.user(t, "13822222222")
	m := publicPost(t, env, author.ID)

	require.NoError(t, env.engagements.Favorite(viewer.ID, m.ID))
	err := env.engagements.Favorite(viewer.ID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	require.NoError(t, env.engagements.Unfavorite(viewer.ID, m.ID))
	require.NoError(t, env.engagements.Favorite(viewer.ID, m.ID))
}
