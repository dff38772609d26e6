package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
)

func TestCreateMotivationValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	_, err := env.motivations.Create(user.ID, CreateMotivationInput{Type: "neutral"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// No title, no content, no media.
	_, err = env.motivations.Create(user.ID, CreateMotivationInput{Type: model.MotivationTypePositive})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Media alone is enough.
	_, err = env.motivations.Create(user.ID, CreateMotivationInput{
		Type:  model.MotivationTypePositive,
		Media: []model.MediaItem{{Type: model.MediaTypeImage, URL: "https://cdn.example.com/a.jpg"}},
	})
	require.NoError(t, err)
}

func TestMotivationMediaValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	// Unknown media type never reaches the store.
	_, err := env.motivations.Create(user.ID, CreateMotivationInput{
		Type:  model.MotivationTypePositive,
		Media: []model.MediaItem{{Type: "audio", URL: "https://cdn.example.com/a.mp3"}},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Neither does a blank URL.
	_, err = env.motivations.Create(user.ID, CreateMotivationInput{
		Type:  model.MotivationTypePositive,
		Media: []model.MediaItem{{Type: model.MediaTypeImage, URL: "  "}},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	m, err := env.motivations.Create(user.ID, CreateMotivationInput{
		Title: strptr("post"),
		Type:  model.MotivationTypePositive,
	})
	require.NoError(t, err)

	// Update enforces the same rules on the replacement list.
	err = env.motivations.Update(user.ID, m.ID, UpdateMotivationInput{
		Media: &[]model.MediaItem{{Type: "gif", URL: "https://cdn.example.com/a.gif"}},
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// The original attachments are untouched by the rejected update.
	item, err := env.motivations.Detail(user.ID, m.ID)
	require.NoError(t, err)
	assert.Empty(t, item.Media)
}

func TestMotivationDetailVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "13811111111")
	other := env.user(t, "13822222222")

	m, err := env.motivations.Create(owner.ID, CreateMotivationInput{
		Title:    strptr("private note"),
		Type:     model.MotivationTypePositive,
		IsPublic: false,
	})
	require.NoError(t, err)

	// The owner sees it; anyone else is refused.
	_, err = env.motivations.Detail(owner.ID, m.ID)
	require.NoError(t, err)

	_, err = env.motivations.Detail(other.ID, m.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = env.motivations.Detail(other.ID, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Anonymous viewers (id 0) cannot see it either.
	_, err = env.motivations.Detail(0, m.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMotivationDetailCountsViews(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	m, err := env.motivations.Create(user.ID, CreateMotivationInput{
		Title:    strptr("public post"),
		Type:     model.MotivationTypePositive,
		IsPublic: true,
	})
	require.NoError(t, err)

	first, err := env.motivations.Detail(0, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ViewCount)

	second, err := env.motivations.Detail(0, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.ViewCount)
}

func TestMotivationPublicFeedEnrichment(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "13811111111")
	viewer := env.user(t, "13822222222")

	m, err := env.motivations.Create(author.ID, CreateMotivationInput{
		Title:    strptr("with everything"),
		Type:     model.MotivationTypePositive,
		IsPublic: true,
		Media:    []model.MediaItem{{Type: model.MediaTypeImage, URL: "https://cdn.example.com/a.jpg"}},
		Tags:     []string{"学习"},
	})
	require.NoError(t, err)
	require.NoError(t, env.engagements.Like(viewer.ID, m.ID))

	feed, err := env.motivations.Public(viewer.ID, "", "", 1, 20)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	item := feed[0]
	assert.Equal(t, "用户1111", item.Author.Nickname)
	require.Len(t, item.Media, 1)
	assert.Equal(t, []string{"学习"}, item.Tags)
	assert.True(t, item.IsLiked)
	assert.False(t, item.IsFavorited)
	assert.Equal(t, 1, item.LikeCount)

	// An anonymous viewer gets the same rows with both flags off.
	anon, err := env.motivations.Public(0, "", "", 1, 20)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.False(t, anon[0].IsLiked)
}

func TestMotivationUpdateReplacesTags(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "13811111111")

	m, err := env.motivations.Create(user.ID, CreateMotivationInput{
		Title: strptr("editable"),
		Type:  model.MotivationTypePositive,
		Tags:  []string{"学习"},
	})
	require.NoError(t, err)

	tags := []string{"健身", " 健身 ", ""}
	require.NoError(t, env.motivations.Update(user.ID, m.ID, UpdateMotivationInput{Tags: &tags}))

	item, err := env.motivations.Detail(user.ID, m.ID)
	require.NoError(t, err)
	// Blank and duplicate names collapsed, old links gone.
	assert.Equal(t, []string{"健身"}, item.Tags)
}

func TestFavoritesListIsFavoritedThroughout(t *testing.T) {
	env := newTestEnv(t)
	author := env.user(t, "13811111111")
	viewer := env.user(t, "13822222222")

	m, err := env.motivations.Create(author.ID, CreateMotivationInput{
		Title:    strptr("worth keeping"),
		Type:     model.MotivationTypePositive,
		IsPublic: true,
	})
	require.NoError(t, err)
	require.NoError(t, env.engagements.Favorite(viewer.ID, m.ID))

	favorites, err := env.motivations.Favorites(viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.True(t, favorites[0].IsFavorited)
	assert.Equal(t, "worth keeping", *favorites[0].Title)
}
