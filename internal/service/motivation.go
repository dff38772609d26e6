package service

import (
	"errors"
	"strings"
	"time"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

type MotivationService struct {
	repo        repository.MotivationRepository
	engagements repository.EngagementRepository
}

func NewMotivationService(repo repository.MotivationRepository, engagements repository.EngagementRepository) *MotivationService {
	return &MotivationService{
		repo:        repo,
		engagements: engagements,
	}
}

// CreateMotivationInput carries a new post with its ordered media and tag
// names.
type CreateMotivationInput struct {
	Title    *string
	Content  *string
	Type     string
	IsPublic bool
	Media    []model.MediaItem
	Tags     []string
}

// UpdateMotivationInput is sparse: nil fields are left untouched. Media and
// Tags, when present, replace the existing lists wholesale.
type UpdateMotivationInput struct {
	Title    *string
	Content  *string
	Type     *string
	IsPublic *bool
	Media    *[]model.MediaItem
	Tags     *[]string
}

// MotivationItem is a post enriched for the feed: author, media, tags and
// the viewer's like/favorite flags.
type MotivationItem struct {
	*model.Motivation
	Author      model.AuthorSummary
	Media       []model.Media
	Tags        []string
	IsLiked     bool
	IsFavorited bool
}

// Create validates and persists the post with its attachments and tags.
func (s *MotivationService) Create(userID int64, input CreateMotivationInput) (*model.Motivation, error) {
	if !model.MotivationTypeValid(input.Type) {
		return nil, apperror.Validation("type", "type must be positive or negative")
	}
	hasTitle := input.Title != nil && strings.TrimSpace(*input.Title) != ""
	hasContent := input.Content != nil && strings.TrimSpace(*input.Content) != ""
	if !hasTitle && !hasContent && len(input.Media) == 0 {
		return nil, apperror.Validation("content", "a post needs a title, content or media")
	}
	if err := validateMedia(input.Media); err != nil {
		return nil, err
	}

	m := &model.Motivation{
		UserID:    userID,
		Title:     input.Title,
		Content:   input.Content,
		Type:      input.Type,
		IsPublic:  input.IsPublic,
		CreatedAt: time.Now(),
	}

	err := s.repo.Create(m, input.Media, normalizeTags(input.Tags))
	if err != nil {
		return nil, apperror.Store(err)
	}

	return m, nil
}

// Detail returns one post with everything the detail screen needs. Private
// posts are readable by their owner only. Each successful view bumps the
// post's view count.
func (s *MotivationService) Detail(viewerID, id int64) (*MotivationItem, error) {
	row, err := s.repo.ByID(id)
	if err != nil {
		return nil, translateMotivationErr(err)
	}
	if !row.IsPublic && row.UserID != viewerID {
		return nil, apperror.Forbidden("this post is private")
	}

	item, err := s.enrich(viewerID, row)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViewCount(id); err != nil {
		return nil, apperror.Store(err)
	}
	item.ViewCount = row.ViewCount + 1

	return item, nil
}

// Public returns the public feed, optionally filtered by type and tag,
// newest first.
func (s *MotivationService) Public(viewerID int64, motivationType, tag string, page, limit int) ([]*MotivationItem, error) {
	if motivationType != "" && !model.MotivationTypeValid(motivationType) {
		return nil, apperror.Validation("type", "type must be positive or negative")
	}
	page, limit = NormalizePage(page, limit)

	rows, err := s.repo.Public(repository.MotivationFilter{Type: motivationType, Tag: tag}, limit, pageOffset(page, limit))
	if err != nil {
		return nil, apperror.Store(err)
	}

	return s.enrichAll(viewerID, rows)
}

// Mine lists the caller's own posts, public and private alike.
func (s *MotivationService) Mine(userID int64, motivationType string, page, limit int) ([]*MotivationItem, error) {
	if motivationType != "" && !model.MotivationTypeValid(motivationType) {
		return nil, apperror.Validation("type", "type must be positive or negative")
	}
	page, limit = NormalizePage(page, limit)

	rows, err := s.repo.Mine(userID, motivationType, limit, pageOffset(page, limit))
	if err != nil {
		return nil, apperror.Store(err)
	}

	items := make([]*MotivationItem, 0, len(rows))
	for _, m := range rows {
		item, err := s.enrich(userID, &repository.MotivationWithAuthor{Motivation: *m})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

// Update applies the sparse field set, replacing media and tag lists when
// the caller sends them.
func (s *MotivationService) Update(userID, id int64, input UpdateMotivationInput) error {
	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.Type != nil {
		if !model.MotivationTypeValid(*input.Type) {
			return apperror.Validation("type", "type must be positive or negative")
		}
		fields["type"] = *input.Type
	}
	if input.IsPublic != nil {
		fields["is_public"] = *input.IsPublic
	}

	var media []model.MediaItem
	replaceMedia := false
	if input.Media != nil {
		if err := validateMedia(*input.Media); err != nil {
			return err
		}
		media = *input.Media
		replaceMedia = true
	}

	var tags []string
	replaceTags := false
	if input.Tags != nil {
		tags = normalizeTags(*input.Tags)
		replaceTags = true
	}

	err := s.repo.Update(userID, id, fields, media, replaceMedia, tags, replaceTags)
	if err != nil {
		return translateMotivationErr(err)
	}
	return nil
}

func (s *MotivationService) Delete(userID, id int64) error {
	err := s.repo.Delete(userID, id)
	if err != nil {
		return translateMotivationErr(err)
	}
	return nil
}

// Favorites lists the viewer's favorited posts, most recently favorited
// first. Every row is by definition favorited by the viewer.
func (s *MotivationService) Favorites(userID int64, page, limit int) ([]*MotivationItem, error) {
	page, limit = NormalizePage(page, limit)

	rows, err := s.engagements.Favorites(userID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, apperror.Store(err)
	}

	return s.enrichAll(userID, rows)
}

func (s *MotivationService) enrichAll(viewerID int64, rows []*repository.MotivationWithAuthor) ([]*MotivationItem, error) {
	items := make([]*MotivationItem, 0, len(rows))
	for _, row := range rows {
		item, err := s.enrich(viewerID, row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *MotivationService) enrich(viewerID int64, row *repository.MotivationWithAuthor) (*MotivationItem, error) {
	media, err := s.repo.MediaFor(row.ID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	tags, err := s.repo.TagNamesFor(row.ID)
	if err != nil {
		return nil, apperror.Store(err)
	}

	liked, favorited := false, false
	if viewerID != 0 {
		liked, favorited, err = s.engagements.Flags(viewerID, row.ID)
		if err != nil {
			return nil, apperror.Store(err)
		}
	}

	m := row.Motivation
	return &MotivationItem{
		Motivation: &m,
		Author: model.AuthorSummary{
			ID:        row.UserID,
			Nickname:  row.AuthorName,
			AvatarURL: row.AuthorAvatar,
		},
		Media:       media,
		Tags:        tags,
		IsLiked:     liked,
		IsFavorited: favorited,
	}, nil
}

// validateMedia rejects attachments the store would refuse, before any row
// is written.
func validateMedia(items []model.MediaItem) error {
	for _, item := range items {
		if item.Type != model.MediaTypeImage && item.Type != model.MediaTypeVideo {
			return apperror.Validation("media", "media type must be image or video")
		}
		if strings.TrimSpace(item.URL) == "" {
			return apperror.Validation("media", "media url is required")
		}
	}
	return nil
}

func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func translateMotivationErr(err error) error {
	if errors.Is(err, repository.ErrMotivationNotFound) {
		return apperror.NotFound("motivation")
	}
	return apperror.Store(err)
}
