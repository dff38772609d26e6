package service

import (
	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

const popularTagLimit = 20

type TagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) *TagService {
	return &TagService{repo: repo}
}

// Visible lists the tags the user may attach: system tags plus their own.
func (s *TagService) Visible(userID int64) ([]model.Tag, error) {
	tags, err := s.repo.Visible(userID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return tags, nil
}

// Popular ranks tags by public post usage.
func (s *TagService) Popular(limit int) ([]model.TagUsage, error) {
	if limit <= 0 || limit > 100 {
		limit = popularTagLimit
	}

	usage, err := s.repo.Popular(limit)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return usage, nil
}
