package service

import (
	"errors"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/repository"
)

type EngagementService struct {
	repo        repository.EngagementRepository
	motivations repository.MotivationRepository
}

func NewEngagementService(repo repository.EngagementRepository, motivations repository.MotivationRepository) *EngagementService {
	return &EngagementService{
		repo:        repo,
		motivations: motivations,
	}
}

// Like records the viewer's like. Liking twice is a conflict, not a
// counter bump.
func (s *EngagementService) Like(userID, motivationID int64) error {
	if err := s.visible(userID, motivationID); err != nil {
		return err
	}

	err := s.repo.Like(userID, motivationID)
	if errors.Is(err, repository.ErrAlreadyLiked) {
		return apperror.Conflict("already liked")
	}
	if err != nil {
		return apperror.Store(err)
	}
	return nil
}

// Unlike removes the viewer's like. Removing a like that was never there
// is a no-op.
func (s *EngagementService) Unlike(userID, motivationID int64) error {
	err := s.repo.Unlike(userID, motivationID)
	if err != nil {
		return apperror.Store(err)
	}
	return nil
}

func (s *EngagementService) Favorite(userID, motivationID int64) error {
	if err := s.visible(userID, motivationID); err != nil {
		return err
	}

	err := s.repo.Favorite(userID, motivationID)
	if errors.Is(err, repository.ErrAlreadyFavorited) {
		return apperror.Conflict("already favorited")
	}
	if err != nil {
		return apperror.Store(err)
	}
	return nil
}

func (s *EngagementService) Unfavorite(userID, motivationID int64) error {
	err := s.repo.Unfavorite(userID, motivationID)
	if err != nil {
		return apperror.Store(err)
	}
	return nil
}

// visible checks the target exists and that the viewer may see it.
func (s *EngagementService) visible(userID, motivationID int64) error {
	m, err := s.motivations.ByID(motivationID)
	if err != nil {
		return translateMotivationErr(err)
	}
	if !m.IsPublic && m.UserID != userID {
		return apperror.Forbidden("this post is private")
	}
	return nil
}
