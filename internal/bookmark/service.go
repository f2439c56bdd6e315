// AngelaMos | 2026
// service.go

package bookmark

import (
	"context"
	"fmt"

	"github.com/circlepicks/backend/internal/core"
)

type ExperienceChecker interface {
	ExistsActive(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo        Repository
	experiences ExperienceChecker
}

func NewService(repo Repository, experiences ExperienceChecker) *Service {
	return &Service{repo: repo, experiences: experiences}
}

func (s *Service) Create(ctx context.Context, userID, experienceID string) (*Bookmark, error) {
	ok, err := s.experiences.ExistsActive(ctx, experienceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.NotFoundError("experience")
	}

	return s.repo.Create(ctx, userID, experienceID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns the bookmark when userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (*Bookmark, error) {
	if !core.IsUUID(id) {
		return nil, fmt.Errorf("get bookmark: %w", core.ErrNotFound)
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, fmt.Errorf("get bookmark: %w", core.ErrForbidden)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
