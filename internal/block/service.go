// AngelaMos | 2026
// service.go

package block

import (
	"context"
	"errors"

	"github.com/circlepicks/backend/internal/core"
)

type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo  Repository
	users UserChecker
}

func NewService(repo Repository, users UserChecker) *Service {
	return &Service{repo: repo, users: users}
}

// Block is idempotent: blocking an already blocked user succeeds.
func (s *Service) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return core.Invalid("cannot block yourself")
	}

	ok, err := s.users.Exists(ctx, blockedID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NotFoundError("user")
	}

	if err := s.repo.Create(ctx, blockerID, blockedID); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return err
	}
	return nil
}

// Unblock succeeds whether or not a block existed.
func (s *Service) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if !core.IsUUID(blockedID) {
		return nil
	}
	return s.repo.Delete(ctx, blockerID, blockedID)
}

func (s *Service) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	return s.repo.Exists(ctx, blockerID, blockedID)
}
