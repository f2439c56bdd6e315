// AngelaMos | 2026
// service.go

package follow

import (
	"context"
	"errors"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/notification"
)

type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID, kind string, payload any)
}

type Service struct {
	repo     Repository
	users    UserChecker
	notifier Notifier
}

func NewService(repo Repository, users UserChecker, notifier Notifier) *Service {
	return &Service{repo: repo, users: users, notifier: notifier}
}

// IsFollowing is false for anonymous viewers.
func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || !core.IsUUID(followingID) {
		return false, nil
	}
	return s.repo.Exists(ctx, followerID, followingID)
}

func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return core.Invalid("cannot follow yourself")
	}

	ok, err := s.users.Exists(ctx, followingID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NotFoundError("user")
	}

	created, err := s.repo.Create(ctx, followerID, followingID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return err
	}

	if created {
		s.notifier.Notify(ctx, followingID, followerID, notification.TypeFollow,
			map[string]string{"follower_id": followerID})
	}
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	if !core.IsUUID(followingID) {
		return nil
	}
	return s.repo.Delete(ctx, followerID, followingID)
}
