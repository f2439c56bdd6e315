// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx/types"

	"github.com/circlepicks/backend/internal/core"
)

const recentLimit = 50

type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type BlockChecker interface {
	IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
}

type Service struct {
	repo   Repository
	users  UserChecker
	blocks BlockChecker
	logger *slog.Logger
}

func NewService(
	repo Repository,
	users UserChecker,
	blocks BlockChecker,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		users:  users,
		blocks: blocks,
		logger: logger,
	}
}

// UnreadCount counts unread entries in an already fetched list.
func UnreadCount(list []Notification) int {
	n := 0
	for i := range list {
		if !list[i].Read {
			n++
		}
	}
	return n
}

func (s *Service) List(ctx context.Context, userID string) (*ListResponse, error) {
	list, err := s.repo.ListRecent(ctx, userID, recentLimit)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Notifications: list,
		UnreadCount:   UnreadCount(list),
	}, nil
}

// Create addresses a notification from actorID to req.UserID. delivered is
// false when the recipient has blocked the actor; nothing is stored then.
func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateNotificationRequest,
) (n *Notification, delivered bool, err error) {
	if req.UserID == actorID {
		return nil, false, core.Invalid("cannot send a notification to yourself")
	}

	payload := types.JSONText("{}")
	if len(req.Payload) > 0 && string(req.Payload) != "null" {
		if !json.Valid(req.Payload) {
			return nil, false, core.Invalid("payload must be valid JSON")
		}
		payload = types.JSONText(req.Payload)
	}

	ok, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, core.NotFoundError("user")
	}

	return s.deliver(ctx, req.UserID, actorID, req.Type, payload)
}

// Notify records a system-generated notification. Failures are logged and
// never surface to the action that triggered them.
func (s *Service) Notify(ctx context.Context, recipientID, actorID, kind string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "notification payload encode failed",
			"type", kind, "error", err)
		return
	}

	if _, _, err := s.deliver(ctx, recipientID, actorID, kind, raw); err != nil {
		s.logger.WarnContext(ctx, "notification delivery failed",
			"type", kind, "recipient", recipientID, "error", err)
	}
}

func (s *Service) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if ids != nil && len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkRead(ctx, userID, ids)
}

func (s *Service) deliver(
	ctx context.Context,
	recipientID, actorID, kind string,
	payload types.JSONText,
) (*Notification, bool, error) {
	blocked, err := s.blocks.IsBlocked(ctx, recipientID, actorID)
	if err != nil {
		return nil, false, fmt.Errorf("check block: %w", err)
	}
	if blocked {
		return nil, false, nil
	}

	n := &Notification{
		UserID:  recipientID,
		ActorID: &actorID,
		Type:    kind,
		Payload: payload,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, false, err
	}
	return n, true, nil
}
