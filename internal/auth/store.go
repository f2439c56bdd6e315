// AngelaMos | 2026
// store.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/circlepicks/backend/internal/core"
)

// TokenStore keeps short-lived auth state: revoked access token ids,
// password reset tokens and OAuth state.
type TokenStore interface {
	RevokeAccessToken(ctx context.Context, jti string, ttl time.Duration) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
	SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	TakeResetToken(ctx context.Context, tokenHash string) (string, error)
	SaveOAuthState(ctx context.Context, state string, data OAuthState, ttl time.Duration) error
	TakeOAuthState(ctx context.Context, state string) (*OAuthState, error)
}

const (
	blacklistPrefix  = "cp:blacklist:"
	resetPrefix      = "cp:reset:"
	oauthStatePrefix = "cp:oauth_state:"
)

type redisTokenStore struct {
	redis *core.Redis
}

func NewRedisTokenStore(r *core.Redis) TokenStore {
	return &redisTokenStore{redis: r}
}

func (s *redisTokenStore) RevokeAccessToken(
	ctx context.Context,
	jti string,
	ttl time.Duration,
) error {
	if err := s.redis.SetFlag(ctx, blacklistPrefix+jti, ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (s *redisTokenStore) IsAccessTokenRevoked(
	ctx context.Context,
	jti string,
) (bool, error) {
	return s.redis.Exists(ctx, blacklistPrefix+jti)
}

type resetEntry struct {
	UserID string `json:"user_id"`
}

func (s *redisTokenStore) SaveResetToken(
	ctx context.Context,
	tokenHash, userID string,
	ttl time.Duration,
) error {
	return s.redis.SetJSON(ctx, resetPrefix+tokenHash, resetEntry{UserID: userID}, ttl)
}

func (s *redisTokenStore) TakeResetToken(
	ctx context.Context,
	tokenHash string,
) (string, error) {
	var entry resetEntry
	if err := s.redis.TakeJSON(ctx, resetPrefix+tokenHash, &entry); err != nil {
		return "", err
	}
	return entry.UserID, nil
}

func (s *redisTokenStore) SaveOAuthState(
	ctx context.Context,
	state string,
	data OAuthState,
	ttl time.Duration,
) error {
	return s.redis.SetJSON(ctx, oauthStatePrefix+state, data, ttl)
}

func (s *redisTokenStore) TakeOAuthState(
	ctx context.Context,
	state string,
) (*OAuthState, error) {
	var data OAuthState
	if err := s.redis.TakeJSON(ctx, oauthStatePrefix+state, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
