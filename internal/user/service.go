// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/circlepicks/backend/internal/auth"
	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

var (
	_ auth.UserProvider     = (*Service)(nil)
	_ middleware.RoleLookup = (*Service)(nil)
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeUsername lowercases and trims a username, returning an
// invalid-input error when the result is not 3 to 30 of [a-z0-9_].
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(username) {
		return "", core.Invalid(
			"username must be 3-30 characters of lowercase letters, digits, or underscores",
		)
	}
	return username, nil
}

func (s *Service) Create(ctx context.Context, nu auth.NewUser) (*auth.UserInfo, error) {
	username, err := NormalizeUsername(nu.Username)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameTaken(ctx, username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, core.Invalid("username already taken")
	}

	u := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(nu.Email)),
		PasswordHash: nu.PasswordHash,
		DisplayName:  strings.TrimSpace(nu.DisplayName),
		Username:     username,
		AvatarURL:    nu.AvatarURL,
		Role:         RoleUser,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, core.Invalid("username already taken")
		}
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

// Exists reports whether id names a live account.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if !core.IsUUID(id) {
		return false, nil
	}
	_, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) GetRole(ctx context.Context, userID string) (string, error) {
	return s.repo.GetRole(ctx, userID)
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) SoftDelete(ctx context.Context, userID string) error {
	return s.repo.SoftDelete(ctx, userID)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*ProfileResponse, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, core.Invalid("display_name is required")
	}

	username, err := NormalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != u.Username {
		taken, err := s.repo.UsernameTaken(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, core.Invalid("username already taken")
		}
	}

	u.DisplayName = displayName
	u.Username = username
	if req.AvatarURL != nil {
		u.AvatarURL = normalizeAvatar(req.AvatarURL)
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, core.Invalid("username already taken")
		}
		return nil, err
	}

	resp := ToProfileResponse(u)
	return &resp, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]ProfileResponse, int, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return ToProfileResponseList(users), total, nil
}

// UpdateRole changes a user's role and bumps their token version so any
// access token carrying the old role stops verifying.
func (s *Service) UpdateRole(
	ctx context.Context,
	actorID, targetID, role string,
) (*ProfileResponse, error) {
	if actorID == targetID && role != RoleAdmin {
		return nil, fmt.Errorf("demote self: %w", core.ErrForbidden)
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementTokenVersion(ctx, targetID); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, targetID)
}

func normalizeAvatar(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Username:     u.Username,
		AvatarURL:    u.AvatarURL,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}
