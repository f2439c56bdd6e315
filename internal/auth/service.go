// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrSignupRejected     = errors.New("signup rejected")
)

type UserInfo struct {
	ID           string
	Email        string
	DisplayName  string
	Username     string
	AvatarURL    *string
	PasswordHash *string
	Role         string
	TokenVersion int
}

type NewUser struct {
	Email        string
	PasswordHash *string
	DisplayName  string
	Username     string
	AvatarURL    *string
}

// UserProvider is implemented by the user service. Create returns an
// *core.AppError for client-facing username problems and wraps
// core.ErrDuplicateKey when the email is already registered.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(ctx context.Context, u NewUser) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SoftDelete(ctx context.Context, userID string) error
}

type ServiceConfig struct {
	Repo          Repository
	JWT           *JWTManager
	Users         UserProvider
	Store         TokenStore
	Mailer        ResetMailer
	Providers     map[string]*OAuthProvider
	SiteURL       string
	ResetTokenTTL time.Duration
	OAuthStateTTL time.Duration
}

type Service struct {
	repo          Repository
	jwt           *JWTManager
	users         UserProvider
	store         TokenStore
	mailer        ResetMailer
	providers     map[string]*OAuthProvider
	siteURL       string
	resetTokenTTL time.Duration
	oauthStateTTL time.Duration
}

func NewService(cfg ServiceConfig) *Service {
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Service{
		repo:          cfg.Repo,
		jwt:           cfg.JWT,
		users:         cfg.Users,
		store:         cfg.Store,
		mailer:        mailer,
		providers:     cfg.Providers,
		siteURL:       strings.TrimRight(cfg.SiteURL, "/"),
		resetTokenTTL: cfg.ResetTokenTTL,
		oauthStateTTL: cfg.OAuthStateTTL,
	}
}

func (s *Service) Signin(
	ctx context.Context,
	req SigninRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.CheckPassword(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash := core.CheckPassword(req.Password, user.PasswordHash)
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return s.issue(ctx, user, userAgent, ipAddress, "", nil)
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, NewUser{
		Email:        req.Email,
		PasswordHash: &passwordHash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Username:     req.Username,
	})
	if err != nil {
		if core.IsAppError(err) {
			return nil, err
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrSignupRejected
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, user, userAgent, ipAddress, "", nil)
}

func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}

	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	if stored.IsUsed {
		if err := s.repo.RevokeByFamilyID(ctx, stored.FamilyID); err != nil {
			slog.ErrorContext(ctx, "revoke reused session family failed",
				"family_id", stored.FamilyID,
				"error", err,
			)
		}
		return nil, ErrTokenReuse
	}

	if !stored.IsValid() {
		if stored.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.issue(ctx, user, userAgent, ipAddress, stored.FamilyID, &stored.ID)
}

// Signout revokes the presented access token and, when given, the refresh
// session it was paired with.
func (s *Service) Signout(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if claims != nil && claims.TokenID != "" {
		if err := s.store.RevokeAccessToken(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}

	if refreshToken == "" {
		return nil
	}

	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find session: %w", err)
	}

	if claims != nil && stored.UserID != claims.UserID {
		return fmt.Errorf("signout: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, stored.ID); err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// VerifyAccessToken is the TokenVerifier used by the auth middleware. It fails
// closed when the revocation store cannot be reached.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.store.IsAccessTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		slog.ErrorContext(ctx, "revocation lookup failed", "error", err)
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
	if claims.TokenVersion < user.TokenVersion {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) LogoutAll(ctx context.Context, userID string) error {
	if err := s.repo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}

	return nil
}

// ForgotPassword never reports whether the email is registered. Failures
// after the lookup are logged and swallowed for the same reason.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(ctx, "forgot password lookup failed", "error", err)
		}
		return
	}

	token, err := core.GenerateSecureToken(32)
	if err != nil {
		slog.ErrorContext(ctx, "generate reset token failed", "error", err)
		return
	}

	if err := s.store.SaveResetToken(ctx, core.HashToken(token), user.ID, s.resetTokenTTL); err != nil {
		slog.ErrorContext(ctx, "store reset token failed", "user_id", user.ID, "error", err)
		return
	}

	link := s.siteURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		slog.ErrorContext(ctx, "send reset email failed", "user_id", user.ID, "error", err)
	}
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.store.TakeResetToken(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Invalid("invalid or expired reset token")
		}
		return fmt.Errorf("take reset token: %w", err)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Invalid("invalid or expired reset token")
		}
		return fmt.Errorf("update password: %w", err)
	}

	return s.LogoutAll(ctx, userID)
}

// OAuthBegin returns the provider URL the browser should be sent to.
func (s *Service) OAuthBegin(ctx context.Context, provider, next string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", core.Invalid("unsupported provider")
	}

	state, err := core.GenerateSecureToken(24)
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}

	data := OAuthState{Provider: provider, Next: SafeNext(next)}
	if err := s.store.SaveOAuthState(ctx, state, data, s.oauthStateTTL); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}

	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// OAuthComplete finishes the provider round trip and returns the session
// plus the local path to land on.
func (s *Service) OAuthComplete(
	ctx context.Context,
	state, code, userAgent, ipAddress string,
) (*AuthResponse, string, error) {
	data, err := s.store.TakeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", core.Invalid("invalid oauth state")
		}
		return nil, "", fmt.Errorf("take oauth state: %w", err)
	}

	p, ok := s.providers[data.Provider]
	if !ok {
		return nil, "", core.Invalid("unsupported provider")
	}

	if code == "" {
		return nil, "", core.Invalid("code is required")
	}

	profile, err := p.FetchProfile(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("oauth %s: %w", p.Name, err)
	}

	if profile.Email == "" {
		return nil, "", core.Invalid("provider did not return an email")
	}
	if profile.EmailVerified != nil && !*profile.EmailVerified {
		return nil, "", core.Invalid("email not verified with provider")
	}

	user, err := s.findOrCreateOAuthUser(ctx, profile)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.issue(ctx, user, userAgent, ipAddress, "", nil)
	if err != nil {
		return nil, "", err
	}

	return resp, SafeNext(data.Next), nil
}

const oauthUsernameAttempts = 3

func (s *Service) findOrCreateOAuthUser(
	ctx context.Context,
	profile *ProviderProfile,
) (*UserInfo, error) {
	user, err := s.users.GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	for attempt := 0; ; attempt++ {
		user, err = s.users.Create(ctx, NewUser{
			Email:       profile.Email,
			DisplayName: oauthDisplayName(profile),
			Username:    DeriveUsername(profile.Email),
			AvatarURL:   avatar,
		})
		if err == nil {
			return user, nil
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			// lost a race with a concurrent sign-in for the same email
			return s.users.GetByEmail(ctx, profile.Email)
		}
		if !core.IsAppError(err) || attempt+1 >= oauthUsernameAttempts {
			return nil, fmt.Errorf("create oauth user: %w", err)
		}
	}
}

func oauthDisplayName(p *ProviderProfile) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name, _, _ = strings.Cut(p.Email, "@")
	}
	for utf8.RuneCountInString(name) > 50 {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return name
}

// DeriveUsername builds a candidate username from the email's local part
// with a short random suffix.
func DeriveUsername(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(email), "@")

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= 20 {
			break
		}
	}

	base := strings.Trim(b.String(), "_")
	if len(base) < 3 {
		base = "user"
	}

	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// DeleteAccount soft-deletes the caller and invalidates every credential
// they hold.
func (s *Service) DeleteAccount(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if err := s.LogoutAll(ctx, claims.UserID); err != nil {
		return err
	}

	if err := s.store.RevokeAccessToken(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}

	if err := s.users.SoftDelete(ctx, claims.UserID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return nil
}

func (s *Service) ListSessions(ctx context.Context, userID string) ([]SessionInfo, error) {
	sessions, err := s.repo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionInfo{
			ID:        sess.ID,
			UserAgent: sess.UserAgent,
			IPAddress: sess.IPAddress,
			CreatedAt: sess.CreatedAt,
			ExpiresAt: sess.ExpiresAt,
		})
	}

	return out, nil
}

func (s *Service) RevokeSession(ctx context.Context, userID, sessionID string) error {
	sess, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if sess.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.repo.RevokeByID(ctx, sessionID); err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// PruneSessions drops sessions that expired more than a day ago.
func (s *Service) PruneSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now().Add(-24*time.Hour))
}

func (s *Service) issue(
	ctx context.Context,
	user *UserInfo,
	userAgent, ipAddress, familyID string,
	previousID *string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	if previousID != nil {
		if err := s.repo.MarkAsUsed(ctx, *previousID, session.ID); err != nil {
			slog.WarnContext(ctx, "mark rotated session failed", "session_id", *previousID, "error", err)
		}
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
	}
}
