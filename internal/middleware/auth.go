// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/circlepicks/backend/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ClaimsKey   contextKey = "jwt_claims"

	RoleAdmin = "admin"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// RoleLookup reads the caller's current role from the store. Admin checks go
// through it instead of trusting the role claim carried in the token.
type RoleLookup interface {
	GetRole(ctx context.Context, userID string) (string, error)
}

type AccessTokenClaims struct {
	UserID       string
	Role         string
	TokenVersion int
	TokenID      string
	ExpiresAt    time.Time
}

// Resolver finds the caller's identity from the session cookie first and the
// Authorization header second.
type Resolver struct {
	verifier   TokenVerifier
	cookieName string
}

func NewResolver(verifier TokenVerifier, cookieName string) *Resolver {
	return &Resolver{verifier: verifier, cookieName: cookieName}
}

func (rs *Resolver) resolve(r *http.Request) (*AccessTokenClaims, error) {
	candidates := make([]string, 0, 2)
	if c, err := r.Cookie(rs.cookieName); err == nil && c.Value != "" {
		candidates = append(candidates, c.Value)
	}
	if bearer := ExtractToken(r); bearer != "" {
		candidates = append(candidates, bearer)
	}

	if len(candidates) == 0 {
		return nil, core.UnauthorizedError("unauthorized")
	}

	var lastErr error
	for _, token := range candidates {
		claims, err := rs.verifier.VerifyAccessToken(r.Context(), token)
		if err == nil {
			return claims, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// Authenticator rejects requests without a valid identity.
func (rs *Resolver) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := rs.resolve(r)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims)))
	})
}

// OptionalAuth attaches the identity when one resolves and never fails.
func (rs *Resolver) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := rs.resolve(r); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after Authenticator.
func RequireAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.JSONError(w, core.UnauthorizedError("unauthorized"))
				return
			}

			role, err := lookup.GetRole(r.Context(), userID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.ForbiddenError("forbidden"))
					return
				}
				slog.ErrorContext(r.Context(), "role lookup failed",
					"user_id", userID,
					"error", err,
				)
				core.InternalServerError(w, err)
				return
			}

			if role != RoleAdmin {
				core.JSONError(w, core.ForbiddenError("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), UserRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, claims *AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	return context.WithValue(ctx, ClaimsKey, claims)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
