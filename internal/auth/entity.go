// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one rotating refresh token. Tokens rotated from the same sign-in
// share a FamilyID so reuse of an old token can revoke the whole chain.
type Session struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked() && !s.IsUsed
}

// OAuthState is stored in Redis between the provider redirect and callback.
type OAuthState struct {
	Provider string `json:"provider"`
	Next     string `json:"next"`
}

// ProviderProfile is what the identity provider tells us about the user.
type ProviderProfile struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
