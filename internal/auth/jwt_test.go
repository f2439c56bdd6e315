// AngelaMos | 2026
// jwt_test.go

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/auth"
	"github.com/circlepicks/backend/internal/config"
	"github.com/circlepicks/backend/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "circle-picks",
		Audience:           "circle-picks-api",
	}
}

func newJWTManager(t *testing.T, cfg config.JWTConfig) *auth.JWTManager {
	t.Helper()
	privatePEM, _, err := auth.GenerateKeyPairPEM()
	require.NoError(t, err)

	m, err := auth.NewJWTManagerFromPEM(cfg, privatePEM)
	require.NoError(t, err)
	return m
}

func TestJWT_RoundTrip(t *testing.T) {
	m := newJWTManager(t, testJWTConfig())

	issued, err := m.CreateAccessToken(auth.AccessTokenClaims{
		UserID:       "user-1",
		Role:         "admin",
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(context.Background(), issued.Token)

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, issued.ID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestJWT_RejectsForeignKey(t *testing.T) {
	signer := newJWTManager(t, testJWTConfig())
	verifier := newJWTManager(t, testJWTConfig())

	issued, err := signer.CreateAccessToken(auth.AccessTokenClaims{UserID: "user-1", Role: "user"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), issued.Token)

	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_RejectsWrongAudience(t *testing.T) {
	privatePEM, _, err := auth.GenerateKeyPairPEM()
	require.NoError(t, err)

	cfg := testJWTConfig()
	signer, err := auth.NewJWTManagerFromPEM(cfg, privatePEM)
	require.NoError(t, err)

	cfg.Audience = "someone-else"
	verifier, err := auth.NewJWTManagerFromPEM(cfg, privatePEM)
	require.NoError(t, err)

	issued, err := signer.CreateAccessToken(auth.AccessTokenClaims{UserID: "user-1", Role: "user"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_Garbage(t *testing.T) {
	m := newJWTManager(t, testJWTConfig())

	_, err := m.VerifyAccessToken(context.Background(), "not.a.token")

	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWT_RefreshTokenKeepsFamily(t *testing.T) {
	m := newJWTManager(t, testJWTConfig())

	first, err := m.CreateRefreshToken("")
	require.NoError(t, err)
	rotated, err := m.CreateRefreshToken(first.FamilyID)
	require.NoError(t, err)

	assert.NotEmpty(t, first.FamilyID)
	assert.Equal(t, first.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, first.Token, rotated.Token)
	assert.Equal(t, core.HashToken(first.Token), first.Hash)
}

func TestJWKSHandler_PublishesPublicKey(t *testing.T) {
	m := newJWTManager(t, testJWTConfig())

	rec := httptest.NewRecorder()
	m.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, m.KeyID(), body.Keys[0]["kid"])
	assert.NotContains(t, body.Keys[0], "d")
}
