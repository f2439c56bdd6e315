// AngelaMos | 2026
// auth.go

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

// UserHeader carries the caller id for the fake authenticators below.
const UserHeader = "X-Test-User"

// Authenticator stands in for middleware.Resolver.Authenticator, trusting
// UserHeader instead of verifying a token.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(UserHeader)
		if id == "" {
			core.Unauthorized(w, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, id)))
	})
}

func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(UserHeader); id != "" {
			r = r.WithContext(withUser(r, id))
		}
		next.ServeHTTP(w, r)
	})
}

// DecodeJSON unmarshals a recorded response body into a generic map.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func withUser(r *http.Request, id string) context.Context {
	return middleware.WithIdentity(r.Context(), &middleware.AccessTokenClaims{
		UserID: id,
		Role:   "user",
	})
}
