// AngelaMos | 2026
// handler_test.go

package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/health"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() health.Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func failing() health.Checker {
	return pingFunc(func(context.Context) error { return errors.New("connection refused") })
}

func serve(h *health.Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness_AllHealthy(t *testing.T) {
	h := health.NewHandler(
		health.Dependency{Name: "database", Checker: healthy()},
		health.Dependency{Name: "redis", Checker: healthy()},
		health.Dependency{Name: "storage", Checker: healthy()},
	)

	rec := serve(h, "/readyz")

	require.Equal(t, http.StatusOK, rec.Code)
	var body health.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 3)
	assert.Equal(t, "storage", body.Checks[2].Name)
}

func TestReadiness_Degraded(t *testing.T) {
	h := health.NewHandler(
		health.Dependency{Name: "database", Checker: healthy()},
		health.Dependency{Name: "redis", Checker: failing()},
	)

	rec := serve(h, "/readyz")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body health.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Checks[1].Healthy)
	assert.Equal(t, "ping failed", body.Checks[1].Message)
}

func TestLiveness_ShuttingDown(t *testing.T) {
	h := health.NewHandler()
	assert.Equal(t, http.StatusOK, serve(h, "/healthz").Code)

	h.SetShutdown(true)

	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
}
