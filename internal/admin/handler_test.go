// AngelaMos | 2026
// handler_test.go

package admin_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/admin"
	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/experience"
	"github.com/circlepicks/backend/internal/middleware"
	"github.com/circlepicks/backend/testutil"
)

const experienceID = "6f1c2b1e-2a8e-4b55-9b0a-0f3a51f1c001"

type mockModerator struct {
	ListForModerationFn func(ctx context.Context, status string, limit, offset int) ([]experience.Row, int, error)
	ModerateFn          func(ctx context.Context, id, status string, reason *string, moderatorID string) error
}

func (m *mockModerator) ListForModeration(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]experience.Row, int, error) {
	return m.ListForModerationFn(ctx, status, limit, offset)
}

func (m *mockModerator) Moderate(
	ctx context.Context,
	id, status string,
	reason *string,
	moderatorID string,
) error {
	return m.ModerateFn(ctx, id, status, reason, moderatorID)
}

var _ admin.ExperienceModerator = (*mockModerator)(nil)

type roleTable map[string]string

func (t roleTable) GetRole(_ context.Context, userID string) (string, error) {
	role, ok := t[userID]
	if !ok {
		return "", core.ErrNotFound
	}
	return role, nil
}

type mockRevoker struct {
	revoked []string
}

func (m *mockRevoker) LogoutAll(_ context.Context, userID string) error {
	m.revoked = append(m.revoked, userID)
	return nil
}

type fixedStats struct {
	stats *admin.ContentStats
	err   error
}

func (f fixedStats) Content(context.Context) (*admin.ContentStats, error) {
	return f.stats, f.err
}

func newRouter(mod *mockModerator, revoker *mockRevoker) http.Handler {
	return newRouterWithStats(mod, revoker, fixedStats{stats: &admin.ContentStats{}})
}

func newRouterWithStats(
	mod *mockModerator,
	revoker *mockRevoker,
	stats admin.StatsRepository,
) http.Handler {
	h := admin.NewHandler(admin.HandlerConfig{
		Content:    stats,
		Moderation: admin.NewModerationService(mod),
		Sessions:   revoker,
	})

	roles := roleTable{"admin-1": middleware.RoleAdmin, "user-1": "user"}
	r := chi.NewRouter()
	h.RegisterRoutes(r, testutil.Authenticator, middleware.RequireAdmin(roles))
	return r
}

func do(t *testing.T, router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testutil.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestModerate_NonAdminForbidden(t *testing.T) {
	called := false
	router := newRouter(&mockModerator{
		ModerateFn: func(context.Context, string, string, *string, string) error {
			called = true
			return nil
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "user-1",
		`{"action":"deactivate","reason":"spam"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestModerate_Unauthenticated(t *testing.T) {
	router := newRouter(&mockModerator{}, &mockRevoker{})

	rec := do(t, router, http.MethodGet, "/admin/experiences", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestModerate_DeactivateRequiresReason(t *testing.T) {
	router := newRouter(&mockModerator{}, &mockRevoker{})

	for _, body := range []string{
		`{"action":"deactivate"}`,
		`{"action":"deactivate","reason":"   "}`,
	} {
		rec := do(t, router, http.MethodPost,
			"/admin/experiences/"+experienceID+"/moderate", "admin-1", body)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "reason is required", testutil.DecodeJSON(t, rec)["error"])
	}
}

func TestModerate_DeactivateRecordsReasonAndModerator(t *testing.T) {
	var gotStatus, gotModerator string
	var gotReason *string
	router := newRouter(&mockModerator{
		ModerateFn: func(_ context.Context, id, status string, reason *string, moderatorID string) error {
			assert.Equal(t, experienceID, id)
			gotStatus, gotReason, gotModerator = status, reason, moderatorID
			return nil
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "admin-1",
		`{"action":"deactivate","reason":"  off-topic  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, rec)["success"])
	assert.Equal(t, experience.StatusInactive, gotStatus)
	require.NotNil(t, gotReason)
	assert.Equal(t, "off-topic", *gotReason)
	assert.Equal(t, "admin-1", gotModerator)
}

func TestModerate_ReactivateClearsReason(t *testing.T) {
	var gotReason *string
	var gotStatus string
	router := newRouter(&mockModerator{
		ModerateFn: func(_ context.Context, _, status string, reason *string, _ string) error {
			gotStatus, gotReason = status, reason
			return nil
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "admin-1",
		`{"action":"reactivate","reason":"ignored"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, experience.StatusActive, gotStatus)
	assert.Nil(t, gotReason)
}

func TestModerate_UnknownAction(t *testing.T) {
	router := newRouter(&mockModerator{}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "admin-1",
		`{"action":"delete"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerate_UnknownExperience(t *testing.T) {
	router := newRouter(&mockModerator{
		ModerateFn: func(context.Context, string, string, *string, string) error {
			return fmt.Errorf("moderate experience: %w", core.ErrNotFound)
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "admin-1",
		`{"action":"reactivate"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "experience not found", testutil.DecodeJSON(t, rec)["error"])

	rec = do(t, router, http.MethodPost,
		"/admin/experiences/not-a-uuid/moderate", "admin-1",
		`{"action":"reactivate"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModerate_StoreFailureIncludesDetail(t *testing.T) {
	router := newRouter(&mockModerator{
		ModerateFn: func(context.Context, string, string, *string, string) error {
			return errors.New("connection reset")
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodPost,
		"/admin/experiences/"+experienceID+"/moderate", "admin-1",
		`{"action":"reactivate"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to moderate experience: connection reset",
		testutil.DecodeJSON(t, rec)["error"])
}

func TestListExperiences_FiltersByStatus(t *testing.T) {
	reason := "spam"
	router := newRouter(&mockModerator{
		ListForModerationFn: func(_ context.Context, status string, limit, offset int) ([]experience.Row, int, error) {
			assert.Equal(t, experience.StatusInactive, status)
			assert.Equal(t, 10, limit)
			assert.Equal(t, 10, offset)
			row := experience.Row{}
			row.ID = experienceID
			row.Status = experience.StatusInactive
			row.ModerationReason = &reason
			return []experience.Row{row}, 11, nil
		},
	}, &mockRevoker{})

	rec := do(t, router, http.MethodGet,
		"/admin/experiences?status=inactive&page=2&page_size=10", "admin-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := testutil.DecodeJSON(t, rec)
	items, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "spam", items[0].(map[string]any)["moderation_reason"])
}

func TestListExperiences_RejectsUnknownStatus(t *testing.T) {
	router := newRouter(&mockModerator{}, &mockRevoker{})

	rec := do(t, router, http.MethodGet, "/admin/experiences?status=deleted", "admin-1", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevokeUserSessions(t *testing.T) {
	revoker := &mockRevoker{}
	router := newRouter(&mockModerator{}, revoker)

	rec := do(t, router, http.MethodDelete, "/admin/sessions/"+experienceID, "admin-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{experienceID}, revoker.revoked)
}

func TestContentStats(t *testing.T) {
	router := newRouterWithStats(&mockModerator{}, &mockRevoker{}, fixedStats{
		stats: &admin.ContentStats{Users: 12, ActiveExperiences: 30, InactiveExperiences: 2, Reports: 4},
	})

	rec := do(t, router, http.MethodGet, "/admin/stats/content", "admin-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := testutil.DecodeJSON(t, rec)
	assert.InDelta(t, 12, data["users"], 0)
	assert.InDelta(t, 2, data["inactive_experiences"], 0)
}

func TestSystemStats_ContentFailureStillReports(t *testing.T) {
	router := newRouterWithStats(&mockModerator{}, &mockRevoker{}, fixedStats{
		err: errors.New("connection reset"),
	})

	rec := do(t, router, http.MethodGet, "/admin/stats", "admin-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := testutil.DecodeJSON(t, rec)
	assert.NotContains(t, data, "content")
	assert.Contains(t, data, "runtime")
}
