// AngelaMos | 2026
// handler_test.go

package bookmark_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/bookmark"
	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/testutil"
)

const (
	owner        = "owner-id"
	stranger     = "stranger-id"
	bookmarkID   = "3c2b1a09-8f7e-4d6c-9b5a-4f3e2d1c0b9a"
	experienceID = "7d6c5b4a-3e2f-4a1b-8c9d-0e1f2a3b4c5d"
)

// memRepo keeps bookmarks in a map keyed by id.
type memRepo struct {
	rows map[string]bookmark.Bookmark
}

func (m *memRepo) Create(_ context.Context, userID, expID string) (*bookmark.Bookmark, error) {
	for _, b := range m.rows {
		if b.UserID == userID && b.ExperienceID == expID {
			return &b, nil
		}
	}
	b := bookmark.Bookmark{
		ID:           bookmarkID,
		UserID:       userID,
		ExperienceID: expID,
		CreatedAt:    time.Now(),
	}
	m.rows[b.ID] = b
	return &b, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*bookmark.Bookmark, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get bookmark: %w", core.ErrNotFound)
	}
	return &b, nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]bookmark.Entry, error) {
	var out []bookmark.Entry
	for _, b := range m.rows {
		if b.UserID == userID {
			out = append(out, bookmark.Entry{Bookmark: b})
		}
	}
	return out, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete bookmark: %w", core.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

var _ bookmark.Repository = (*memRepo)(nil)

type checker struct {
	active map[string]bool
}

func (c checker) ExistsActive(_ context.Context, id string) (bool, error) {
	return c.active[id], nil
}

func newRouter(repo bookmark.Repository) http.Handler {
	svc := bookmark.NewService(repo, checker{active: map[string]bool{experienceID: true}})
	r := chi.NewRouter()
	bookmark.NewHandler(svc).RegisterRoutes(r, testutil.Authenticator)
	return r
}

func do(t *testing.T, h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set(testutil.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seeded() *memRepo {
	return &memRepo{rows: map[string]bookmark.Bookmark{
		bookmarkID: {ID: bookmarkID, UserID: owner, ExperienceID: experienceID},
	}}
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	repo := seeded()
	h := newRouter(repo)

	rec := do(t, h, http.MethodDelete, "/bookmarks/"+bookmarkID, stranger, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, repo.rows, bookmarkID)
}

func TestDelete_OwnerThenGetIsNotFound(t *testing.T) {
	h := newRouter(seeded())

	rec := do(t, h, http.MethodDelete, "/bookmarks/"+bookmarkID, owner, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, rec)["success"])

	rec = do(t, h, http.MethodGet, "/bookmarks/"+bookmarkID, owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "bookmark not found", testutil.DecodeJSON(t, rec)["error"])
}

func TestDelete_Unauthenticated(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodDelete, "/bookmarks/"+bookmarkID, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreate_DuplicateReturnsExisting(t *testing.T) {
	repo := &memRepo{rows: map[string]bookmark.Bookmark{}}
	h := newRouter(repo)
	body := `{"experience_id":"` + experienceID + `"}`

	first := do(t, h, http.MethodPost, "/bookmarks", owner, body)
	second := do(t, h, http.MethodPost, "/bookmarks", owner, body)

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, testutil.DecodeJSON(t, first)["id"], testutil.DecodeJSON(t, second)["id"])
	assert.Len(t, repo.rows, 1)
}

func TestCreate_UnknownExperience(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodPost, "/bookmarks", owner,
		`{"experience_id":"00000000-0000-4000-8000-000000000000"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "experience not found", testutil.DecodeJSON(t, rec)["error"])
}

func TestCreate_MissingExperienceID(t *testing.T) {
	rec := do(t, newRouter(seeded()), http.MethodPost, "/bookmarks", owner, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "experience_id is required", testutil.DecodeJSON(t, rec)["error"])
}
