// AngelaMos | 2026
// handler_test.go

package follow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/follow"
	"github.com/circlepicks/backend/internal/notification"
	"github.com/circlepicks/backend/testutil"
)

const (
	me    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	other = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

type pairRepo struct {
	rows map[[2]string]bool
}

func (p *pairRepo) Create(_ context.Context, a, b string) (bool, error) {
	key := [2]string{a, b}
	if p.rows[key] {
		return false, nil
	}
	p.rows[key] = true
	return true, nil
}

func (p *pairRepo) Delete(_ context.Context, a, b string) error {
	delete(p.rows, [2]string{a, b})
	return nil
}

func (p *pairRepo) Exists(_ context.Context, a, b string) (bool, error) {
	return p.rows[[2]string{a, b}], nil
}

var _ follow.Repository = (*pairRepo)(nil)

type users map[string]bool

func (u users) Exists(_ context.Context, id string) (bool, error) { return u[id], nil }

type recordingNotifier struct {
	sent []string
}

func (n *recordingNotifier) Notify(_ context.Context, recipient, actor, kind string, _ any) {
	n.sent = append(n.sent, kind+":"+actor+"->"+recipient)
}

var _ follow.Notifier = (*recordingNotifier)(nil)

func setup() (*pairRepo, *recordingNotifier, http.Handler) {
	repo := &pairRepo{rows: map[[2]string]bool{}}
	notifier := &recordingNotifier{}
	r := chi.NewRouter()
	follow.NewHandler(follow.NewService(repo, users{me: true, other: true}, notifier)).
		RegisterRoutes(r, testutil.Authenticator, testutil.OptionalAuth)
	return repo, notifier, r
}

func call(h http.Handler, method, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if user != "" {
		req.Header.Set(testutil.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFollow_Self(t *testing.T) {
	repo, _, h := setup()

	rec := call(h, http.MethodPost, "/follow/"+me, me)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot follow yourself", testutil.DecodeJSON(t, rec)["error"])
	assert.Empty(t, repo.rows)
}

func TestFollow_NotifiesOnlyOnce(t *testing.T) {
	repo, notifier, h := setup()

	require.Equal(t, http.StatusOK, call(h, http.MethodPost, "/follow/"+other, me).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPost, "/follow/"+other, me).Code)

	assert.Len(t, repo.rows, 1)
	assert.Equal(t, []string{notification.TypeFollow + ":" + me + "->" + other}, notifier.sent)
}

func TestFollow_UnknownTarget(t *testing.T) {
	_, _, h := setup()

	rec := call(h, http.MethodPost, "/follow/cccccccc-cccc-4ccc-8ccc-cccccccccccc", me)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatus_AnonymousIsFalse(t *testing.T) {
	repo, _, h := setup()
	repo.rows[[2]string{me, other}] = true

	anon := testutil.DecodeJSON(t, call(h, http.MethodGet, "/follow/"+other, ""))
	mine := testutil.DecodeJSON(t, call(h, http.MethodGet, "/follow/"+other, me))

	assert.Equal(t, false, anon["following"])
	assert.Equal(t, true, mine["following"])
}

func TestUnfollow_Absent(t *testing.T) {
	_, _, h := setup()

	rec := call(h, http.MethodDelete, "/follow/"+other, me)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFollow_Unauthenticated(t *testing.T) {
	_, _, h := setup()

	rec := call(h, http.MethodPost, "/follow/"+other, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
