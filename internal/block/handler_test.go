// AngelaMos | 2026
// handler_test.go

package block_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/block"
	"github.com/circlepicks/backend/testutil"
)

const (
	me    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	other = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

// pairRepo behaves like the blocks table: one row per ordered pair.
type pairRepo struct {
	rows    map[[2]string]struct{}
	inserts int
}

func (p *pairRepo) Create(_ context.Context, blocker, blocked string) error {
	p.inserts++
	p.rows[[2]string{blocker, blocked}] = struct{}{}
	return nil
}

func (p *pairRepo) Delete(_ context.Context, blocker, blocked string) error {
	delete(p.rows, [2]string{blocker, blocked})
	return nil
}

func (p *pairRepo) Exists(_ context.Context, blocker, blocked string) (bool, error) {
	_, ok := p.rows[[2]string{blocker, blocked}]
	return ok, nil
}

var _ block.Repository = (*pairRepo)(nil)

type users map[string]bool

func (u users) Exists(_ context.Context, id string) (bool, error) { return u[id], nil }

func setup() (*pairRepo, http.Handler) {
	repo := &pairRepo{rows: map[[2]string]struct{}{}}
	r := chi.NewRouter()
	block.NewHandler(block.NewService(repo, users{me: true, other: true})).
		RegisterRoutes(r, testutil.Authenticator)
	return repo, r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(testutil.UserHeader, me)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBlock_TwiceSucceedsBothTimes(t *testing.T) {
	repo, h := setup()
	body := `{"user_id":"` + other + `"}`

	for i := 0; i < 2; i++ {
		rec := send(h, http.MethodPost, "/blocks", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, testutil.DecodeJSON(t, rec)["success"])
	}

	assert.Len(t, repo.rows, 1)
	blocked, err := block.NewService(repo, users{}).IsBlocked(context.Background(), me, other)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestBlock_Self(t *testing.T) {
	repo, h := setup()

	rec := send(h, http.MethodPost, "/blocks", `{"user_id":"`+me+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot block yourself", testutil.DecodeJSON(t, rec)["error"])
	assert.Zero(t, repo.inserts)
}

func TestBlock_UnknownUser(t *testing.T) {
	_, h := setup()

	rec := send(h, http.MethodPost, "/blocks", `{"user_id":"cccccccc-cccc-4ccc-8ccc-cccccccccccc"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnblock_AbsentIsSuccess(t *testing.T) {
	_, h := setup()

	rec := send(h, http.MethodDelete, "/blocks/"+other, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, testutil.DecodeJSON(t, rec)["success"])
}
