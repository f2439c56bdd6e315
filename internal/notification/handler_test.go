// AngelaMos | 2026
// handler_test.go

package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/notification"
	"github.com/circlepicks/backend/testutil"
)

func newMarkReadRouter(marked *[]string, called *bool) http.Handler {
	svc := notification.NewService(&mockRepo{
		MarkReadFn: func(_ context.Context, userID string, ids []string) (int64, error) {
			*called = true
			*marked = ids
			return 3, nil
		},
	}, users{}, blocks{}, nil)

	r := chi.NewRouter()
	notification.NewHandler(svc).RegisterRoutes(r, testutil.Authenticator)
	return r
}

func TestMarkRead_EmptyChunkedBodyMarksAll(t *testing.T) {
	var marked []string
	called := false
	router := newMarkReadRouter(&marked, &called)

	req := httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set(testutil.UserHeader, alice)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, called)
	assert.Empty(t, marked)
	assert.InDelta(t, 3, testutil.DecodeJSON(t, rec)["updated"], 0)
}

func TestMarkRead_ListedIDs(t *testing.T) {
	var marked []string
	called := false
	router := newMarkReadRouter(&marked, &called)

	body := `{"ids":["` + bob + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(body))
	req.Header.Set(testutil.UserHeader, alice)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{bob}, marked)
}

func TestMarkRead_MalformedBody(t *testing.T) {
	var marked []string
	called := false
	router := newMarkReadRouter(&marked, &called)

	req := httptest.NewRequest(http.MethodPost, "/notifications/read", strings.NewReader(`{"ids":`))
	req.Header.Set(testutil.UserHeader, alice)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}
