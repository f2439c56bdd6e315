// AngelaMos | 2026
// service_test.go

package report_test

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

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/report"
	"github.com/circlepicks/backend/testutil"
)

const experienceID = "6e5d4c3b-2a19-4f08-8e7d-6c5b4a392817"

type mockRepo struct {
	CreateFn func(ctx context.Context, reporterID string, req report.CreateReportRequest) error
}

func (m *mockRepo) Create(ctx context.Context, reporterID string, req report.CreateReportRequest) error {
	return m.CreateFn(ctx, reporterID, req)
}

var _ report.Repository = (*mockRepo)(nil)

type active map[string]bool

func (a active) ExistsActive(_ context.Context, id string) (bool, error) { return a[id], nil }

func TestCreate_DuplicateIsSuccess(t *testing.T) {
	svc := report.NewService(&mockRepo{
		CreateFn: func(context.Context, string, report.CreateReportRequest) error {
			return fmt.Errorf("create report: %w", core.ErrDuplicateKey)
		},
	}, active{experienceID: true})

	err := svc.Create(context.Background(), "u1", report.CreateReportRequest{
		ExperienceID: experienceID,
		Reason:       "spam",
	})

	assert.NoError(t, err)
}

func TestCreate_UnknownReasonNeverPersists(t *testing.T) {
	svc := report.NewService(&mockRepo{
		CreateFn: func(context.Context, string, report.CreateReportRequest) error {
			t.Fatal("unexpected insert")
			return nil
		},
	}, active{experienceID: true})

	err := svc.Create(context.Background(), "u1", report.CreateReportRequest{
		ExperienceID: experienceID,
		Reason:       "boring",
	})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreate_MissingExperience(t *testing.T) {
	svc := report.NewService(&mockRepo{}, active{})

	err := svc.Create(context.Background(), "u1", report.CreateReportRequest{
		ExperienceID: experienceID,
		Reason:       "other",
	})

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestHandler_FailureEchoesDetail(t *testing.T) {
	svc := report.NewService(&mockRepo{
		CreateFn: func(context.Context, string, report.CreateReportRequest) error {
			return errors.New("connection reset")
		},
	}, active{experienceID: true})

	r := chi.NewRouter()
	report.NewHandler(svc).RegisterRoutes(r, testutil.Authenticator)

	body := `{"experience_id":"` + experienceID + `","reason":"misleading"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	req.Header.Set(testutil.UserHeader, "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to submit report: connection reset",
		testutil.DecodeJSON(t, rec)["error"])
}

func TestHandler_InvalidReason(t *testing.T) {
	r := chi.NewRouter()
	report.NewHandler(report.NewService(&mockRepo{}, active{})).
		RegisterRoutes(r, testutil.Authenticator)

	body := `{"experience_id":"` + experienceID + `","reason":"boring"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	req.Header.Set(testutil.UserHeader, "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reason must be one of: spam inappropriate misleading other",
		testutil.DecodeJSON(t, rec)["error"])
}
