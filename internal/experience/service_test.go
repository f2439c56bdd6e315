// AngelaMos | 2026
// service_test.go

package experience_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/experience"
	"github.com/circlepicks/backend/internal/place"
)

type mockRepo struct {
	CreateFn            func(ctx context.Context, e *experience.Experience) error
	FeedFn              func(ctx context.Context, p experience.FeedParams) ([]experience.Row, int, error)
	GetVisibleFn        func(ctx context.Context, id, viewerID string) (*experience.Row, error)
	ExistsActiveFn      func(ctx context.Context, id string) (bool, error)
	ListForModerationFn func(ctx context.Context, status string, limit, offset int) ([]experience.Row, int, error)
	ModerateFn          func(ctx context.Context, id, status string, reason *string, by string) error
}

func (m *mockRepo) Create(ctx context.Context, e *experience.Experience) error {
	return m.CreateFn(ctx, e)
}
func (m *mockRepo) Feed(
	ctx context.Context,
	p experience.FeedParams,
) ([]experience.Row, int, error) {
	return m.FeedFn(ctx, p)
}
func (m *mockRepo) GetVisible(ctx context.Context, id, viewerID string) (*experience.Row, error) {
	return m.GetVisibleFn(ctx, id, viewerID)
}
func (m *mockRepo) ExistsActive(ctx context.Context, id string) (bool, error) {
	return m.ExistsActiveFn(ctx, id)
}
func (m *mockRepo) ListForModeration(
	ctx context.Context,
	status string,
	limit, offset int,
) ([]experience.Row, int, error) {
	return m.ListForModerationFn(ctx, status, limit, offset)
}
func (m *mockRepo) Moderate(
	ctx context.Context,
	id, status string,
	reason *string,
	by string,
) error {
	return m.ModerateFn(ctx, id, status, reason, by)
}

var _ experience.Repository = (*mockRepo)(nil)

type mockPlaces struct {
	GetFn func(ctx context.Context, id string) (*place.Place, error)
}

func (m *mockPlaces) Get(ctx context.Context, id string) (*place.Place, error) {
	return m.GetFn(ctx, id)
}

var _ experience.PlaceLookup = (*mockPlaces)(nil)

type mockTags struct {
	ResolveFn func(ctx context.Context, userID string, names []string) ([]string, error)
}

func (m *mockTags) Resolve(ctx context.Context, userID string, names []string) ([]string, error) {
	return m.ResolveFn(ctx, userID, names)
}

var _ experience.TagResolver = (*mockTags)(nil)

const (
	placeID      = "5f0c4f8e-1e2a-4b7c-9d3e-2a1b0c9d8e7f"
	experienceID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// untouched fails the test if any persistence call is made.
func untouched(t *testing.T) (*mockRepo, *mockPlaces, *mockTags) {
	return &mockRepo{
			CreateFn: func(context.Context, *experience.Experience) error {
				t.Fatal("unexpected create")
				return nil
			},
		}, &mockPlaces{
			GetFn: func(context.Context, string) (*place.Place, error) {
				t.Fatal("unexpected place lookup")
				return nil, nil
			},
		}, &mockTags{
			ResolveFn: func(context.Context, string, []string) ([]string, error) {
				t.Fatal("unexpected tag resolve")
				return nil, nil
			},
		}
}

func TestCreate_ValidationRunsBeforePersistence(t *testing.T) {
	tests := []struct {
		name string
		req  experience.CreateExperienceRequest
		want string
	}{
		{
			name: "missing place",
			req:  experience.CreateExperienceRequest{PriceRange: "$", Tags: []string{"a"}},
			want: "place_id is required",
		},
		{
			name: "missing price",
			req:  experience.CreateExperienceRequest{PlaceID: placeID, Tags: []string{"a"}},
			want: "price_range is required",
		},
		{
			name: "bad price",
			req: experience.CreateExperienceRequest{
				PlaceID: placeID, PriceRange: "$$$$$", Tags: []string{"a"},
			},
			want: "price_range must be one of: $ $$ $$$ $$$$",
		},
		{
			name: "blank tags",
			req: experience.CreateExperienceRequest{
				PlaceID: placeID, PriceRange: "$$", Tags: []string{" ", ""},
			},
			want: "at least one tag is required",
		},
		{
			name: "bad visibility",
			req: experience.CreateExperienceRequest{
				PlaceID: placeID, PriceRange: "$$", Tags: []string{"a"}, Visibility: "secret",
			},
			want: "visibility must be one of: public friends_only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, places, tags := untouched(t)
			svc := experience.NewService(repo, places, tags)

			_, err := svc.Create(context.Background(), "u1", tt.req)

			var appErr *core.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 400, appErr.StatusCode)
			assert.Equal(t, tt.want, appErr.Message)
		})
	}
}

func TestCreate_UnknownPlace(t *testing.T) {
	repo, _, tags := untouched(t)
	svc := experience.NewService(repo, &mockPlaces{
		GetFn: func(context.Context, string) (*place.Place, error) {
			return nil, fmt.Errorf("get place: %w", core.ErrNotFound)
		},
	}, tags)

	_, err := svc.Create(context.Background(), "u1", experience.CreateExperienceRequest{
		PlaceID: placeID, PriceRange: "$", Tags: []string{"sushi"},
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "place not found", appErr.Message)
}

func TestCreate_ResolvesTagsAndAppliesDefaults(t *testing.T) {
	var saved *experience.Experience
	svc := experience.NewService(&mockRepo{
		CreateFn: func(_ context.Context, e *experience.Experience) error {
			e.ID = experienceID
			e.Status = experience.StatusActive
			e.CreatedAt = time.Now()
			saved = e
			return nil
		},
		GetVisibleFn: func(_ context.Context, id, viewerID string) (*experience.Row, error) {
			assert.Equal(t, experienceID, id)
			assert.Equal(t, "u1", viewerID)
			return &experience.Row{Experience: *saved, PlaceName: "Luna"}, nil
		},
	}, &mockPlaces{
		GetFn: func(_ context.Context, id string) (*place.Place, error) {
			return &place.Place{ID: id}, nil
		},
	}, &mockTags{
		ResolveFn: func(_ context.Context, userID string, names []string) ([]string, error) {
			assert.Equal(t, []string{"Date Night", "Café"}, names)
			return []string{"date-night", "cafe"}, nil
		},
	})

	visit := "2026-02-14"
	resp, err := svc.Create(context.Background(), "u1", experience.CreateExperienceRequest{
		PlaceID:    placeID,
		PriceRange: "$$",
		Tags:       []string{"Date Night", "Café"},
		VisitDate:  &visit,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, experience.VisibilityPublic, saved.Visibility)
	assert.Equal(t, []string{"date-night", "cafe"}, []string(saved.Tags))
	assert.Empty(t, saved.Images)
	assert.Equal(t, "just now", resp.TimeAgo)
	require.NotNil(t, resp.VisitDate)
	assert.Equal(t, "2026-02-14", *resp.VisitDate)
	assert.Equal(t, "Luna", resp.Place.Name)
}

func TestGet_MalformedIDIsNotFound(t *testing.T) {
	svc := experience.NewService(&mockRepo{}, &mockPlaces{}, &mockTags{})

	_, err := svc.Get(context.Background(), "not-a-uuid", "")

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestToResponse_ShapesRow(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	row := &experience.Row{
		Experience: experience.Experience{
			ID:         experienceID,
			UserID:     "author",
			PlaceID:    placeID,
			PriceRange: "$",
			Visibility: experience.VisibilityPublic,
			Status:     experience.StatusActive,
			CreatedAt:  now.Add(-3 * time.Hour),
		},
		AuthorUsername: "ana",
		Bookmarked:     true,
	}

	resp := experience.ToResponse(row, now)

	assert.Equal(t, "3h ago", resp.TimeAgo)
	assert.True(t, resp.Bookmarked)
	assert.Equal(t, "ana", resp.Author.Username)
	assert.NotNil(t, resp.Tags)
	assert.NotNil(t, resp.Images)
	assert.Nil(t, resp.VisitDate)
}
