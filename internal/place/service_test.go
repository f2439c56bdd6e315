// AngelaMos | 2026
// service_test.go

package place_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/place"
)

type mockRepo struct {
	SearchFn             func(ctx context.Context, q, city string, limit int) ([]place.Place, error)
	GetByIDFn            func(ctx context.Context, id string) (*place.Place, error)
	GetByGooglePlaceIDFn func(ctx context.Context, gid string) (*place.Place, error)
	CreateFn             func(ctx context.Context, p *place.Place) error
	FindExactCustomFn    func(ctx context.Context, name, city, country string) (*place.Place, error)
	FindPartialFn        func(ctx context.Context, name, city, excludeID string, limit int) ([]place.Place, error)
	CountActiveFn        func(ctx context.Context, ids []string) (map[string]int, error)
	ActiveFacetsFn       func(ctx context.Context, placeID string) ([]place.Facet, error)
}

func (m *mockRepo) Search(ctx context.Context, q, city string, limit int) ([]place.Place, error) {
	return m.SearchFn(ctx, q, city, limit)
}
func (m *mockRepo) GetByID(ctx context.Context, id string) (*place.Place, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockRepo) GetByGooglePlaceID(ctx context.Context, gid string) (*place.Place, error) {
	return m.GetByGooglePlaceIDFn(ctx, gid)
}
func (m *mockRepo) Create(ctx context.Context, p *place.Place) error { return m.CreateFn(ctx, p) }
func (m *mockRepo) FindExactCustom(
	ctx context.Context,
	name, city, country string,
) (*place.Place, error) {
	return m.FindExactCustomFn(ctx, name, city, country)
}
func (m *mockRepo) FindPartial(
	ctx context.Context,
	name, city, excludeID string,
	limit int,
) ([]place.Place, error) {
	return m.FindPartialFn(ctx, name, city, excludeID, limit)
}
func (m *mockRepo) CountActive(ctx context.Context, ids []string) (map[string]int, error) {
	return m.CountActiveFn(ctx, ids)
}
func (m *mockRepo) ActiveFacets(ctx context.Context, placeID string) ([]place.Facet, error) {
	return m.ActiveFacetsFn(ctx, placeID)
}

var _ place.Repository = (*mockRepo)(nil)

const placeID = "0b8f5a5e-3c55-4d6b-8d6e-9a3f0f1c2d3e"

func ptr[T any](v T) *T { return &v }

func TestCreate_ExistingGooglePlaceReturnedUnchanged(t *testing.T) {
	stored := &place.Place{ID: placeID, Name: "Original", GooglePlaceID: ptr("g-1")}
	svc := place.NewService(&mockRepo{
		GetByGooglePlaceIDFn: func(_ context.Context, gid string) (*place.Place, error) {
			assert.Equal(t, "g-1", gid)
			return stored, nil
		},
		CreateFn: func(context.Context, *place.Place) error {
			t.Fatal("create must not be called for a known google_place_id")
			return nil
		},
	})

	got, created, err := svc.Create(context.Background(), "u1", place.CreatePlaceRequest{
		Name:          "Renamed",
		City:          "Lisbon",
		Country:       "PT",
		GooglePlaceID: ptr(" g-1 "),
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Original", got.Name)
}

func TestCreate_CustomWhenNoGoogleID(t *testing.T) {
	var inserted *place.Place
	svc := place.NewService(&mockRepo{
		CreateFn: func(_ context.Context, p *place.Place) error {
			p.ID = placeID
			inserted = p
			return nil
		},
	})

	got, created, err := svc.Create(context.Background(), "u1", place.CreatePlaceRequest{
		Name:    "  Tasca  ",
		City:    "Porto",
		Country: "PT",
		Address: ptr("   "),
	})

	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, inserted)
	assert.True(t, inserted.Custom)
	assert.Equal(t, "Tasca", got.Name)
	assert.Nil(t, inserted.Address)
	require.NotNil(t, inserted.CreatedBy)
	assert.Equal(t, "u1", *inserted.CreatedBy)
}

func TestCreate_LostRaceReturnsWinner(t *testing.T) {
	calls := 0
	svc := place.NewService(&mockRepo{
		GetByGooglePlaceIDFn: func(context.Context, string) (*place.Place, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("get place: %w", core.ErrNotFound)
			}
			return &place.Place{ID: placeID, Name: "Winner"}, nil
		},
		CreateFn: func(context.Context, *place.Place) error {
			return fmt.Errorf("create place: %w", core.ErrDuplicateKey)
		},
	})

	got, created, err := svc.Create(context.Background(), "u1", place.CreatePlaceRequest{
		Name: "Loser", City: "Rome", Country: "IT", GooglePlaceID: ptr("g-2"),
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Winner", got.Name)
}

func TestCreate_MissingCity(t *testing.T) {
	svc := place.NewService(&mockRepo{})

	_, _, err := svc.Create(context.Background(), "u1", place.CreatePlaceRequest{
		Name: "Somewhere", City: " ", Country: "FR",
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "city is required", appErr.Message)
}

func TestMatch_ExactExcludedFromPartial(t *testing.T) {
	exact := &place.Place{ID: "exact-id", Name: "Cafe Luna", Custom: true}
	svc := place.NewService(&mockRepo{
		FindExactCustomFn: func(context.Context, string, string, string) (*place.Place, error) {
			return exact, nil
		},
		FindPartialFn: func(
			_ context.Context,
			name, city, excludeID string,
			limit int,
		) ([]place.Place, error) {
			assert.Equal(t, "exact-id", excludeID)
			assert.Equal(t, 5, limit)
			return []place.Place{{ID: "p1", Name: "Cafe Luna Nova"}}, nil
		},
		CountActiveFn: func(_ context.Context, ids []string) (map[string]int, error) {
			assert.Equal(t, []string{"exact-id", "p1"}, ids)
			return map[string]int{"exact-id": 3}, nil
		},
	})

	resp, err := svc.Match(context.Background(), "cafe luna", "Paris", "FR")

	require.NoError(t, err)
	require.NotNil(t, resp.Exact)
	assert.Equal(t, 3, resp.Exact.RecommendationCount)
	require.Len(t, resp.Partial, 1)
	assert.Equal(t, 0, resp.Partial[0].RecommendationCount)
}

func TestMatch_NoExact(t *testing.T) {
	svc := place.NewService(&mockRepo{
		FindExactCustomFn: func(context.Context, string, string, string) (*place.Place, error) {
			return nil, fmt.Errorf("find exact place: %w", core.ErrNotFound)
		},
		FindPartialFn: func(
			_ context.Context,
			_, _, excludeID string,
			_ int,
		) ([]place.Place, error) {
			assert.Empty(t, excludeID)
			return nil, nil
		},
		CountActiveFn: func(context.Context, []string) (map[string]int, error) {
			return map[string]int{}, nil
		},
	})

	resp, err := svc.Match(context.Background(), "Nowhere", "Oslo", "NO")

	require.NoError(t, err)
	assert.Nil(t, resp.Exact)
	assert.Empty(t, resp.Partial)
}

func TestMatch_RequiresCountry(t *testing.T) {
	svc := place.NewService(&mockRepo{})

	_, err := svc.Match(context.Background(), "Name", "City", "")

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStats_UnknownPlace(t *testing.T) {
	svc := place.NewService(&mockRepo{
		GetByIDFn: func(context.Context, string) (*place.Place, error) {
			return nil, fmt.Errorf("get place: %w", core.ErrNotFound)
		},
	})

	_, err := svc.Stats(context.Background(), placeID)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestStats_Aggregates(t *testing.T) {
	svc := place.NewService(&mockRepo{
		GetByIDFn: func(_ context.Context, id string) (*place.Place, error) {
			return &place.Place{ID: id}, nil
		},
		ActiveFacetsFn: func(context.Context, string) ([]place.Facet, error) {
			return []place.Facet{
				{PriceRange: "$", Tags: []string{"a", "a", "b"}},
				{PriceRange: "$$", Tags: []string{"b", "c"}},
			}, nil
		},
	})

	stats, err := svc.Stats(context.Background(), placeID)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecommendationCount)
	assert.Equal(t, 1, stats.PriceDistribution["$"])
	assert.Equal(t, "c", stats.TopTags[2])
}
