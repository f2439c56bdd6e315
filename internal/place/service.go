// AngelaMos | 2026
// service.go

package place

import (
	"context"
	"errors"
	"strings"

	"github.com/circlepicks/backend/internal/core"
)

const (
	searchLimit  = 20
	partialLimit = 5
	topTagsLimit = 5
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Search(ctx context.Context, q, city string) ([]Place, error) {
	return s.repo.Search(ctx, strings.TrimSpace(q), strings.TrimSpace(city), searchLimit)
}

func (s *Service) Get(ctx context.Context, id string) (*Place, error) {
	if !core.IsUUID(id) {
		return nil, core.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Create inserts a place unless one already holds the same google_place_id, in
// which case that place is returned unchanged and created is false.
//
// The lookup and insert are not atomic. The partial unique index on
// google_place_id rejects the losing insert, which then re-reads the winner.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreatePlaceRequest,
) (place *Place, created bool, err error) {
	name := strings.TrimSpace(req.Name)
	city := strings.TrimSpace(req.City)
	country := strings.TrimSpace(req.Country)

	switch {
	case name == "":
		return nil, false, core.Invalid("name is required")
	case city == "":
		return nil, false, core.Invalid("city is required")
	case country == "":
		return nil, false, core.Invalid("country is required")
	}

	googleID := trimmedOrNil(req.GooglePlaceID)

	if googleID != nil {
		existing, err := s.repo.GetByGooglePlaceID(ctx, *googleID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, false, err
		}
	}

	p := &Place{
		Name:          name,
		City:          city,
		Country:       country,
		Address:       trimmedOrNil(req.Address),
		Lat:           req.Lat,
		Lng:           req.Lng,
		GooglePlaceID: googleID,
		Custom:        googleID == nil,
	}
	if userID != "" {
		p.CreatedBy = &userID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if googleID != nil && errors.Is(err, core.ErrDuplicateKey) {
			winner, getErr := s.repo.GetByGooglePlaceID(ctx, *googleID)
			if getErr != nil {
				return nil, false, getErr
			}
			return winner, false, nil
		}
		return nil, false, err
	}

	return p, true, nil
}

// Match looks for an existing custom place before a user creates a new one:
// the exact case-insensitive match plus up to five partial name matches in
// the same city.
func (s *Service) Match(ctx context.Context, name, city, country string) (*MatchResponse, error) {
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	switch {
	case name == "":
		return nil, core.Invalid("name is required")
	case city == "":
		return nil, core.Invalid("city is required")
	case country == "":
		return nil, core.Invalid("country is required")
	}

	var exact *Place
	found, err := s.repo.FindExactCustom(ctx, name, city, country)
	switch {
	case err == nil:
		exact = found
	case !errors.Is(err, core.ErrNotFound):
		return nil, err
	}

	excludeID := ""
	if exact != nil {
		excludeID = exact.ID
	}

	partial, err := s.repo.FindPartial(ctx, name, city, excludeID, partialLimit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(partial)+1)
	if exact != nil {
		ids = append(ids, exact.ID)
	}
	for _, p := range partial {
		ids = append(ids, p.ID)
	}

	counts, err := s.repo.CountActive(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := &MatchResponse{Partial: make([]PlaceWithCount, 0, len(partial))}
	if exact != nil {
		resp.Exact = &PlaceWithCount{Place: *exact, RecommendationCount: counts[exact.ID]}
	}
	for _, p := range partial {
		resp.Partial = append(resp.Partial, PlaceWithCount{
			Place:               p,
			RecommendationCount: counts[p.ID],
		})
	}

	return resp, nil
}

func (s *Service) Stats(ctx context.Context, placeID string) (*StatsResponse, error) {
	if _, err := s.Get(ctx, placeID); err != nil {
		return nil, err
	}

	facets, err := s.repo.ActiveFacets(ctx, placeID)
	if err != nil {
		return nil, err
	}

	return &StatsResponse{
		PlaceID:             placeID,
		RecommendationCount: len(facets),
		PriceDistribution:   PriceDistribution(facets),
		TopTags:             TopTags(facets, topTagsLimit),
	}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
