// AngelaMos | 2026
// service.go

package experience

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/place"
)

var priceRanges = []string{"$", "$$", "$$$", "$$$$"}

type PlaceLookup interface {
	Get(ctx context.Context, id string) (*place.Place, error)
}

type TagResolver interface {
	Resolve(ctx context.Context, userID string, names []string) ([]string, error)
}

type Service struct {
	repo   Repository
	places PlaceLookup
	tags   TagResolver
	now    func() time.Time
}

func NewService(repo Repository, places PlaceLookup, tags TagResolver) *Service {
	return &Service{
		repo:   repo,
		places: places,
		tags:   tags,
		now:    time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateExperienceRequest,
) (*ExperienceResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	if _, err := s.places.Get(ctx, req.PlaceID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("place")
		}
		return nil, err
	}

	slugs, err := s.tags.Resolve(ctx, userID, req.Tags)
	if err != nil {
		return nil, err
	}

	e := &Experience{
		UserID:           userID,
		PlaceID:          req.PlaceID,
		PriceRange:       req.PriceRange,
		Tags:             slugs,
		BriefDescription: trimmedOrNil(req.BriefDescription),
		Images:           req.Images,
		Visibility:       req.Visibility,
	}
	if e.Images == nil {
		e.Images = []string{}
	}
	if e.Visibility == "" {
		e.Visibility = VisibilityPublic
	}
	if req.VisitDate != nil && *req.VisitDate != "" {
		d, err := time.Parse(visitDateLayout, *req.VisitDate)
		if err != nil {
			return nil, core.Invalid("visit_date must be formatted as YYYY-MM-DD")
		}
		e.VisitDate = &d
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	row, err := s.repo.GetVisible(ctx, e.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("reload experience: %w", err)
	}

	resp := ToResponse(row, s.now())
	return &resp, nil
}

func (s *Service) Feed(
	ctx context.Context,
	params FeedParams,
) ([]ExperienceResponse, int, error) {
	rows, total, err := s.repo.Feed(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return ToResponseList(rows, s.now()), total, nil
}

func (s *Service) Get(ctx context.Context, id, viewerID string) (*ExperienceResponse, error) {
	if !core.IsUUID(id) {
		return nil, fmt.Errorf("get experience: %w", core.ErrNotFound)
	}

	row, err := s.repo.GetVisible(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(row, s.now())
	return &resp, nil
}

// ExistsActive reports whether id names an active experience.
func (s *Service) ExistsActive(ctx context.Context, id string) (bool, error) {
	if !core.IsUUID(id) {
		return false, nil
	}
	return s.repo.ExistsActive(ctx, id)
}

func validateCreate(req CreateExperienceRequest) error {
	if strings.TrimSpace(req.PlaceID) == "" {
		return core.Invalid("place_id is required")
	}
	if req.PriceRange == "" {
		return core.Invalid("price_range is required")
	}
	if !slices.Contains(priceRanges, req.PriceRange) {
		return core.Invalid("price_range must be one of: %s", strings.Join(priceRanges, " "))
	}

	hasTag := false
	for _, t := range req.Tags {
		if strings.TrimSpace(t) != "" {
			hasTag = true
			break
		}
	}
	if !hasTag {
		return core.Invalid("at least one tag is required")
	}

	if req.Visibility != "" &&
		req.Visibility != VisibilityPublic &&
		req.Visibility != VisibilityFriendsOnly {
		return core.Invalid("visibility must be one of: public friends_only")
	}

	return nil
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
