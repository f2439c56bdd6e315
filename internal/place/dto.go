// AngelaMos | 2026
// dto.go

package place

type CreatePlaceRequest struct {
	Name          string   `json:"name"            validate:"required,max=200"`
	City          string   `json:"city"            validate:"required,max=100"`
	Country       string   `json:"country"         validate:"required,max=100"`
	Address       *string  `json:"address"         validate:"omitempty,max=300"`
	Lat           *float64 `json:"lat"             validate:"omitempty,latitude"`
	Lng           *float64 `json:"lng"             validate:"omitempty,longitude"`
	GooglePlaceID *string  `json:"google_place_id" validate:"omitempty,max=300"`
}

type PlaceWithCount struct {
	Place
	RecommendationCount int `json:"recommendation_count"`
}

type MatchResponse struct {
	Exact   *PlaceWithCount  `json:"exact"`
	Partial []PlaceWithCount `json:"partial"`
}

type StatsResponse struct {
	PlaceID             string         `json:"place_id"`
	RecommendationCount int            `json:"recommendation_count"`
	PriceDistribution   map[string]int `json:"price_distribution"`
	TopTags             []string       `json:"top_tags"`
}

type ListPlacesResponse struct {
	Places []Place `json:"places"`
}
