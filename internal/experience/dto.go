// AngelaMos | 2026
// dto.go

package experience

import (
	"time"

	"github.com/circlepicks/backend/internal/timeago"
)

const visitDateLayout = "2006-01-02"

type CreateExperienceRequest struct {
	PlaceID          string   `json:"place_id"          validate:"required,uuid"`
	PriceRange       string   `json:"price_range"       validate:"required,oneof=$ $$ $$$ $$$$"`
	Tags             []string `json:"tags"              validate:"required,min=1,max=10,dive,required,max=50"`
	BriefDescription *string  `json:"brief_description" validate:"omitempty,max=500"`
	Images           []string `json:"images"            validate:"omitempty,max=10,dive,url"`
	VisitDate        *string  `json:"visit_date"        validate:"omitempty,datetime=2006-01-02"`
	Visibility       string   `json:"visibility"        validate:"omitempty,oneof=public friends_only"`
}

type PlaceSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type Author struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Username    string  `json:"username"`
	AvatarURL   *string `json:"avatar_url"`
}

type ExperienceResponse struct {
	ID               string       `json:"id"`
	Place            PlaceSummary `json:"place"`
	Author           Author       `json:"author"`
	PriceRange       string       `json:"price_range"`
	Tags             []string     `json:"tags"`
	BriefDescription *string      `json:"brief_description"`
	Images           []string     `json:"images"`
	VisitDate        *string      `json:"visit_date"`
	Visibility       string       `json:"visibility"`
	Status           string       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	TimeAgo          string       `json:"time_ago"`
	Bookmarked       bool         `json:"bookmarked"`
}

type FeedParams struct {
	ViewerID string
	Page     int
	PageSize int
}

func (p FeedParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToResponse(row *Row, now time.Time) ExperienceResponse {
	resp := ExperienceResponse{
		ID: row.ID,
		Place: PlaceSummary{
			ID:   row.PlaceID,
			Name: row.PlaceName,
			City: row.PlaceCity,
		},
		Author: Author{
			ID:          row.UserID,
			DisplayName: row.AuthorDisplayName,
			Username:    row.AuthorUsername,
			AvatarURL:   row.AuthorAvatarURL,
		},
		PriceRange:       row.PriceRange,
		Tags:             nonNil(row.Tags),
		BriefDescription: row.BriefDescription,
		Images:           nonNil(row.Images),
		Visibility:       row.Visibility,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt,
		TimeAgo:          timeago.Since(row.CreatedAt, now),
		Bookmarked:       row.Bookmarked,
	}

	if row.VisitDate != nil {
		d := row.VisitDate.Format(visitDateLayout)
		resp.VisitDate = &d
	}

	return resp
}

func ToResponseList(rows []Row, now time.Time) []ExperienceResponse {
	out := make([]ExperienceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i], now))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
