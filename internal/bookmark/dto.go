// AngelaMos | 2026
// dto.go

package bookmark

type CreateBookmarkRequest struct {
	ExperienceID string `json:"experience_id" validate:"required,uuid"`
}

type ListBookmarksResponse struct {
	Bookmarks []Entry `json:"bookmarks"`
}
