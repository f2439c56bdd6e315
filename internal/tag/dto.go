// AngelaMos | 2026
// dto.go

package tag

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type ListTagsResponse struct {
	Tags []Tag `json:"tags"`
}
