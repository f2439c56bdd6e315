// AngelaMos | 2026
// query.go

package core

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type PageParams struct {
	Page     int
	PageSize int
}

// ParsePage reads page and page_size, clamping page_size to max.
func ParsePage(r *http.Request, defaultSize, maxSize int) PageParams {
	p := PageParams{
		Page:     IntQuery(r, "page", 1),
		PageSize: IntQuery(r, "page_size", defaultSize),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultSize
	}
	if p.PageSize > maxSize {
		p.PageSize = maxSize
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func IntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// IsUUID reports whether s parses as a UUID. Path ids are checked before they
// reach Postgres so a malformed id reads as not found.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
