// AngelaMos | 2026
// bodylimit.go

package middleware

import (
	"net/http"

	"github.com/circlepicks/backend/internal/core"
)

// MaxBodySize rejects requests whose declared length exceeds limit and caps
// streamed bodies with http.MaxBytesReader.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				core.JSON(w, http.StatusRequestEntityTooLarge, core.ErrorResponse{
					Error: "request body too large",
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
