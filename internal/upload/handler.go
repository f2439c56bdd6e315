// AngelaMos | 2026
// handler.go

package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

const multipartMemory = 32 << 20

// MaxRequestBytes bounds a full batch plus multipart framing.
const MaxRequestBytes = MaxFiles*MaxFileSize + 1<<20

type Response struct {
	URLs []string `json:"urls"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, mw ...func(http.Handler) http.Handler) {
	r.With(mw...).Post("/upload", h.Upload)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.JSON(w, http.StatusRequestEntityTooLarge,
				core.ErrorResponse{Error: "request body too large"})
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	urls, err := h.service.Upload(
		r.Context(),
		middleware.GetUserID(r.Context()),
		r.FormValue("bucket"),
		r.MultipartForm.File["files"],
	)
	if err != nil {
		core.WriteError(w, err, "file")
		return
	}

	core.OK(w, Response{URLs: urls})
}
