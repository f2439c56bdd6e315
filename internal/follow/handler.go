// AngelaMos | 2026
// handler.go

package follow

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

type StatusResponse struct {
	Following bool `json:"following"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/follow/{userID}", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.Status)
		r.With(authenticator).Post("/", h.Follow)
		r.With(authenticator).Delete("/", h.Unfollow)
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	following, err := h.service.IsFollowing(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, StatusResponse{Following: following})
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	err := h.service.Follow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.Success(w)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfollow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Success(w)
}
