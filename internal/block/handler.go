// AngelaMos | 2026
// handler.go

package block

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

type BlockRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/blocks", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Block)
		r.Delete("/{userID}", h.Unblock)
	})
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.Block(r.Context(), middleware.GetUserID(r.Context()), req.UserID); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.Success(w)
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unblock(
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
