// AngelaMos | 2026
// handler.go

package place

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

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
	r.Route("/places", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/match", h.Match)
		r.Get("/{placeID}", h.Get)
		r.Get("/{placeID}/stats", h.Stats)

		r.With(authenticator).Post("/", h.Create)
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	places, err := h.service.Search(r.Context(), q.Get("q"), q.Get("city"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListPlacesResponse{Places: places})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		core.WriteError(w, err, "place")
		return
	}

	core.OK(w, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, created, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.WriteError(w, err, "place")
		return
	}

	if created {
		core.Created(w, p)
		return
	}
	core.OK(w, p)
}

func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.service.Match(r.Context(), q.Get("name"), q.Get("city"), q.Get("country"))
	if err != nil {
		core.WriteError(w, err, "place")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		core.WriteError(w, err, "place")
		return
	}

	core.OK(w, stats)
}
