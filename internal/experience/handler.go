// AngelaMos | 2026
// handler.go

package experience

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/circlepicks/backend/internal/core"
	"github.com/circlepicks/backend/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/experiences", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.Feed)
		r.With(optionalAuth).Get("/{experienceID}", h.Get)
		r.With(authenticator).Post("/", h.Create)
	})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	page := core.ParsePage(r, defaultPageSize, maxPageSize)
	params := FeedParams{
		ViewerID: middleware.GetUserID(r.Context()),
		Page:     page.Page,
		PageSize: page.PageSize,
	}

	items, total, err := h.service.Feed(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, items, params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(
		r.Context(),
		chi.URLParam(r, "experienceID"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.WriteError(w, err, "experience")
		return
	}

	core.OK(w, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	item, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.WriteError(w, err, "experience")
		return
	}

	core.Created(w, item)
}
