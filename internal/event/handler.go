// AngelaMos | 2026
// handler.go

package event

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/churches/{churchID}/events", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{eventID}", h.Get)
		r.Patch("/{eventID}", h.Update)
		r.Delete("/{eventID}", h.Delete)
		r.Put("/{eventID}/rsvp", h.RSVP)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToResponse(e))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, counts, err := h.service.Get(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		chi.URLParam(r, "eventID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	resp := ToResponse(e)
	resp.RSVPs = &counts

	core.OK(w, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		chi.URLParam(r, "eventID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		chi.URLParam(r, "eventID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) RSVP(w http.ResponseWriter, r *http.Request) {
	var req RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rsvp, err := h.service.RSVP(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		chi.URLParam(r, "eventID"),
		RSVPStatus(req.Status),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, rsvp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Upcoming: r.URL.Query().Get("upcoming") == "true",
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		params.PageSize = v
	}
	params.Normalize()

	items, total, err := h.service.List(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		params,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, ToResponseList(items), params.Page, params.PageSize, total)
}
