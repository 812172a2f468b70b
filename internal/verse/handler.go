// AngelaMos | 2026
// handler.go

package verse

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

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
	r.Route("/churches/{churchID}/verses", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/today", h.Today)
		r.Get("/", h.History)
		r.Put("/", h.Set)
		r.Delete("/{date}", h.Remove)
	})
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	v, err := h.service.Set(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		req,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponse(v))
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Today(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponse(v))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.service.History(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		limit,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponseList(items))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(time.DateOnly, chi.URLParam(r, "date"))
	if err != nil {
		core.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	err = h.service.Remove(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "churchID"),
		date,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
