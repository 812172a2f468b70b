// AngelaMos | 2026
// handler.go

package church

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
	"github.com/markustips/biblenotelm-backend/internal/middleware"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
)

type Handler struct {
	service   *Service
	limiter   *ratelimit.Limiter
	quotas    config.RateLimitConfig
	validator *validator.Validate
}

func NewHandler(
	service *Service,
	limiter *ratelimit.Limiter,
	quotas config.RateLimitConfig,
) *Handler {
	return &Handler{
		service:   service,
		limiter:   limiter,
		quotas:    quotas,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/churches", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Post("/join", h.Join)
		r.Post("/leave", h.Leave)

		r.Route("/{churchID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Get("/members", h.ListMembers)
			r.Patch("/", h.Update)
			r.Post("/deactivate", h.Deactivate)
		})
	})
}

func (h *Handler) checkQuota(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
) bool {
	err := h.limiter.CheckOperation(
		r.Context(),
		middleware.IdentityOrIP(r),
		operation,
		h.quotas.ForOperation(operation),
	)
	if err != nil {
		core.JSONError(w, err)
		return false
	}
	return true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "create_church") {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToChurchResponse(c, true))
}

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "join_church") {
		return
	}

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.JoinByCode(
		r.Context(), middleware.GetUserID(r.Context()), req.Code)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToChurchResponse(c, false))
}

func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "leave_church") {
		return
	}

	if err := h.service.Leave(
		r.Context(), middleware.GetUserID(r.Context())); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	churchID := chi.URLParam(r, "churchID")

	c, err := h.service.Get(
		r.Context(), middleware.GetUserID(r.Context()), churchID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	// Pastors and admins see the join code; plain members do not.
	role := identity.Role(middleware.GetUserRole(r.Context()))
	withCode := role == identity.RolePastor || role == identity.RoleAdmin

	core.OK(w, ToChurchResponse(c, withCode))
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	churchID := chi.URLParam(r, "churchID")

	members, err := h.service.ListMembers(
		r.Context(), middleware.GetUserID(r.Context()), churchID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, MembersResponse{
		Members: identity.ToUserResponseList(members),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "update_church") {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	churchID := chi.URLParam(r, "churchID")

	c, err := h.service.UpdateSettings(
		r.Context(), middleware.GetUserID(r.Context()), churchID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToChurchResponse(c, true))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "deactivate_church") {
		return
	}

	churchID := chi.URLParam(r, "churchID")

	if err := h.service.Deactivate(
		r.Context(), middleware.GetUserID(r.Context()), churchID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}
