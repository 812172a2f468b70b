// AngelaMos | 2026
// handler.go

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/middleware"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
)

type Handler struct {
	service *Service
	limiter *ratelimit.Limiter
	quotas  config.RateLimitConfig
}

func NewHandler(
	service *Service,
	limiter *ratelimit.Limiter,
	quotas config.RateLimitConfig,
) *Handler {
	return &Handler{service: service, limiter: limiter, quotas: quotas}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/subscription", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Current)
		r.Get("/history", h.History)
		r.Post("/upgrade", h.Upgrade)
		r.Post("/cancel", h.Cancel)
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

func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "upgrade_subscription") {
		return
	}

	sub, err := h.service.Upgrade(
		r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToResponse(sub))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.checkQuota(w, r, "cancel_subscription") {
		return
	}

	err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sub, err := h.service.Current(
		r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponse(sub))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.History(
		r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToResponseList(subs))
}
