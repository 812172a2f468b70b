// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
	"github.com/markustips/biblenotelm-backend/internal/middleware"
)

type Handler struct {
	service    *Service
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	validator  *validator.Validate
}

type HandlerConfig struct {
	Service    *Service
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		service:    cfg.Service,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the operator surface. The superAdminOnly edge gate
// rejects obvious cases early; every handler still goes through the policy
// engine so the decision lands in the audit trail.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, superAdminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(superAdminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/platform", h.GetPlatformStats)
		r.Get("/audit", h.GetAuditTrail)
		r.Get("/users", h.ListUsers)
		r.Patch("/users/{userID}/role", h.SetUserRole)
		r.Post("/sweeps", h.RunSweeps)

		// Tenant content reads. These always 403 behind the privacy
		// partition; they exist so the refusals are observable.
		r.Get("/churches/{churchID}/activities", h.tenantContent(
			authz.CategoryChurchActivities))
		r.Get("/churches/{churchID}/members", h.tenantContent(
			authz.CategoryMemberData))
		r.Get("/churches/{churchID}/sermons", h.tenantContent(
			authz.CategorySermonContent))
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}

	core.OK(w, response)
}

func (h *Handler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PlatformStats(
		r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := audit.ListParams{
		IdentityID: q.Get("identity_id"),
		Action:     q.Get("action"),
		Result:     audit.Result(q.Get("result")),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = v
	}
	params.Normalize()

	entries, total, err := h.service.AuditTrail(
		r.Context(), middleware.GetUserID(r.Context()), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(w, entries, params.Page, params.PageSize, total)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := identity.ListParams{
		Search: q.Get("search"),
		Role:   q.Get("role"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params.PageSize = v
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(
		r.Context(), middleware.GetUserID(r.Context()), params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w, identity.ToUserResponseList(users),
		params.Page, params.PageSize, total)
}

func (h *Handler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req identity.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.SetUserRole(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "userID"),
		identity.Role(req.Role),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, identity.ToUserResponse(user))
}

func (h *Handler) RunSweeps(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.RunSweeps(
		r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) tenantContent(
	category authz.ContentCategory,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.service.TenantContent(
			r.Context(),
			middleware.GetUserID(r.Context()),
			chi.URLParam(r, "churchID"),
			category,
		)
		if err != nil {
			core.JSONError(w, err)
			return
		}

		// Unreachable while the partition stands.
		core.OK(w, nil)
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc"`
	MemSys       uint64 `json:"mem_sys"`
	NumGC        uint32 `json:"num_gc"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}
