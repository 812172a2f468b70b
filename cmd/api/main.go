// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/markustips/biblenotelm-backend/internal/admin"
	"github.com/markustips/biblenotelm-backend/internal/announcement"
	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/auth"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/church"
	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/event"
	"github.com/markustips/biblenotelm-backend/internal/health"
	"github.com/markustips/biblenotelm-backend/internal/identity"
	"github.com/markustips/biblenotelm-backend/internal/maintenance"
	"github.com/markustips/biblenotelm-backend/internal/middleware"
	"github.com/markustips/biblenotelm-backend/internal/prayer"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
	"github.com/markustips/biblenotelm-backend/internal/server"
	"github.com/markustips/biblenotelm-backend/internal/subscription"
	"github.com/markustips/biblenotelm-backend/internal/verse"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	core.RegisterMetrics()

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	// Core policy layer: identity resolution, audit trail, policy engine
	// and the per-operation sliding-window limiter.
	identityRepo := identity.NewRepository(db.DB)
	identitySvc := identity.NewService(identityRepo)

	auditStore := audit.NewPostgresStore(db.DB)
	recorder := audit.NewRecorder(auditStore, logger)

	engine := authz.NewEngine(identitySvc, recorder)

	limiter := ratelimit.NewLimiter(
		ratelimit.NewRedisStore(redis.Client), logger)

	// Domain services.
	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, identitySvc, redis.Client)
	authHandler := auth.NewHandler(authSvc, limiter, cfg.RateLimit)

	churchRepo := church.NewRepository(db.DB)
	churchSvc := church.NewService(churchRepo, identitySvc, engine, recorder)
	churchHandler := church.NewHandler(churchSvc, limiter, cfg.RateLimit)

	announcementSvc := announcement.NewService(
		announcement.NewRepository(db.DB), engine, recorder)
	announcementHandler := announcement.NewHandler(announcementSvc)

	eventSvc := event.NewService(event.NewRepository(db.DB), engine, recorder)
	eventHandler := event.NewHandler(eventSvc)

	prayerSvc := prayer.NewService(
		prayer.NewRepository(db.DB), engine, recorder)
	prayerHandler := prayer.NewHandler(prayerSvc)

	verseSvc := verse.NewService(verse.NewRepository(db.DB), engine, recorder)
	verseHandler := verse.NewHandler(verseSvc)

	subscriptionRepo := subscription.NewRepository(db.DB)
	subscriptionSvc := subscription.NewService(
		subscriptionRepo, identitySvc, engine, recorder)
	subscriptionHandler := subscription.NewHandler(
		subscriptionSvc, limiter, cfg.RateLimit)

	adminSvc := admin.NewService(admin.ServiceConfig{
		Engine:             engine,
		Recorder:           recorder,
		Limiter:            limiter,
		Users:              identitySvc,
		Churches:           churchRepo,
		Subscriptions:      subscriptionRepo,
		AuditRetention:     time.Duration(cfg.Retention.AuditDays) * 24 * time.Hour,
		RateLimitStaleness: cfg.Retention.RateLimitInactive,
	})
	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Service:    adminSvc,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	healthHandler := health.NewHandler(db, redis)

	scheduler, err := maintenance.NewScheduler(
		recorder, limiter, authRepo, cfg.Retention, logger)
	if err != nil {
		return err
	}
	scheduler.Start()

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())
	router.Method("GET", "/metrics", core.MetricsHandler())

	authenticator := middleware.Authenticator(jwtManager)
	superAdminOnly := middleware.RequireSuperAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		churchHandler.RegisterRoutes(r, authenticator)
		announcementHandler.RegisterRoutes(r, authenticator)
		eventHandler.RegisterRoutes(r, authenticator)
		prayerHandler.RegisterRoutes(r, authenticator)
		verseHandler.RegisterRoutes(r, authenticator)
		subscriptionHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, superAdminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler stop error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
