// AngelaMos | 2026
// scheduler.go

package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
)

// TokenSweeper removes refresh tokens that expired long enough ago that
// no rotation can ever present them again.
type TokenSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler runs the retention sweeps on cron schedules, well outside the
// request path. Request latency never pays for cleanup.
type Scheduler struct {
	cron     *cron.Cron
	recorder *audit.Recorder
	limiter  *ratelimit.Limiter
	tokens   TokenSweeper
	cfg      config.RetentionConfig
	logger   *slog.Logger
}

func NewScheduler(
	recorder *audit.Recorder,
	limiter *ratelimit.Limiter,
	tokens TokenSweeper,
	cfg config.RetentionConfig,
	logger *slog.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		recorder: recorder,
		limiter:  limiter,
		tokens:   tokens,
		cfg:      cfg,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(
		cfg.AuditSweepSchedule, s.sweepAuditEntries); err != nil {
		return nil, fmt.Errorf("schedule audit sweep: %w", err)
	}

	if _, err := s.cron.AddFunc(
		cfg.RateSweepSchedule, s.sweepRateLimitRecords); err != nil {
		return nil, fmt.Errorf("schedule rate limit sweep: %w", err)
	}

	// Expired tokens ride the nightly audit schedule.
	if _, err := s.cron.AddFunc(
		cfg.AuditSweepSchedule, s.sweepExpiredTokens); err != nil {
		return nil, fmt.Errorf("schedule token sweep: %w", err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("maintenance scheduler started",
		"audit_sweep", s.cfg.AuditSweepSchedule,
		"rate_sweep", s.cfg.RateSweepSchedule,
	)
	s.cron.Start()
}

// Stop halts scheduling and waits for any running sweep to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop maintenance scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) sweepAuditEntries() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.recorder.SweepOlderThan(ctx, s.cfg.AuditDays)
	if err != nil {
		s.logger.Error("audit retention sweep failed", "error", err)
		return
	}

	s.logger.Info("audit retention sweep done",
		"removed", removed,
		"retention_days", s.cfg.AuditDays,
	)
}

func (s *Scheduler) sweepExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.tokens.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("expired token sweep failed", "error", err)
		return
	}

	s.logger.Info("expired token sweep done", "removed", removed)
}

func (s *Scheduler) sweepRateLimitRecords() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := s.limiter.SweepStale(ctx, s.cfg.RateLimitInactive)
	if err != nil {
		s.logger.Error("rate limit sweep failed", "error", err)
		return
	}

	s.logger.Info("rate limit sweep done",
		"removed", removed,
		"inactive_for", s.cfg.RateLimitInactive,
	)
}
