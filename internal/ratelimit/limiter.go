// AngelaMos | 2026
// limiter.go

package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/core"
)

// Store holds per-key request timestamps for sliding-window counting.
type Store interface {
	// Take prunes timestamps older than now-window, counts the rest and,
	// when the count is below max, records now. It reports whether the
	// request fit under the limit.
	Take(
		ctx context.Context,
		key string,
		now time.Time,
		window time.Duration,
		max int,
	) (bool, error)

	// SweepStale removes keys with no activity in the given duration.
	SweepStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Limiter enforces per-operation quotas over a sliding window. Storage
// failures degrade open: throttling must never take the API down with it.
type Limiter struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewLimiter(store Store, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// CheckAndConsume counts the caller's requests in the window ending now and
// either records this one or rejects it. The (max+1)-th request inside any
// window fails; a request made after the earliest timestamp leaves the
// window succeeds again.
func (l *Limiter) CheckAndConsume(
	ctx context.Context,
	key string,
	maxRequests int,
	window time.Duration,
) error {
	allowed, err := l.store.Take(ctx, key, l.now(), window, maxRequests)
	if err != nil {
		l.logger.Warn("rate limit store error, failing open",
			"key", key,
			"error", err,
		)
		return nil
	}

	if !allowed {
		return fmt.Errorf(
			"rate limit for %s (%d per %s): %w",
			key, maxRequests, window, core.ErrRateLimited,
		)
	}

	return nil
}

// CheckOperation applies the configured quota for a named operation, keyed
// by the caller's identity (or IP for anonymous requests).
func (l *Limiter) CheckOperation(
	ctx context.Context,
	identityOrIP, operation string,
	quota config.Quota,
) error {
	key := identityOrIP + ":" + operation

	if err := l.CheckAndConsume(ctx, key, quota.Requests, quota.Window); err != nil {
		core.RecordRateLimitRejection(operation)
		return err
	}

	return nil
}

// SweepStale drops counters with no recent activity. Maintenance-path only.
func (l *Limiter) SweepStale(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	return l.store.SweepStale(ctx, olderThan)
}
