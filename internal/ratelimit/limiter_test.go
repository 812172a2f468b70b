// AngelaMos | 2026
// limiter_test.go

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/config"
	"github.com/markustips/biblenotelm-backend/internal/core"
)

func newTestLimiter() (*Limiter, *MemoryStore, *time.Time) {
	store := NewMemoryStore()
	limiter := NewLimiter(store, nil)

	clock := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	return limiter, store, &clock
}

func TestCheckAndConsume_UnderLimit(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()

	window := 15 * time.Minute

	// 20 requests inside one second all fit under a 20-per-window quota.
	for i := 0; i < 20; i++ {
		*clock = clock.Add(50 * time.Millisecond)
		err := limiter.CheckAndConsume(ctx, "u1:create_church", 20, window)
		require.NoError(t, err, "request %d should be allowed", i+1)
	}

	// The 21st inside the same window is the first to fail.
	*clock = clock.Add(50 * time.Millisecond)
	err := limiter.CheckAndConsume(ctx, "u1:create_church", 20, window)
	require.ErrorIs(t, err, core.ErrRateLimited)
}

func TestCheckAndConsume_WindowSlides(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()

	window := time.Minute

	for i := 0; i < 3; i++ {
		require.NoError(
			t,
			limiter.CheckAndConsume(ctx, "k", 3, window),
		)
	}
	require.ErrorIs(
		t,
		limiter.CheckAndConsume(ctx, "k", 3, window),
		core.ErrRateLimited,
	)

	// Once the first timestamps age out, capacity returns.
	*clock = clock.Add(window + time.Second)
	require.NoError(t, limiter.CheckAndConsume(ctx, "k", 3, window))
}

func TestCheckAndConsume_RejectedRequestNotRecorded(t *testing.T) {
	limiter, _, clock := newTestLimiter()
	ctx := context.Background()

	window := time.Minute

	require.NoError(t, limiter.CheckAndConsume(ctx, "k", 1, window))

	// Hammering while limited must not extend the lockout.
	for i := 0; i < 10; i++ {
		*clock = clock.Add(time.Second)
		require.ErrorIs(
			t,
			limiter.CheckAndConsume(ctx, "k", 1, window),
			core.ErrRateLimited,
		)
	}

	*clock = clock.Add(window - 9*time.Second)
	require.NoError(t, limiter.CheckAndConsume(ctx, "k", 1, window))
}

func TestCheckAndConsume_KeysAreIndependent(t *testing.T) {
	limiter, _, _ := newTestLimiter()
	ctx := context.Background()

	require.NoError(t, limiter.CheckAndConsume(ctx, "a:op", 1, time.Minute))
	require.ErrorIs(
		t,
		limiter.CheckAndConsume(ctx, "a:op", 1, time.Minute),
		core.ErrRateLimited,
	)

	require.NoError(t, limiter.CheckAndConsume(ctx, "b:op", 1, time.Minute))
}

func TestCheckAndConsume_DegradesOpenOnStoreError(t *testing.T) {
	limiter, store, _ := newTestLimiter()
	store.FailTakes = errors.New("connection refused")

	err := limiter.CheckAndConsume(
		context.Background(),
		"k",
		1,
		time.Minute,
	)
	assert.NoError(t, err)
}

func TestCheckOperation_UsesQuota(t *testing.T) {
	limiter, _, _ := newTestLimiter()
	ctx := context.Background()

	quota := config.Quota{Requests: 2, Window: time.Hour}

	require.NoError(t, limiter.CheckOperation(ctx, "u1", "upgrade_subscription", quota))
	require.NoError(t, limiter.CheckOperation(ctx, "u1", "upgrade_subscription", quota))
	require.ErrorIs(
		t,
		limiter.CheckOperation(ctx, "u1", "upgrade_subscription", quota),
		core.ErrRateLimited,
	)

	// Same identity, different operation: separate counter.
	require.NoError(t, limiter.CheckOperation(ctx, "u1", "create_church", quota))
}

func TestSweepStale(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(store, nil)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	limiter.now = func() time.Time { return old }
	require.NoError(t, limiter.CheckAndConsume(ctx, "stale", 10, time.Minute))

	limiter.now = time.Now
	require.NoError(t, limiter.CheckAndConsume(ctx, "fresh", 10, time.Minute))

	swept, err := limiter.SweepStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	// The fresh key still counts its one recorded request.
	require.NoError(t, limiter.CheckAndConsume(ctx, "fresh", 2, time.Hour))
	require.ErrorIs(
		t,
		limiter.CheckAndConsume(ctx, "fresh", 2, time.Hour),
		core.ErrRateLimited,
	)
}
