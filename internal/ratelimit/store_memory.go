// AngelaMos | 2026
// store_memory.go

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. The mutex makes the
// prune-count-append sequence atomic per key.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string][]time.Time

	// FailTakes makes Take return this error, for exercising the
	// limiter's degrade-open path.
	FailTakes error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string][]time.Time)}
}

func (s *MemoryStore) Take(
	_ context.Context,
	key string,
	now time.Time,
	window time.Duration,
	max int,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailTakes != nil {
		return false, s.FailTakes
	}

	windowStart := now.Add(-window)

	kept := s.keys[key][:0]
	for _, ts := range s.keys[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= max {
		s.keys[key] = kept
		return false, nil
	}

	s.keys[key] = append(kept, now)
	return true, nil
}

func (s *MemoryStore) SweepStale(
	_ context.Context,
	olderThan time.Duration,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	var swept int64
	for key, timestamps := range s.keys {
		latest := time.Time{}
		for _, ts := range timestamps {
			if ts.After(latest) {
				latest = ts
			}
		}
		if latest.Before(cutoff) {
			delete(s.keys, key)
			swept++
		}
	}

	return swept, nil
}
