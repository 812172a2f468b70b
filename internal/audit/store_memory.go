// AngelaMos | 2026
// store_memory.go

package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in memory. Used in tests and as a harness for
// components that only need the Store contract.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry

	// FailInserts makes Insert return this error, for exercising the
	// recorder's swallow-on-failure behavior.
	FailInserts error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailInserts != nil {
		return s.FailInserts
	}

	s.entries = append(s.entries, *entry)
	return nil
}

func (s *MemoryStore) List(
	_ context.Context,
	params ListParams,
) ([]Entry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params.Normalize()

	var matched []Entry
	for _, e := range s.entries {
		if params.IdentityID != "" && e.IdentityID != params.IdentityID {
			continue
		}
		if params.Action != "" && e.Action != params.Action {
			continue
		}
		if params.Result != "" && e.Result != params.Result {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (s *MemoryStore) DeleteOlderThan(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []Entry
	var deleted int64
	for _, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept

	return deleted, nil
}

// Entries returns a snapshot of everything recorded so far.
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
