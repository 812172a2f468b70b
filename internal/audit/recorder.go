// AngelaMos | 2026
// recorder.go

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

// Store persists audit entries. Implementations must treat entries as
// append-only; nothing in the request path ever mutates or deletes one.
type Store interface {
	Insert(ctx context.Context, entry *Entry) error
	List(ctx context.Context, params ListParams) ([]Entry, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Recorder writes the audit trail. Record never surfaces an error: the
// trail observes operations, it must not be able to fail them.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record appends one entry with a server-assigned id and timestamp.
// Call sites run it synchronously so entries land in program order, but a
// storage failure is logged and swallowed.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()

	if err := r.store.Insert(ctx, &entry); err != nil {
		core.RecordAuditWriteFailure()
		r.logger.Error("audit entry write failed",
			"action", entry.Action,
			"identity_id", entry.IdentityID,
			"result", entry.Result,
			"error", err,
		)
	}
}

func (r *Recorder) List(
	ctx context.Context,
	params ListParams,
) ([]Entry, int, error) {
	return r.store.List(ctx, params)
}

// SweepOlderThan bulk-deletes entries past the retention horizon. Runs from
// the maintenance scheduler, never from the request path.
func (r *Recorder) SweepOlderThan(
	ctx context.Context,
	retentionDays int,
) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	return r.store.DeleteOlderThan(ctx, cutoff)
}
