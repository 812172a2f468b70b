// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	ListByChurch(
		ctx context.Context,
		churchID string,
		params ListParams,
	) ([]Event, int, error)
	UpsertRSVP(ctx context.Context, rsvp *RSVP) error
	CountRSVPs(ctx context.Context, eventID string) (RSVPCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (
			id, church_id, author_id, title, description,
			location, starts_at, ends_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID, e.ChurchID, e.AuthorID, e.Title, e.Description,
		e.Location, e.StartsAt, e.EndsAt,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

const eventColumns = `
	id, church_id, author_id, title, description, location,
	starts_at, ends_at, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM events WHERE id = $1`, eventColumns)

	var e Event
	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4,
			starts_at = $5, ends_at = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByChurch(
	ctx context.Context,
	churchID string,
	params ListParams,
) ([]Event, int, error) {
	params.Normalize()

	filter := `WHERE church_id = $1`
	if params.Upcoming {
		filter += ` AND starts_at > NOW()`
	}

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM events `+filter, churchID)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events %s
		ORDER BY starts_at ASC
		LIMIT $2 OFFSET $3`, eventColumns, filter)

	var out []Event
	err = r.db.SelectContext(
		ctx, &out, query, churchID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	return out, total, nil
}

func (r *repository) UpsertRSVP(ctx context.Context, rsvp *RSVP) error {
	query := `
		INSERT INTO event_rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rsvp.EventID, rsvp.UserID, rsvp.Status,
	).Scan(&rsvp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}

	return nil
}

func (r *repository) CountRSVPs(
	ctx context.Context,
	eventID string,
) (RSVPCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'going')    AS going,
			COUNT(*) FILTER (WHERE status = 'maybe')    AS maybe,
			COUNT(*) FILTER (WHERE status = 'declined') AS declined
		FROM event_rsvps
		WHERE event_id = $1`

	var counts RSVPCounts
	if err := r.db.GetContext(ctx, &counts, query, eventID); err != nil {
		return RSVPCounts{}, fmt.Errorf("count rsvps: %w", err)
	}

	return counts, nil
}
