// AngelaMos | 2026
// repository.go

package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id string) (*Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id string) error
	ListByChurch(
		ctx context.Context,
		churchID string,
		params ListParams,
	) ([]Announcement, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Announcement) error {
	query := `
		INSERT INTO announcements (id, church_id, author_id, title, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.ID, a.ChurchID, a.AuthorID, a.Title, a.Body,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Announcement, error) {
	query := `
		SELECT id, church_id, author_id, title, body, created_at, updated_at
		FROM announcements
		WHERE id = $1`

	var a Announcement
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}

	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, body = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, a.ID, a.Title, a.Body).
		Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update announcement: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(
		ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete announcement: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByChurch(
	ctx context.Context,
	churchID string,
	params ListParams,
) ([]Announcement, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM announcements WHERE church_id = $1`, churchID)
	if err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	query := `
		SELECT id, church_id, author_id, title, body, created_at, updated_at
		FROM announcements
		WHERE church_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var out []Announcement
	err = r.db.SelectContext(
		ctx, &out, query, churchID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	return out, total, nil
}
