// AngelaMos | 2026
// repository.go

package verse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, v *Verse) error
	GetByDate(
		ctx context.Context,
		churchID string,
		date time.Time,
	) (*Verse, error)
	ListByChurch(
		ctx context.Context,
		churchID string,
		limit int,
	) ([]Verse, error)
	Delete(ctx context.Context, churchID string, date time.Time) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, v *Verse) error {
	query := `
		INSERT INTO verses (id, church_id, reference, text, verse_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (church_id, verse_date)
		DO UPDATE SET
			reference = EXCLUDED.reference,
			text = EXCLUDED.text,
			created_by = EXCLUDED.created_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		v.ID, v.ChurchID, v.Reference, v.Text, v.VerseDate, v.CreatedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert verse: %w", err)
	}

	return nil
}

func (r *repository) GetByDate(
	ctx context.Context,
	churchID string,
	date time.Time,
) (*Verse, error) {
	query := `
		SELECT id, church_id, reference, text, verse_date, created_by,
			created_at, updated_at
		FROM verses
		WHERE church_id = $1 AND verse_date = $2`

	var v Verse
	err := r.db.GetContext(ctx, &v, query, churchID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get verse: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get verse: %w", err)
	}

	return &v, nil
}

func (r *repository) ListByChurch(
	ctx context.Context,
	churchID string,
	limit int,
) ([]Verse, error) {
	if limit < 1 || limit > 100 {
		limit = 30
	}

	query := `
		SELECT id, church_id, reference, text, verse_date, created_by,
			created_at, updated_at
		FROM verses
		WHERE church_id = $1
		ORDER BY verse_date DESC
		LIMIT $2`

	var out []Verse
	if err := r.db.SelectContext(ctx, &out, query, churchID, limit); err != nil {
		return nil, fmt.Errorf("list verses: %w", err)
	}

	return out, nil
}

func (r *repository) Delete(
	ctx context.Context,
	churchID string,
	date time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM verses WHERE church_id = $1 AND verse_date = $2`,
		churchID, date)
	if err != nil {
		return fmt.Errorf("delete verse: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete verse: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete verse: %w", core.ErrNotFound)
	}

	return nil
}
