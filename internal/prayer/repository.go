// AngelaMos | 2026
// repository.go

package prayer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Prayer) error
	GetByID(ctx context.Context, id string) (*Prayer, error)
	Delete(ctx context.Context, id string) error
	IncrementPrayCount(ctx context.Context, id string) (int, error)
	ListByChurch(
		ctx context.Context,
		churchID string,
		params ListParams,
	) ([]Prayer, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Prayer) error {
	query := `
		INSERT INTO prayers (id, church_id, author_id, body, anonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ChurchID, p.AuthorID, p.Body, p.Anonymous,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create prayer: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Prayer, error) {
	query := `
		SELECT id, church_id, author_id, body, anonymous, pray_count,
			created_at, updated_at
		FROM prayers
		WHERE id = $1`

	var p Prayer
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get prayer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get prayer: %w", err)
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prayers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prayer: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete prayer: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete prayer: %w", core.ErrNotFound)
	}

	return nil
}

// IncrementPrayCount bumps the counter atomically in the database, so
// concurrent prayers never lose updates.
func (r *repository) IncrementPrayCount(
	ctx context.Context,
	id string,
) (int, error) {
	query := `
		UPDATE prayers
		SET pray_count = pray_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING pray_count`

	var count int
	err := r.db.QueryRowxContext(ctx, query, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment pray count: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment pray count: %w", err)
	}

	return count, nil
}

func (r *repository) ListByChurch(
	ctx context.Context,
	churchID string,
	params ListParams,
) ([]Prayer, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM prayers WHERE church_id = $1`, churchID)
	if err != nil {
		return nil, 0, fmt.Errorf("count prayers: %w", err)
	}

	query := `
		SELECT id, church_id, author_id, body, anonymous, pray_count,
			created_at, updated_at
		FROM prayers
		WHERE church_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var out []Prayer
	err = r.db.SelectContext(
		ctx, &out, query, churchID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list prayers: %w", err)
	}

	return out, total, nil
}
