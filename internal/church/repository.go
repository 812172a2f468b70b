// AngelaMos | 2026
// repository.go

package church

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Church) error
	GetByID(ctx context.Context, id string) (*Church, error)
	GetByCode(ctx context.Context, code string) (*Church, error)
	Update(ctx context.Context, c *Church) error
	SetActive(ctx context.Context, id string, active bool) error
	Count(ctx context.Context) (total int, active int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// churchRow carries admin_ids as JSONB; the entity exposes it as a slice.
type churchRow struct {
	Church
	AdminIDsRaw []byte `db:"admin_ids"`
}

func (r *churchRow) entity() (*Church, error) {
	c := r.Church
	if len(r.AdminIDsRaw) > 0 {
		if err := json.Unmarshal(r.AdminIDsRaw, &c.AdminIDs); err != nil {
			return nil, fmt.Errorf("decode admin ids: %w", err)
		}
	}
	return &c, nil
}

func marshalAdminIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode admin ids: %w", err)
	}
	return raw, nil
}

func (r *repository) Create(ctx context.Context, c *Church) error {
	adminIDs, err := marshalAdminIDs(c.AdminIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO churches (
			id, name, description, code, pastor_id, admin_ids, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		c.Code,
		c.PastorID,
		adminIDs,
		c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create church: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create church: %w", err)
	}

	return nil
}

const churchColumns = `
	id, name, description, code, pastor_id, admin_ids, is_active,
	created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id string) (*Church, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM churches WHERE id = $1`, churchColumns)

	var row churchRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get church: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get church: %w", err)
	}

	return row.entity()
}

func (r *repository) GetByCode(
	ctx context.Context,
	code string,
) (*Church, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM churches WHERE code = $1`, churchColumns)

	var row churchRow
	err := r.db.GetContext(ctx, &row, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get church by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get church by code: %w", err)
	}

	return row.entity()
}

func (r *repository) Update(ctx context.Context, c *Church) error {
	adminIDs, err := marshalAdminIDs(c.AdminIDs)
	if err != nil {
		return err
	}

	query := `
		UPDATE churches
		SET name = $2, description = $3, admin_ids = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.Name,
		c.Description,
		adminIDs,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update church: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update church: %w", err)
	}

	return nil
}

func (r *repository) SetActive(
	ctx context.Context,
	id string,
	active bool,
) error {
	query := `
		UPDATE churches
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("set church active: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set church active: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set church active: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(
	ctx context.Context,
) (total int, active int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active)
		FROM churches`

	err = r.db.QueryRowxContext(ctx, query).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count churches: %w", err)
	}

	return total, active, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
