// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	GetActiveByUser(ctx context.Context, userID string) (*Subscription, error)
	Cancel(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]Subscription, error)
	CountActive(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Subscription) error {
	query := `
		INSERT INTO subscriptions (id, user_id, tier, status)
		VALUES ($1, $2, $3, $4)
		RETURNING started_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.UserID, s.Tier, s.Status,
	).Scan(&s.StartedAt)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	return nil
}

func (r *repository) GetActiveByUser(
	ctx context.Context,
	userID string,
) (*Subscription, error) {
	query := `
		SELECT id, user_id, tier, status, started_at, canceled_at
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY started_at DESC
		LIMIT 1`

	var s Subscription
	err := r.db.GetContext(ctx, &s, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get active subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get active subscription: %w", err)
	}

	return &s, nil
}

func (r *repository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE subscriptions
		SET status = 'canceled', canceled_at = NOW()
		WHERE id = $1 AND status = 'active'`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("cancel subscription: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Subscription, error) {
	query := `
		SELECT id, user_id, tier, status, started_at, canceled_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY started_at DESC`

	var out []Subscription
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	return out, nil
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`)
	if err != nil {
		return 0, fmt.Errorf("count active subscriptions: %w", err)
	}

	return count, nil
}
