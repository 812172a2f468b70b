// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

// TierManager is the slice of the identity service that applies the tier
// and role side of a subscription change.
type TierManager interface {
	UpdateTier(ctx context.Context, id, tier string) (*identity.User, error)
	UpdateRole(
		ctx context.Context,
		id string,
		role identity.Role,
	) (*identity.User, error)
}

type Service struct {
	repo     Repository
	tiers    TierManager
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewService(
	repo Repository,
	tiers TierManager,
	engine *authz.Engine,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		repo:     repo,
		tiers:    tiers,
		engine:   engine,
		recorder: recorder,
	}
}

// Upgrade moves the actor to the premium tier. Members gain the
// subscriber role; pastors and above keep their role and only the tier
// changes.
func (s *Service) Upgrade(
	ctx context.Context,
	actorID string,
) (*Subscription, error) {
	actor, err := s.engine.AuthorizeAction(
		ctx, actorID, authz.ActionUpgradeSubscription)
	if err != nil {
		return nil, err
	}

	if actor.Tier == identity.TierPremium {
		return nil, fmt.Errorf(
			"upgrade: already on premium tier: %w",
			core.ErrPreconditionFailed,
		)
	}

	sub := &Subscription{
		ID:     uuid.New().String(),
		UserID: actorID,
		Tier:   identity.TierPremium,
		Status: StatusActive,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	if _, err := s.tiers.UpdateTier(
		ctx, actorID, identity.TierPremium); err != nil {
		return nil, fmt.Errorf("apply tier: %w", err)
	}

	if actor.Role == identity.RoleMember {
		if _, err := s.tiers.UpdateRole(
			ctx, actorID, identity.RoleSubscriber); err != nil {
			return nil, fmt.Errorf("apply role: %w", err)
		}
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionUpgradeSubscription,
		ResourceCollection: "subscriptions",
		ResourceID:         &sub.ID,
		Result:             audit.ResultSuccess,
	})

	return sub, nil
}

// Cancel drops the actor back to the free tier. Subscribers return to the
// member role.
func (s *Service) Cancel(ctx context.Context, actorID string) error {
	actor, err := s.engine.AuthorizeAction(
		ctx, actorID, authz.ActionCancelSubscription)
	if err != nil {
		return err
	}

	if actor.Tier != identity.TierPremium {
		return fmt.Errorf(
			"cancel: no premium subscription: %w",
			core.ErrPreconditionFailed,
		)
	}

	sub, err := s.repo.GetActiveByUser(ctx, actorID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}
	if sub != nil {
		if err := s.repo.Cancel(ctx, sub.ID); err != nil {
			return err
		}
	}

	if _, err := s.tiers.UpdateTier(ctx, actorID, identity.TierFree); err != nil {
		return fmt.Errorf("apply tier: %w", err)
	}

	if actor.Role == identity.RoleSubscriber {
		if _, err := s.tiers.UpdateRole(
			ctx, actorID, identity.RoleMember); err != nil {
			return fmt.Errorf("apply role: %w", err)
		}
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionCancelSubscription,
		ResourceCollection: "subscriptions",
		Result:             audit.ResultSuccess,
	})

	return nil
}

func (s *Service) Current(
	ctx context.Context,
	actorID string,
) (*Subscription, error) {
	if _, err := s.engine.Authorize(
		ctx, actorID, authz.AnyRole, "view_subscription"); err != nil {
		return nil, err
	}

	return s.repo.GetActiveByUser(ctx, actorID)
}

func (s *Service) History(
	ctx context.Context,
	actorID string,
) ([]Subscription, error) {
	if _, err := s.engine.Authorize(
		ctx, actorID, authz.AnyRole, "view_subscription"); err != nil {
		return nil, err
	}

	return s.repo.ListByUser(ctx, actorID)
}
