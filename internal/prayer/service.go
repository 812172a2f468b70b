// AngelaMos | 2026
// service.go

package prayer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Service struct {
	repo     Repository
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewService(
	repo Repository,
	engine *authz.Engine,
	recorder *audit.Recorder,
) *Service {
	return &Service{repo: repo, engine: engine, recorder: recorder}
}

func (s *Service) Create(
	ctx context.Context,
	actorID, churchID string,
	req CreateRequest,
) (*Prayer, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	p := &Prayer{
		ID:        uuid.New().String(),
		ChurchID:  churchID,
		AuthorID:  actorID,
		Body:      req.Body,
		Anonymous: req.Anonymous,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionCreatePrayer,
		ResourceCollection: "prayers",
		ResourceID:         &p.ID,
		Result:             audit.ResultSuccess,
	})

	return p, nil
}

// Delete removes a prayer request. The author may always delete their own;
// pastors and admins of the church may remove any.
func (s *Service) Delete(
	ctx context.Context,
	actorID, churchID, prayerID string,
) error {
	actor, err := s.engine.RequireChurchMember(ctx, actorID, churchID)
	if err != nil {
		return err
	}

	p, err := s.getScoped(ctx, churchID, prayerID)
	if err != nil {
		return err
	}

	if p.AuthorID != actorID && !actor.IsPastorOrAdmin() {
		return fmt.Errorf(
			"delete prayer: not the author: %w", core.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, prayerID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionDeletePrayer,
		ResourceCollection: "prayers",
		ResourceID:         &prayerID,
		Result:             audit.ResultSuccess,
	})

	return nil
}

// Pray increments the prayer's counter on behalf of the actor.
func (s *Service) Pray(
	ctx context.Context,
	actorID, churchID, prayerID string,
) (int, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return 0, err
	}

	if _, err := s.getScoped(ctx, churchID, prayerID); err != nil {
		return 0, err
	}

	return s.repo.IncrementPrayCount(ctx, prayerID)
}

func (s *Service) List(
	ctx context.Context,
	actorID, churchID string,
	params ListParams,
) ([]Prayer, int, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListByChurch(ctx, churchID, params)
}

func (s *Service) getScoped(
	ctx context.Context,
	churchID, prayerID string,
) (*Prayer, error) {
	p, err := s.repo.GetByID(ctx, prayerID)
	if err != nil {
		return nil, err
	}
	if p.ChurchID != churchID {
		return nil, fmt.Errorf("prayer not in church: %w", core.ErrNotFound)
	}
	return p, nil
}
