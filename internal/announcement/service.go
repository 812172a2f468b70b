// AngelaMos | 2026
// service.go

package announcement

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
) (*Announcement, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionCreateAnnouncement)
	if err != nil {
		return nil, err
	}

	a := &Announcement{
		ID:       uuid.New().String(),
		ChurchID: churchID,
		AuthorID: actorID,
		Title:    req.Title,
		Body:     req.Body,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionCreateAnnouncement,
		ResourceCollection: "announcements",
		ResourceID:         &a.ID,
		Result:             audit.ResultSuccess,
	})

	return a, nil
}

func (s *Service) Update(
	ctx context.Context,
	actorID, churchID, announcementID string,
	req UpdateRequest,
) (*Announcement, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionUpdateAnnouncement)
	if err != nil {
		return nil, err
	}

	a, err := s.getScoped(ctx, churchID, announcementID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Body != nil {
		a.Body = *req.Body
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionUpdateAnnouncement,
		ResourceCollection: "announcements",
		ResourceID:         &a.ID,
		Result:             audit.ResultSuccess,
	})

	return a, nil
}

func (s *Service) Delete(
	ctx context.Context,
	actorID, churchID, announcementID string,
) error {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionDeleteAnnouncement)
	if err != nil {
		return err
	}

	if _, err := s.getScoped(ctx, churchID, announcementID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, announcementID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionDeleteAnnouncement,
		ResourceCollection: "announcements",
		ResourceID:         &announcementID,
		Result:             audit.ResultSuccess,
	})

	return nil
}

func (s *Service) List(
	ctx context.Context,
	actorID, churchID string,
	params ListParams,
) ([]Announcement, int, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListByChurch(ctx, churchID, params)
}

// getScoped loads the announcement and refuses cross-tenant ids. A mismatch
// reads as not-found so other churches' ids stay unguessable.
func (s *Service) getScoped(
	ctx context.Context,
	churchID, announcementID string,
) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if a.ChurchID != churchID {
		return nil, fmt.Errorf(
			"announcement not in church: %w", core.ErrNotFound)
	}
	return a, nil
}
