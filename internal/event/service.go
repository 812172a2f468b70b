// AngelaMos | 2026
// service.go

package event

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
) (*Event, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionCreateEvent)
	if err != nil {
		return nil, err
	}

	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, fmt.Errorf(
			"event ends before it starts: %w", core.ErrInvalidInput)
	}

	e := &Event{
		ID:          uuid.New().String(),
		ChurchID:    churchID,
		AuthorID:    actorID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionCreateEvent,
		ResourceCollection: "events",
		ResourceID:         &e.ID,
		Result:             audit.ResultSuccess,
	})

	return e, nil
}

func (s *Service) Update(
	ctx context.Context,
	actorID, churchID, eventID string,
	req UpdateRequest,
) (*Event, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionUpdateEvent)
	if err != nil {
		return nil, err
	}

	e, err := s.getScoped(ctx, churchID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.StartsAt != nil {
		e.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		e.EndsAt = req.EndsAt
	}

	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return nil, fmt.Errorf(
			"event ends before it starts: %w", core.ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionUpdateEvent,
		ResourceCollection: "events",
		ResourceID:         &e.ID,
		Result:             audit.ResultSuccess,
	})

	return e, nil
}

func (s *Service) Delete(
	ctx context.Context,
	actorID, churchID, eventID string,
) error {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionDeleteEvent)
	if err != nil {
		return err
	}

	if _, err := s.getScoped(ctx, churchID, eventID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionDeleteEvent,
		ResourceCollection: "events",
		ResourceID:         &eventID,
		Result:             audit.ResultSuccess,
	})

	return nil
}

func (s *Service) List(
	ctx context.Context,
	actorID, churchID string,
	params ListParams,
) ([]Event, int, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, 0, err
	}

	return s.repo.ListByChurch(ctx, churchID, params)
}

func (s *Service) Get(
	ctx context.Context,
	actorID, churchID, eventID string,
) (*Event, RSVPCounts, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, RSVPCounts{}, err
	}

	e, err := s.getScoped(ctx, churchID, eventID)
	if err != nil {
		return nil, RSVPCounts{}, err
	}

	counts, err := s.repo.CountRSVPs(ctx, eventID)
	if err != nil {
		return nil, RSVPCounts{}, err
	}

	return e, counts, nil
}

// RSVP records or replaces the member's attendance answer.
func (s *Service) RSVP(
	ctx context.Context,
	actorID, churchID, eventID string,
	status RSVPStatus,
) (*RSVP, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	if !ValidRSVPStatus(status) {
		return nil, fmt.Errorf(
			"invalid rsvp status %q: %w", status, core.ErrInvalidInput)
	}

	if _, err := s.getScoped(ctx, churchID, eventID); err != nil {
		return nil, err
	}

	rsvp := &RSVP{
		EventID: eventID,
		UserID:  actorID,
		Status:  status,
	}

	if err := s.repo.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionRSVPEvent,
		ResourceCollection: "events",
		ResourceID:         &eventID,
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "status", Value: string(status)},
		},
	})

	return rsvp, nil
}

func (s *Service) getScoped(
	ctx context.Context,
	churchID, eventID string,
) (*Event, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.ChurchID != churchID {
		return nil, fmt.Errorf("event not in church: %w", core.ErrNotFound)
	}
	return e, nil
}
