// AngelaMos | 2026
// service.go

package verse

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
)

type Service struct {
	repo     Repository
	engine   *authz.Engine
	recorder *audit.Recorder
	now      func() time.Time
}

func NewService(
	repo Repository,
	engine *authz.Engine,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		recorder: recorder,
		now:      time.Now,
	}
}

// Set installs or replaces the verse for a given date. Pastor-level within
// the church; one verse per date by upsert.
func (s *Service) Set(
	ctx context.Context,
	actorID, churchID string,
	req SetRequest,
) (*Verse, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionManageVerses)
	if err != nil {
		return nil, err
	}

	v := &Verse{
		ID:        uuid.New().String(),
		ChurchID:  churchID,
		Reference: req.Reference,
		Text:      req.Text,
		VerseDate: req.VerseDate.Truncate(24 * time.Hour),
		CreatedBy: actorID,
	}

	if err := s.repo.Upsert(ctx, v); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionManageVerses,
		ResourceCollection: "verses",
		ResourceID:         &v.ID,
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "verse_date", Value: v.VerseDate.Format(time.DateOnly)},
		},
	})

	return v, nil
}

// Today returns the church's verse for the current date. Any member of
// the church may read it.
func (s *Service) Today(
	ctx context.Context,
	actorID, churchID string,
) (*Verse, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.GetByDate(ctx, churchID, today)
}

func (s *Service) History(
	ctx context.Context,
	actorID, churchID string,
	limit int,
) ([]Verse, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	return s.repo.ListByChurch(ctx, churchID, limit)
}

func (s *Service) Remove(
	ctx context.Context,
	actorID, churchID string,
	date time.Time,
) error {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionManageVerses)
	if err != nil {
		return err
	}

	day := date.Truncate(24 * time.Hour)
	if err := s.repo.Delete(ctx, churchID, day); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionManageVerses,
		ResourceCollection: "verses",
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "verse_date", Value: day.Format(time.DateOnly)},
			{Key: "operation", Value: "delete"},
		},
	})

	return nil
}
