// AngelaMos | 2026
// service.go

package church

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

// maxCodeAttempts bounds the collision retry loop on the join code's
// unique index. Collisions at 32^8 keyspace are vanishingly rare.
const maxCodeAttempts = 5

// MemberDirectory is the slice of the identity service the tenant module
// needs to move members in and out of a church.
type MemberDirectory interface {
	SetChurch(
		ctx context.Context,
		id string,
		churchID *string,
		role identity.Role,
	) (*identity.User, error)
	ListByChurch(ctx context.Context, churchID string) ([]identity.User, error)
}

type Service struct {
	repo     Repository
	members  MemberDirectory
	engine   *authz.Engine
	recorder *audit.Recorder
}

func NewService(
	repo Repository,
	members MemberDirectory,
	engine *authz.Engine,
	recorder *audit.Recorder,
) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		engine:   engine,
		recorder: recorder,
	}
}

// Create provisions a new church and installs the creator as its pastor.
// The join code is generated fresh on each attempt; the unique index on
// churches.code decides collisions and the loop retries.
func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateRequest,
) (*Church, error) {
	actor, err := s.engine.AuthorizeAction(ctx, actorID, authz.ActionCreateChurch)
	if err != nil {
		return nil, err
	}

	if actor.ChurchID != nil {
		return nil, fmt.Errorf(
			"create church: actor already belongs to a church: %w",
			core.ErrPreconditionFailed,
		)
	}

	var created *Church
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		c := &Church{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Description: req.Description,
			Code:        code,
			PastorID:    actorID,
			AdminIDs:    []string{},
			IsActive:    true,
		}

		err = s.repo.Create(ctx, c)
		if err == nil {
			created = c
			break
		}
		if !errors.Is(err, core.ErrDuplicateKey) {
			return nil, err
		}
	}
	if created == nil {
		return nil, fmt.Errorf(
			"create church: code collision persisted after %d attempts: %w",
			maxCodeAttempts, core.ErrInternal,
		)
	}

	if _, err := s.members.SetChurch(
		ctx, actorID, &created.ID, identity.RolePastor,
	); err != nil {
		return nil, fmt.Errorf("assign pastor: %w", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionCreateChurch,
		ResourceCollection: "churches",
		ResourceID:         &created.ID,
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "church_name", Value: created.Name},
		},
	})

	return created, nil
}

// JoinByCode links the actor to the church behind the code. Guests become
// members; existing roles above member are kept.
func (s *Service) JoinByCode(
	ctx context.Context,
	actorID, code string,
) (*Church, error) {
	actor, err := s.engine.AuthorizeAction(ctx, actorID, authz.ActionJoinChurch)
	if err != nil {
		return nil, err
	}

	if actor.ChurchID != nil {
		return nil, fmt.Errorf(
			"join church: actor already belongs to a church: %w",
			core.ErrPreconditionFailed,
		)
	}

	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !c.IsActive {
		return nil, fmt.Errorf(
			"join church: church is deactivated: %w",
			core.ErrPreconditionFailed,
		)
	}

	role := actor.Role
	if role == identity.RoleGuest {
		role = identity.RoleMember
	}

	if _, err := s.members.SetChurch(ctx, actorID, &c.ID, role); err != nil {
		return nil, fmt.Errorf("join church: %w", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionJoinChurch,
		ResourceCollection: "churches",
		ResourceID:         &c.ID,
		Result:             audit.ResultSuccess,
	})

	return c, nil
}

// Leave unlinks the actor from their church. Members drop back to guest;
// pastors must hand off or deactivate first.
func (s *Service) Leave(ctx context.Context, actorID string) error {
	actor, err := s.engine.AuthorizeAction(ctx, actorID, authz.ActionLeaveChurch)
	if err != nil {
		return err
	}

	if actor.ChurchID == nil {
		return fmt.Errorf(
			"leave church: actor has no church: %w",
			core.ErrPreconditionFailed,
		)
	}
	churchID := *actor.ChurchID

	c, err := s.repo.GetByID(ctx, churchID)
	if err != nil {
		return err
	}

	if c.PastorID == actorID && c.IsActive {
		return fmt.Errorf(
			"leave church: pastor must deactivate the church first: %w",
			core.ErrPreconditionFailed,
		)
	}

	role := actor.Role
	if role == identity.RoleMember {
		role = identity.RoleGuest
	}

	if _, err := s.members.SetChurch(ctx, actorID, nil, role); err != nil {
		return fmt.Errorf("leave church: %w", err)
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionLeaveChurch,
		ResourceCollection: "churches",
		ResourceID:         &churchID,
		Result:             audit.ResultSuccess,
	})

	return nil
}

// Get returns a church to its own members. The tenant link alone decides;
// a super_admin without the link is refused like anyone else.
func (s *Service) Get(
	ctx context.Context,
	actorID, churchID string,
) (*Church, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, churchID)
}

func (s *Service) ListMembers(
	ctx context.Context,
	actorID, churchID string,
) ([]identity.User, error) {
	if _, err := s.engine.RequireChurchMember(ctx, actorID, churchID); err != nil {
		return nil, err
	}

	return s.members.ListByChurch(ctx, churchID)
}

func (s *Service) UpdateSettings(
	ctx context.Context,
	actorID, churchID string,
	req UpdateRequest,
) (*Church, error) {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionUpdateChurch)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, churchID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.AdminIDs != nil {
		c.AdminIDs = req.AdminIDs
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionUpdateChurch,
		ResourceCollection: "churches",
		ResourceID:         &churchID,
		Result:             audit.ResultSuccess,
	})

	return c, nil
}

// Deactivate soft-disables the church. Rows are never deleted; history
// and audit references stay intact.
func (s *Service) Deactivate(
	ctx context.Context,
	actorID, churchID string,
) error {
	_, err := s.engine.RequireChurchPastor(
		ctx, actorID, churchID, authz.ActionDeactivateChurch)
	if err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, churchID, false); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Entry{
		IdentityID:         actorID,
		Action:             authz.ActionDeactivateChurch,
		ResourceCollection: "churches",
		ResourceID:         &churchID,
		Result:             audit.ResultSuccess,
	})

	return nil
}
