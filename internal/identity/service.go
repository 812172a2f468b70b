// AngelaMos | 2026
// service.go

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/markustips/biblenotelm-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve loads an identity by id. The returned role and tenant link are a
// snapshot; callers must not assume they survive the request.
func (s *Service) Resolve(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(email))
}

// Create registers a new identity. New accounts always start as guests on
// the free tier; role changes happen through church membership operations.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*User, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleGuest,
		Tier:         TierFree,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	name *string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = *name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateRole(
	ctx context.Context,
	id string,
	role Role,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateTier(
	ctx context.Context,
	id, tier string,
) (*User, error) {
	if tier != TierFree && tier != TierPremium {
		return nil, fmt.Errorf(
			"update tier: invalid tier %q: %w",
			tier,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateTier(ctx, id, tier); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// SetChurch moves an identity in or out of a tenant, adjusting role in the
// same statement so a join or leave can never half-apply.
func (s *Service) SetChurch(
	ctx context.Context,
	id string,
	churchID *string,
	role Role,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"set church: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateChurch(ctx, id, churchID, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByChurch(
	ctx context.Context,
	churchID string,
) ([]User, error) {
	return s.repo.ListByChurch(ctx, churchID)
}

func (s *Service) IncrementTokenVersion(ctx context.Context, id string) error {
	return s.repo.IncrementTokenVersion(ctx, id)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}
