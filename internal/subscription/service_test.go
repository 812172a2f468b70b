// AngelaMos | 2026
// service_test.go

package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

type stubResolver struct {
	users map[string]*identity.User
}

func (r *stubResolver) Resolve(
	_ context.Context,
	id string,
) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("resolve: %w", core.ErrNotFound)
	}
	return user, nil
}

type fakeTiers struct {
	users map[string]*identity.User
}

func (t *fakeTiers) UpdateTier(
	_ context.Context,
	id, tier string,
) (*identity.User, error) {
	u, ok := t.users[id]
	if !ok {
		return nil, fmt.Errorf("update tier: %w", core.ErrNotFound)
	}
	u.Tier = tier
	return u, nil
}

func (t *fakeTiers) UpdateRole(
	_ context.Context,
	id string,
	role identity.Role,
) (*identity.User, error) {
	u, ok := t.users[id]
	if !ok {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = role
	return u, nil
}

type fakeRepo struct {
	subs map[string]*Subscription
}

func (r *fakeRepo) Create(_ context.Context, s *Subscription) error {
	clone := *s
	r.subs[s.ID] = &clone
	return nil
}

func (r *fakeRepo) GetActiveByUser(
	_ context.Context,
	userID string,
) (*Subscription, error) {
	for _, s := range r.subs {
		if s.UserID == userID && s.Status == StatusActive {
			clone := *s
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("get active subscription: %w", core.ErrNotFound)
}

func (r *fakeRepo) Cancel(_ context.Context, id string) error {
	s, ok := r.subs[id]
	if !ok || s.Status != StatusActive {
		return fmt.Errorf("cancel subscription: %w", core.ErrNotFound)
	}
	s.Status = StatusCanceled
	return nil
}

func (r *fakeRepo) ListByUser(
	_ context.Context,
	userID string,
) ([]Subscription, error) {
	var out []Subscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountActive(_ context.Context) (int, error) {
	count := 0
	for _, s := range r.subs {
		if s.Status == StatusActive {
			count++
		}
	}
	return count, nil
}

func newTestService(users map[string]*identity.User) *Service {
	resolver := &stubResolver{users: users}
	recorder := audit.NewRecorder(audit.NewMemoryStore(), slog.Default())
	engine := authz.NewEngine(resolver, recorder)
	repo := &fakeRepo{subs: make(map[string]*Subscription)}
	return NewService(repo, &fakeTiers{users: users}, engine, recorder)
}

func TestUpgrade_MemberBecomesSubscriber(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RoleMember, Tier: identity.TierFree},
	}
	svc := newTestService(users)

	sub, err := svc.Upgrade(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, identity.TierPremium, users["u1"].Tier)
	assert.Equal(t, identity.RoleSubscriber, users["u1"].Role)
}

func TestUpgrade_PastorKeepsRole(t *testing.T) {
	users := map[string]*identity.User{
		"p1": {ID: "p1", Role: identity.RolePastor, Tier: identity.TierFree},
	}
	svc := newTestService(users)

	_, err := svc.Upgrade(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, identity.TierPremium, users["p1"].Tier)
	assert.Equal(t, identity.RolePastor, users["p1"].Role)
}

func TestUpgrade_AlreadyPremium(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {
			ID: "u1", Role: identity.RoleSubscriber,
			Tier: identity.TierPremium,
		},
	}
	svc := newTestService(users)

	_, err := svc.Upgrade(context.Background(), "u1")
	require.ErrorIs(t, err, core.ErrPreconditionFailed)
}

func TestCancel_SubscriberReturnsToMember(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RoleMember, Tier: identity.TierFree},
	}
	svc := newTestService(users)

	_, err := svc.Upgrade(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), "u1"))
	assert.Equal(t, identity.TierFree, users["u1"].Tier)
	assert.Equal(t, identity.RoleMember, users["u1"].Role)

	_, err = svc.Current(context.Background(), "u1")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCancel_WithoutSubscription(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RoleMember, Tier: identity.TierFree},
	}
	svc := newTestService(users)

	err := svc.Cancel(context.Background(), "u1")
	require.ErrorIs(t, err, core.ErrPreconditionFailed)
}
