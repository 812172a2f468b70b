// AngelaMos | 2026
// service_test.go

package church

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

type fakeRepo struct {
	byID     map[string]*Church
	byCode   map[string]*Church
	failures int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   make(map[string]*Church),
		byCode: make(map[string]*Church),
	}
}

func (r *fakeRepo) Create(_ context.Context, c *Church) error {
	if r.failures > 0 {
		r.failures--
		return fmt.Errorf("create church: %w", core.ErrDuplicateKey)
	}
	if _, exists := r.byCode[c.Code]; exists {
		return fmt.Errorf("create church: %w", core.ErrDuplicateKey)
	}
	clone := *c
	r.byID[c.ID] = &clone
	r.byCode[c.Code] = &clone
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Church, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get church: %w", core.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) GetByCode(_ context.Context, code string) (*Church, error) {
	c, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("get church by code: %w", core.ErrNotFound)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) Update(_ context.Context, c *Church) error {
	stored, ok := r.byID[c.ID]
	if !ok {
		return fmt.Errorf("update church: %w", core.ErrNotFound)
	}
	*stored = *c
	return nil
}

func (r *fakeRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("set church active: %w", core.ErrNotFound)
	}
	c.IsActive = active
	return nil
}

func (r *fakeRepo) Count(_ context.Context) (int, int, error) {
	active := 0
	for _, c := range r.byID {
		if c.IsActive {
			active++
		}
	}
	return len(r.byID), active, nil
}

type fakeDirectory struct {
	resolver *stubResolver
}

func (d *fakeDirectory) SetChurch(
	_ context.Context,
	id string,
	churchID *string,
	role identity.Role,
) (*identity.User, error) {
	user, ok := d.resolver.users[id]
	if !ok {
		return nil, fmt.Errorf("set church: %w", core.ErrNotFound)
	}
	user.ChurchID = churchID
	user.Role = role
	return user, nil
}

func (d *fakeDirectory) ListByChurch(
	_ context.Context,
	churchID string,
) ([]identity.User, error) {
	var out []identity.User
	for _, u := range d.resolver.users {
		if u.ChurchID != nil && *u.ChurchID == churchID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func newTestService(
	users map[string]*identity.User,
) (*Service, *fakeRepo, *audit.MemoryStore) {
	resolver := &stubResolver{users: users}
	store := audit.NewMemoryStore()
	recorder := audit.NewRecorder(store, slog.Default())
	engine := authz.NewEngine(resolver, recorder)
	repo := newFakeRepo()
	svc := NewService(repo, &fakeDirectory{resolver: resolver}, engine, recorder)
	return svc, repo, store
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 8)
		for _, c := range code {
			assert.Contains(t, codeAlphabet, string(c))
		}
		seen[code] = struct{}{}
	}
	// 100 draws from a 32^8 space should not collide.
	assert.Len(t, seen, 100)
}

func TestCreate_InstallsCreatorAsPastor(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RoleAdmin},
	}
	svc, _, store := newTestService(users)

	c, err := svc.Create(context.Background(), "u1", CreateRequest{
		Name: "Grace Chapel",
	})
	require.NoError(t, err)
	assert.Len(t, c.Code, 8)
	assert.Equal(t, "u1", c.PastorID)
	assert.True(t, c.IsActive)

	assert.Equal(t, identity.RolePastor, users["u1"].Role)
	require.NotNil(t, users["u1"].ChurchID)
	assert.Equal(t, c.ID, *users["u1"].ChurchID)

	var found bool
	for _, e := range store.Entries() {
		if e.Action == authz.ActionCreateChurch &&
			e.ResourceCollection == "churches" &&
			e.Result == audit.ResultSuccess {
			found = true
		}
	}
	assert.True(t, found, "expected a create_church success entry")
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RolePastor},
	}
	svc, repo, _ := newTestService(users)
	repo.failures = 2

	c, err := svc.Create(context.Background(), "u1", CreateRequest{
		Name: "Second Baptist",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Code)
}

func TestCreate_GivesUpAfterPersistentCollisions(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RolePastor},
	}
	svc, repo, _ := newTestService(users)
	repo.failures = maxCodeAttempts

	_, err := svc.Create(context.Background(), "u1", CreateRequest{
		Name: "Unlucky Parish",
	})
	require.ErrorIs(t, err, core.ErrInternal)
}

func TestCreate_DeniedForNonPastorRoles(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RoleMember},
	}
	svc, _, _ := newTestService(users)

	_, err := svc.Create(context.Background(), "u1", CreateRequest{
		Name: "Not Allowed",
	})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestCreate_RejectedWhenAlreadyLinked(t *testing.T) {
	users := map[string]*identity.User{
		"u1": {ID: "u1", Role: identity.RolePastor, ChurchID: strptr("c9")},
	}
	svc, _, _ := newTestService(users)

	_, err := svc.Create(context.Background(), "u1", CreateRequest{
		Name: "Double Dipping",
	})
	require.ErrorIs(t, err, core.ErrPreconditionFailed)
}

func TestJoinByCode_PromotesGuestToMember(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
		"guest":  {ID: "guest", Role: identity.RoleGuest},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	joined, err := svc.JoinByCode(context.Background(), "guest", c.Code)
	require.NoError(t, err)
	assert.Equal(t, c.ID, joined.ID)

	assert.Equal(t, identity.RoleMember, users["guest"].Role)
	require.NotNil(t, users["guest"].ChurchID)
	assert.Equal(t, c.ID, *users["guest"].ChurchID)
}

func TestJoinByCode_KeepsSubscriberRole(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
		"sub":    {ID: "sub", Role: identity.RoleSubscriber},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	_, err = svc.JoinByCode(context.Background(), "sub", c.Code)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleSubscriber, users["sub"].Role)
}

func TestJoinByCode_UnknownCode(t *testing.T) {
	users := map[string]*identity.User{
		"guest": {ID: "guest", Role: identity.RoleGuest},
	}
	svc, _, _ := newTestService(users)

	_, err := svc.JoinByCode(context.Background(), "guest", "NOSUCHCD")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestJoinByCode_DeactivatedChurch(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
		"guest":  {ID: "guest", Role: identity.RoleGuest},
	}
	svc, repo, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Closing Down",
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(context.Background(), c.ID, false))

	_, err = svc.JoinByCode(context.Background(), "guest", c.Code)
	require.ErrorIs(t, err, core.ErrPreconditionFailed)
}

func TestLeave_DemotesMemberToGuest(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
		"guest":  {ID: "guest", Role: identity.RoleGuest},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	_, err = svc.JoinByCode(context.Background(), "guest", c.Code)
	require.NoError(t, err)

	require.NoError(t, svc.Leave(context.Background(), "guest"))
	assert.Equal(t, identity.RoleGuest, users["guest"].Role)
	assert.Nil(t, users["guest"].ChurchID)
}

func TestLeave_PastorMustDeactivateFirst(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	err = svc.Leave(context.Background(), "pastor")
	require.ErrorIs(t, err, core.ErrPreconditionFailed)

	require.NoError(t, svc.Deactivate(context.Background(), "pastor", c.ID))
	require.NoError(t, svc.Leave(context.Background(), "pastor"))
}

func TestListMembers_RequiresTenantLink(t *testing.T) {
	users := map[string]*identity.User{
		"pastor":   {ID: "pastor", Role: identity.RolePastor},
		"outsider": {ID: "outsider", Role: identity.RoleSuperAdmin},
	}
	svc, _, store := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	members, err := svc.ListMembers(context.Background(), "pastor", c.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "pastor", members[0].ID)

	// Even a super_admin without the church link is refused.
	_, err = svc.ListMembers(context.Background(), "outsider", c.ID)
	require.ErrorIs(t, err, core.ErrForbidden)

	var denied bool
	for _, e := range store.Entries() {
		if e.IdentityID == "outsider" && e.Result == audit.ResultDenied {
			denied = true
		}
	}
	assert.True(t, denied, "expected a denial entry for the outsider")
}

func TestUpdateSettings(t *testing.T) {
	users := map[string]*identity.User{
		"pastor": {ID: "pastor", Role: identity.RolePastor},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "pastor", CreateRequest{
		Name: "Old Name",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(
		context.Background(), "pastor", c.ID, UpdateRequest{
			Name:     strptr("New Name"),
			AdminIDs: []string{"helper"},
		})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, []string{"helper"}, updated.AdminIDs)
}

func TestUpdateSettings_WrongChurchPastor(t *testing.T) {
	users := map[string]*identity.User{
		"p1": {ID: "p1", Role: identity.RolePastor},
		"p2": {ID: "p2", Role: identity.RolePastor, ChurchID: strptr("other")},
	}
	svc, _, _ := newTestService(users)

	c, err := svc.Create(context.Background(), "p1", CreateRequest{
		Name: "Hillside",
	})
	require.NoError(t, err)

	_, err = svc.UpdateSettings(
		context.Background(), "p2", c.ID, UpdateRequest{
			Name: strptr("Hijacked"),
		})
	require.ErrorIs(t, err, core.ErrForbidden)
}
