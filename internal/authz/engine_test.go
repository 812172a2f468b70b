// AngelaMos | 2026
// engine_test.go

package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

type fakeResolver struct {
	users map[string]*identity.User
}

func (f *fakeResolver) Resolve(
	_ context.Context,
	id string,
) (*identity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return user, nil
}

func newTestEngine(users ...*identity.User) (*Engine, *audit.MemoryStore) {
	resolver := &fakeResolver{users: make(map[string]*identity.User)}
	for _, u := range users {
		resolver.users[u.ID] = u
	}

	store := audit.NewMemoryStore()
	recorder := audit.NewRecorder(store, slog.Default())

	return NewEngine(resolver, recorder), store
}

func userWithRole(id string, role identity.Role) *identity.User {
	return &identity.User{ID: id, Role: role}
}

func userInChurch(id string, role identity.Role, churchID string) *identity.User {
	return &identity.User{ID: id, Role: role, ChurchID: &churchID}
}

func TestAuthorize_RoleMembership(t *testing.T) {
	ctx := context.Background()

	for _, role := range identity.AllRoles() {
		t.Run(string(role), func(t *testing.T) {
			engine, store := newTestEngine(userWithRole("u1", role))

			user, err := engine.Authorize(ctx, "u1", PastorOrAdmin, "update_church")

			if PastorOrAdmin.Contains(role) {
				require.NoError(t, err)
				assert.Equal(t, role, user.Role)

				entries := store.Entries()
				require.Len(t, entries, 1)
				assert.Equal(t, audit.ResultSuccess, entries[0].Result)
			} else {
				require.ErrorIs(t, err, core.ErrForbidden)
				assert.Nil(t, user)

				entries := store.Entries()
				require.Len(t, entries, 1)
				assert.Equal(t, audit.ResultDenied, entries[0].Result)
			}
		})
	}
}

func TestAuthorize_DenyRecordsRolesHeldAndRequired(t *testing.T) {
	// Scenario: a member hits a pastor-or-admin gate.
	engine, store := newTestEngine(userWithRole("u1", identity.RoleMember))

	_, err := engine.Authorize(
		context.Background(),
		"u1",
		PastorOrAdmin,
		"create_announcement",
	)
	require.ErrorIs(t, err, core.ErrForbidden)

	entries := store.Entries()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "create_announcement", entry.Action)
	assert.Equal(t, audit.ResultDenied, entry.Result)
	assert.Contains(t, entry.Metadata, audit.Field{
		Key: "user_role", Value: "member",
	})
	assert.Contains(t, entry.Metadata, audit.Field{
		Key: "required_roles", Value: "admin,pastor,super_admin",
	})
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestAuthorize_UnknownIdentity(t *testing.T) {
	engine, store := newTestEngine()

	_, err := engine.Authorize(
		context.Background(),
		"missing",
		AnyRole,
		"list_events",
	)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, store.Entries())
}

func TestAuthorize_EmptyIdentityIsUnauthenticated(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.Authorize(
		context.Background(),
		"",
		AnyRole,
		"list_events",
	)
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestAuthorize_AuditFailureDoesNotAffectDecision(t *testing.T) {
	engine, store := newTestEngine(
		userWithRole("allowed", identity.RolePastor),
		userWithRole("denied", identity.RoleGuest),
	)
	store.FailInserts = errors.New("store unavailable")

	user, err := engine.Authorize(
		context.Background(),
		"allowed",
		PastorOrAdmin,
		"create_event",
	)
	require.NoError(t, err)
	assert.Equal(t, identity.RolePastor, user.Role)

	_, err = engine.Authorize(
		context.Background(),
		"denied",
		PastorOrAdmin,
		"create_event",
	)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestAuthorizeAction_UsesPolicyTable(t *testing.T) {
	engine, _ := newTestEngine(
		userWithRole("guest", identity.RoleGuest),
		userWithRole("root", identity.RoleSuperAdmin),
	)
	ctx := context.Background()

	_, err := engine.AuthorizeAction(ctx, "guest", ActionViewAuditTrail)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = engine.AuthorizeAction(ctx, "root", ActionViewAuditTrail)
	require.NoError(t, err)

	// Unknown actions deny everyone, super_admin included.
	_, err = engine.AuthorizeAction(ctx, "root", "no_such_action")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRequireChurchMember_TenantLinkDecides(t *testing.T) {
	ctx := context.Background()

	// Membership is decided by the tenant link alone, for every role.
	for _, role := range identity.AllRoles() {
		t.Run(string(role)+"_member", func(t *testing.T) {
			engine, _ := newTestEngine(userInChurch("u1", role, "c1"))

			user, err := engine.RequireChurchMember(ctx, "u1", "c1")
			require.NoError(t, err)
			assert.True(t, user.BelongsTo("c1"))
		})

		t.Run(string(role)+"_outsider", func(t *testing.T) {
			engine, store := newTestEngine(userInChurch("u1", role, "other"))

			_, err := engine.RequireChurchMember(ctx, "u1", "c1")
			require.ErrorIs(t, err, core.ErrForbidden)

			entries := store.Entries()
			var denial *audit.Entry
			for i := range entries {
				if entries[i].Result == audit.ResultDenied {
					denial = &entries[i]
				}
			}
			require.NotNil(t, denial)
			assert.Equal(t, ActionChurchAccess, denial.Action)
		})
	}
}

func TestRequireChurchMember_SuperAdminWithoutChurchDenied(t *testing.T) {
	engine, _ := newTestEngine(userWithRole("root", identity.RoleSuperAdmin))

	_, err := engine.RequireChurchMember(context.Background(), "root", "c1")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestRequireChurchPastor(t *testing.T) {
	ctx := context.Background()

	t.Run("pastor of the church", func(t *testing.T) {
		engine, _ := newTestEngine(userInChurch("p1", identity.RolePastor, "c1"))

		_, err := engine.RequireChurchPastor(ctx, "p1", "c1", ActionUpdateChurch)
		require.NoError(t, err)
	})

	t.Run("pastor of another church", func(t *testing.T) {
		engine, _ := newTestEngine(userInChurch("p1", identity.RolePastor, "c2"))

		_, err := engine.RequireChurchPastor(ctx, "p1", "c1", ActionUpdateChurch)
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("member of the church", func(t *testing.T) {
		engine, _ := newTestEngine(userInChurch("m1", identity.RoleMember, "c1"))

		_, err := engine.RequireChurchPastor(ctx, "m1", "c1", ActionUpdateChurch)
		require.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("super_admin without church link", func(t *testing.T) {
		engine, _ := newTestEngine(userWithRole("root", identity.RoleSuperAdmin))

		_, err := engine.RequireChurchPastor(ctx, "root", "c1", ActionUpdateChurch)
		require.NoError(t, err)
	})
}
