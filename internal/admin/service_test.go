// AngelaMos | 2026
// service_test.go

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/authz"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
	"github.com/markustips/biblenotelm-backend/internal/ratelimit"
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

type fakeChurchCounter struct{ total, active int }

func (c *fakeChurchCounter) Count(_ context.Context) (int, int, error) {
	return c.total, c.active, nil
}

type fakeSubCounter struct{ active int }

func (c *fakeSubCounter) CountActive(_ context.Context) (int, error) {
	return c.active, nil
}

type fakeUserDirectory struct {
	users map[string]*identity.User
}

func (d *fakeUserDirectory) List(
	_ context.Context,
	_ identity.ListParams,
) ([]identity.User, int, error) {
	var out []identity.User
	for _, u := range d.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (d *fakeUserDirectory) UpdateRole(
	_ context.Context,
	id string,
	role identity.Role,
) (*identity.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	u.Role = role
	return u, nil
}

func newTestService(
	users map[string]*identity.User,
) (*Service, *audit.MemoryStore) {
	resolver := &stubResolver{users: users}
	store := audit.NewMemoryStore()
	recorder := audit.NewRecorder(store, slog.Default())
	engine := authz.NewEngine(resolver, recorder)
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), slog.Default())

	svc := NewService(ServiceConfig{
		Engine:             engine,
		Recorder:           recorder,
		Limiter:            limiter,
		Users:              &fakeUserDirectory{users: users},
		Churches:           &fakeChurchCounter{total: 5, active: 4},
		Subscriptions:      &fakeSubCounter{active: 7},
		AuditRetention:     365 * 24 * time.Hour,
		RateLimitStaleness: 24 * time.Hour,
	})
	return svc, store
}

func operatorUsers() map[string]*identity.User {
	return map[string]*identity.User{
		"root": {ID: "root", Role: identity.RoleSuperAdmin},
		"pat":  {ID: "pat", Role: identity.RolePastor},
	}
}

func TestPlatformStats_SuperAdminOnly(t *testing.T) {
	svc, _ := newTestService(operatorUsers())

	stats, err := svc.PlatformStats(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalChurches)
	assert.Equal(t, 4, stats.ActiveChurches)
	assert.Equal(t, 7, stats.ActiveSubscriptions)

	_, err = svc.PlatformStats(context.Background(), "pat")
	require.ErrorIs(t, err, core.ErrForbidden)
}

// The role check passes and the privacy partition then refuses: the
// operator can never read tenant content, and both decisions are recorded.
func TestTenantContent_AlwaysDeniedForSuperAdmin(t *testing.T) {
	svc, store := newTestService(operatorUsers())

	categories := []authz.ContentCategory{
		authz.CategoryChurchActivities,
		authz.CategoryMemberData,
		authz.CategorySermonContent,
	}

	for _, category := range categories {
		err := svc.TenantContent(
			context.Background(), "root", "c1", category)
		require.ErrorIs(t, err, core.ErrForbidden, "category %s", category)
	}

	var allows, partitionDenies int
	for _, e := range store.Entries() {
		if e.Action == authz.ActionChurchAccess &&
			e.Result == audit.ResultSuccess {
			allows++
		}
		if e.Action == "PRIVACY_PARTITION" && e.Result == audit.ResultDenied {
			partitionDenies++
		}
	}
	assert.Equal(t, len(categories), allows)
	assert.Equal(t, len(categories), partitionDenies)
}

func TestAuditTrail_RequiresSuperAdmin(t *testing.T) {
	svc, _ := newTestService(operatorUsers())

	_, _, err := svc.AuditTrail(
		context.Background(), "pat", audit.ListParams{})
	require.ErrorIs(t, err, core.ErrForbidden)

	entries, total, err := svc.AuditTrail(
		context.Background(), "root", audit.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, len(entries), total)
}

func TestSetUserRole_Audited(t *testing.T) {
	svc, store := newTestService(operatorUsers())

	user, err := svc.SetUserRole(
		context.Background(), "root", "pat", identity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, user.Role)

	var found bool
	for _, e := range store.Entries() {
		if e.Action == authz.ActionManageUsers &&
			e.ResourceID != nil && *e.ResourceID == "pat" &&
			e.Result == audit.ResultSuccess {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunSweeps(t *testing.T) {
	svc, _ := newTestService(operatorUsers())

	result, err := svc.RunSweeps(context.Background(), "root")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.AuditEntriesRemoved, int64(0))

	_, err = svc.RunSweeps(context.Background(), "pat")
	require.ErrorIs(t, err, core.ErrForbidden)
}
