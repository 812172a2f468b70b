// AngelaMos | 2026
// privacy_test.go

package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

var allCategories = []ContentCategory{
	CategoryChurchActivities,
	CategoryMemberData,
	CategorySermonContent,
}

func TestEnforceNoTenantAccess_BlocksSuperAdmin(t *testing.T) {
	engine, store := newTestEngine()
	root := userWithRole("root", identity.RoleSuperAdmin)

	for _, category := range allCategories {
		t.Run(string(category), func(t *testing.T) {
			err := engine.EnforceNoTenantAccess(
				context.Background(),
				root,
				category,
			)
			require.ErrorIs(t, err, core.ErrForbidden)
		})
	}

	entries := store.Entries()
	require.Len(t, entries, len(allCategories))
	for _, entry := range entries {
		assert.Equal(t, "PRIVACY_PARTITION", entry.Action)
		assert.Equal(t, audit.ResultDenied, entry.Result)
	}
}

func TestEnforceNoTenantAccess_NoOpForOtherRoles(t *testing.T) {
	engine, store := newTestEngine()

	for _, role := range identity.AllRoles() {
		if role == identity.RoleSuperAdmin {
			continue
		}

		for _, category := range allCategories {
			err := engine.EnforceNoTenantAccess(
				context.Background(),
				userWithRole("u1", role),
				category,
			)
			require.NoError(t, err)
		}
	}

	assert.Empty(t, store.Entries())
}

// A super_admin passes the role gate on tenant-content endpoints and is
// then immediately re-denied by the partition. The net result is a denial.
func TestSuperAdminTenantContentPath(t *testing.T) {
	engine, _ := newTestEngine(userWithRole("root", identity.RoleSuperAdmin))
	ctx := context.Background()

	user, err := engine.RequireSuperAdmin(ctx, "root", ActionViewSystemStats)
	require.NoError(t, err)

	err = engine.EnforceNoTenantAccess(ctx, user, CategoryChurchActivities)
	require.ErrorIs(t, err, core.ErrForbidden)
}
