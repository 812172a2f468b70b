// AngelaMos | 2026
// privacy.go

package authz

import (
	"context"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

// ContentCategory names a class of tenant-scoped content that the privacy
// partition walls off from platform operators.
type ContentCategory string

const (
	CategoryChurchActivities ContentCategory = "church_activities"
	CategoryMemberData       ContentCategory = "member_data"
	CategorySermonContent    ContentCategory = "sermon_content"
)

// EnforceNoTenantAccess denies super_admins access to tenant content in the
// given category, regardless of any role check that already passed. It is
// invoked right after RequireSuperAdmin on tenant-content paths, so its whole
// purpose is to re-deny the one role that just got through. Aggregate,
// anonymized statistics endpoints must not call it.
func (e *Engine) EnforceNoTenantAccess(
	ctx context.Context,
	user *identity.User,
	category ContentCategory,
) error {
	if user.Role != identity.RoleSuperAdmin {
		return nil
	}

	e.recorder.Record(ctx, audit.Entry{
		IdentityID:         user.ID,
		Action:             "PRIVACY_PARTITION",
		ResourceCollection: string(category),
		Result:             audit.ResultDenied,
		Metadata: []audit.Field{
			{Key: "user_role", Value: string(user.Role)},
			{Key: "category", Value: string(category)},
		},
	})
	core.RecordAuthzDecision("PRIVACY_PARTITION", "deny")

	return fmt.Errorf(
		"privacy partition: super_admin may not read %s: %w",
		category, core.ErrForbidden,
	)
}
