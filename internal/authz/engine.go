// AngelaMos | 2026
// engine.go

package authz

import (
	"context"
	"fmt"

	"github.com/markustips/biblenotelm-backend/internal/audit"
	"github.com/markustips/biblenotelm-backend/internal/core"
	"github.com/markustips/biblenotelm-backend/internal/identity"
)

// Resolver loads an identity snapshot by id.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*identity.User, error)
}

// Engine evaluates role policy. Every decision, allow or deny, produces
// exactly one audit entry before the result is returned.
type Engine struct {
	resolver Resolver
	recorder *audit.Recorder
}

func NewEngine(resolver Resolver, recorder *audit.Recorder) *Engine {
	return &Engine{resolver: resolver, recorder: recorder}
}

// Authorize resolves the identity and checks its role against the allowed
// set. The resolved identity is returned on success so callers do not need
// a second lookup.
func (e *Engine) Authorize(
	ctx context.Context,
	identityID string,
	allowed RoleSet,
	action string,
) (*identity.User, error) {
	if identityID == "" {
		return nil, fmt.Errorf("authorize %s: %w", action, core.ErrUnauthorized)
	}

	user, err := e.resolver.Resolve(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("authorize %s: %w", action, err)
	}

	if !allowed.Contains(user.Role) {
		e.recorder.Record(ctx, audit.Entry{
			IdentityID:         identityID,
			Action:             action,
			ResourceCollection: "authorization",
			Result:             audit.ResultDenied,
			Metadata: []audit.Field{
				{Key: "user_role", Value: string(user.Role)},
				{Key: "required_roles", Value: allowed.String()},
			},
		})
		core.RecordAuthzDecision(action, "deny")

		return nil, fmt.Errorf(
			"authorize %s: role %s not in allowed set: %w",
			action, user.Role, core.ErrForbidden,
		)
	}

	e.recorder.Record(ctx, audit.Entry{
		IdentityID:         identityID,
		Action:             action,
		ResourceCollection: "authorization",
		Result:             audit.ResultSuccess,
		Metadata: []audit.Field{
			{Key: "user_role", Value: string(user.Role)},
		},
	})
	core.RecordAuthzDecision(action, "allow")

	return user, nil
}

// AuthorizeAction is Authorize with the allowed set taken from the policy
// table, so handlers never hand-roll role sets.
func (e *Engine) AuthorizeAction(
	ctx context.Context,
	identityID, action string,
) (*identity.User, error) {
	return e.Authorize(ctx, identityID, AllowedRoles(action), action)
}

func (e *Engine) RequireSuperAdmin(
	ctx context.Context,
	identityID, action string,
) (*identity.User, error) {
	return e.Authorize(ctx, identityID, SuperAdminOnly, action)
}

func (e *Engine) RequirePastorOrAdmin(
	ctx context.Context,
	identityID, action string,
) (*identity.User, error) {
	return e.Authorize(ctx, identityID, PastorOrAdmin, action)
}

// RequireChurchMember grants access only when the identity belongs to the
// given church. Role carries no weight: a super_admin without that church
// link is denied like anyone else. That asymmetry is the privacy model,
// not an oversight.
func (e *Engine) RequireChurchMember(
	ctx context.Context,
	identityID, churchID string,
) (*identity.User, error) {
	user, err := e.Authorize(ctx, identityID, AnyRole, ActionChurchAccess)
	if err != nil {
		return nil, err
	}

	if !user.BelongsTo(churchID) {
		e.recorder.Record(ctx, audit.Entry{
			IdentityID:         identityID,
			Action:             ActionChurchAccess,
			ResourceCollection: "churches",
			ResourceID:         &churchID,
			Result:             audit.ResultDenied,
			Metadata: []audit.Field{
				{Key: "user_role", Value: string(user.Role)},
				{Key: "reason", Value: "not_a_member"},
			},
		})
		core.RecordAuthzDecision(ActionChurchAccess, "deny")

		return nil, fmt.Errorf(
			"church access: identity not a member of church %s: %w",
			churchID, core.ErrForbidden,
		)
	}

	return user, nil
}

// RequireChurchPastor grants pastors and admins of the given church, and
// super_admins regardless of tenant link.
func (e *Engine) RequireChurchPastor(
	ctx context.Context,
	identityID, churchID, action string,
) (*identity.User, error) {
	user, err := e.Authorize(ctx, identityID, PastorOrAdmin, action)
	if err != nil {
		return nil, err
	}

	if user.IsSuperAdmin() || user.BelongsTo(churchID) {
		return user, nil
	}

	e.recorder.Record(ctx, audit.Entry{
		IdentityID:         identityID,
		Action:             action,
		ResourceCollection: "churches",
		ResourceID:         &churchID,
		Result:             audit.ResultDenied,
		Metadata: []audit.Field{
			{Key: "user_role", Value: string(user.Role)},
			{Key: "reason", Value: "wrong_church"},
		},
	})
	core.RecordAuthzDecision(action, "deny")

	return nil, fmt.Errorf(
		"%s: pastor of another church: %w",
		action, core.ErrForbidden,
	)
}
