// AngelaMos | 2026
// roles.go

package authz

import (
	"sort"
	"strings"

	"github.com/markustips/biblenotelm-backend/internal/identity"
)

// RoleSet is the set of roles an action accepts.
type RoleSet map[identity.Role]struct{}

func NewRoleSet(roles ...identity.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role identity.Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for role := range s {
		names = append(names, string(role))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Common role sets used across handlers.
var (
	SuperAdminOnly = NewRoleSet(identity.RoleSuperAdmin)

	PastorOrAdmin = NewRoleSet(
		identity.RolePastor,
		identity.RoleAdmin,
		identity.RoleSuperAdmin,
	)

	AnyRole = NewRoleSet(identity.AllRoles()...)
)

// Actions audited by the policy engine and consulted in the policy table.
const (
	ActionChurchAccess = "CHURCH_ACCESS"

	ActionCreateChurch     = "create_church"
	ActionJoinChurch       = "join_church"
	ActionLeaveChurch      = "leave_church"
	ActionUpdateChurch     = "update_church"
	ActionDeactivateChurch = "deactivate_church"
	ActionListMembers      = "list_members"

	ActionCreateAnnouncement = "create_announcement"
	ActionUpdateAnnouncement = "update_announcement"
	ActionDeleteAnnouncement = "delete_announcement"
	ActionListAnnouncements  = "list_announcements"

	ActionCreateEvent = "create_event"
	ActionUpdateEvent = "update_event"
	ActionDeleteEvent = "delete_event"
	ActionListEvents  = "list_events"
	ActionRSVPEvent   = "rsvp_event"

	ActionCreatePrayer = "create_prayer"
	ActionDeletePrayer = "delete_prayer"
	ActionListPrayers  = "list_prayers"
	ActionPrayForEntry = "pray_for_entry"

	ActionManageVerses = "manage_verses"
	ActionReadVerse    = "read_verse"

	ActionUpgradeSubscription = "upgrade_subscription"
	ActionCancelSubscription  = "cancel_subscription"

	ActionViewSystemStats = "view_system_stats"
	ActionViewAuditTrail  = "view_audit_trail"
	ActionRunSweep        = "run_sweep"
	ActionManageUsers     = "manage_users"
)

// policyTable is the single source of truth for which roles may perform
// which action. Tenant-membership checks are layered separately; this table
// only answers role sufficiency.
var policyTable = map[string]RoleSet{
	ActionCreateChurch:     PastorOrAdmin,
	ActionJoinChurch:       AnyRole,
	ActionLeaveChurch:      AnyRole,
	ActionUpdateChurch:     PastorOrAdmin,
	ActionDeactivateChurch: PastorOrAdmin,
	ActionListMembers:      AnyRole,

	ActionCreateAnnouncement: PastorOrAdmin,
	ActionUpdateAnnouncement: PastorOrAdmin,
	ActionDeleteAnnouncement: PastorOrAdmin,
	ActionListAnnouncements:  AnyRole,

	ActionCreateEvent: PastorOrAdmin,
	ActionUpdateEvent: PastorOrAdmin,
	ActionDeleteEvent: PastorOrAdmin,
	ActionListEvents:  AnyRole,
	ActionRSVPEvent:   AnyRole,

	ActionCreatePrayer: AnyRole,
	ActionDeletePrayer: AnyRole,
	ActionListPrayers:  AnyRole,
	ActionPrayForEntry: AnyRole,

	ActionManageVerses: PastorOrAdmin,
	ActionReadVerse:    AnyRole,

	ActionUpgradeSubscription: AnyRole,
	ActionCancelSubscription:  AnyRole,

	ActionViewSystemStats: SuperAdminOnly,
	ActionViewAuditTrail:  SuperAdminOnly,
	ActionRunSweep:        SuperAdminOnly,
	ActionManageUsers:     SuperAdminOnly,
}

// AllowedRoles looks an action up in the policy table. Unknown actions get
// an empty set, which denies everyone.
func AllowedRoles(action string) RoleSet {
	if set, ok := policyTable[action]; ok {
		return set
	}
	return RoleSet{}
}
