// AngelaMos | 2026
// entity.go

package identity

import (
	"time"
)

// Role is an identity's privilege level. Every identity holds exactly one.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleMember     Role = "member"
	RoleSubscriber Role = "subscriber"
	RolePastor     Role = "pastor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var allRoles = []Role{
	RoleGuest,
	RoleMember,
	RoleSubscriber,
	RolePastor,
	RoleAdmin,
	RoleSuperAdmin,
}

func ValidRole(r Role) bool {
	for _, role := range allRoles {
		if r == role {
			return true
		}
	}
	return false
}

func AllRoles() []Role {
	roles := make([]Role, len(allRoles))
	copy(roles, allRoles)
	return roles
}

const (
	TierFree    = "free"
	TierPremium = "premium"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Role         Role       `db:"role"`
	ChurchID     *string    `db:"church_id"`
	Tier         string     `db:"tier"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u *User) IsPastorOrAdmin() bool {
	return u.Role == RolePastor ||
		u.Role == RoleAdmin ||
		u.Role == RoleSuperAdmin
}

// BelongsTo reports whether the user is a member of the given church.
// Role carries no weight here; only the tenant link counts.
func (u *User) BelongsTo(churchID string) bool {
	return u.ChurchID != nil && *u.ChurchID == churchID
}
