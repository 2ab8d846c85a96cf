package domain

import "time"

// Tenant represents an isolated environment containing accounts, belege and
// journal entries. Every repository read and write is scoped to one tenant.
type Tenant struct {
	TenantID    string `json:"tenantID"` // Primary key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// UserTenantRole defines the possible roles a user can have within a tenant.
type UserTenantRole string

const (
	RoleOwner    UserTenantRole = "OWNER"
	RoleAdmin    UserTenantRole = "ADMIN"
	RoleMember   UserTenantRole = "MEMBER"
	RoleReadOnly UserTenantRole = "READONLY"
	RoleRemoved  UserTenantRole = "REMOVED"
)

// UserTenant represents the membership of a user in a tenant.
type UserTenant struct {
	UserID   string         `json:"userID"`
	TenantID string         `json:"tenantID"`
	Role     UserTenantRole `json:"role"`
	JoinedAt time.Time      `json:"joinedAt"`
}

// roleRank orders roles for privilege comparison. REMOVED outranks nothing.
var roleRank = map[UserTenantRole]int{
	RoleReadOnly: 1,
	RoleMember:   2,
	RoleAdmin:    3,
	RoleOwner:    4,
}

// HasAtLeast reports whether the role grants the privileges of required.
func (r UserTenantRole) HasAtLeast(required UserTenantRole) bool {
	return roleRank[r] >= roleRank[required] && roleRank[r] > 0
}
