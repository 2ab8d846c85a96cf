package repositories

import (
	"context"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// TenantRepositoryFacade defines persistence operations for tenants and
// their user memberships.
type TenantRepositoryFacade interface {
	// SaveTenant persists a new tenant.
	SaveTenant(ctx context.Context, tenant domain.Tenant) error

	// FindTenantByID retrieves a specific tenant.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// AddUserToTenant persists a user membership.
	AddUserToTenant(ctx context.Context, membership domain.UserTenant) error

	// FindUserTenantRole retrieves the membership of a user in a tenant.
	FindUserTenantRole(ctx context.Context, userID, tenantID string) (*domain.UserTenant, error)
}
