package services

import (
	"context"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// TenantAuthorizerSvc is the authorization gate every tenant-scoped service
// call passes through.
type TenantAuthorizerSvc interface {
	// AuthorizeUserAction checks that the user is a member of the tenant with
	// at least the required role. Non-members get ErrForbidden.
	AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.UserTenantRole) error
}

// TenantSvcFacade defines tenant lifecycle and membership operations.
type TenantSvcFacade interface {
	TenantAuthorizerSvc

	// CreateTenant persists a new tenant and makes the creator its OWNER.
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)

	// GetTenantByID retrieves a tenant the user is a member of.
	GetTenantByID(ctx context.Context, tenantID, userID string) (*domain.Tenant, error)

	// AddUserToTenant adds a membership; requires ADMIN on the tenant.
	AddUserToTenant(ctx context.Context, tenantID string, req dto.AddUserToTenantRequest, addingUserID string) error
}
