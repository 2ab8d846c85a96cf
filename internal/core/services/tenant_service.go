package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// tenantService provides tenant lifecycle and membership operations. It is
// also the authorization gate the other services consult before touching
// tenant-scoped data.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant persists a new tenant and bootstraps the creator as OWNER.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	now := time.Now().UTC()
	tenant := domain.Tenant{
		TenantID:    uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant); err != nil {
		s.LogError(ctx, err, "Failed to save tenant")
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	membership := domain.UserTenant{
		UserID:   creatorUserID,
		TenantID: tenant.TenantID,
		Role:     domain.RoleOwner,
		JoinedAt: now,
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add creator as tenant owner", slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to add creator membership: %w", err)
	}

	s.LogInfo(ctx, "Tenant created successfully", slog.String("tenant_id", tenant.TenantID))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant the requesting user is a member of.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID, userID string) (*domain.Tenant, error) {
	if err := s.AuthorizeUserAction(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return tenant, nil
}

// AddUserToTenant adds a membership; the adding user must be ADMIN or above.
func (s *tenantService) AddUserToTenant(ctx context.Context, tenantID string, req dto.AddUserToTenantRequest, addingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, tenantID, domain.RoleAdmin); err != nil {
		s.LogWarn(ctx, "User not authorized to add members to tenant",
			slog.String("adding_user_id", addingUserID),
			slog.String("tenant_id", tenantID))
		return err
	}

	membership := domain.UserTenant{
		UserID:   req.UserID,
		TenantID: tenantID,
		Role:     domain.UserTenantRole(req.Role),
		JoinedAt: time.Now().UTC(),
	}
	if err := s.tenantRepo.AddUserToTenant(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to tenant",
			slog.String("target_user_id", req.UserID),
			slog.String("tenant_id", tenantID))
		return err
	}

	s.LogInfo(ctx, "User added to tenant successfully",
		slog.String("target_user_id", req.UserID),
		slog.String("tenant_id", tenantID),
		slog.String("role", req.Role))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for a tenant.
func (s *tenantService) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.UserTenantRole) error {
	membership, err := s.tenantRepo.FindUserTenantRole(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of tenant",
				slog.String("user_id", userID),
				slog.String("tenant_id", tenantID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user tenant role",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return err
	}

	if membership.Role == domain.RoleRemoved || !membership.Role.HasAtLeast(requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}
