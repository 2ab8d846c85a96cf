package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// belegService is the thin source-document collaborator. The booking engine
// flips Beleg status in-transaction through the repository; this service only
// covers registration and lookup.
type belegService struct {
	BaseService
	belegRepo portsrepo.BelegRepositoryFacade
}

// BelegServiceOption is a functional option for configuring the beleg service
type BelegServiceOption func(*belegService)

// WithBelegTenantAuthorizer sets the tenant authorizer for the beleg service.
func WithBelegTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) BelegServiceOption {
	return func(s *belegService) {
		s.TenantAuthorizer = authorizer
	}
}

// NewBelegService creates a new BelegService.
func NewBelegService(belegRepo portsrepo.BelegRepositoryFacade, options ...BelegServiceOption) portssvc.BelegSvcFacade {
	svc := &belegService{belegRepo: belegRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BelegSvcFacade = (*belegService)(nil)

// CreateBeleg persists a new DRAFT Beleg.
func (s *belegService) CreateBeleg(ctx context.Context, tenantID string, req dto.CreateBelegRequest, userID string) (*domain.Beleg, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	beleg := domain.Beleg{
		BelegID:   uuid.NewString(),
		TenantID:  tenantID,
		Number:    req.Number,
		Subject:   req.Subject,
		BelegDate: req.BelegDate,
		Status:    domain.BelegDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.belegRepo.SaveBeleg(ctx, beleg); err != nil {
		s.LogError(ctx, err, "Failed to save beleg", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save beleg: %w", err)
	}

	s.LogInfo(ctx, "Beleg created successfully", slog.String("beleg_id", beleg.BelegID))
	return &beleg, nil
}

// GetBelegByID retrieves a specific Beleg.
func (s *belegService) GetBelegByID(ctx context.Context, tenantID, belegID, userID string) (*domain.Beleg, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.belegRepo.FindBelegByID(ctx, tenantID, belegID)
}
