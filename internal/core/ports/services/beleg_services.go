package services

import (
	"context"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// BelegSvcFacade defines the source-document collaborator surface. The
// engine-facing status flip happens in-transaction through the repository;
// this facade only covers the thin CRUD the HTTP layer needs.
type BelegSvcFacade interface {
	// CreateBeleg persists a new DRAFT Beleg.
	CreateBeleg(ctx context.Context, tenantID string, req dto.CreateBelegRequest, userID string) (*domain.Beleg, error)

	// GetBelegByID retrieves a specific Beleg.
	GetBelegByID(ctx context.Context, tenantID, belegID, userID string) (*domain.Beleg, error)
}
