package dto

import (
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// CreateTenantRequest is the payload for creating a tenant.
type CreateTenantRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddUserToTenantRequest is the payload for adding a member to a tenant.
type AddUserToTenantRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// TenantResponse defines the data returned for a tenant.
type TenantResponse struct {
	TenantID    string    `json:"tenantID"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToTenantResponse converts a domain tenant to its response DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:    t.TenantID,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}
