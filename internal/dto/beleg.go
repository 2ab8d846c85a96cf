package dto

import (
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// CreateBelegRequest is the payload for registering a source document.
type CreateBelegRequest struct {
	Number    string    `json:"number" binding:"required"`
	Subject   string    `json:"subject"`
	BelegDate time.Time `json:"belegDate" binding:"required"`
}

// BelegResponse defines the data returned for a Beleg.
type BelegResponse struct {
	BelegID   string    `json:"belegID"`
	Number    string    `json:"number"`
	Subject   string    `json:"subject,omitempty"`
	BelegDate time.Time `json:"belegDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToBelegResponse converts a domain Beleg to its response DTO.
func ToBelegResponse(b *domain.Beleg) BelegResponse {
	return BelegResponse{
		BelegID:   b.BelegID,
		Number:    b.Number,
		Subject:   b.Subject,
		BelegDate: b.BelegDate,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}
