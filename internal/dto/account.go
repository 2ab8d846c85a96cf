package dto

import (
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// CreateAccountRequest is the payload for adding an account to the chart of
// accounts. Code must be a valid SKR03 account number (validated by the
// custom `skr03code` binding rule).
type CreateAccountRequest struct {
	Code          string  `json:"code" binding:"required,skr03code"`
	Name          string  `json:"name" binding:"required"`
	AccountType   string  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	DefaultTaxKey *string `json:"defaultTaxKey"`
	Description   string  `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	DefaultTaxKey *string   `json:"defaultTaxKey,omitempty"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   string(acc.AccountType),
		DefaultTaxKey: acc.DefaultTaxKey,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts to response DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
