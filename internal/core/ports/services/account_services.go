package services

import (
	"context"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// AccountSvcFacade defines the account registry operations.
type AccountSvcFacade interface {
	// CreateAccount adds an account to the tenant's chart of accounts.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID retrieves a specific account.
	GetAccountByID(ctx context.Context, tenantID, accountID, userID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its SKR03 code.
	GetAccountByCode(ctx context.Context, tenantID, code, userID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID. Used by the
	// booking engine to validate line references.
	GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string, userID string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of the tenant's accounts.
	ListAccounts(ctx context.Context, tenantID string, limit, offset int, userID string) ([]domain.Account, error)

	// DeactivateAccount marks an account inactive. Accounts referenced by
	// locked journal entry lines are refused.
	DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error
}
