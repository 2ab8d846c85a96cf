package repositories

import (
	"context"
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its SKR03 code within a tenant.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)

	// HasLockedLines reports whether the account is referenced by lines of
	// locked journal entries. Such accounts must not be deactivated.
	HasLockedLines(ctx context.Context, tenantID, accountID string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, tenantID, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
