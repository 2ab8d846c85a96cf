package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, default_tax_key, description, is_active,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount persists a new account. A unique index on (tenant_id, code)
// backs the duplicate check.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (
			account_id, tenant_id, code, name, account_type, default_tax_key, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.TenantID,
		account.Code,
		account.Name,
		account.AccountType,
		account.DefaultTaxKey,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewAppError(409, "account code "+account.Code+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert account "+account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its unique identifier within a tenant.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1 AND tenant_id = $2;
	`
	return r.scanAccountRow(r.Pool.QueryRow(ctx, query, accountID, tenantID), accountID)
}

// FindAccountByCode retrieves an account by its SKR03 code within a tenant.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE code = $1 AND tenant_id = $2;
	`
	return r.scanAccountRow(r.Pool.QueryRow(ctx, query, code, tenantID), code)
}

func (r *PgxAccountRepository) scanAccountRow(row pgx.Row, key string) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.AccountID,
		&account.TenantID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.DefaultTaxKey,
		&account.Description,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+key, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs, keyed by ID.
// Missing accounts are simply absent from the map; callers decide whether
// that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1) AND tenant_id = $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var account domain.Account
		scanErr := rows.Scan(
			&account.AccountID,
			&account.TenantID,
			&account.Code,
			&account.Name,
			&account.AccountType,
			&account.DefaultTaxKey,
			&account.Description,
			&account.IsActive,
			&account.CreatedAt,
			&account.CreatedBy,
			&account.LastUpdatedAt,
			&account.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", scanErr)
		}
		accounts[account.AccountID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts for a tenant, ordered
// by code so the chart of accounts reads in SKR03 order.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		scanErr := rows.Scan(
			&account.AccountID,
			&account.TenantID,
			&account.Code,
			&account.Name,
			&account.AccountType,
			&account.DefaultTaxKey,
			&account.Description,
			&account.IsActive,
			&account.CreatedAt,
			&account.CreatedBy,
			&account.LastUpdatedAt,
			&account.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row for tenant "+tenantID, scanErr)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for tenant "+tenantID, err)
	}
	return accounts, nil
}

// HasLockedLines reports whether the account is referenced by lines of locked
// journal entries.
func (r *PgxAccountRepository) HasLockedLines(ctx context.Context, tenantID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_entry_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id
			WHERE l.account_id = $1 AND e.tenant_id = $2 AND e.locked_at IS NOT NULL
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, accountID, tenantID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check locked lines for account "+accountID, err)
	}
	return exists, nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, tenantID, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1 AND tenant_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, tenantID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for deactivation")
	}
	return nil
}
