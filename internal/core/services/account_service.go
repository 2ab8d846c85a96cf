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

// ErrAccountInUse is returned when deactivation is attempted on an account
// referenced by lines of locked journal entries.
var ErrAccountInUse = fmt.Errorf("%w: account is referenced by locked journal entries", apperrors.ErrConflict)

// accountService manages the tenant's chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithTenantAuthorizer sets the tenant authorizer for the account service.
func WithTenantAuthorizer(authorizer portssvc.TenantAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.TenantAuthorizer = authorizer
	}
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: accountRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount adds an account to the tenant's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	// The code is the tenant-unique handle; refuse duplicates up front so the
	// caller gets a clear error instead of a constraint violation.
	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing account code", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists in tenant", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      tenantID,
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   domain.AccountType(req.AccountType),
		DefaultTaxKey: req.DefaultTaxKey,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
}

// GetAccountByCode retrieves an account by its SKR03 code.
func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByCode(ctx, tenantID, code)
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string, userID string) (map[string]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

// ListAccounts retrieves a page of the tenant's accounts.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit, offset int, userID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
}

// DeactivateAccount marks an account inactive. An account referenced by lines
// of locked entries stays active forever: deactivating it would orphan the
// audit trail behind the balances.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		return err
	}

	inUse, err := s.accountRepo.HasLockedLines(ctx, tenantID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check account line references", slog.String("account_id", accountID))
		return fmt.Errorf("failed to check account references: %w", err)
	}
	if inUse {
		return ErrAccountInUse
	}

	if err := s.accountRepo.DeactivateAccount(ctx, tenantID, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
