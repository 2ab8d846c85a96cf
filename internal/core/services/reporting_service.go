package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
)

// reportingService serves derived, read-only projections over the ledger.
// Only lines of locked entries contribute; drafts are invisible to reporting.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountSvc    portssvc.AccountSvcFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountSvc portssvc.AccountSvcFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.ReportingSvcFacade {
	return &reportingService{
		BaseService:   BaseService{TenantAuthorizer: tenantSvc},
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// AccountBalance returns the signed running balance of one account in minor
// units, following the account-type sign convention.
func (s *reportingService) AccountBalance(ctx context.Context, tenantID, accountID, userID string) (*domain.AccountBalance, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID, userID); err != nil {
		return nil, err
	}

	balance, err := s.reportingRepo.GetAccountBalance(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to compute account balance", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	return balance, nil
}

// TrialBalance returns per-account gross debit/credit totals over locked
// entries with booking_date <= asOf. A balanced ledger yields equal debit and
// credit grand totals; the handler exposes both as control sums.
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time, userID string) ([]domain.TrialBalanceRow, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute trial balance", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}

	return rows, nil
}
