package services

import (
	"context"
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// ReportingSvcFacade defines the derived read paths over the posted ledger.
type ReportingSvcFacade interface {
	// AccountBalance returns the signed running balance of one account.
	AccountBalance(ctx context.Context, tenantID, accountID, userID string) (*domain.AccountBalance, error)

	// TrialBalance returns per-account debit/credit totals as of a date.
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time, userID string) ([]domain.TrialBalanceRow, error)
}
