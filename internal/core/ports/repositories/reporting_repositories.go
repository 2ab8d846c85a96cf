package repositories

import (
	"context"
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// ReportingRepository defines the read-only projections folded over lines of
// locked journal entries. The queries never special-case cancelled entries: a
// cancelled original stays counted and is neutralized by its posted reversal.
type ReportingRepository interface {
	// GetAccountBalance computes the signed balance of one account in minor
	// units, per the sign convention in utils/accounting.
	GetAccountBalance(ctx context.Context, tenantID, accountID string) (*domain.AccountBalance, error)

	// GetTrialBalanceData retrieves per-account gross debit/credit totals for
	// entries with booking_date <= asOf.
	GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
