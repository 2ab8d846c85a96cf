package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	"github.com/fgerdes/buchwerk/internal/utils"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting projections.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetAccountBalance folds the signed balance of one account over all lines of
// locked entries. DEBIT increases ASSET and EXPENSE accounts and decreases
// the rest; CREDIT works the other way. Lines are joined through a derived
// table restricted to locked entries, so draft lines never enter the sum and
// an account without locked lines still returns a zero-balance row.
func (r *PgxReportingRepository) GetAccountBalance(ctx context.Context, tenantID, accountID string) (*domain.AccountBalance, error) {
	query := `
		SELECT a.account_id, a.code, a.account_type,
		       COALESCE(SUM(
		           CASE
		               WHEN a.account_type IN ('ASSET', 'EXPENSE') THEN
		                   CASE WHEN pl.side = 'DEBIT' THEN pl.amount_cents ELSE -pl.amount_cents END
		               ELSE
		                   CASE WHEN pl.side = 'CREDIT' THEN pl.amount_cents ELSE -pl.amount_cents END
		           END
		       ), 0) AS balance_cents
		FROM accounts a
		LEFT JOIN (
		    SELECT l.account_id, l.side, l.amount_cents
		    FROM journal_entry_lines l
		    JOIN journal_entries e ON e.entry_id = l.entry_id
		    WHERE e.locked_at IS NOT NULL
		) pl ON pl.account_id = a.account_id
		WHERE a.account_id = $1 AND a.tenant_id = $2
		GROUP BY a.account_id, a.code, a.account_type;
	`
	var balance domain.AccountBalance
	err := r.Pool.QueryRow(ctx, query, accountID, tenantID).Scan(
		&balance.AccountID,
		&balance.AccountCode,
		&balance.AccountType,
		&balance.BalanceCent,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to compute balance for account "+accountID, err)
	}

	balance.Balance = utils.CentsToDecimal(balance.BalanceCent)
	return &balance, nil
}

// GetTrialBalanceData retrieves per-account gross debit and credit totals
// over lines of locked entries with booking_date <= asOf, ordered by account
// code. Accounts without activity in the period are omitted.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(CASE WHEN l.side = 'DEBIT' THEN l.amount_cents ELSE 0 END), 0) AS debit_cents,
		       COALESCE(SUM(CASE WHEN l.side = 'CREDIT' THEN l.amount_cents ELSE 0 END), 0) AS credit_cents
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.tenant_id = $1 AND e.locked_at IS NOT NULL AND e.booking_date <= $2
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance for tenant "+tenantID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		scanErr := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.DebitTotal,
			&row.CreditTotal,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row for tenant "+tenantID, scanErr)
		}
		row.Debit = utils.CentsToDecimal(row.DebitTotal)
		row.Credit = utils.CentsToDecimal(row.CreditTotal)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows for tenant "+tenantID, err)
	}
	return result, nil
}
