package dto

import (
	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/fgerdes/buchwerk/internal/utils"
	"github.com/shopspring/decimal"
)

// AccountBalanceResponse carries both representations of a balance: the exact
// minor-unit integer the engine works with and the major-unit decimal view.
type AccountBalanceResponse struct {
	AccountID        string          `json:"accountID"`
	AccountCode      string          `json:"accountCode"`
	AccountType      string          `json:"accountType"`
	BalanceCent      int64           `json:"balanceCent"`
	Balance          decimal.Decimal `json:"balance"`
	BalanceFormatted string          `json:"balanceFormatted"` // Fixed two fractional digits
}

// TrialBalanceRowResponse is one account row of the trial balance report.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse is the full report with control totals. For a healthy
// ledger TotalDebit always equals TotalCredit.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// ToAccountBalanceResponse converts a domain balance to its response DTO.
func ToAccountBalanceResponse(b *domain.AccountBalance) AccountBalanceResponse {
	return AccountBalanceResponse{
		AccountID:        b.AccountID,
		AccountCode:      b.AccountCode,
		AccountType:      string(b.AccountType),
		BalanceCent:      b.BalanceCent,
		Balance:          b.Balance,
		BalanceFormatted: utils.FormatCents(b.BalanceCent),
	}
}

// ToTrialBalanceResponse converts report rows to the response DTO, summing
// the control totals.
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		Rows:        make([]TrialBalanceRowResponse, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for i, row := range rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
		resp.TotalDebit = resp.TotalDebit.Add(row.Debit)
		resp.TotalCredit = resp.TotalCredit.Add(row.Credit)
	}
	return resp
}
