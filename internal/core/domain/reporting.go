package domain

import "github.com/shopspring/decimal"

// TrialBalanceRow represents a single row in a trial balance report.
// DebitTotal/CreditTotal are gross sums over lines of locked entries in minor
// units; Debit/Credit carry the same values in major units for presentation.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	DebitTotal  int64           `json:"debitTotal"`
	CreditTotal int64           `json:"creditTotal"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AccountBalance is the signed running balance of one account folded over all
// lines of locked entries, per the sign convention in utils/accounting.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountType AccountType     `json:"accountType"`
	BalanceCent int64           `json:"balanceCent"` // Signed, minor units
	Balance     decimal.Decimal `json:"balance"`     // Signed, major units
}
