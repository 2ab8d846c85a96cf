package accounting

import (
	"fmt"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// SignedAmount applies the fixed sign convention to a line amount based on the
// account type. The balance projection SQL in the reporting repository mirrors
// this convention; its repository test folds expected balances through this
// function so the two cannot drift apart silently.
//
// Convention:
//
//	DEBIT to ASSET/EXPENSE          -> positive (+)
//	CREDIT to ASSET/EXPENSE         -> negative (-)
//	DEBIT to LIABILITY/EQUITY/REVENUE  -> negative (-)
//	CREDIT to LIABILITY/EQUITY/REVENUE -> positive (+)
func SignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (int64, error) {
	signed := line.Amount
	isDebit := line.Side == domain.Debit

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signed = -signed
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if isDebit {
			signed = -signed
		}
	default:
		return 0, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signed, nil
}

// SumSides computes the debit and credit sums of a line set in minor units.
func SumSides(lines []domain.JournalEntryLine) (debitSum, creditSum int64) {
	for _, line := range lines {
		if line.Side == domain.Debit {
			debitSum += line.Amount
		} else {
			creditSum += line.Amount
		}
	}
	return debitSum, creditSum
}

// ValidateBalanced checks the double-entry invariant: every line amount is
// positive and the debit sum equals the credit sum. The comparison is integer
// arithmetic in minor units throughout.
func ValidateBalanced(lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: journal entry must have at least one line", apperrors.ErrValidation)
	}

	for _, line := range lines {
		if line.Amount <= 0 {
			return fmt.Errorf("%w: line amount must be positive for account %s", apperrors.ErrValidation, line.AccountID)
		}
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return fmt.Errorf("%w: line side must be DEBIT or CREDIT for account %s", apperrors.ErrValidation, line.AccountID)
		}
	}

	debitSum, creditSum := SumSides(lines)
	if debitSum != creditSum {
		return &apperrors.UnbalancedEntryError{DebitSum: debitSum, CreditSum: creditSum}
	}
	return nil
}

// MirrorLines builds the reversal line set for an original: same account,
// amount and tax fields, side flipped. Identity and audit fields are left
// zero for the caller to assign.
func MirrorLines(original []domain.JournalEntryLine) []domain.JournalEntryLine {
	mirrored := make([]domain.JournalEntryLine, len(original))
	for i, line := range original {
		mirrored[i] = domain.JournalEntryLine{
			AccountID: line.AccountID,
			Side:      line.Side.Flip(),
			Amount:    line.Amount,
			TaxKey:    line.TaxKey,
			TaxAmount: line.TaxAmount,
		}
	}
	return mirrored
}
