package accounting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
)

func line(accountID string, side domain.LineSide, amount int64) domain.JournalEntryLine {
	return domain.JournalEntryLine{AccountID: accountID, Side: side, Amount: amount}
}

func TestSignedAmount(t *testing.T) {
	testCases := []struct {
		name        string
		side        domain.LineSide
		accountType domain.AccountType
		amount      int64
		expected    int64
	}{
		{"debit increases asset", domain.Debit, domain.Asset, 5000, 5000},
		{"credit decreases asset", domain.Credit, domain.Asset, 5000, -5000},
		{"debit increases expense", domain.Debit, domain.Expense, 1234, 1234},
		{"credit decreases expense", domain.Credit, domain.Expense, 1234, -1234},
		{"credit increases liability", domain.Credit, domain.Liability, 9900, 9900},
		{"debit decreases liability", domain.Debit, domain.Liability, 9900, -9900},
		{"credit increases equity", domain.Credit, domain.Equity, 100000, 100000},
		{"debit decreases equity", domain.Debit, domain.Equity, 100000, -100000},
		{"credit increases revenue", domain.Credit, domain.Revenue, 4200, 4200},
		{"debit decreases revenue", domain.Debit, domain.Revenue, 4200, -4200},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := SignedAmount(line("acc-1", tc.side, tc.amount), tc.accountType)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, signed)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := SignedAmount(line("acc-1", domain.Debit, 100), domain.AccountType("WEIRD"))
	assert.Error(t, err)
}

func TestValidateBalanced(t *testing.T) {
	balanced := []domain.JournalEntryLine{
		line("bank", domain.Debit, 11900),
		line("revenue", domain.Credit, 10000),
		line("vat", domain.Credit, 1900),
	}
	assert.NoError(t, ValidateBalanced(balanced))
}

func TestValidateBalanced_ReportsBothSums(t *testing.T) {
	unbalanced := []domain.JournalEntryLine{
		line("bank", domain.Debit, 5000),
		line("revenue", domain.Credit, 4000),
	}

	err := ValidateBalanced(unbalanced)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	var unbalancedErr *apperrors.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalancedErr)
	assert.Equal(t, int64(5000), unbalancedErr.DebitSum)
	assert.Equal(t, int64(4000), unbalancedErr.CreditSum)
	assert.Contains(t, err.Error(), "5000")
	assert.Contains(t, err.Error(), "4000")
}

func TestValidateBalanced_RejectsEmptyAndNonPositive(t *testing.T) {
	assert.Error(t, ValidateBalanced(nil))

	zeroAmount := []domain.JournalEntryLine{
		line("bank", domain.Debit, 0),
		line("revenue", domain.Credit, 0),
	}
	assert.Error(t, ValidateBalanced(zeroAmount))

	negative := []domain.JournalEntryLine{
		line("bank", domain.Debit, -100),
		line("revenue", domain.Credit, -100),
	}
	assert.Error(t, ValidateBalanced(negative))
}

func TestValidateBalanced_RejectsInvalidSide(t *testing.T) {
	lines := []domain.JournalEntryLine{
		line("bank", domain.LineSide("SIDEWAYS"), 100),
		line("revenue", domain.Credit, 100),
	}
	assert.Error(t, ValidateBalanced(lines))
}

func TestMirrorLines(t *testing.T) {
	taxKey := "19"
	taxAmount := int64(1900)
	original := []domain.JournalEntryLine{
		{LineID: "l1", EntryID: "e1", AccountID: "bank", Side: domain.Debit, Amount: 11900},
		{LineID: "l2", EntryID: "e1", AccountID: "revenue", Side: domain.Credit, Amount: 10000, TaxKey: &taxKey, TaxAmount: &taxAmount},
		{LineID: "l3", EntryID: "e1", AccountID: "vat", Side: domain.Credit, Amount: 1900},
	}

	mirrored := MirrorLines(original)
	require.Len(t, mirrored, 3)

	assert.Equal(t, domain.Credit, mirrored[0].Side)
	assert.Equal(t, domain.Debit, mirrored[1].Side)
	assert.Equal(t, domain.Debit, mirrored[2].Side)
	for i := range mirrored {
		assert.Equal(t, original[i].AccountID, mirrored[i].AccountID)
		assert.Equal(t, original[i].Amount, mirrored[i].Amount)
		assert.Empty(t, mirrored[i].LineID)
		assert.Empty(t, mirrored[i].EntryID)
	}
	assert.Equal(t, &taxKey, mirrored[1].TaxKey)
	assert.Equal(t, &taxAmount, mirrored[1].TaxAmount)

	// The mirror of a balanced entry is itself balanced.
	assert.NoError(t, ValidateBalanced(mirrored))
}

func TestSumSides(t *testing.T) {
	lines := []domain.JournalEntryLine{
		line("a", domain.Debit, 300),
		line("b", domain.Debit, 200),
		line("c", domain.Credit, 500),
	}
	debitSum, creditSum := SumSides(lines)
	assert.Equal(t, int64(500), debitSum)
	assert.Equal(t, int64(500), creditSum)
}
