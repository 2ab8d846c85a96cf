package domain

// LineSide indicates whether a journal entry line is a debit or a credit.
type LineSide string

const (
	Debit  LineSide = "DEBIT"
	Credit LineSide = "CREDIT"
)

// Flip returns the opposite side. Used when building reversal lines.
func (s LineSide) Flip() LineSide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntryLine is a single line of a JournalEntry, affecting one account.
// Amount is a positive integer in minor currency units (cents); the side
// carries the sign semantics. Lines are never mutated after creation.
type JournalEntryLine struct {
	LineID    string   `json:"lineID"`    // Primary key (UUID)
	EntryID   string   `json:"entryID"`   // FK -> journal_entries.entry_id (NOT NULL)
	AccountID string   `json:"accountID"` // FK -> accounts.account_id (NOT NULL)
	Side      LineSide `json:"side"`
	Amount    int64    `json:"amount"`    // Positive, minor units
	TaxKey    *string  `json:"taxKey"`    // Nullable tax key (e.g. "USt19")
	TaxAmount *int64   `json:"taxAmount"` // Nullable tax portion, minor units
	AuditFields
}
