package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger bucket within a tenant's chart of accounts.
// Code carries the SKR03 account number (e.g. "1200" for Bank) and is unique
// per tenant. Accounts referenced by locked journal entry lines must not be
// deactivated.
type Account struct {
	AccountID     string      `json:"accountID"` // Primary key (UUID)
	TenantID      string      `json:"tenantID"`  // FK -> tenants.tenant_id (NOT NULL)
	Code          string      `json:"code"`      // SKR03 account number, tenant-unique
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	DefaultTaxKey *string     `json:"defaultTaxKey"` // Nullable default tax linkage (e.g. "USt19")
	Description   string      `json:"description"`
	IsActive      bool        `json:"isActive"`
	AuditFields
}
