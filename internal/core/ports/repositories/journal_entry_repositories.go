package repositories

import (
	"context"
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalEntryReader defines read operations for journal entry headers.
// Every method is scoped by an explicit tenantID; entries of other tenants
// are reported as not found.
type JournalEntryReader interface {
	// FindEntryByID retrieves a specific entry header.
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate retrieves an entry header with a row-level lock.
	// Must be called within a transaction; it serializes concurrent
	// lock/reverse/delete attempts against the same entry.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByTenant retrieves a paginated list of entries using
	// token-based pagination. It returns the entries, a token for the next
	// page, and an error.
	ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeCancelled bool) ([]domain.JournalEntry, *string, error)
}

// JournalEntryWriter defines write operations for journal entries.
// Lines are only ever written as part of their header's transaction.
type JournalEntryWriter interface {
	// SaveDraftEntry persists a new DRAFT header with all its lines in one
	// database transaction. When the entry references a Beleg that is still
	// DRAFT, the Beleg moves to BOOKED inside the same transaction.
	SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// InsertEntryInTx persists a header with its lines inside an externally
	// managed transaction. Used by the reversal flow.
	InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// UpdateEntryStatusInTx updates status and locked_at of an entry inside
	// an externally managed transaction. A nil lockedAt leaves the stored
	// locked_at untouched; it is never cleared.
	UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, tenantID, entryID string, status domain.EntryStatus, lockedAt *time.Time, updatedBy string, updatedAt time.Time) error

	// DeleteEntryInTx removes a header and cascades its lines inside an
	// externally managed transaction. Callers must have verified the entry
	// is an unlocked draft under a row lock.
	DeleteEntryInTx(ctx context.Context, tx pgx.Tx, tenantID, entryID string) error
}

// LineReader defines read operations for journal entry lines.
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of one entry in insertion order.
	FindLinesByEntryID(ctx context.Context, tenantID, entryID string) ([]domain.JournalEntryLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by
	// entry ID.
	FindLinesByEntryIDs(ctx context.Context, tenantID string, entryIDs []string) (map[string][]domain.JournalEntryLine, error)

	// ListLinesByAccountID retrieves a paginated account statement: lines of
	// locked entries referencing the account, newest first.
	ListLinesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error)
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
	LineReader
}

// JournalEntryRepositoryWithTx extends the facade with transaction capabilities.
type JournalEntryRepositoryWithTx interface {
	JournalEntryRepositoryFacade
	TransactionManager
}
