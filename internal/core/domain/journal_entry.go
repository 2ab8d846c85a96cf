package domain

import "time"

// EntryStatus indicates the lifecycle state of a journal entry.
//
// DRAFT entries are mutable and deletable. POSTED entries are locked and
// immutable; the only way out is a reversal, which moves the original to
// CANCELLED while leaving locked_at set as evidence of when it was posted.
type EntryStatus string

const (
	EntryDraft     EntryStatus = "DRAFT"
	EntryPosted    EntryStatus = "POSTED"
	EntryCancelled EntryStatus = "CANCELLED"
)

// JournalEntry is the header of one balanced ledger transaction. Its lines
// are owned exclusively by the header and are written only as part of the
// header's own database transaction.
//
// LockedAt is the authoritative immutability signal: non-nil iff the entry is
// POSTED or was POSTED before being cancelled. Cancellation never clears it.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`  // Primary key (UUID)
	TenantID    string      `json:"tenantID"` // FK -> tenants.tenant_id (NOT NULL)
	BatchID     string      `json:"batchID"`  // Opaque correlation id, one per logical event
	BookingDate time.Time   `json:"bookingDate"`
	Description string      `json:"description"`
	ContactID   *string     `json:"contactID"` // Nullable source contact linkage
	BelegID     *string     `json:"belegID"`   // Nullable source document linkage
	Status      EntryStatus `json:"status"`
	LockedAt    *time.Time  `json:"lockedAt"`
	TotalAmount int64       `json:"totalAmount"` // Debit-side sum, minor units
	AuditFields
	Lines []JournalEntryLine `json:"lines,omitempty"` // Loaded separately
}

// IsLocked reports whether the entry has ever been posted.
func (e *JournalEntry) IsLocked() bool {
	return e.LockedAt != nil
}
