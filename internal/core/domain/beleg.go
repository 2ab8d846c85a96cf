package domain

import "time"

// BelegStatus indicates the lifecycle state of a source document.
type BelegStatus string

const (
	BelegDraft     BelegStatus = "DRAFT"
	BelegBooked    BelegStatus = "BOOKED"
	BelegCancelled BelegStatus = "CANCELLED"
)

// Beleg is a source document (receipt, invoice) a booking may reference.
// When a booking referencing a DRAFT Beleg is created, the Beleg moves to
// BOOKED inside the same database transaction.
type Beleg struct {
	BelegID   string      `json:"belegID"`  // Primary key (UUID)
	TenantID  string      `json:"tenantID"` // FK -> tenants.tenant_id (NOT NULL)
	Number    string      `json:"number"`   // Document number as printed on the Beleg
	Subject   string      `json:"subject"`
	BelegDate time.Time   `json:"belegDate"`
	Status    BelegStatus `json:"status"`
	AuditFields
}
