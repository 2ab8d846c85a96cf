package repositories

import (
	"context"
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BelegRepositoryFacade defines persistence operations for source documents.
type BelegRepositoryFacade interface {
	// SaveBeleg persists a new Beleg.
	SaveBeleg(ctx context.Context, beleg domain.Beleg) error

	// FindBelegByID retrieves a specific Beleg.
	FindBelegByID(ctx context.Context, tenantID, belegID string) (*domain.Beleg, error)

	// MarkBookedIfDraftInTx transitions a Beleg from DRAFT to BOOKED inside an
	// externally managed transaction. It row-locks the Beleg and reports
	// whether the transition happened; a Beleg that is not DRAFT is left
	// untouched.
	MarkBookedIfDraftInTx(ctx context.Context, tx pgx.Tx, tenantID, belegID, userID string, now time.Time) (bool, error)
}
