package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
)

type PgxBelegRepository struct {
	BaseRepository
}

// newPgxBelegRepository creates a new repository for source document data.
func newPgxBelegRepository(pool *pgxpool.Pool) portsrepo.BelegRepositoryFacade {
	return &PgxBelegRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BelegRepositoryFacade = (*PgxBelegRepository)(nil)

// SaveBeleg persists a new Beleg. Numbers are unique per tenant.
func (r *PgxBelegRepository) SaveBeleg(ctx context.Context, beleg domain.Beleg) error {
	query := `
		INSERT INTO belege (
			beleg_id, tenant_id, number, subject, beleg_date, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		beleg.BelegID,
		beleg.TenantID,
		beleg.Number,
		beleg.Subject,
		beleg.BelegDate,
		beleg.Status,
		beleg.CreatedAt,
		beleg.CreatedBy,
		beleg.LastUpdatedAt,
		beleg.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewAppError(409, "beleg number "+beleg.Number+" already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert beleg "+beleg.BelegID, err)
	}
	return nil
}

// FindBelegByID retrieves a Beleg by its ID within a tenant.
func (r *PgxBelegRepository) FindBelegByID(ctx context.Context, tenantID, belegID string) (*domain.Beleg, error) {
	query := `
		SELECT beleg_id, tenant_id, number, subject, beleg_date, status,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM belege
		WHERE beleg_id = $1 AND tenant_id = $2;
	`
	var beleg domain.Beleg
	err := r.Pool.QueryRow(ctx, query, belegID, tenantID).Scan(
		&beleg.BelegID,
		&beleg.TenantID,
		&beleg.Number,
		&beleg.Subject,
		&beleg.BelegDate,
		&beleg.Status,
		&beleg.CreatedAt,
		&beleg.CreatedBy,
		&beleg.LastUpdatedAt,
		&beleg.LastUpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find beleg "+belegID, err)
	}
	return &beleg, nil
}

// MarkBookedIfDraftInTx transitions a Beleg from DRAFT to BOOKED inside an
// externally managed transaction. The Beleg row is locked first so the status
// check and the update are one atomic step. Belege that are already BOOKED or
// CANCELLED are left untouched and false is returned.
func (r *PgxBelegRepository) MarkBookedIfDraftInTx(ctx context.Context, tx pgx.Tx, tenantID, belegID, userID string, now time.Time) (bool, error) {
	var status domain.BelegStatus
	err := tx.QueryRow(ctx, `
		SELECT status
		FROM belege
		WHERE beleg_id = $1 AND tenant_id = $2
		FOR UPDATE;
	`, belegID, tenantID).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, apperrors.ErrNotFound
		}
		return false, apperrors.NewAppError(500, "failed to lock beleg "+belegID, err)
	}

	if status != domain.BelegDraft {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE belege
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE beleg_id = $1 AND tenant_id = $2;
	`, belegID, tenantID, domain.BelegBooked, now, userID)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to mark beleg "+belegID+" as booked", err)
	}
	return true, nil
}
