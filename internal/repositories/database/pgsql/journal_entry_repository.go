package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	"github.com/fgerdes/buchwerk/internal/utils/pagination"
)

const entryColumns = `entry_id, tenant_id, batch_id, booking_date, description, contact_id, beleg_id,
	       status, locked_at, total_amount_cents,
	       created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `l.line_id, l.entry_id, l.account_id, l.side, l.amount_cents, l.tax_key, l.tax_amount_cents,
	       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by`

type PgxJournalEntryRepository struct {
	BaseRepository
	belegRepo portsrepo.BelegRepositoryFacade
}

// newPgxJournalEntryRepository creates a new repository for journal entry and line data.
func newPgxJournalEntryRepository(pool *pgxpool.Pool, belegRepo portsrepo.BelegRepositoryFacade) portsrepo.JournalEntryRepositoryWithTx {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		belegRepo:      belegRepo,
	}
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*PgxJournalEntryRepository)(nil)

// SaveDraftEntry persists a new draft header with all its lines in one DB
// transaction. When the entry references a Beleg, the Beleg's DRAFT -> BOOKED
// transition happens inside the same transaction, so header, lines and Beleg
// flip land or fail together.
func (r *PgxJournalEntryRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.insertEntryAndLines(ctx, tx, entry, lines); err != nil {
			return err
		}
		if entry.BelegID != nil {
			// The Beleg must exist in this tenant; MarkBookedIfDraftInTx
			// returns ErrNotFound otherwise and rolls the whole insert back.
			if _, err := r.belegRepo.MarkBookedIfDraftInTx(ctx, tx, entry.TenantID, *entry.BelegID, entry.CreatedBy, entry.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertEntryInTx persists a header with its lines inside an externally
// managed transaction.
func (r *PgxJournalEntryRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	return r.insertEntryAndLines(ctx, tx, entry, lines)
}

func (r *PgxJournalEntryRepository) insertEntryAndLines(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	entryQuery := `
		INSERT INTO journal_entries (
			entry_id, tenant_id, batch_id, booking_date, description, contact_id, beleg_id,
			status, locked_at, total_amount_cents,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.TenantID,
		entry.BatchID,
		entry.BookingDate,
		entry.Description,
		entry.ContactID,
		entry.BelegID,
		entry.Status,
		entry.LockedAt,
		entry.TotalAmount,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (
			line_id, entry_id, account_id, side, amount_cents, tax_key, tax_amount_cents,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Side,
			line.Amount,
			line.TaxKey,
			line.TaxAmount,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+entry.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves an entry header by its ID within a tenant.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1 AND tenant_id = $2;
	`
	return r.scanEntryRow(r.Pool.QueryRow(ctx, query, entryID, tenantID), entryID)
}

// FindEntryByIDForUpdate retrieves an entry header with a row-level lock.
// Concurrent lock/reverse/delete attempts against the same entry serialize
// here; the loser re-reads the winner's state and fails its state check.
func (r *PgxJournalEntryRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_id = $1 AND tenant_id = $2
		FOR UPDATE;
	`
	return r.scanEntryRow(tx.QueryRow(ctx, query, entryID, tenantID), entryID)
}

func (r *PgxJournalEntryRepository) scanEntryRow(row pgx.Row, entryID string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.TenantID,
		&entry.BatchID,
		&entry.BookingDate,
		&entry.Description,
		&entry.ContactID,
		&entry.BelegID,
		&entry.Status,
		&entry.LockedAt,
		&entry.TotalAmount,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+entryID, err)
	}
	return &entry, nil
}

// UpdateEntryStatusInTx updates status and locked_at of an entry inside an
// externally managed transaction. A nil lockedAt leaves the stored locked_at
// untouched; it is never cleared once set.
func (r *PgxJournalEntryRepository) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, tenantID, entryID string, status domain.EntryStatus, lockedAt *time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    locked_at = COALESCE($4, locked_at),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE entry_id = $1 AND tenant_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, tenantID, status, lockedAt, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found for update")
	}
	return nil
}

// DeleteEntryInTx removes a draft header and its lines inside an externally
// managed transaction.
func (r *PgxJournalEntryRepository) DeleteEntryInTx(ctx context.Context, tx pgx.Tx, tenantID, entryID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of journal entry "+entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND tenant_id = $2;`, entryID, tenantID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry " + entryID + " not found for delete")
	}
	return nil
}

// ListEntriesByTenant retrieves a paginated list of entries for a tenant using
// token-based pagination. It returns the entries, a token for the next page,
// and an error.
func (r *PgxJournalEntryRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string, includeCancelled bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
	`
	filterClause := `WHERE tenant_id = $1`
	if !includeCancelled {
		filterClause += ` AND status != 'CANCELLED'`
	}
	// Ordering must be stable: booking_date DESC with created_at as tie-breaker.
	orderByClause := `ORDER BY booking_date DESC, created_at DESC`

	args := []interface{}{tenantID}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison keeps the cursor condition index-friendly.
		filterClause += ` AND (booking_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		var entry domain.JournalEntry
		scanErr := rows.Scan(
			&entry.EntryID,
			&entry.TenantID,
			&entry.BatchID,
			&entry.BookingDate,
			&entry.Description,
			&entry.ContactID,
			&entry.BelegID,
			&entry.Status,
			&entry.LockedAt,
			&entry.TotalAmount,
			&entry.CreatedAt,
			&entry.CreatedBy,
			&entry.LastUpdatedAt,
			&entry.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for tenant "+tenantID, scanErr)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		// The token points at the last item included in this page; the next
		// query starts after it.
		last := entries[limit-1]
		token := pagination.EncodeToken(last.BookingDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return entries, nextTokenVal, nil
}

// FindLinesByEntryID retrieves all lines of one entry in insertion order.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, tenantID, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.entry_id = $1 AND e.tenant_id = $2
		ORDER BY l.created_at, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	return scanLines(rows, "entry "+entryID)
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry
// ID. Entries without lines get an empty slice.
func (r *PgxJournalEntryRepository) FindLinesByEntryIDs(ctx context.Context, tenantID string, entryIDs []string) (map[string][]domain.JournalEntryLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryLine{}, nil
	}

	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.entry_id = ANY($1) AND e.tenant_id = $2
		ORDER BY l.entry_id, l.created_at, l.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry batch", err)
	}
	defer rows.Close()

	lines, err := scanLines(rows, "entry batch")
	if err != nil {
		return nil, err
	}

	linesMap := make(map[string][]domain.JournalEntryLine, len(entryIDs))
	for _, line := range lines {
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalEntryLine{}
		}
	}
	return linesMap, nil
}

// ListLinesByAccountID retrieves a paginated account statement: lines of
// locked entries referencing the account, newest first.
func (r *PgxJournalEntryRepository) ListLinesByAccountID(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalEntryLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + lineColumns + `, e.booking_date
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.tenant_id = $2 AND e.locked_at IS NOT NULL
	`
	orderByClause := `ORDER BY e.booking_date DESC, l.created_at DESC`

	args := []interface{}{accountID, tenantID}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (e.booking_date, l.created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line        domain.JournalEntryLine
		bookingDate time.Time
	}
	results := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var item lineWithDate
		scanErr := rows.Scan(
			&item.line.LineID,
			&item.line.EntryID,
			&item.line.AccountID,
			&item.line.Side,
			&item.line.Amount,
			&item.line.TaxKey,
			&item.line.TaxAmount,
			&item.line.CreatedAt,
			&item.line.CreatedBy,
			&item.line.LastUpdatedAt,
			&item.line.LastUpdatedBy,
			&item.bookingDate,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, scanErr)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.bookingDate, last.line.CreatedAt)
		nextTokenVal = &token
		results = results[:limit]
	}

	lines := make([]domain.JournalEntryLine, len(results))
	for i, item := range results {
		lines[i] = item.line
	}
	return lines, nextTokenVal, nil
}

func scanLines(rows pgx.Rows, scope string) ([]domain.JournalEntryLine, error) {
	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var line domain.JournalEntryLine
		err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.AccountID,
			&line.Side,
			&line.Amount,
			&line.TaxKey,
			&line.TaxAmount,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for "+scope, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for "+scope, err)
	}
	return lines, nil
}
