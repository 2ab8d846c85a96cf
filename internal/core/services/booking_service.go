package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/utils/accounting"
)

// bookingService is the double-entry booking engine. It owns the
// draft/posted/cancelled lifecycle of journal entries and enforces the
// balance and immutability invariants. All writes happen inside single
// database transactions; lock and reverse serialize on a row lock of the
// entry header so concurrent transitions cannot both succeed.
type bookingService struct {
	BaseService
	journalRepo portsrepo.JournalEntryRepositoryWithTx
	accountSvc  portssvc.AccountSvcFacade
}

// NewBookingService creates a new BookingService.
func NewBookingService(journalRepo portsrepo.JournalEntryRepositoryWithTx, accountSvc portssvc.AccountSvcFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.BookingSvcFacade {
	return &bookingService{
		BaseService: BaseService{TenantAuthorizer: tenantSvc},
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

// CreateBooking validates a proposed line set and persists it as a DRAFT
// entry. Header, lines and the Beleg status flip are one atomic unit; on any
// failure nothing is persisted.
func (s *bookingService) CreateBooking(ctx context.Context, tenantID string, req dto.CreateBookingRequest, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: journal entry must have at least one line", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalEntryLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: lineReq.AccountID,
			Side:      domain.LineSide(lineReq.Side),
			Amount:    lineReq.Amount,
			TaxKey:    lineReq.TaxKey,
			TaxAmount: lineReq.TaxAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	// The double-entry check. Integer minor units throughout; an imbalance
	// reports both sums so the caller can correct the submission.
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, err
	}

	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, tenantID, uniqueAccountIDs, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for booking creation", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	debitSum, _ := accounting.SumSides(lines)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    tenantID,
		BatchID:     uuid.NewString(),
		BookingDate: req.BookingDate,
		Description: req.Description,
		ContactID:   req.ContactID,
		BelegID:     req.BelegID,
		Status:      domain.EntryDraft,
		LockedAt:    nil,
		TotalAmount: debitSum,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.journalRepo.SaveDraftEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Booking created successfully", slog.String("entry_id", entry.EntryID), slog.String("batch_id", entry.BatchID))
	entry.Lines = lines
	return &entry, nil
}

// LockBooking posts a draft entry: status POSTED, locked_at now. The header
// row is locked for update so two concurrent lock calls serialize and the
// second one fails with ErrAlreadyLocked.
func (s *bookingService) LockBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	var locked *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.IsLocked() {
			return apperrors.ErrAlreadyLocked
		}

		now := time.Now().UTC()
		if err := s.journalRepo.UpdateEntryStatusInTx(ctx, tx, tenantID, entryID, domain.EntryPosted, &now, userID, now); err != nil {
			return err
		}

		entry.Status = domain.EntryPosted
		entry.LockedAt = &now
		entry.LastUpdatedAt = now
		entry.LastUpdatedBy = userID
		locked = entry
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyLocked) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock booking", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Booking locked", slog.String("entry_id", entryID), slog.Time("locked_at", *locked.LockedAt))
	return locked, nil
}

// ReverseBooking creates the mirrored Storno entry for a posted original and
// marks the original CANCELLED. The reversal is posted immediately; the
// original keeps its locked_at as evidence of when it was posted. Everything
// runs under a row lock of the original so only one reversal is ever created.
func (s *bookingService) ReverseBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return nil, err
	}

	var reversal *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		original, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
		if err != nil {
			return err
		}
		if !original.IsLocked() {
			return apperrors.ErrNotLocked
		}
		if original.Status == domain.EntryCancelled {
			return apperrors.ErrAlreadyCancelled
		}

		// Lines of a locked entry are immutable, reading them outside the
		// row lock would be equally safe.
		originalLines, err := s.journalRepo.FindLinesByEntryID(ctx, tenantID, entryID)
		if err != nil {
			return fmt.Errorf("failed to retrieve original lines: %w", err)
		}

		now := time.Now().UTC()
		reversalID := uuid.NewString()

		mirrored := accounting.MirrorLines(originalLines)
		for i := range mirrored {
			mirrored[i].LineID = uuid.NewString()
			mirrored[i].EntryID = reversalID
			mirrored[i].AuditFields = domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			}
		}
		// The swap preserves the invariant trivially; assert it anyway.
		if err := accounting.ValidateBalanced(mirrored); err != nil {
			return fmt.Errorf("%w: reversal lines unbalanced for entry %s: %v", apperrors.ErrInternal, entryID, err)
		}

		reversalEntry := domain.JournalEntry{
			EntryID:     reversalID,
			TenantID:    tenantID,
			BatchID:     uuid.NewString(),
			BookingDate: original.BookingDate,
			Description: "Storno: " + original.Description,
			ContactID:   original.ContactID,
			BelegID:     original.BelegID,
			Status:      domain.EntryPosted,
			LockedAt:    &now,
			TotalAmount: original.TotalAmount,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		if err := s.journalRepo.InsertEntryInTx(ctx, tx, reversalEntry, mirrored); err != nil {
			return fmt.Errorf("failed to save reversal entry: %w", err)
		}

		// nil lockedAt leaves the original's locked_at untouched.
		if err := s.journalRepo.UpdateEntryStatusInTx(ctx, tx, tenantID, entryID, domain.EntryCancelled, nil, userID, now); err != nil {
			return fmt.Errorf("failed to cancel original entry: %w", err)
		}

		reversalEntry.Lines = mirrored
		reversal = &reversalEntry
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to reverse booking", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Booking reversed", slog.String("original_entry_id", entryID), slog.String("reversal_entry_id", reversal.EntryID))
	return reversal, nil
}

// DeleteBooking removes a draft entry with its lines. Locked entries cannot
// be deleted, only reversed.
func (s *bookingService) DeleteBooking(ctx context.Context, tenantID, entryID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleMember); err != nil {
		return err
	}

	err := s.journalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, tenantID, entryID)
		if err != nil {
			return err
		}
		if entry.IsLocked() {
			return apperrors.ErrAlreadyLocked
		}
		return s.journalRepo.DeleteEntryInTx(ctx, tx, tenantID, entryID)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyLocked) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete draft booking", slog.String("entry_id", entryID))
		}
		return err
	}

	s.LogInfo(ctx, "Draft booking deleted", slog.String("entry_id", entryID))
	return nil
}

// GetBooking retrieves an entry with its lines.
func (s *bookingService) GetBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, tenantID, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// ListBookings retrieves a paginated list of entries for a tenant.
func (s *bookingService) ListBookings(ctx context.Context, tenantID, userID string, params dto.ListBookingsParams) (*dto.ListBookingsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByTenant(ctx, tenantID, params.Limit, params.NextToken, params.IncludeCancelled)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	var linesMap map[string][]domain.JournalEntryLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesMap, err = s.journalRepo.FindLinesByEntryIDs(ctx, tenantID, entryIDs)
		if err != nil {
			// Serve the page without lines rather than failing it.
			s.LogWarn(ctx, "Failed to fetch lines for entry page", slog.String("error", err.Error()))
			linesMap = nil
		}
	}

	responses := make([]dto.BookingResponse, len(entries))
	for i := range entries {
		if linesMap != nil {
			entries[i].Lines = linesMap[entries[i].EntryID]
		}
		responses[i] = dto.ToBookingResponse(&entries[i])
	}

	return &dto.ListBookingsResponse{Bookings: responses, NextToken: nextToken}, nil
}

// ListLinesByAccount retrieves a paginated account statement: lines of locked
// entries referencing the account, newest first.
func (s *bookingService) ListLinesByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID, userID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list lines by account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to retrieve lines: %w", err)
	}

	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
