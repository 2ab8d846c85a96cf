package services

import (
	"context"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	"github.com/fgerdes/buchwerk/internal/dto"
)

// BookingReaderSvc defines read-only booking operations.
type BookingReaderSvc interface {
	// GetBooking retrieves an entry with its lines.
	GetBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error)

	// ListBookings retrieves a paginated list of entries for a tenant.
	ListBookings(ctx context.Context, tenantID, userID string, params dto.ListBookingsParams) (*dto.ListBookingsResponse, error)

	// ListLinesByAccount retrieves a paginated account statement.
	ListLinesByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// BookingWriterSvc defines the booking engine's write path: the draft/posted/
// cancelled lifecycle with its balance and immutability invariants.
type BookingWriterSvc interface {
	// CreateBooking validates the balance invariant and persists a DRAFT
	// entry with all its lines atomically.
	CreateBooking(ctx context.Context, tenantID string, req dto.CreateBookingRequest, userID string) (*domain.JournalEntry, error)

	// LockBooking posts an entry: the single irreversible transition that
	// sets locked_at and removes the entry from the mutable state.
	LockBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error)

	// ReverseBooking creates the mirrored Storno entry for a posted original
	// and marks the original CANCELLED. Returns the new reversal entry.
	ReverseBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error)

	// DeleteBooking removes a draft entry and its lines. Locked entries are
	// never deleted.
	DeleteBooking(ctx context.Context, tenantID, entryID, userID string) error
}

// BookingSvcFacade combines all booking service interfaces.
type BookingSvcFacade interface {
	BookingReaderSvc
	BookingWriterSvc
}
