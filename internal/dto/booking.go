package dto

import (
	"time"

	"github.com/fgerdes/buchwerk/internal/core/domain"
)

// CreateBookingLineRequest is one proposed line of a new booking. Amount is a
// positive integer in minor currency units (cents).
type CreateBookingLineRequest struct {
	AccountID string  `json:"accountID" binding:"required"`
	Side      string  `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    int64   `json:"amount" binding:"required,gt=0"`
	TaxKey    *string `json:"taxKey"`
	TaxAmount *int64  `json:"taxAmount" binding:"omitempty,gte=0"`
}

// CreateBookingRequest is the payload for creating a draft booking.
type CreateBookingRequest struct {
	BookingDate time.Time                  `json:"bookingDate" binding:"required"`
	Description string                     `json:"description" binding:"required"`
	ContactID   *string                    `json:"contactID"`
	BelegID     *string                    `json:"belegID"`
	Lines       []CreateBookingLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// LineResponse defines the data returned for a journal entry line.
type LineResponse struct {
	LineID    string  `json:"lineID"`
	AccountID string  `json:"accountID"`
	Side      string  `json:"side"`
	Amount    int64   `json:"amount"`
	TaxKey    *string `json:"taxKey,omitempty"`
	TaxAmount *int64  `json:"taxAmount,omitempty"`
}

// BookingResponse defines the data returned for a journal entry.
type BookingResponse struct {
	EntryID     string         `json:"entryID"`
	BatchID     string         `json:"batchID"`
	BookingDate time.Time      `json:"bookingDate"`
	Description string         `json:"description"`
	ContactID   *string        `json:"contactID,omitempty"`
	BelegID     *string        `json:"belegID,omitempty"`
	Status      string         `json:"status"`
	LockedAt    *time.Time     `json:"lockedAt,omitempty"`
	TotalAmount int64          `json:"totalAmount"`
	CreatedAt   time.Time      `json:"createdAt"`
	CreatedBy   string         `json:"createdBy"`
	Lines       []LineResponse `json:"lines,omitempty"`
}

// ListBookingsParams holds parameters for listing bookings.
type ListBookingsParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeCancelled bool    `form:"includeCancelled"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListBookingsResponse is a page of bookings with an optional continuation token.
type ListBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for the per-account statement listing.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse is a page of account statement lines.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain line to its response DTO.
func ToLineResponse(line *domain.JournalEntryLine) LineResponse {
	return LineResponse{
		LineID:    line.LineID,
		AccountID: line.AccountID,
		Side:      string(line.Side),
		Amount:    line.Amount,
		TaxKey:    line.TaxKey,
		TaxAmount: line.TaxAmount,
	}
}

// ToLineResponses converts a slice of domain lines to response DTOs.
func ToLineResponses(lines []domain.JournalEntryLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLineResponse(&lines[i])
	}
	return responses
}

// ToBookingResponse converts a domain entry (with whatever lines are loaded)
// to its response DTO.
func ToBookingResponse(entry *domain.JournalEntry) BookingResponse {
	resp := BookingResponse{
		EntryID:     entry.EntryID,
		BatchID:     entry.BatchID,
		BookingDate: entry.BookingDate,
		Description: entry.Description,
		ContactID:   entry.ContactID,
		BelegID:     entry.BelegID,
		Status:      string(entry.Status),
		LockedAt:    entry.LockedAt,
		TotalAmount: entry.TotalAmount,
		CreatedAt:   entry.CreatedAt,
		CreatedBy:   entry.CreatedBy,
	}
	if len(entry.Lines) > 0 {
		resp.Lines = ToLineResponses(entry.Lines)
	}
	return resp
}
