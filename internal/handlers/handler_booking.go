package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// bookingHandler handles HTTP requests for the booking engine.
type bookingHandler struct {
	bookingService portssvc.BookingSvcFacade
}

// newBookingHandler creates a new bookingHandler.
func newBookingHandler(bookingService portssvc.BookingSvcFacade) *bookingHandler {
	return &bookingHandler{
		bookingService: bookingService,
	}
}

// RegisterBookingRoutes registers booking routes nested under a tenant group.
func RegisterBookingRoutes(tenantGroup *gin.RouterGroup, bookingService portssvc.BookingSvcFacade) {
	h := newBookingHandler(bookingService)

	bookings := tenantGroup.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/:entry_id", h.getBooking)
		bookings.POST("/:entry_id/lock", h.lockBooking)
		bookings.POST("/:entry_id/reverse", h.reverseBooking)
		bookings.DELETE("/:entry_id", h.deleteBooking)
	}
}

// createBooking godoc
// @Summary Create a draft booking
// @Description Validates the double-entry balance and persists a new DRAFT journal entry with its lines
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string "Malformed request body"
// @Failure 422 {object} map[string]string "Unbalanced lines or inactive account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Referenced account or beleg not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings [post]
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.bookingService.CreateBooking(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookingResponse(entry))
}

// getBooking godoc
// @Summary Get a booking
// @Description Retrieves a journal entry with its lines
// @Tags bookings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings/{entry_id} [get]
func (h *bookingHandler) getBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	entryID := c.Param("entry_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.bookingService.GetBooking(c.Request.Context(), tenantID, entryID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve booking")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookingResponse(entry))
}

// listBookings godoc
// @Summary List bookings
// @Description Retrieves a paginated list of journal entries for a tenant
// @Tags bookings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Continuation token"
// @Param   includeCancelled query bool false "Include cancelled entries"
// @Param   includeLines query bool false "Embed lines in each entry"
// @Success 200 {object} dto.ListBookingsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings [get]
func (h *bookingHandler) listBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.bookingService.ListBookings(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// lockBooking godoc
// @Summary Lock a booking
// @Description Posts a draft entry: sets status POSTED and the immutable locked_at timestamp
// @Tags bookings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Booking is already locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings/{entry_id}/lock [post]
func (h *bookingHandler) lockBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	entryID := c.Param("entry_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.bookingService.LockBooking(c.Request.Context(), tenantID, entryID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to lock booking")
		return
	}

	logger.Info("Booking locked via API", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToBookingResponse(entry))
}

// reverseBooking godoc
// @Summary Reverse a booking
// @Description Creates the mirrored Storno entry for a posted booking and marks the original CANCELLED
// @Tags bookings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID of the booking to reverse"
// @Success 201 {object} dto.BookingResponse "The reversal entry"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Booking is not locked or already cancelled"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings/{entry_id}/reverse [post]
func (h *bookingHandler) reverseBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	entryID := c.Param("entry_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.bookingService.ReverseBooking(c.Request.Context(), tenantID, entryID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse booking")
		return
	}

	logger.Info("Booking reversed via API",
		slog.String("original_entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToBookingResponse(reversal))
}

// deleteBooking godoc
// @Summary Delete a draft booking
// @Description Removes a draft entry with its lines. Locked entries can only be reversed, never deleted.
// @Tags bookings
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Booking is locked"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/bookings/{entry_id} [delete]
func (h *bookingHandler) deleteBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	entryID := c.Param("entry_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), tenantID, entryID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete booking")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondServiceError maps service errors to HTTP responses. Lifecycle
// violations surface as 409 so clients can distinguish them from bad input.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Booking lifecycle conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		// Well-formed request, semantically unbookable (unbalanced lines,
		// inactive account). Malformed bodies are rejected earlier with 400.
		logger.Warn("Booking validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
