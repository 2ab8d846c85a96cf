package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	bookingService portssvc.BookingSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(accountService portssvc.AccountSvcFacade, bookingService portssvc.BookingSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: accountService,
		bookingService: bookingService,
	}
}

// registerAccountRoutes registers account routes nested under a tenant group.
func registerAccountRoutes(tenantGroup *gin.RouterGroup, accountService portssvc.AccountSvcFacade, bookingService portssvc.BookingSvcFacade) {
	h := newAccountHandler(accountService, bookingService)

	accounts := tenantGroup.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:account_id", h.getAccount)
		accounts.GET("/:account_id/lines", h.listAccountLines)
		accounts.DELETE("/:account_id", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account with an SKR03 code to the tenant's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("account_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), tenantID, accountID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves the tenant's chart of accounts in SKR03 code order
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size (default 100)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), tenantID, limit, offset, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// listAccountLines godoc
// @Summary List account statement lines
// @Description Retrieves lines of locked journal entries that reference this account, newest first
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListLinesResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id}/lines [get]
func (h *accountHandler) listAccountLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("account_id")

	var params dto.ListLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.bookingService.ListLinesByAccount(c.Request.Context(), tenantID, accountID, userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list account lines")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive so new bookings cannot reference it. Accounts referenced by locked entries are refused.
// @Tags accounts
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account is referenced by locked entries"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("account_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), tenantID, accountID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}
