package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// reportingHandler handles HTTP requests for ledger projections.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
	}
}

// RegisterReportingRoutes registers reporting routes nested under a tenant
// group. The balance projection lives next to the account resource; only the
// tenant-wide reports sit under /reports.
func RegisterReportingRoutes(tenantGroup *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	tenantGroup.GET("/accounts/:account_id/balance", h.getAccountBalance)

	reports := tenantGroup.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the signed balance of one account folded over lines of locked entries
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{account_id}/balance [get]
func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	accountID := c.Param("account_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), tenantID, accountID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute account balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns per-account debit/credit totals over locked entries up to a cutoff date. Total debit always equals total credit.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   asOf query string false "Cutoff date (RFC 3339, default now)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	asOf := time.Now().UTC()
	if asOfParam := c.Query("asOf"); asOfParam != "" {
		parsed, err := time.Parse(time.RFC3339, asOfParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected RFC 3339"})
			return
		}
		asOf = parsed
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), tenantID, asOf, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(rows))
}
