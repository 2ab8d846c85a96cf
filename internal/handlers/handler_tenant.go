package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// tenantHandler handles HTTP requests related to tenants and memberships.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

// newTenantHandler creates a new tenantHandler.
func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{
		tenantService: tenantService,
	}
}

// registerTenantRoutes registers tenant routes and nests the tenant-scoped
// entity routes under /tenants/:tenant_id.
func registerTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.Tenant)

	tenantsTopLevel := rg.Group("/tenants")
	{
		tenantsTopLevel.POST("", h.createTenant)
	}

	tenantSpecific := rg.Group("/tenants/:tenant_id")
	{
		tenantSpecific.GET("", h.getTenant)

		tenantUsers := tenantSpecific.Group("/users")
		{
			tenantUsers.POST("", h.addUserToTenant)
		}

		registerAccountRoutes(tenantSpecific, services.Account, services.Booking)
		registerBelegRoutes(tenantSpecific, services.Beleg)
		RegisterBookingRoutes(tenantSpecific, services.Booking)
		RegisterReportingRoutes(tenantSpecific, services.Reporting)
	}
}

// createTenant godoc
// @Summary Create a tenant
// @Description Creates a new tenant and assigns the creator as OWNER
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// getTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 403 {object} map[string]string "Not a member of the tenant"
// @Failure 404 {object} map[string]string "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// addUserToTenant godoc
// @Summary Add a user to a tenant
// @Description Adds a membership with the given role; requires ADMIN on the tenant
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   membership body dto.AddUserToTenantRequest true "User and role"
// @Success 204 "Added"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/users [post]
func (h *tenantHandler) addUserToTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.AddUserToTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddUserToTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.tenantService.AddUserToTenant(c.Request.Context(), tenantID, req, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to add user to tenant")
		return
	}

	c.Status(http.StatusNoContent)
}
