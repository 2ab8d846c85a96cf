package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// belegHandler handles HTTP requests related to source documents.
type belegHandler struct {
	belegService portssvc.BelegSvcFacade
}

// newBelegHandler creates a new belegHandler.
func newBelegHandler(belegService portssvc.BelegSvcFacade) *belegHandler {
	return &belegHandler{
		belegService: belegService,
	}
}

// registerBelegRoutes registers Beleg routes nested under a tenant group.
func registerBelegRoutes(tenantGroup *gin.RouterGroup, belegService portssvc.BelegSvcFacade) {
	h := newBelegHandler(belegService)

	belege := tenantGroup.Group("/belege")
	{
		belege.POST("", h.createBeleg)
		belege.GET("/:beleg_id", h.getBeleg)
	}
}

// createBeleg godoc
// @Summary Register a source document
// @Description Persists a new Beleg in DRAFT status. The first booking that references it flips it to BOOKED.
// @Tags belege
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   beleg body dto.CreateBelegRequest true "Beleg details"
// @Success 201 {object} dto.BelegResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Beleg number already exists"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/belege [post]
func (h *belegHandler) createBeleg(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")

	var req dto.CreateBelegRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBeleg", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	beleg, err := h.belegService.CreateBeleg(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create beleg")
		return
	}

	c.JSON(http.StatusCreated, dto.ToBelegResponse(beleg))
}

// getBeleg godoc
// @Summary Get a source document
// @Tags belege
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   beleg_id path string true "Beleg ID"
// @Success 200 {object} dto.BelegResponse
// @Failure 404 {object} map[string]string "Beleg not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/belege/{beleg_id} [get]
func (h *belegHandler) getBeleg(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	belegID := c.Param("beleg_id")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	beleg, err := h.belegService.GetBelegByID(c.Request.Context(), tenantID, belegID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve beleg")
		return
	}

	c.JSON(http.StatusOK, dto.ToBelegResponse(beleg))
}
