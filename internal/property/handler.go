// File: internal/property/handler.go
package property

import (
	"errors"
	"strconv"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for property handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new property handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for catalog and dashboard operations.
// Catalog reads are public; writes require a session and dashboard listing
// shows own rows to agents, everything to admins.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	propertyGroup := router.Group("/properties")
	{
		propertyGroup.GET("", h.getCatalog)
		propertyGroup.GET("/types", h.getTypeFacets)
		propertyGroup.GET("/:id", h.getPropertyByID)
		propertyGroup.GET("/:id/carousel", h.getCarouselPosition)
		propertyGroup.GET("/slug/:slug", h.getPropertyBySlug)

		authedGroup := propertyGroup.Group("")
		authedGroup.Use(authMW)
		{
			authedGroup.POST("", h.createProperty)
			authedGroup.PUT("/:id", h.updateProperty)
			authedGroup.DELETE("/:id", h.deleteProperty)
		}
	}

	dashboardGroup := router.Group("/dashboard")
	dashboardGroup.Use(authMW)
	{
		dashboardGroup.GET("/properties", h.getDashboardProperties)
	}
}

func (h *Handler) getCatalog(c *gin.Context) {
	// All three filters are optional; an absent parameter narrows nothing.
	filter := CatalogFilter{
		Search:      c.Query("search"),
		Type:        c.Query("type"),
		ListingType: c.Query("listing_type"),
	}

	catalog, err := h.service.GetCatalog(c.Request.Context(), filter)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Catalog retrieved successfully.", catalog)
}

func (h *Handler) getTypeFacets(c *gin.Context) {
	facets, err := h.service.GetTypeFacets(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property types retrieved successfully.", facets)
}

func (h *Handler) getPropertyByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}
	property, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property retrieved successfully.", ToPropertyResponse(property))
}

func (h *Handler) getPropertyBySlug(c *gin.Context) {
	property, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property retrieved successfully.", ToPropertyResponse(property))
}

func (h *Handler) getCarouselPosition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}
	index, err := strconv.Atoi(c.DefaultQuery("index", "0"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid carousel index."))
		return
	}
	step, err := strconv.Atoi(c.DefaultQuery("step", "0"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid carousel step."))
		return
	}

	position, err := h.service.Carousel(c.Request.Context(), id, index, step)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Carousel position resolved.", position)
}

func (h *Handler) createProperty(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create property: Invalid request body", zap.Error(err), zap.String("userID", userID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	property, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Property created successfully.", ToPropertyResponse(property))
}

func (h *Handler) updateProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update property: Invalid request body", zap.Error(err), zap.String("propertyID", id.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	actorRole := middleware.GetUserRoleFromContext(c)
	property, err := h.service.Update(c.Request.Context(), actorID, actorRole, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property updated successfully.", ToPropertyResponse(property))
}

func (h *Handler) deleteProperty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	actorRole := middleware.GetUserRoleFromContext(c)
	if err := h.service.Delete(c.Request.Context(), actorID, actorRole, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Property deleted successfully.", gin.H{"id": id})
}

func (h *Handler) getDashboardProperties(c *gin.Context) {
	actorID := middleware.GetUserIDFromContext(c)
	actorRole := middleware.GetUserRoleFromContext(c)

	properties, err := h.service.ListDashboard(c.Request.Context(), actorID, actorRole)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dashboard properties retrieved successfully.", properties)
}
