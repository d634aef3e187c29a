// File: internal/user/handler.go
package user

import (
	"errors"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/middleware"
	"conesa_estates_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	userGroup.Use(authMW)
	{
		userGroup.GET("/me", h.getMe)
		userGroup.GET("/me/preferences", h.getPreferences)
		userGroup.PUT("/me/preferences", h.updatePreferences)

		adminGroup := userGroup.Group("")
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.GET("", h.listUsers)
			adminGroup.PUT("/:id/role", h.updateRole)
		}
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", UserResponse{
		ID:          usr.ID,
		Email:       usr.Email,
		DisplayName: shared.DeriveDisplayName(usr.DisplayName, usr.Email),
		Role:        usr.Role,
		CreatedAt:   usr.CreatedAt,
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	common.RespondOK(c, "Profiles retrieved successfully.", responses)
}

func (h *Handler) updateRole(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update role: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	updated, err := h.service.UpdateRole(c.Request.Context(), actorID, targetID, req.Role)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondOK(c, "Role updated successfully.", UserResponse{
		ID:          updated.ID,
		Email:       updated.Email,
		DisplayName: shared.DeriveDisplayName(updated.DisplayName, updated.Email),
		Role:        updated.Role,
		CreatedAt:   updated.CreatedAt,
	})
}

func (h *Handler) getPreferences(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	prefs, err := h.service.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Preferences retrieved successfully.", prefs)
}

func (h *Handler) updatePreferences(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update preferences: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	prefs, err := h.service.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Preferences updated successfully.", prefs)
}
