// File: internal/upload/handler.go
package upload

import (
	"errors"
	"strconv"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxUploadFormMemory bounds multipart parsing: 10 images at 10 MB each.
const maxUploadFormMemory = 100 << 20

// Handler struct holds dependencies for upload handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new upload handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for image upload operations. All of
// them require a session.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	uploadGroup := router.Group("/uploads")
	uploadGroup.Use(authMW)
	{
		uploadGroup.POST("/images", h.uploadImages)
		uploadGroup.DELETE("/images", h.deleteImage)
		uploadGroup.POST("/claim", h.claimImages)
	}
}

func (h *Handler) uploadImages(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	if err := c.Request.ParseMultipartForm(maxUploadFormMemory); err != nil {
		h.logger.Warn("Upload: failed to parse multipart form", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid upload format or files too large."))
		return
	}

	form := c.Request.MultipartForm
	files := form.File["images"]

	existingCount := 0
	if raw := c.PostForm("existing_count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid existing_count value."))
			return
		}
		existingCount = parsed
	}

	response, err := h.service.UploadImages(c.Request.Context(), userID, existingCount, files)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Images uploaded successfully.", response)
}

func (h *Handler) deleteImage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Query parameter 'key' is required."))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	actorRole := middleware.GetUserRoleFromContext(c)
	if err := h.service.DeleteImage(c.Request.Context(), actorID, actorRole, key); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Image deleted successfully.", gin.H{"key": key})
}

func (h *Handler) claimImages(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.Claim(c.Request.Context(), req.PropertyID, req.Keys); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Images claimed successfully.", gin.H{"claimed": len(req.Keys)})
}
