// File: internal/assistant/handler.go
package assistant

import (
	"errors"

	"conesa_estates_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for assistant handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new assistant handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for the chat assistant. The widget is
// public, so no session is required.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	assistantGroup := router.Group("/assistant")
	{
		assistantGroup.POST("/chat", h.chat)
		assistantGroup.GET("/greeting", h.greeting)
	}
}

func (h *Handler) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	response, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Assistant replied.", response)
}

func (h *Handler) greeting(c *gin.Context) {
	lang := c.DefaultQuery("lang", "es")
	common.RespondOK(c, "Greeting retrieved successfully.", h.service.Greeting(lang))
}
