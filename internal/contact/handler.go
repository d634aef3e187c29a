// File: internal/contact/handler.go
package contact

import (
	"errors"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/i18n"
	"conesa_estates_backend/internal/property"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for contact handlers.
type Handler struct {
	properties property.Service
	cfg        *config.Config
	logger     *zap.Logger
}

// NewHandler creates a new contact handler.
func NewHandler(properties property.Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		properties: properties,
		cfg:        cfg,
		logger:     logger,
	}
}

// RegisterRoutes sets up the routes for inquiry deep links. Both are public.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/contact/whatsapp", h.composeLink)
	router.GET("/properties/:id/contact-link", h.propertyContactLink)
}

func (h *Handler) composeLink(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	text := BuildInquiryMessage(req.Name, req.Phone, req.Message)
	link := BuildWhatsAppLink(h.cfg.WhatsAppNumber, text)
	common.RespondOK(c, "Contact link composed.", ContactLinkResponse{URL: link})
}

// propertyContactLink is the "contact agent" action on a detail page: a
// localized interest message for the listing the visitor is looking at.
func (h *Handler) propertyContactLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid property ID format."))
		return
	}

	prop, err := h.properties.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	lang := c.DefaultQuery("lang", i18n.DefaultLanguage)
	template := i18n.Lookup(lang, "detail.inquiry_message")
	text := BuildPropertyInquiry(template, prop.Title, property.FormatPrice(prop.Price, prop.Currency))
	link := BuildWhatsAppLink(h.cfg.WhatsAppNumber, text)
	common.RespondOK(c, "Contact link composed.", ContactLinkResponse{URL: link})
}
