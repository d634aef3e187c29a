// File: internal/i18n/handler.go
package i18n

import (
	"strings"

	"conesa_estates_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BundleResponse is a full translation table for one language.
type BundleResponse struct {
	Language     string            `json:"language"`
	Translations map[string]string `json:"translations"`
}

// KeyResponse is a single resolved translation.
type KeyResponse struct {
	Language string `json:"language"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Handler struct holds dependencies for translation handlers.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new i18n handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// RegisterRoutes sets up the routes for translation lookups. Public.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	i18nGroup := router.Group("/i18n")
	{
		i18nGroup.GET("/languages", h.getLanguages)
		i18nGroup.GET("/:lang", h.getBundle)
		i18nGroup.GET("/:lang/:key", h.getKey)
	}
}

func (h *Handler) getLanguages(c *gin.Context) {
	common.RespondOK(c, "Supported languages retrieved.", Languages())
}

func (h *Handler) getBundle(c *gin.Context) {
	lang, table := Bundle(normalizeLang(c.Param("lang")))
	common.RespondOK(c, "Translations retrieved successfully.", BundleResponse{
		Language:     lang,
		Translations: table,
	})
}

func (h *Handler) getKey(c *gin.Context) {
	lang := normalizeLang(c.Param("lang"))
	key := c.Param("key")
	resolvedLang, _ := Bundle(lang)
	common.RespondOK(c, "Translation retrieved successfully.", KeyResponse{
		Language: resolvedLang,
		Key:      key,
		Value:    Lookup(lang, key),
	})
}

func normalizeLang(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
