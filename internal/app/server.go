// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"conesa_estates_backend/internal/assistant"
	"conesa_estates_backend/internal/auth"
	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/contact"
	"conesa_estates_backend/internal/i18n"
	"conesa_estates_backend/internal/jobs"
	"conesa_estates_backend/internal/middleware"
	platformES "conesa_estates_backend/internal/platform/elasticsearch"
	"conesa_estates_backend/internal/property"
	"conesa_estates_backend/internal/shared"
	"conesa_estates_backend/internal/upload"
	"conesa_estates_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed so main can verify the search index at startup.
	ESClient  *platformES.ESClientWrapper
	AppLogger *zap.Logger

	// Handlers
	authHandler      *auth.Handler
	userHandler      *user.Handler
	propertyHandler  *property.Handler
	uploadHandler    *upload.Handler
	assistantHandler *assistant.Handler
	contactHandler   *contact.Handler
	i18nHandler      *i18n.Handler

	// Jobs
	uploadCleanupJob *jobs.UploadCleanupJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	propertyHandler *property.Handler,
	uploadHandler *upload.Handler,
	assistantHandler *assistant.Handler,
	contactHandler *contact.Handler,
	i18nHandler *i18n.Handler,
	uploadCleanupJob *jobs.UploadCleanupJob,
	tokenService shared.TokenService,
	blocklist shared.TokenBlocklist,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(tokenService, blocklist, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Conesa Estates API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1, authMW)
	userHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	propertyHandler.RegisterRoutes(v1, authMW)
	uploadHandler.RegisterRoutes(v1, authMW)
	assistantHandler.RegisterRoutes(v1)
	contactHandler.RegisterRoutes(v1)
	i18nHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		ESClient:         esClient,
		AppLogger:        logger,
		authHandler:      authHandler,
		userHandler:      userHandler,
		propertyHandler:  propertyHandler,
		uploadHandler:    uploadHandler,
		assistantHandler: assistantHandler,
		contactHandler:   contactHandler,
		i18nHandler:      i18nHandler,
		uploadCleanupJob: uploadCleanupJob,
	}, nil
}

func (s *Server) Start() error {
	if s.uploadCleanupJob != nil {
		if err := s.uploadCleanupJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start upload cleanup job", zap.Error(err))
		}
	} else {
		s.logger.Info("Upload cleanup job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.uploadCleanupJob != nil {
		s.uploadCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
