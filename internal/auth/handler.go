// File: internal/auth/handler.go
package auth

import (
	"context"
	"errors"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/config"
	"conesa_estates_backend/internal/middleware"
	"conesa_estates_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService       shared.Service
	credentialService CredentialService
	tokenService      shared.TokenService
	blocklist         shared.TokenBlocklist
	cfg               *config.Config
	logger            *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService shared.Service,
	credentialService CredentialService,
	tokenService shared.TokenService,
	blocklist shared.TokenBlocklist,
	cfg *config.Config,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:       userService,
		credentialService: credentialService,
		tokenService:      tokenService,
		blocklist:         blocklist,
		cfg:               cfg,
		logger:            logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.POST("/refresh", h.refreshToken)

		authed := authGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("/logout", h.logout)
			authed.GET("/session", h.getSession)
		}
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	// Bound how long a sign-in attempt may block waiting on the database.
	// A slow provider surfaces a retryable timeout instead of hanging the form.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.LoginTimeout)
	defer cancel()

	loggedInUser, err := h.credentialService.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			h.logger.Warn("Login timed out", zap.String("email", req.Email))
			common.RespondWithError(c, common.ErrRequestTimeout)
			return
		}
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid email or password."))
		return
	}

	tokens, err := h.issueTokens(loggedInUser)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not issue session tokens."))
		return
	}

	common.RespondOK(c, "Login successful.", gin.H{
		"user":  ToSessionResponse(loggedInUser),
		"token": tokens,
	})
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	newUser, err := h.credentialService.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	tokens, err := h.issueTokens(newUser)
	if err != nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not issue session tokens."))
		return
	}

	common.RespondCreated(c, "Registration successful.", gin.H{
		"user":  ToSessionResponse(newUser),
		"token": tokens,
	})
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Refresh token: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	claims, err := h.tokenService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		h.logger.Warn("Refresh token validation failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired refresh token."))
		return
	}

	// Re-read the profile so a role change since issuance lands in the new token.
	u, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("User not found for valid refresh token claims", zap.String("userID", claims.UserID.String()), zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User associated with refresh token not found."))
		return
	}

	newAccessToken, newAccessExpiresAt, err := h.tokenService.GenerateAccessToken(tokenUserData{user: u})
	if err != nil {
		h.logger.Error("Failed to generate new access token during refresh", zap.Error(err), zap.String("userID", u.ID.String()))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate new access token."))
		return
	}

	common.RespondOK(c, "Token refreshed successfully.", &shared.TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    newAccessExpiresAt,
	})
}

func (h *Handler) logout(c *gin.Context) {
	claims := middleware.GetUserClaimsFromContext(c)
	if claims == nil || claims.ID == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No active session."))
		return
	}

	if err := h.blocklist.AddToBlocklist(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		h.logger.Error("Failed to blocklist token on logout", zap.Error(err))
		common.RespondWithError(c, common.ErrInternalServer)
		return
	}

	common.RespondOK(c, "Signed out.", nil)
}

// getSession resolves the current session's profile. A missing profile row is
// recovered locally: the session degrades to the agent role with a display
// name derived from the token's email. The stored role is the only authority;
// there is no client-side or email-based override.
func (h *Handler) getSession(c *gin.Context) {
	claims := middleware.GetUserClaimsFromContext(c)
	if claims == nil {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}

	u, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Warn("Profile lookup failed for active session, falling back to agent role",
			zap.String("userID", claims.UserID.String()),
			zap.Error(err),
		)
		common.RespondOK(c, "Session retrieved.", SessionResponse{
			UserID:      claims.UserID,
			Email:       claims.Email,
			DisplayName: shared.DeriveDisplayName(nil, claims.Email),
			Role:        common.RoleAgent,
		})
		return
	}

	common.RespondOK(c, "Session retrieved.", ToSessionResponse(u))
}

func (h *Handler) issueTokens(u *shared.User) (*shared.TokenResponse, error) {
	data := tokenUserData{user: u}
	accessToken, accessExpiresAt, err := h.tokenService.GenerateAccessToken(data)
	if err != nil {
		h.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, err
	}
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(data)
	if err != nil {
		h.logger.Error("Failed to generate refresh token", zap.Error(err), zap.String("userID", u.ID.String()))
		return nil, err
	}
	return &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}, nil
}
