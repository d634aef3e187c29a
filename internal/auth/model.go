// File: internal/auth/model.go
package auth

import (
	"context"

	"conesa_estates_backend/internal/shared"

	"github.com/google/uuid"
)

// LoginRequest defines the structure for email/password sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for creating a new profile.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name,omitempty" binding:"omitempty,max=100"`
}

// RefreshTokenRequest defines the structure for refresh token requests.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SessionResponse is the current-session payload.
type SessionResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// CredentialService is the slice of the user service the auth handlers need.
// It is implemented by user.ServiceImplementation.
type CredentialService interface {
	VerifyCredentials(ctx context.Context, email, password string) (*shared.User, error)
	Register(ctx context.Context, email, password, displayName string) (*shared.User, error)
}

// tokenUserData adapts shared.User to shared.UserDataForToken.
type tokenUserData struct {
	user *shared.User
}

func (d tokenUserData) GetID() uuid.UUID { return d.user.ID }
func (d tokenUserData) GetEmail() string { return d.user.Email }
func (d tokenUserData) GetRole() string  { return d.user.Role }

// ToSessionResponse maps a shared.User to the session payload.
func ToSessionResponse(u *shared.User) SessionResponse {
	return SessionResponse{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: shared.DeriveDisplayName(u.DisplayName, u.Email),
		Role:        u.Role,
	}
}
