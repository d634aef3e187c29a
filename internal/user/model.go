// File: internal/user/model.go
package user

import (
	"time"

	"conesa_estates_backend/internal/common"
	"conesa_estates_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents a profile row in the database. One row exists per
// authenticated identity; the row ID is the session subject.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Email        string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string  `gorm:"type:varchar(255);not null"`
	DisplayName  *string `gorm:"type:varchar(100)"`
	Role         string  `gorm:"type:varchar(50);not null;default:'agent'"`
	Theme        string  `gorm:"type:varchar(20);not null;default:'light'"`
	Language     string  `gorm:"type:varchar(10);not null;default:'es'"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "profiles"
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// UpdateRoleRequest toggles a profile between admin and agent.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin agent"`
}

// PreferencesRequest updates the persisted UI preferences.
type PreferencesRequest struct {
	Theme    string `json:"theme" binding:"required,oneof=light dark"`
	Language string `json:"language" binding:"required,oneof=es en"`
}

// PreferencesResponse is the persisted UI preferences payload.
type PreferencesResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// UserResponse defines the structure for profile data sent in API responses.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
// The password hash never leaves this package.
func ToUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.EffectiveDisplayName(),
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}

// EffectiveDisplayName returns the stored display name, falling back to the
// email's local part.
func (u *User) EffectiveDisplayName() string {
	return shared.DeriveDisplayName(u.DisplayName, u.Email)
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}
