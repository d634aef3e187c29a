// File: internal/user/adapter.go
package user

import (
	"conesa_estates_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
// The field list is fixed on purpose: records are mapped explicitly at the
// boundary instead of being merged shape-on-shape.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:          dbUser.ID,
		Email:       dbUser.Email,
		DisplayName: dbUser.DisplayName,
		Role:        dbUser.Role,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}
