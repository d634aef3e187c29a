// File: internal/common/roles.go
package common

const (
	// RoleAdmin can manage every property and toggle other users' roles.
	RoleAdmin = "admin"
	// RoleAgent is the default role for new registrations.
	RoleAgent = "agent"
)

// IsValidRole reports whether the given role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAgent
}
