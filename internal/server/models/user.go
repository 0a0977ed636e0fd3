// Package models defines the server-side domain types and their
// validation rules.
package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account. PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastAccess   *time.Time `json:"lastAccess"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Caller is the authenticated identity behind the current request.
type Caller struct {
	ID   string
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// OwnerScope returns the owner id that queries must be restricted to:
// empty for admins (all rows), the caller's own id otherwise.
func (c Caller) OwnerScope() string {
	if c.IsAdmin() {
		return ""
	}
	return c.ID
}
