// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	// RoleReader is the default role: read, comment, bookmark.
	RoleReader Role = "reader"
	// RoleCreator may author and manage posts and categories.
	RoleCreator Role = "creator"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleReader || r == RoleCreator
}

// DefaultAvatar is assigned to users that never set an avatar.
const DefaultAvatar = "default-avatar.jpg"

// User represents a Notely account. Accounts are created either by local
// registration (PasswordHash set) or by the identity provider's webhook
// (ExternalID set). Both fields may be present once an account is linked.
type User struct {
	ID           uuid.UUID `json:"id"`
	ExternalID   *string   `json:"-"` // identity-provider key, never serialized
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // nil for provider-only accounts
	Role         Role      `json:"role"`
	Avatar       string    `json:"avatar"`
	TOTPSecret   *string   `json:"-"` // nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsCreator returns true if the user may author posts and categories.
func (u *User) IsCreator() bool {
	return u.Role == RoleCreator
}
