package model

import "time"

// PlatformRole is the privilege level of a platform operator account.
type PlatformRole string

const (
	PlatformRoleAdmin      PlatformRole = "admin"
	PlatformRoleSuperadmin PlatformRole = "superadmin"
)

// PlatformAdmin is an operator of the hosting platform itself. This is an
// independent identity space from institution accounts.
type PlatformAdmin struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         PlatformRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PlatformLoginRequest is the payload for platform admin authentication.
type PlatformLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
