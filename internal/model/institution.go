package model

import "time"

// DelegatedAdminRole tags a delegated admin entry. The "master" tag marks
// the row mirroring the registering superadmin; authorization checks are
// made against Institution.SuperadminEmail, not against this tag.
type DelegatedAdminRole string

const (
	DelegatedRoleMaster DelegatedAdminRole = "master"
	DelegatedRoleAdmin  DelegatedAdminRole = "admin"
)

// Institution is an approved, active tenant of the platform.
type Institution struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	EIIN            string    `json:"eiin"`
	SuperadminEmail string    `json:"superadmin_email"`
	PasswordHash    string    `json:"-"`
	Slug            string    `json:"slug"`
	LoginID         string    `json:"login_id"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	Description     string    `json:"description,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DelegatedAdmin is an institution-scoped admin account added by the
// institution's superadmin. PasswordHash is only populated by the
// authentication-only read path; public listings never carry it.
type DelegatedAdmin struct {
	ID            int                `json:"id"`
	InstitutionID int                `json:"institution_id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	PasswordHash  string             `json:"-"`
	Role          DelegatedAdminRole `json:"role"`
	CreatedAt     time.Time          `json:"created_at"`
}

// RegisterInstitutionRequest is the public registration intake payload.
type RegisterInstitutionRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	EIIN        string `json:"eiin" binding:"required,min=4,max=20"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	Address     string `json:"address" binding:"omitempty,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// AddDelegatedAdminRequest is the payload for granting institution access.
type AddDelegatedAdminRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"omitempty,min=6,max=128"`
}

// SetActiveRequest toggles an institution's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
