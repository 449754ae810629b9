package model

import "time"

// PendingStatus is the lifecycle state of a registration request.
// pending -> approved or pending -> rejected; both transitions are terminal.
type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusApproved PendingStatus = "approved"
	PendingStatusRejected PendingStatus = "rejected"
)

// PendingInstitution is a registration request awaiting platform-admin review.
type PendingInstitution struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	EIIN            string        `json:"eiin"`
	SuperadminEmail string        `json:"superadmin_email"`
	PasswordHash    string        `json:"-"`
	Phone           string        `json:"phone,omitempty"`
	Address         string        `json:"address,omitempty"`
	Description     string        `json:"description,omitempty"`
	Status          PendingStatus `json:"status"`
	AdminNotes      string        `json:"admin_notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// RejectInstitutionRequest carries the optional rejection reason.
type RejectInstitutionRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}
