package model

import "time"

// Instructor is a teaching account. The resolver treats instructors as an
// opaque identity universe; domain fields beyond identity live elsewhere.
type Instructor struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Phone         string    `json:"phone,omitempty"`
	InstitutionID *int      `json:"institution_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
