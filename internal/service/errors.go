package service

import (
	"errors"
	"fmt"

	"github.com/instihub/instihub-backend/internal/repository"
)

// Sentinel errors surfaced to handlers. Handlers translate these into
// response error codes; anything else is an internal error.
var (
	// ErrInvalidCredentials is the uniform login failure. It never reveals
	// which identity universe matched or whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoMatch is returned by an IdentityProvider whose universe does
	// not contain the email. Internal to resolution; never leaves the
	// resolver.
	ErrNoMatch = errors.New("no matching account")
	// ErrAccountDisabled rejects logins of deactivated platform admins.
	ErrAccountDisabled = errors.New("account is deactivated")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// ErrAlreadyProcessed rejects approve/reject on a request that left
	// the pending state.
	ErrAlreadyProcessed = errors.New("registration request already processed")
	// ErrDuplicateAdmin rejects adding an email already in the admins list.
	ErrDuplicateAdmin = errors.New("admin with this email already exists for institution")
	// ErrCannotAddSelf rejects adding the superadmin's own email as a
	// delegated admin.
	ErrCannotAddSelf = errors.New("superadmin cannot be added as a delegated admin")
)

// mapStoreErr lifts repository sentinels into the service error taxonomy.
func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	default:
		return fmt.Errorf("storage: %w", err)
	}
}
