package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden             ErrCode = "FORBIDDEN"
	ErrPlatformAccessOnly    ErrCode = "PLATFORM_ACCESS_ONLY"
	ErrInstitutionAccessOnly ErrCode = "INSTITUTION_ACCESS_ONLY"
	ErrSuperadminOnly        ErrCode = "SUPERADMIN_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrAlreadyProcessed ErrCode = "ALREADY_PROCESSED"
	ErrDuplicateAdmin   ErrCode = "DUPLICATE_ADMIN"
	ErrCannotAddSelf    ErrCode = "CANNOT_ADD_SELF"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrAccountDisabled:
		return "Account is deactivated."
	case ErrTokenRequired:
		return "Authentication token required."
	case ErrTokenInvalid:
		return "Authentication token is invalid or expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrPlatformAccessOnly:
		return "This resource is restricted to platform administrators."
	case ErrInstitutionAccessOnly:
		return "This resource is restricted to institution accounts."
	case ErrSuperadminOnly:
		return "Only the superadmin can perform this action."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Institution with the same EIIN or email already exists."
	case ErrAlreadyProcessed:
		return "This registration request has already been processed."
	case ErrDuplicateAdmin:
		return "An admin with this email already exists for the institution."
	case ErrCannotAddSelf:
		return "The superadmin cannot be added as a delegated admin."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests, please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
