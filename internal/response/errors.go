package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrModeratorOnly      ErrCode = "MODERATOR_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidTimer   ErrCode = "INVALID_TIMER_VALUE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam session ──────────────────────────────────────────────────
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"
	ErrSessionNotFound  ErrCode = "SESSION_NOT_FOUND"
	ErrSessionSubmitted ErrCode = "SESSION_ALREADY_SUBMITTED"
	ErrSessionNotDone   ErrCode = "SESSION_NOT_SUBMITTED"

	// ─── View routing ──────────────────────────────────────────────────
	ErrBadTransition ErrCode = "INVALID_VIEW_TRANSITION"

	// ─── AI import ─────────────────────────────────────────────────────
	ErrImportBusy   ErrCode = "IMPORT_IN_PROGRESS"
	ErrImportFailed ErrCode = "IMPORT_FAILED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is not valid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrModeratorOnly:
		return "This resource is restricted to the moderator."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidTimer:
		return "Timer value must be one of 30, 60, 120 or 300 seconds."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Exam session ──────────────────────────────────────────────────
	case ErrNoQuestions:
		return "No questions are available at the moment. Please contact the moderator."
	case ErrSessionNotFound:
		return "Exam session not found. It may have ended with the server."
	case ErrSessionSubmitted:
		return "This exam has already been submitted."
	case ErrSessionNotDone:
		return "The exam has not been submitted yet."

	// ─── View routing ──────────────────────────────────────────────────
	case ErrBadTransition:
		return "That screen is not reachable from here."

	// ─── AI import ─────────────────────────────────────────────────────
	case ErrImportBusy:
		return "An import is already running. Please wait for it to finish."
	case ErrImportFailed:
		return "Failed to parse questions using AI. Please try again."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
