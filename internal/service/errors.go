package service

// Business outcome codes returned to clients alongside conventional
// HTTP statuses. These are expected outcomes, not exceptions: they
// travel as values, never as panics past the service boundary.
const (
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeAlreadyCompleted      = "ALREADY_COMPLETED"
	CodeInvalidStatus         = "INVALID_STATUS"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeUnauthorizedFranchise = "UNAUTHORIZED_FRANCHISE"
	CodeConfirmationRequired  = "CONFIRMATION_REQUIRED"
	CodeValidationError       = "VALIDATION_ERROR"
)

// DomainError is a machine-readable business outcome. Message is the
// user-facing Portuguese text; Code is what clients branch on.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func domainErr(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}
