package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Community errors
var (
	ErrCommunityNotFound  = errors.New("community not found")
	ErrCommunityIsPrivate = errors.New("community is private")
	ErrInvalidJoinCode    = errors.New("invalid join code")
	ErrNotMember          = errors.New("not a member")
	ErrAlreadyMember      = errors.New("already a member")
	ErrOwnerCannotLeave   = errors.New("owner cannot leave their own community")
)

// Project errors
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrHostCannotLeave = errors.New("host cannot leave their own project")
)

// Startup errors
var (
	ErrStartupNotFound    = errors.New("startup not found")
	ErrFounderCannotLeave = errors.New("founder cannot leave their own startup")
)

// Post errors
var (
	ErrPostNotFound = errors.New("post not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError creates a CustomError wrapping the given sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewResourceNotFoundError creates a not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission-denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}
