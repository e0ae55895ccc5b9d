package errors

import (
	"net/http"

	"cycletrack/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// Stable error codes exposed to API callers.
const (
	CodeEmailAlreadyRegistered  = "EMAIL_ALREADY_REGISTERED"
	CodeInvalidCredentialFormat = "INVALID_CREDENTIAL_FORMAT"
	CodeCredentialMismatch      = "CREDENTIAL_MISMATCH"
	CodeAccountNotFound         = "ACCOUNT_NOT_FOUND"
	CodeInvalidCredential       = "INVALID_CREDENTIAL"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodePasswordHashFailed      = "PASSWORD_HASH_FAILED"
	CodeTokenIssueFailed        = "TOKEN_ISSUE_FAILED"
	CodeDatabaseExecuteFailed   = "DATABASE_EXECUTE_FAILED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same error code, so a sentinel
// enriched through WithDetails still satisfies errors.Is.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

var (
	// Registration errors
	ErrEmailAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		CodeEmailAlreadyRegistered,
		"Email is already registered",
		"",
	)

	ErrInvalidCredentialFormat = NewBaseError(
		http.StatusBadRequest,
		CodeInvalidCredentialFormat,
		"Password must be at least 6 characters long and include at least one letter, one number, and one special character",
		"",
	)

	ErrCredentialMismatch = NewBaseError(
		http.StatusBadRequest,
		CodeCredentialMismatch,
		"Passwords do not match",
		"",
	)

	// Lookup and authentication errors
	ErrAccountNotFound = NewBaseError(
		http.StatusNotFound,
		CodeAccountNotFound,
		"User not found",
		"",
	)

	ErrInvalidCredential = NewBaseError(
		http.StatusUnauthorized,
		CodeInvalidCredential,
		"Invalid password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		CodeUnauthorized,
		"Authentication failed, invalid token",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Input validation failed",
		"",
	)

	// Infrastructure errors
	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		CodePasswordHashFailed,
		"Password processing failed",
		"",
	)

	ErrTokenIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		CodeTokenIssueFailed,
		"Failed to issue token",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		CodeInternalError,
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents a storage failure, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a storage-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, e.details).Error()
}

// Unwrap exposes the underlying driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

func (e *DatabaseExecuteError) ErrorCode() string {
	return CodeDatabaseExecuteFailed
}

func (e *DatabaseExecuteError) Message() string {
	return "Storage operation failed"
}

func (e *DatabaseExecuteError) Details() string {
	return e.details
}
