package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Authentication
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Draft validation
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingContent     ErrorCode = "MISSING_CONTENT"
	ErrCodeNoPlatformSelected ErrorCode = "NO_PLATFORM_SELECTED"
	ErrCodeMissingDate        ErrorCode = "MISSING_DATE"
	ErrCodeMissingTime        ErrorCode = "MISSING_TIME"
	ErrCodeMissingRequired    ErrorCode = "MISSING_REQUIRED"

	// Platforms
	ErrCodePlatformNotConnected ErrorCode = "PLATFORM_NOT_CONNECTED"
	ErrCodeInvalidPlatform      ErrorCode = "INVALID_PLATFORM"

	// Resource
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Rate limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Persistence
	ErrCodeStoreFailure     ErrorCode = "STORE_FAILURE"
	ErrCodeLoadParseFailure ErrorCode = "LOAD_PARSE_FAILURE"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func MissingContent() *AppError {
	return New(ErrCodeMissingContent, "Post content is required")
}

func NoPlatformSelected() *AppError {
	return New(ErrCodeNoPlatformSelected, "Select at least one platform")
}

func MissingDate() *AppError {
	return New(ErrCodeMissingDate, "Scheduled date is required")
}

func MissingTime() *AppError {
	return New(ErrCodeMissingTime, "Scheduled time is required")
}

func MissingRequired(field string) *AppError {
	return New(ErrCodeMissingRequired, fmt.Sprintf("%s is required", field))
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func PlatformNotConnected(platform string) *AppError {
	return New(ErrCodePlatformNotConnected, fmt.Sprintf("Connect your %s account first", platform))
}

func InvalidPlatform(platform string) *AppError {
	return New(ErrCodeInvalidPlatform, fmt.Sprintf("Unknown platform: %s", platform))
}

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded")
}

func StoreFailure(cause error) *AppError {
	return Wrap(ErrCodeStoreFailure, "Key-value store error", cause)
}

func LoadParseFailure(key string, cause error) *AppError {
	return Wrap(ErrCodeLoadParseFailure, fmt.Sprintf("Malformed record under %q", key), cause)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeInternal
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsValidation reports whether the error carries one of the draft
// validation codes.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeValidation, ErrCodeMissingContent, ErrCodeNoPlatformSelected,
		ErrCodeMissingDate, ErrCodeMissingTime, ErrCodeMissingRequired:
		return true
	}
	return false
}
