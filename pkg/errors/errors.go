package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Root and navigation errors
	ErrNoRootAvailable         ErrorCode = "NO_ROOT_AVAILABLE"
	ErrDirectoryNotFound       ErrorCode = "DIRECTORY_NOT_FOUND"
	ErrCannotNavigateAboveRoot ErrorCode = "CANNOT_NAVIGATE_ABOVE_ROOT"
	ErrOutsideRoot             ErrorCode = "OUTSIDE_ROOT"
	ErrNotBrowsing             ErrorCode = "NOT_BROWSING"

	// Filesystem errors
	ErrPermissionDenied     ErrorCode = "PERMISSION_DENIED"
	ErrAlreadyExists        ErrorCode = "ALREADY_EXISTS"
	ErrInvalidName          ErrorCode = "INVALID_NAME"
	ErrNotFound             ErrorCode = "NOT_FOUND"
	ErrConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
	ErrFileAccess           ErrorCode = "FILE_ACCESS"
	ErrFileCreate           ErrorCode = "FILE_CREATE"
	ErrTrash                ErrorCode = "TRASH"

	// Template errors
	ErrMissingPlaceholder ErrorCode = "MISSING_PLACEHOLDER"
	ErrTemplateNotFound   ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateInvalid    ErrorCode = "TEMPLATE_INVALID"

	// Host errors
	ErrNoActiveDocument ErrorCode = "NO_ACTIVE_DOCUMENT"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
	ErrConfigSave ErrorCode = "CONFIG_SAVE"
)

// BrowserError represents a structured error with code and details
type BrowserError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BrowserError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BrowserError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BrowserError) Is(target error) bool {
	var targetErr *BrowserError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BrowserError with the given code and message
func New(code ErrorCode, message string) *BrowserError {
	return &BrowserError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BrowserError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BrowserError {
	return &BrowserError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BrowserError
func Wrap(err error, code ErrorCode, message string) *BrowserError {
	if err == nil {
		return nil
	}
	return &BrowserError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BrowserError {
	if err == nil {
		return nil
	}
	return &BrowserError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// FromFS classifies a filesystem error into the browser taxonomy.
// notFound is the code used for fs.ErrNotExist, since a missing directory
// and a missing entry are reported differently. Errors that match no known
// class are wrapped with ErrFileAccess.
func FromFS(err error, notFound ErrorCode, path string) *BrowserError {
	if err == nil {
		return nil
	}

	var wrapped *BrowserError
	switch {
	case errors.As(err, &wrapped):
		return wrapped
	case errors.Is(err, fs.ErrNotExist):
		wrapped = Wrapf(err, notFound, "%s does not exist", path)
	case errors.Is(err, fs.ErrPermission):
		wrapped = Wrapf(err, ErrPermissionDenied, "permission denied: %s", path)
	case errors.Is(err, fs.ErrExist):
		wrapped = Wrapf(err, ErrAlreadyExists, "%s already exists", path)
	default:
		wrapped = Wrapf(err, ErrFileAccess, "cannot access %s", path)
	}
	return wrapped.WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *BrowserError) WithDetail(key string, value interface{}) *BrowserError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *BrowserError) WithDetails(details map[string]interface{}) *BrowserError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var browserErr *BrowserError
	if errors.As(err, &browserErr) {
		return browserErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BrowserError
func GetErrorCode(err error) ErrorCode {
	var browserErr *BrowserError
	if errors.As(err, &browserErr) {
		return browserErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BrowserError
func GetErrorDetails(err error) map[string]interface{} {
	var browserErr *BrowserError
	if errors.As(err, &browserErr) {
		return browserErr.Details
	}
	return nil
}

// Is is errors.Is from the standard library, re-exported so callers that
// import this package under the name errors keep access to it.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
