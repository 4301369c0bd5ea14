package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Descriptor errors
	ErrDescriptorInvalid     ErrorCode = "DESCRIPTOR_INVALID"
	ErrConfigTypeUnsupported ErrorCode = "CONFIG_TYPE_UNSUPPORTED"
	ErrSourceUnavailable     ErrorCode = "SOURCE_UNAVAILABLE"

	// Templatization and instantiation errors
	ErrConfigMissing         ErrorCode = "CONFIG_MISSING"
	ErrTemplateMissing       ErrorCode = "TEMPLATE_MISSING"
	ErrAssignmentDuplicate   ErrorCode = "ASSIGNMENT_DUPLICATE"
	ErrPlaceholderUnresolved ErrorCode = "PLACEHOLDER_UNRESOLVED"

	// FileSystem errors
	ErrFileRead  ErrorCode = "FILE_READ"
	ErrFileWrite ErrorCode = "FILE_WRITE"

	// Wrapped process errors
	ErrExecFailed ErrorCode = "EXEC_FAILED"
)

// ConfseedError represents a structured error with code and details
type ConfseedError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ConfseedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ConfseedError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ConfseedError) Is(target error) bool {
	var targetErr *ConfseedError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ConfseedError with the given code and message
func New(code ErrorCode, message string) *ConfseedError {
	return &ConfseedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ConfseedError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ConfseedError {
	return &ConfseedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ConfseedError
func Wrap(err error, code ErrorCode, message string) *ConfseedError {
	if err == nil {
		return nil
	}
	return &ConfseedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ConfseedError {
	if err == nil {
		return nil
	}
	return &ConfseedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ConfseedError) WithDetail(key string, value interface{}) *ConfseedError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cErr *ConfseedError
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ConfseedError
func GetErrorCode(err error) ErrorCode {
	var cErr *ConfseedError
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return ErrUnknown
}
