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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Codepoint assignment errors
	ErrCodepointRange ErrorCode = "CODEPOINT_RANGE"

	// FileSystem errors
	ErrDirCreate ErrorCode = "DIR_CREATE"
	ErrDirRead   ErrorCode = "DIR_READ"
	ErrFileRead  ErrorCode = "FILE_READ"
	ErrFileCopy  ErrorCode = "FILE_COPY"
	ErrFileWrite ErrorCode = "FILE_WRITE"

	// Remote platform errors
	ErrAuth            ErrorCode = "AUTH"
	ErrChannelNotFound ErrorCode = "CHANNEL_NOT_FOUND"
	ErrAPIRequest      ErrorCode = "API_REQUEST"
	ErrNetworkFetch    ErrorCode = "NETWORK_FETCH"

	// Font compilation errors
	ErrFontBuild ErrorCode = "FONT_BUILD"
)

// TwitchmotesError represents a structured error with code and details
type TwitchmotesError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TwitchmotesError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TwitchmotesError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same error code
func (e *TwitchmotesError) Is(target error) bool {
	var targetErr *TwitchmotesError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TwitchmotesError with the given code and message
func New(code ErrorCode, message string) *TwitchmotesError {
	return &TwitchmotesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TwitchmotesError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TwitchmotesError {
	return &TwitchmotesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TwitchmotesError
func Wrap(err error, code ErrorCode, message string) *TwitchmotesError {
	if err == nil {
		return nil
	}
	return &TwitchmotesError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TwitchmotesError {
	if err == nil {
		return nil
	}
	return &TwitchmotesError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TwitchmotesError) WithDetail(key string, value interface{}) *TwitchmotesError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tmErr *TwitchmotesError
	if errors.As(err, &tmErr) {
		return tmErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TwitchmotesError
func GetErrorCode(err error) ErrorCode {
	var tmErr *TwitchmotesError
	if errors.As(err, &tmErr) {
		return tmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TwitchmotesError
func GetErrorDetails(err error) map[string]interface{} {
	var tmErr *TwitchmotesError
	if errors.As(err, &tmErr) {
		return tmErr.Details
	}
	return nil
}
