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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrCancelled      ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Run definition errors
	ErrDefinitionLoad    ErrorCode = "DEFINITION_LOAD"
	ErrDefinitionInvalid ErrorCode = "DEFINITION_INVALID"
	ErrDefinitionVersion ErrorCode = "DEFINITION_VERSION"

	// Plugin lifecycle errors
	ErrPluginNotFound ErrorCode = "PLUGIN_NOT_FOUND"
	ErrPluginOptions  ErrorCode = "PLUGIN_OPTIONS"
	ErrPluginInit     ErrorCode = "PLUGIN_INIT"
	ErrPluginCleanup  ErrorCode = "PLUGIN_CLEANUP"
	ErrPluginPanic    ErrorCode = "PLUGIN_PANIC"

	// Evaluation errors
	ErrCacheLoad      ErrorCode = "CACHE_LOAD"
	ErrConditionEval  ErrorCode = "CONDITION_EVAL"
	ErrFieldEval      ErrorCode = "FIELD_EVAL"
	ErrProcessorRun   ErrorCode = "PROCESSOR_RUN"
	ErrProcessorFlush ErrorCode = "PROCESSOR_FLUSH"
	ErrSourceWalk     ErrorCode = "SOURCE_WALK"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// SifterError represents a structured error with code and details
type SifterError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SifterError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SifterError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SifterError) Is(target error) bool {
	var targetErr *SifterError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SifterError with the given code and message
func New(code ErrorCode, message string) *SifterError {
	return &SifterError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SifterError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SifterError {
	return &SifterError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SifterError
func Wrap(err error, code ErrorCode, message string) *SifterError {
	if err == nil {
		return nil
	}
	return &SifterError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SifterError {
	if err == nil {
		return nil
	}
	return &SifterError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SifterError) WithDetail(key string, value interface{}) *SifterError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *SifterError) WithDetails(details map[string]interface{}) *SifterError {
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
	var sifterErr *SifterError
	if errors.As(err, &sifterErr) {
		return sifterErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SifterError
func GetErrorCode(err error) ErrorCode {
	var sifterErr *SifterError
	if errors.As(err, &sifterErr) {
		return sifterErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SifterError
func GetErrorDetails(err error) map[string]interface{} {
	var sifterErr *SifterError
	if errors.As(err, &sifterErr) {
		return sifterErr.Details
	}
	return nil
}
