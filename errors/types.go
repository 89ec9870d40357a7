package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Metrics store errors
	ErrCodeInvalidPhase ErrorCode = "INVALID_PHASE"
	ErrCodeInvalidField ErrorCode = "INVALID_FIELD"

	// Daemon errors
	ErrCodeDaemonNotRunning ErrorCode = "DAEMON_NOT_RUNNING"
	ErrCodeDaemonRunning    ErrorCode = "DAEMON_RUNNING"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// PulseError represents a structured error with context
type PulseError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PulseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PulseError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PulseError) WithDetail(key string, value interface{}) *PulseError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PulseError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// IsInvalidArgument reports whether the error was caused by bad caller input
// rather than an internal failure.
func (e *PulseError) IsInvalidArgument() bool {
	switch e.Code {
	case ErrCodeInvalidPhase, ErrCodeInvalidField, ErrCodeInvalidInput:
		return true
	}
	return false
}

// New creates a new PulseError
func New(code ErrorCode, message string) *PulseError {
	return &PulseError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PulseError
func Wrap(err error, code ErrorCode, message string) *PulseError {
	return &PulseError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific PulseError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	pulseErr, ok := err.(*PulseError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return pulseErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	pulseErr, ok := err.(*PulseError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return pulseErr.Code
}

// As returns the first PulseError in the chain, if any.
func As(err error) (*PulseError, bool) {
	for err != nil {
		if pulseErr, ok := err.(*PulseError); ok {
			return pulseErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
