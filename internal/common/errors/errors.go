// Package errors provides standardized error handling for the load-flexibility run.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigurationInvalid     ErrorCode = "CONFIGURATION_INVALID"
	ErrCodeGeneratorFailed          ErrorCode = "GENERATOR_FAILED"
	ErrCodeMalformedSchedule        ErrorCode = "MALFORMED_SCHEDULE"
	ErrCodeDocumentStructureMissing ErrorCode = "DOCUMENT_STRUCTURE_MISSING"
	ErrCodeScheduleWriteFailed      ErrorCode = "SCHEDULE_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewConfigurationInvalidError is raised when user inputs cannot form a usable
// offset configuration, e.g. an unknown offset type or absolute-only fields
// supplied under relative mode.
func NewConfigurationInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "Offset configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeneratorFailedError wraps a failed baseline-schedule generator invocation.
// Details carries the captured stderr or the payload decode failure.
func NewGeneratorFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeneratorFailed,
		Message:   "Baseline schedule generator failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedScheduleError is raised when a baseline schedule's heating and
// cooling arrays have mismatched lengths.
func NewMalformedScheduleError(heatingLen, coolingLen int) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedSchedule,
		Message:   "Heating and cooling setpoint arrays have mismatched lengths",
		Details:   fmt.Sprintf("heating: %d, cooling: %d", heatingLen, coolingLen),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentStructureMissingError is raised when an expected building element
// or identifier is absent from the HPXML document.
func NewDocumentStructureMissingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentStructureMissing,
		Message:   "Expected building structure missing from document",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScheduleWriteFailedError wraps a failed CSV or document write.
func NewScheduleWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScheduleWriteFailed,
		Message:   "Failed to persist schedule artifact",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIGURATION"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "GENERATOR"):
		return "GENERATOR"
	case strings.Contains(codeStr, "SCHEDULE"):
		return "SCHEDULE"
	case strings.Contains(codeStr, "DOCUMENT"):
		return "DOCUMENT"
	default:
		return "OTHER"
	}
}
