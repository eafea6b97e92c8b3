package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a partscan error code.
type ErrorCode string

const (
	ErrNoDeviceAvailable      ErrorCode = "NO_DEVICE_AVAILABLE"      // 404
	ErrDeviceOpenFailed       ErrorCode = "DEVICE_OPEN_FAILED"       // 502
	ErrNoAlternateDevice      ErrorCode = "NO_ALTERNATE_DEVICE"      // 409
	ErrPersistenceWriteFailed ErrorCode = "PERSISTENCE_WRITE_FAILED" // 507
	ErrNotFound               ErrorCode = "NOT_FOUND"                // 404
	ErrInvalidRequest         ErrorCode = "INVALID_REQUEST"          // 400
	ErrInternal               ErrorCode = "INTERNAL"                 // 500
)

// ScanError represents a structured error with code, status, and details.
type ScanError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Cause   error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// NewNoDeviceAvailable creates an error for when device enumeration
// returns an empty list.
func NewNoDeviceAvailable() *ScanError {
	return &ScanError{
		Code:    ErrNoDeviceAvailable,
		Status:  404,
		Message: "no camera device available",
	}
}

// NewDeviceOpenFailed creates an error for a camera open failure,
// carrying the underlying cause.
func NewDeviceOpenFailed(deviceID string, cause error) *ScanError {
	return &ScanError{
		Code:    ErrDeviceOpenFailed,
		Status:  502,
		Message: fmt.Sprintf("failed to open camera device %q: %v", deviceID, cause),
		Details: map[string]any{"device_id": deviceID},
		Cause:   cause,
	}
}

// NewNoAlternateDevice creates an error for a device switch attempted
// with fewer than two enumerated devices.
func NewNoAlternateDevice() *ScanError {
	return &ScanError{
		Code:    ErrNoAlternateDevice,
		Status:  409,
		Message: "no alternate camera device to switch to",
	}
}

// NewPersistenceWriteFailed creates an error for a history store write
// failure. The in-memory ledger stays authoritative; this is advisory.
func NewPersistenceWriteFailed(cause error) *ScanError {
	return &ScanError{
		Code:    ErrPersistenceWriteFailed,
		Status:  507,
		Message: fmt.Sprintf("failed to persist scan history: %v", cause),
		Cause:   cause,
	}
}

// NewNotFound creates a 404 error for a missing history record.
func NewNotFound(id string) *ScanError {
	return &ScanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("history record not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ScanError {
	return &ScanError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ScanError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ScanError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Cause:   err,
	}
}

// Is checks if an error is (or wraps) a ScanError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *ScanError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}
