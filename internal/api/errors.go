package api

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes backend call failures
type ErrorKind string

const (
	// ErrKindTransport indicates the request could not complete at all
	ErrKindTransport ErrorKind = "transport"

	// ErrKindDeclared indicates the backend answered with success=false
	ErrKindDeclared ErrorKind = "declared"

	// ErrKindStatus indicates a non-2xx HTTP status
	ErrKindStatus ErrorKind = "status"

	// ErrKindDecode indicates a response body that could not be decoded
	ErrKindDecode ErrorKind = "decode"
)

// BackendError represents a failed call to the dashboard backend.
type BackendError struct {
	Kind       ErrorKind
	Message    string
	Operation  string
	StatusCode int
	Cause      error
}

func (e *BackendError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Operation, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

func newTransportError(op, baseURL string, cause error) *BackendError {
	return &BackendError{
		Kind:      ErrKindTransport,
		Operation: op,
		Message:   fmt.Sprintf("request failed; confirm the backend is reachable at %s", baseURL),
		Cause:     cause,
	}
}

func newDeclaredError(op, message string) *BackendError {
	if message == "" {
		message = "the backend reported a failure"
	}
	return &BackendError{
		Kind:      ErrKindDeclared,
		Operation: op,
		Message:   message,
	}
}

func newStatusError(op string, status int, detail string) *BackendError {
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", status)
	}
	return &BackendError{
		Kind:       ErrKindStatus,
		Operation:  op,
		Message:    detail,
		StatusCode: status,
	}
}

func newDecodeError(op string, cause error) *BackendError {
	return &BackendError{
		Kind:      ErrKindDecode,
		Operation: op,
		Message:   "failed to decode response",
		Cause:     cause,
	}
}

// IsDeclared reports whether err is a success=false answer from the backend.
func IsDeclared(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == ErrKindDeclared
}

// UserMessage extracts the text worth showing for err, falling back to
// fallback when err carries nothing presentable.
func UserMessage(err error, fallback string) string {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
