// Package exception provides the error taxonomy of the tuning metadata store.
// Every failure surfaced by the repository layer is a *StoreError carrying one
// of the sentinel kinds below, so callers can branch with errors.Is.
package exception

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrValidation marks a missing or invalid required field.
	ErrValidation = errors.New("validation error")
	// ErrInvalidEnumValue marks a value outside a closed enumeration.
	ErrInvalidEnumValue = errors.New("invalid enum value")
	// ErrConstraintViolation marks an unresolved foreign key, a duplicate natural key,
	// or a delete of a row that is still referenced.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrNotFound marks an operation targeting an identity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable marks a connectivity failure of the storage engine.
	// It is the only kind callers may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StoreError is the error type returned by the store.
type StoreError struct {
	// Op is the operation that failed (e.g., "SQLTuningRepository.CreateFlowExecution").
	Op string
	// Kind is one of the sentinel errors of this package.
	Kind error
	// Field names the offending field, if any.
	Field string
	// Message is a concise description of the failure.
	Message string
	// Err is the wrapped original error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(e.Op)
	b.WriteString("] ")
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the original error to errors.Is / errors.As.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// newError captures the common construction of all kinds.
func newError(kind error, op, field, message string, err error) *StoreError {
	return &StoreError{Op: op, Kind: kind, Field: field, Message: message, Err: err}
}

// NewValidationError reports a missing or invalid required field.
func NewValidationError(op, field, message string) *StoreError {
	return newError(ErrValidation, op, field, message, nil)
}

// NewInvalidEnumValue reports a value outside the closed set of field.
func NewInvalidEnumValue(op, field, value string) *StoreError {
	return newError(ErrInvalidEnumValue, op, field, fmt.Sprintf("unknown value %q", value), nil)
}

// NewConstraintViolation reports a foreign key, uniqueness, or delete-while-referenced violation.
func NewConstraintViolation(op, field, message string, err error) *StoreError {
	return newError(ErrConstraintViolation, op, field, message, err)
}

// NewNotFound reports that the targeted identity does not exist.
func NewNotFound(op, message string) *StoreError {
	return newError(ErrNotFound, op, "", message, nil)
}

// NewStorageUnavailable reports a connectivity failure of the storage engine.
func NewStorageUnavailable(op, message string, err error) *StoreError {
	return newError(ErrStorageUnavailable, op, "", message, err)
}

// NewStorageError wraps an unclassified storage failure. Connectivity failures
// become StorageUnavailable; anything else keeps the original error as its kind.
func NewStorageError(op, message string, err error) error {
	if IsConnectivityError(err) {
		return NewStorageUnavailable(op, message, err)
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("[%s] %s: %w", op, message, err)
}

// WithOp re-labels a StoreError produced by a lower layer with the operation
// that surfaced it. Other errors are returned unchanged.
func WithOp(err error, op string) error {
	var se *StoreError
	if errors.As(err, &se) && se.Op == "" {
		se.Op = op
	}
	return err
}

// IsRetryable reports whether a caller may retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsConnectivityError detects connection-level failures of a database driver.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStorageUnavailable) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "sql: database is closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}

// KindName returns a short label of the error kind, used for metrics and logs.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidEnumValue):
		return "invalid_enum"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStorageUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// FieldOf returns the offending field of a StoreError, or "".
func FieldOf(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Field
	}
	return ""
}
