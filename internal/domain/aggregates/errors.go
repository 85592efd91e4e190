package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across the service.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeAccessDenied       ErrorCode = "access_denied"
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodeConsistencyRisk    ErrorCode = "consistency_risk"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func Validation(op, message string) error {
	return NewError(CodeValidation, op, message, nil)
}

func NotFound(op, message string) error {
	return NewError(CodeNotFound, op, message, nil)
}

func AccessDenied(op, message string) error {
	return NewError(CodeAccessDenied, op, message, nil)
}

// Unauthenticated means no verified acting user is attached to the request.
func Unauthenticated(op string) error {
	return NewError(CodeUnauthenticated, op, "authentication required", nil)
}

// ConsistencyRisk marks a half-applied two-step write (application row vs. the
// owner's reference set). The cause is kept for logs only.
func ConsistencyRisk(op, message string, cause error) error {
	return NewError(CodeConsistencyRisk, op, message, cause)
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// PublicMessage is the caller-facing text. Internal causes are never exposed.
func PublicMessage(err error) string {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return "operation did not complete"
	}
	switch aggErr.Code {
	case CodeInternal, CodeRetryable:
		return "operation did not complete"
	case CodeConsistencyRisk:
		return "operation partially completed; the application list may be out of sync"
	}
	if msg := strings.TrimSpace(aggErr.Message); msg != "" {
		return msg
	}
	return string(aggErr.Code)
}
