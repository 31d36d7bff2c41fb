package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and for the HTTP layer.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeInvalidArgument    Code = "invalid_argument"
	CodeFailedPrecondition Code = "failed_precondition"
	CodeAlreadyExists      Code = "already_exists"
	CodeInsufficientFunds  Code = "insufficient_funds"
	CodePermissionDenied   Code = "permission_denied"
	CodeInternal           Code = "internal"
)

// Sentinel errors, one per code, so callers can use errors.Is without
// caring about the message.
var (
	ErrNotFound           = &Error{code: CodeNotFound, message: "not found"}
	ErrInvalidArgument    = &Error{code: CodeInvalidArgument, message: "invalid argument"}
	ErrFailedPrecondition = &Error{code: CodeFailedPrecondition, message: "failed precondition"}
	ErrAlreadyExists      = &Error{code: CodeAlreadyExists, message: "already exists"}
	ErrInsufficientFunds  = &Error{code: CodeInsufficientFunds, message: "insufficient funds"}
	ErrPermissionDenied   = &Error{code: CodePermissionDenied, message: "permission denied"}
	ErrInternal           = &Error{code: CodeInternal, message: "internal error"}
)

// Error is a classified application error.
type Error struct {
	code    Code
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Code returns the error's classification.
func (e *Error) Code() Code {
	return e.code
}

// Is matches any error carrying the same code, so
// errors.Is(NotFound("user not found"), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent entity.
func NotFound(format string, args ...any) *Error {
	return newError(CodeNotFound, format, args...)
}

// InvalidArgument reports malformed or out-of-range input.
func InvalidArgument(format string, args ...any) *Error {
	return newError(CodeInvalidArgument, format, args...)
}

// FailedPrecondition reports a valid request against the wrong state.
func FailedPrecondition(format string, args ...any) *Error {
	return newError(CodeFailedPrecondition, format, args...)
}

// AlreadyExists reports a uniqueness violation.
func AlreadyExists(format string, args ...any) *Error {
	return newError(CodeAlreadyExists, format, args...)
}

// InsufficientFunds reports a balance too low to cover a debit. Callers
// must be able to distinguish this from a generic precondition failure.
func InsufficientFunds(format string, args ...any) *Error {
	return newError(CodeInsufficientFunds, format, args...)
}

// PermissionDenied reports the wrong actor attempting a privileged
// transition.
func PermissionDenied(format string, args ...any) *Error {
	return newError(CodePermissionDenied, format, args...)
}

// Internal reports an unexpected failure.
func Internal(format string, args ...any) *Error {
	return newError(CodeInternal, format, args...)
}

// CodeOf extracts the classification from an error chain, defaulting to
// CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.code
	}
	return CodeInternal
}
