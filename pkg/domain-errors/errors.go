// Package domainerrors defines coded errors that services return to transports.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate them into
// a coded Error so handlers can map each outcome to a stable response without string matching.
package domainerrors

import (
	"errors"
)

// Code is a stable, client-facing error identifier.
type Code string

const (
	// Ledger outcomes.
	CodeNotFound              Code = "not_found"
	CodeAlreadyClaimed        Code = "already_claimed"
	CodeDuplicateTemplate     Code = "duplicate_template"
	CodeInvalidPageParameters Code = "invalid_page_parameters"
	CodeInvalidIdentifier     Code = "invalid_identifier"
	CodeStorageFailure        Code = "storage_failure"

	// Transport and platform outcomes.
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
)

// Error carries a Code, a human readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without an underlying cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to err. A nil err still yields a coded error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// As returns the outermost coded error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost coded error in err's chain has the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is an alias of HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// IsClientError reports whether the code describes a caller mistake rather than a server fault.
func (c Code) IsClientError() bool {
	switch c {
	case CodeStorageFailure, CodeInternal, CodeTimeout, CodeInvariantViolation:
		return false
	}
	return true
}
