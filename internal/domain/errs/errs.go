// Package errs holds the error taxonomy shared by the domain packages.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a kind of failure independently of its message.
type Code string

const (
	CodeNotAuthorized          Code = "NOT_AUTHORIZED"
	CodeInvalidTransition      Code = "INVALID_TRANSITION"
	CodeDuplicatePending       Code = "DUPLICATE_PENDING"
	CodeMissingGrantorIdentity Code = "MISSING_GRANTOR_IDENTITY"
	CodeMissingGranteeIdentity Code = "MISSING_GRANTEE_IDENTITY"
	CodeMalformedRepoReference Code = "MALFORMED_REPO_REFERENCE"
	CodeAdapterFailed          Code = "ADAPTER_FAILED"
	CodeAdapterTimeout         Code = "ADAPTER_TIMEOUT"
	CodeRequestNotFound        Code = "REQUEST_NOT_FOUND"
	CodeInvalidAction          Code = "INVALID_ACTION"
	CodeInvalidRepositoryURL   Code = "INVALID_REPOSITORY_URL"
	CodeSelfRequest            Code = "SELF_REQUEST"
	CodeProjectNotFound        Code = "PROJECT_NOT_FOUND"
	CodeUserNotFound           Code = "USER_NOT_FOUND"
	CodeInvalidInput           Code = "INVALID_INPUT"
)

// Error is a domain error carrying a stable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in the chain, or "" if there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
