package user

import (
	"gitcollab/internal/domain/errs"
)

// ErrUserNotFound matches any user-not-found error via errors.Is.
var ErrUserNotFound = errs.New(errs.CodeUserNotFound, "user not found")

// NotFound builds a user-not-found error naming the missing key.
func NotFound(key string) *errs.Error {
	return errs.Newf(errs.CodeUserNotFound, "user %s not found", key)
}

// ErrInvalidUserData wraps a validation failure on a user field.
func ErrInvalidUserData(field string, err error) *errs.Error {
	return errs.Wrap(errs.CodeInvalidInput, "invalid "+field, err)
}
