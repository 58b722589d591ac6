package project

import (
	"gitcollab/internal/domain/errs"
)

var (
	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errs.New(errs.CodeProjectNotFound, "project not found")

	// ErrProjectAlreadyExists is returned when the owner already advertises the same repository
	ErrProjectAlreadyExists = errs.New(errs.CodeInvalidInput, "project with this repository URL already exists")

	// ErrUnauthorized is returned when a user tries to modify a project they don't own
	ErrUnauthorized = errs.New(errs.CodeNotAuthorized, "unauthorized to modify this project")
)
