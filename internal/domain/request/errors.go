package request

import (
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
)

func ErrRequestNotFound(id string) *errs.Error {
	return errs.Newf(errs.CodeRequestNotFound, "contributor request %s not found", id)
}

func ErrDuplicatePending(projectID project.ProjectID, requesterID user.UserID) *errs.Error {
	return errs.Newf(errs.CodeDuplicatePending,
		"user %s already has a pending request for project %s", requesterID, projectID)
}

func ErrNotAuthorized(actingUser user.UserID, projectID project.ProjectID) *errs.Error {
	return errs.Newf(errs.CodeNotAuthorized, "user %s does not own project %s", actingUser, projectID)
}

func ErrInvalidTransition(id RequestID, from, to Status) *errs.Error {
	return errs.Newf(errs.CodeInvalidTransition, "request %s cannot move from %s to %s", id, from, to)
}
