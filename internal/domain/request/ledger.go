package request

import (
	"context"

	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
)

// PendingView is a pending request joined with what an owner needs to decide on it.
type PendingView struct {
	Request           *ContributorRequest
	RequesterUsername string
	RepositoryURL     string
}

// Ledger is the durable store of contributor requests.
// Every mutation re-checks ownership and status inside its own transaction.
type Ledger interface {
	// Create inserts a pending request; DuplicatePending if the pair already has one
	Create(ctx context.Context, req *ContributorRequest) error

	// FindByID returns RequestNotFound for unknown ids
	FindByID(ctx context.Context, id RequestID) (*ContributorRequest, error)

	// ListPending returns the pending requests of a project, oldest first
	ListPending(ctx context.Context, projectID project.ProjectID) ([]*PendingView, error)

	// ListPendingForOwner returns pending requests across every project the user owns, oldest first
	ListPendingForOwner(ctx context.Context, ownerID user.UserID) ([]*PendingView, error)

	// ListByRequester returns a user's requests, newest first
	ListByRequester(ctx context.Context, requesterID user.UserID) ([]*ContributorRequest, error)

	// Transition compare-and-swaps pending -> target for the project owner
	Transition(ctx context.Context, id RequestID, target Status, actingUser user.UserID) error

	// CommitAcceptance marks the request accepted and decrements project capacity in one transaction.
	// It returns the remaining capacity.
	CommitAcceptance(ctx context.Context, id RequestID, actingUser user.UserID) (int, error)
}
