package project

import (
	"context"

	"gitcollab/internal/domain/user"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// Save persists a project (create or update)
	Save(ctx context.Context, project *Project) error

	// FindByID retrieves a project by its ID
	FindByID(ctx context.Context, id ProjectID) (*Project, error)

	// List retrieves all projects, newest first
	List(ctx context.Context, limit, offset int32) ([]*Project, error)

	// Count counts all projects
	Count(ctx context.Context) (int64, error)

	// FindByOwner retrieves the projects of one owner, newest first
	FindByOwner(ctx context.Context, ownerID user.UserID, limit, offset int32) ([]*Project, error)

	// CountByOwner counts the projects of one owner
	CountByOwner(ctx context.Context, ownerID user.UserID) (int64, error)

	// ExistsByRepositoryURL checks if the owner already advertises the repository
	ExistsByRepositoryURL(ctx context.Context, ownerID user.UserID, repoURL RepositoryURL) (bool, error)

	// Delete removes a project together with its comments, likes and requests
	Delete(ctx context.Context, id ProjectID) error

	// DecrementCapacity lowers contributors_needed by one, never below zero, and returns the new value.
	// Accepted requests decrement inside the ledger transaction instead; this serves owners filling a slot by hand.
	DecrementCapacity(ctx context.Context, id ProjectID) (int, error)
}

// EngagementRepository stores likes and comments, the child records of a project
type EngagementRepository interface {
	// ToggleLike adds the like if absent or removes it if present; reports whether the user now likes the project
	ToggleLike(ctx context.Context, projectID ProjectID, userID user.UserID) (bool, error)

	// CountLikes returns the number of likes of a project
	CountLikes(ctx context.Context, projectID ProjectID) (int64, error)

	// HasLiked reports whether the user likes the project
	HasLiked(ctx context.Context, projectID ProjectID, userID user.UserID) (bool, error)

	// AddComment persists a comment
	AddComment(ctx context.Context, comment *Comment) error

	// ListComments returns the comments of a project, oldest first
	ListComments(ctx context.Context, projectID ProjectID) ([]*Comment, error)
}
