package user

import (
	"context"
)

// Repository defines the interface for user persistence
// This is defined in the domain layer, but implemented in infrastructure
type Repository interface {
	// Save persists a user (create or update)
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by their ID
	FindByID(ctx context.Context, id UserID) (*User, error)

	// FindByUsername retrieves a user by username, case-insensitively
	FindByUsername(ctx context.Context, username Username) (*User, error)

	// List retrieves users with pagination
	List(ctx context.Context, limit, offset int32) ([]*User, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
