package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitcollab/internal/database"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/user"
)

// UserRepositoryImpl implements the domain user.Repository interface
type UserRepositoryImpl struct {
	db *database.DB
}

// NewUserRepository creates a new user repository implementation
func NewUserRepository(db *database.DB) user.Repository {
	return &UserRepositoryImpl{db: db}
}

const userColumns = `id, username, email, created_at, updated_at`

// Save persists a user (create or update)
func (r *UserRepositoryImpl) Save(ctx context.Context, u *user.User) error {
	_, err := r.db.GetConnection().ExecContext(ctx, `
		INSERT INTO users (id, username, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			email = excluded.email,
			updated_at = excluded.updated_at`,
		u.ID().String(), u.Username().String(), u.Email().String(), u.CreatedAt(), u.UpdatedAt())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errs.Wrap(errs.CodeInvalidInput, fmt.Sprintf("username %s is taken", u.Username()), err)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by their ID
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id user.UserID) (*user.User, error) {
	row := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id.String())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.NotFound(id.String())
	}
	return u, err
}

// FindByUsername retrieves a user by username, case-insensitively
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	row := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username.String())
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.NotFound(username.String())
	}
	return u, err
}

// List retrieves users with pagination
func (r *UserRepositoryImpl) List(ctx context.Context, limit, offset int32) ([]*user.User, error) {
	rows, err := r.db.GetConnection().QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of users
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetConnection().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id, username, email  string
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &username, &email, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user.Reconstitute(id, username, email, createdAt, updatedAt)
}
