package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitcollab/internal/database"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
)

// ProjectRepositoryImpl implements the domain project.ProjectRepository interface
type ProjectRepositoryImpl struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository implementation
func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

const projectColumns = `id, owner_id, repository_url, description, contributors_needed, created_at, updated_at`

// Save persists a project (create or update)
func (r *ProjectRepositoryImpl) Save(ctx context.Context, proj *project.Project) error {
	_, err := r.db.GetConnection().ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			repository_url = excluded.repository_url,
			description = excluded.description,
			contributors_needed = excluded.contributors_needed,
			updated_at = excluded.updated_at`,
		proj.ID().String(),
		proj.OwnerID().String(),
		proj.RepositoryURL().String(),
		proj.Description().String(),
		proj.ContributorsNeeded(),
		proj.CreatedAt(),
		proj.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its ID
func (r *ProjectRepositoryImpl) FindByID(ctx context.Context, id project.ProjectID) (*project.Project, error) {
	return findProject(ctx, r.db.GetConnection(), id.String())
}

// List retrieves all projects, newest first
func (r *ProjectRepositoryImpl) List(ctx context.Context, limit, offset int32) ([]*project.Project, error) {
	rows, err := r.db.GetConnection().QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collectProjects(rows)
}

// Count counts all projects
func (r *ProjectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetConnection().QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// FindByOwner retrieves the projects of one owner, newest first
func (r *ProjectRepositoryImpl) FindByOwner(ctx context.Context, ownerID user.UserID, limit, offset int32) ([]*project.Project, error) {
	rows, err := r.db.GetConnection().QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ownerID.String(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return collectProjects(rows)
}

// CountByOwner counts the projects of one owner
func (r *ProjectRepositoryImpl) CountByOwner(ctx context.Context, ownerID user.UserID) (int64, error) {
	var n int64
	err := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE owner_id = $1`, ownerID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// ExistsByRepositoryURL checks if the owner already advertises the repository
func (r *ProjectRepositoryImpl) ExistsByRepositoryURL(ctx context.Context, ownerID user.UserID, repoURL project.RepositoryURL) (bool, error) {
	var n int
	err := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE owner_id = $1 AND LOWER(repository_url) = LOWER($2)`,
		ownerID.String(), repoURL.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check repository URL: %w", err)
	}
	return n > 0, nil
}

// Delete removes a project; comments, likes and requests cascade
func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id project.ProjectID) error {
	res, err := r.db.GetConnection().ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := rowsAffected(res, "delete project")
	if err != nil {
		return err
	}
	if n == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

// DecrementCapacity lowers contributors_needed by one, never below zero
func (r *ProjectRepositoryImpl) DecrementCapacity(ctx context.Context, id project.ProjectID) (int, error) {
	return decrementCapacity(ctx, r.db.GetConnection(), id.String())
}

func decrementCapacity(ctx context.Context, ex database.Execer, projectID string) (int, error) {
	var remaining int
	err := ex.QueryRowContext(ctx, `
		UPDATE projects
		SET contributors_needed = CASE WHEN contributors_needed > 0 THEN contributors_needed - 1 ELSE 0 END
		WHERE id = $1
		RETURNING contributors_needed`, projectID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, project.ErrProjectNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement capacity: %w", err)
	}
	return remaining, nil
}

func findProject(ctx context.Context, ex database.Execer, id string) (*project.Project, error) {
	row := ex.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, project.ErrProjectNotFound
	}
	return p, err
}

func collectProjects(rows *sql.Rows) ([]*project.Project, error) {
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to convert project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		id, ownerID, repoURL, description string
		needed                            int
		createdAt, updatedAt              time.Time
	)
	if err := row.Scan(&id, &ownerID, &repoURL, &description, &needed, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return project.Reconstitute(id, ownerID, repoURL, description, needed, createdAt, updatedAt)
}
