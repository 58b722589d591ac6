package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gitcollab/internal/database"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
)

// EngagementRepositoryImpl stores likes and comments
type EngagementRepositoryImpl struct {
	db *database.DB
}

// NewEngagementRepository creates a new engagement repository implementation
func NewEngagementRepository(db *database.DB) project.EngagementRepository {
	return &EngagementRepositoryImpl{db: db}
}

// ToggleLike adds the like if absent or removes it if present
func (r *EngagementRepositoryImpl) ToggleLike(ctx context.Context, projectID project.ProjectID, userID user.UserID) (bool, error) {
	var liked bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2`,
			projectID.String(), userID.String())
		if err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}
		n, err := rowsAffected(res, "remove like")
		if err != nil {
			return err
		}
		if n > 0 {
			liked = false
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO project_likes (project_id, user_id, created_at) VALUES ($1, $2, $3)`,
			projectID.String(), userID.String(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to add like: %w", err)
		}
		liked = true
		return nil
	})
	return liked, err
}

// CountLikes returns the number of likes of a project
func (r *EngagementRepositoryImpl) CountLikes(ctx context.Context, projectID project.ProjectID) (int64, error) {
	var n int64
	err := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_likes WHERE project_id = $1`, projectID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return n, nil
}

// HasLiked reports whether the user likes the project
func (r *EngagementRepositoryImpl) HasLiked(ctx context.Context, projectID project.ProjectID, userID user.UserID) (bool, error) {
	var n int
	err := r.db.GetConnection().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM project_likes WHERE project_id = $1 AND user_id = $2`,
		projectID.String(), userID.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return n > 0, nil
}

// AddComment persists a comment
func (r *EngagementRepositoryImpl) AddComment(ctx context.Context, c *project.Comment) error {
	_, err := r.db.GetConnection().ExecContext(ctx,
		`INSERT INTO comments (id, project_id, author_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID(), c.ProjectID().String(), c.AuthorID().String(), c.Text(), c.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ListComments returns the comments of a project, oldest first
func (r *EngagementRepositoryImpl) ListComments(ctx context.Context, projectID project.ProjectID) ([]*project.Comment, error) {
	rows, err := r.db.GetConnection().QueryContext(ctx,
		`SELECT id, project_id, author_id, text, created_at FROM comments WHERE project_id = $1 ORDER BY created_at ASC, id ASC`,
		projectID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*project.Comment
	for rows.Next() {
		var (
			id, pid, authorID, text string
			createdAt               time.Time
		)
		if err := rows.Scan(&id, &pid, &authorID, &text, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c, err := project.ReconstituteComment(id, pid, authorID, text, createdAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
