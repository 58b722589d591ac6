package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitcollab/internal/database"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/request"
	"gitcollab/internal/domain/user"
)

// RequestLedgerImpl implements request.Ledger on SQL
type RequestLedgerImpl struct {
	db *database.DB
}

// NewRequestLedger creates a new ledger implementation
func NewRequestLedger(db *database.DB) request.Ledger {
	return &RequestLedgerImpl{db: db}
}

const requestColumns = `r.id, r.project_id, r.requester_id, r.status, r.created_at, r.updated_at`

// Create inserts a pending request; DuplicatePending if the pair already has one
func (l *RequestLedgerImpl) Create(ctx context.Context, req *request.ContributorRequest) error {
	return l.db.WithTx(ctx, func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM contributor_requests
			WHERE project_id = $1 AND requester_id = $2 AND status = 'pending'`,
			req.ProjectID().String(), req.RequesterID().String()).Scan(&n)
		if err != nil {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}
		if n > 0 {
			return request.ErrDuplicatePending(req.ProjectID(), req.RequesterID())
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO contributor_requests (id, project_id, requester_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			req.ID().String(), req.ProjectID().String(), req.RequesterID().String(),
			req.Status().String(), req.CreatedAt(), req.UpdatedAt())
		if err != nil {
			if database.IsUniqueViolation(err) {
				return request.ErrDuplicatePending(req.ProjectID(), req.RequesterID())
			}
			return fmt.Errorf("failed to create request: %w", err)
		}
		return nil
	})
}

// FindByID returns RequestNotFound for unknown ids
func (l *RequestLedgerImpl) FindByID(ctx context.Context, id request.RequestID) (*request.ContributorRequest, error) {
	row := l.db.GetConnection().QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM contributor_requests r WHERE r.id = $1`, id.String())
	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, request.ErrRequestNotFound(id.String())
	}
	return req, err
}

// ListPending returns the pending requests of a project, oldest first
func (l *RequestLedgerImpl) ListPending(ctx context.Context, projectID project.ProjectID) ([]*request.PendingView, error) {
	return l.listPendingWhere(ctx, `r.project_id = $1`, projectID.String())
}

// ListPendingForOwner returns pending requests across every project the user owns, oldest first
func (l *RequestLedgerImpl) ListPendingForOwner(ctx context.Context, ownerID user.UserID) ([]*request.PendingView, error) {
	return l.listPendingWhere(ctx, `p.owner_id = $1`, ownerID.String())
}

func (l *RequestLedgerImpl) listPendingWhere(ctx context.Context, cond string, arg string) ([]*request.PendingView, error) {
	rows, err := l.db.GetConnection().QueryContext(ctx, `
		SELECT `+requestColumns+`, u.username, p.repository_url
		FROM contributor_requests r
		JOIN projects p ON p.id = r.project_id
		JOIN users u ON u.id = r.requester_id
		WHERE r.status = 'pending' AND `+cond+`
		ORDER BY r.created_at ASC, r.id ASC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var views []*request.PendingView
	for rows.Next() {
		var (
			id, projectID, requesterID, status string
			createdAt, updatedAt               time.Time
			username, repoURL                  string
		)
		if err := rows.Scan(&id, &projectID, &requesterID, &status, &createdAt, &updatedAt, &username, &repoURL); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		req, err := request.Reconstitute(id, projectID, requesterID, status, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		views = append(views, &request.PendingView{Request: req, RequesterUsername: username, RepositoryURL: repoURL})
	}
	return views, rows.Err()
}

// ListByRequester returns a user's requests, newest first
func (l *RequestLedgerImpl) ListByRequester(ctx context.Context, requesterID user.UserID) ([]*request.ContributorRequest, error) {
	rows, err := l.db.GetConnection().QueryContext(ctx,
		`SELECT `+requestColumns+` FROM contributor_requests r WHERE r.requester_id = $1 ORDER BY r.created_at DESC, r.id ASC`,
		requesterID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*request.ContributorRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Transition compare-and-swaps pending -> target for the project owner
func (l *RequestLedgerImpl) Transition(ctx context.Context, id request.RequestID, target request.Status, actingUser user.UserID) error {
	if !target.IsTerminal() {
		return request.ErrInvalidTransition(id, request.StatusPending, target)
	}
	return l.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := casStatus(ctx, tx, id, target, actingUser)
		return err
	})
}

// CommitAcceptance marks the request accepted and decrements project capacity in one transaction
func (l *RequestLedgerImpl) CommitAcceptance(ctx context.Context, id request.RequestID, actingUser user.UserID) (int, error) {
	var remaining int
	err := l.db.WithTx(ctx, func(tx *sql.Tx) error {
		projectID, err := casStatus(ctx, tx, id, request.StatusAccepted, actingUser)
		if err != nil {
			return err
		}
		remaining, err = decrementCapacity(ctx, tx, projectID)
		return err
	})
	return remaining, err
}

// casStatus re-checks ownership and status inside tx, then swaps the status
// only if it is still pending. It returns the request's project id.
func casStatus(ctx context.Context, tx *sql.Tx, id request.RequestID, target request.Status, actingUser user.UserID) (string, error) {
	var projectID, ownerID, status string
	err := tx.QueryRowContext(ctx, `
		SELECT r.project_id, p.owner_id, r.status
		FROM contributor_requests r
		JOIN projects p ON p.id = r.project_id
		WHERE r.id = $1`, id.String()).Scan(&projectID, &ownerID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", request.ErrRequestNotFound(id.String())
	}
	if err != nil {
		return "", fmt.Errorf("failed to load request: %w", err)
	}

	if ownerID != actingUser.String() {
		return "", errs.Newf(errs.CodeNotAuthorized, "user %s does not own project %s", actingUser, projectID)
	}

	current := request.Status(status)
	if !current.CanTransitionTo(target) {
		return "", request.ErrInvalidTransition(id, current, target)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE contributor_requests SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'`,
		target.String(), time.Now().UTC(), id.String())
	if err != nil {
		return "", fmt.Errorf("failed to update request status: %w", err)
	}
	n, err := rowsAffected(res, "update request status")
	if err != nil {
		return "", err
	}
	if n == 0 {
		// decided concurrently between the read and the update
		return "", request.ErrInvalidTransition(id, request.StatusPending, target)
	}
	return projectID, nil
}

func scanRequest(row rowScanner) (*request.ContributorRequest, error) {
	var (
		id, projectID, requesterID, status string
		createdAt, updatedAt               time.Time
	)
	if err := row.Scan(&id, &projectID, &requesterID, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan request: %w", err)
	}
	return request.Reconstitute(id, projectID, requesterID, status, createdAt, updatedAt)
}

// rowsAffected reads the affected row count of res, wrapping driver failures with the operation name
func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}
	return n, nil
}
