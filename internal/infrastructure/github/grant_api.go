package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gitcollab/internal/domain/collab"
	ghclient "gitcollab/internal/github"
)

// Collaborators is the slice of the GitHub client the API strategy needs
type Collaborators interface {
	AddCollaborator(ctx context.Context, token, owner, repo, username string) (int, error)
}

// APIGrantAdapter grants access through the REST collaborators endpoint
type APIGrantAdapter struct {
	client Collaborators
	logger *slog.Logger
}

// NewAPIGrantAdapter creates the REST strategy
func NewAPIGrantAdapter(client Collaborators, logger *slog.Logger) *APIGrantAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIGrantAdapter{client: client, logger: logger.With("component", "grant_api")}
}

func (a *APIGrantAdapter) Strategy() string {
	return "api"
}

// GrantAccess maps 201 to Granted and 204 to AlreadyCollaboratorOrPending.
func (a *APIGrantAdapter) GrantAccess(ctx context.Context, req collab.GrantRequest) collab.GrantOutcome {
	if req.GrantorCredential == "" {
		return collab.Failed("grantor %s has no GitHub access token", req.GrantorUsername)
	}

	status, err := a.client.AddCollaborator(ctx, req.GrantorCredential, req.RepoOwner, req.RepoName, req.GranteeUsername)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return collab.TimedOut("add collaborator request")
		}
		var apiErr *ghclient.APIError
		if errors.As(err, &apiErr) {
			a.logger.WarnContext(ctx, "github rejected collaborator request",
				"repo", req.RepoOwner+"/"+req.RepoName, "status", apiErr.StatusCode)
			return collab.Failed("%s", apiErr.Error())
		}
		return collab.Failed("%v", err)
	}

	switch status {
	case http.StatusCreated:
		return collab.Granted()
	case http.StatusNoContent:
		return collab.AlreadyCollaboratorOrPending()
	default:
		return collab.Failed("%d: unexpected response", status)
	}
}
