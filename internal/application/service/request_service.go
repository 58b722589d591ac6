package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/domain/events"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/request"
)

// RequestService handles joining projects and listing contributor requests
type RequestService struct {
	ledger      request.Ledger
	projectRepo project.ProjectRepository
	publisher   events.Publisher
	logger      *slog.Logger
}

// NewRequestService creates a new request service
func NewRequestService(ledger request.Ledger, projectRepo project.ProjectRepository, publisher events.Publisher, logger *slog.Logger) *RequestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestService{
		ledger:      ledger,
		projectRepo: projectRepo,
		publisher:   publisher,
		logger:      logger.With("service", "request"),
	}
}

// Join files a pending request from userID to contribute to projectID
func (s *RequestService) Join(ctx context.Context, userID, projectID string) (*dto.ContributorRequestResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	proj, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	req, err := request.NewContributorRequest(proj, uid)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Dispatch(ctx, request.NewRequestCreated(req)); err != nil {
			s.logger.WarnContext(ctx, "event handler failed", "request_id", req.ID().String(), "error", err)
		}
	}

	resp := requestToDTO(req)
	resp.RepositoryURL = proj.RepositoryURL().String()
	return resp, nil
}

// ListPendingForProject lists a project's pending requests; only the owner may see them
func (s *RequestService) ListPendingForProject(ctx context.Context, actingUserID, projectID string) (*dto.ContributorRequestListResponse, error) {
	uid, err := parseUserID(actingUserID)
	if err != nil {
		return nil, err
	}

	proj, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !proj.BelongsToUser(uid) {
		return nil, request.ErrNotAuthorized(uid, proj.ID())
	}

	views, err := s.ledger.ListPending(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return pendingToDTO(views), nil
}

// ListPendingForOwner lists pending requests across every project the user owns
func (s *RequestService) ListPendingForOwner(ctx context.Context, ownerID string) (*dto.ContributorRequestListResponse, error) {
	uid, err := parseUserID(ownerID)
	if err != nil {
		return nil, err
	}

	views, err := s.ledger.ListPendingForOwner(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return pendingToDTO(views), nil
}

// ListMine lists the requests a user has filed, newest first
func (s *RequestService) ListMine(ctx context.Context, userID string) (*dto.ContributorRequestListResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.ledger.ListByRequester(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	out := &dto.ContributorRequestListResponse{Requests: make([]*dto.ContributorRequestResponse, len(reqs))}
	for i, r := range reqs {
		out.Requests[i] = requestToDTO(r)
	}
	return out, nil
}

func (s *RequestService) loadProject(ctx context.Context, projectID string) (*project.Project, error) {
	pid, err := project.ParseProjectID(projectID)
	if err != nil {
		return nil, project.ErrProjectNotFound
	}
	return s.projectRepo.FindByID(ctx, pid)
}

func pendingToDTO(views []*request.PendingView) *dto.ContributorRequestListResponse {
	out := &dto.ContributorRequestListResponse{Requests: make([]*dto.ContributorRequestResponse, len(views))}
	for i, v := range views {
		r := requestToDTO(v.Request)
		r.RequesterUsername = v.RequesterUsername
		r.RepositoryURL = v.RepositoryURL
		out.Requests[i] = r
	}
	return out
}

func requestToDTO(r *request.ContributorRequest) *dto.ContributorRequestResponse {
	return &dto.ContributorRequestResponse{
		ID:          r.ID().String(),
		ProjectID:   r.ProjectID().String(),
		RequesterID: r.RequesterID().String(),
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt().Format(time.RFC3339),
	}
}
