package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/domain/collab"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/events"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/request"
	"gitcollab/internal/domain/user"
)

// DefaultGrantTimeout bounds one grant attempt when no timeout is configured
const DefaultGrantTimeout = 30 * time.Second

// InvitationService turns an owner's decision on a contributor request into
// a GitHub collaborator grant plus a committed status change.
type InvitationService struct {
	ledger      request.Ledger
	projectRepo project.ProjectRepository
	identities  identity.Store
	adapter     collab.GrantAdapter
	publisher   events.Publisher
	timeout     time.Duration
	logger      *slog.Logger
}

// NewInvitationService creates the orchestrator. A non-positive timeout falls back to DefaultGrantTimeout.
func NewInvitationService(
	ledger request.Ledger,
	projectRepo project.ProjectRepository,
	identities identity.Store,
	adapter collab.GrantAdapter,
	publisher events.Publisher,
	timeout time.Duration,
	logger *slog.Logger,
) *InvitationService {
	if timeout <= 0 {
		timeout = DefaultGrantTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InvitationService{
		ledger:      ledger,
		projectRepo: projectRepo,
		identities:  identities,
		adapter:     adapter,
		publisher:   publisher,
		timeout:     timeout,
		logger:      logger.With("service", "invitation", "strategy", adapter.Strategy()),
	}
}

// Decide applies "accept" or "reject" to a pending request
func (s *InvitationService) Decide(ctx context.Context, actingUserID, requestID, action string) (*dto.DecisionResponse, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case dto.ActionAccept:
		return s.Accept(ctx, actingUserID, requestID)
	case dto.ActionReject:
		return s.Reject(ctx, actingUserID, requestID)
	default:
		return nil, errs.Newf(errs.CodeInvalidAction, "action must be %q or %q, got %q", dto.ActionAccept, dto.ActionReject, action)
	}
}

// Accept grants the requester access to the repository and, only if that
// succeeded, marks the request accepted and decrements the project's capacity.
// A failed grant leaves the request pending.
func (s *InvitationService) Accept(ctx context.Context, actingUserID, requestID string) (*dto.DecisionResponse, error) {
	actor, req, proj, err := s.authorize(ctx, actingUserID, requestID, request.StatusAccepted)
	if err != nil {
		return nil, err
	}

	grantor, err := s.lookupIdentity(ctx, proj.OwnerID(), errs.CodeMissingGrantorIdentity, "project owner")
	if err != nil {
		return nil, err
	}
	grantee, err := s.lookupIdentity(ctx, req.RequesterID(), errs.CodeMissingGranteeIdentity, "requester")
	if err != nil {
		return nil, err
	}

	repoOwner, repoName, err := proj.RepositoryURL().OwnerAndName()
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("request_id", req.ID().String(), "repository", repoOwner+"/"+repoName, "grantee", grantee.Username())
	logger.InfoContext(ctx, "granting repository access")

	outcome := s.grant(ctx, collab.GrantRequest{
		RepoOwner:         repoOwner,
		RepoName:          repoName,
		GranteeUsername:   grantee.Username(),
		GrantorUsername:   grantor.Username(),
		GrantorCredential: grantor.Credential(),
	})

	if !outcome.Succeeded() {
		logger.WarnContext(ctx, "grant failed, request stays pending", "reason", outcome.Reason, "timed_out", outcome.TimedOut)
		s.publish(ctx, request.NewGrantFailed(req, outcome.Reason, outcome.TimedOut))
		if outcome.TimedOut {
			return nil, errs.New(errs.CodeAdapterTimeout, outcome.Reason)
		}
		return nil, errs.New(errs.CodeAdapterFailed, outcome.Reason)
	}

	// The grant already happened on GitHub; a client hanging up must not stop the commit.
	remaining, err := s.ledger.CommitAcceptance(context.WithoutCancel(ctx), req.ID(), actor)
	if err != nil {
		logger.ErrorContext(ctx, "grant succeeded but commit failed", "outcome", outcome.String(), "error", err)
		return nil, err
	}
	_ = req.TransitionTo(request.StatusAccepted)

	logger.InfoContext(ctx, "request accepted", "outcome", outcome.String(), "remaining_capacity", remaining)
	s.publish(ctx, request.NewRequestAccepted(req, actor.String(), outcome.Kind.String(), remaining))

	return &dto.DecisionResponse{
		RequestID:         req.ID().String(),
		Status:            request.StatusAccepted.String(),
		Outcome:           outcome.Kind.String(),
		RemainingCapacity: &remaining,
	}, nil
}

// Reject marks a pending request rejected. No external call is made.
func (s *InvitationService) Reject(ctx context.Context, actingUserID, requestID string) (*dto.DecisionResponse, error) {
	actor, req, _, err := s.authorize(ctx, actingUserID, requestID, request.StatusRejected)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Transition(ctx, req.ID(), request.StatusRejected, actor); err != nil {
		return nil, err
	}
	_ = req.TransitionTo(request.StatusRejected)

	s.logger.InfoContext(ctx, "request rejected", "request_id", req.ID().String())
	s.publish(ctx, request.NewRequestRejected(req, actor.String()))

	return &dto.DecisionResponse{
		RequestID: req.ID().String(),
		Status:    request.StatusRejected.String(),
	}, nil
}

// authorize loads the request and its project and checks the acting user owns
// the project and the request is still pending.
func (s *InvitationService) authorize(ctx context.Context, actingUserID, requestID string, target request.Status) (user.UserID, *request.ContributorRequest, *project.Project, error) {
	actor, err := parseUserID(actingUserID)
	if err != nil {
		return user.UserID{}, nil, nil, err
	}

	rid, err := request.ParseRequestID(requestID)
	if err != nil {
		return user.UserID{}, nil, nil, request.ErrRequestNotFound(requestID)
	}

	req, err := s.ledger.FindByID(ctx, rid)
	if err != nil {
		return user.UserID{}, nil, nil, err
	}

	proj, err := s.projectRepo.FindByID(ctx, req.ProjectID())
	if err != nil {
		return user.UserID{}, nil, nil, err
	}

	if !proj.BelongsToUser(actor) {
		return user.UserID{}, nil, nil, request.ErrNotAuthorized(actor, proj.ID())
	}

	if !req.Status().CanTransitionTo(target) {
		return user.UserID{}, nil, nil, request.ErrInvalidTransition(req.ID(), req.Status(), target)
	}

	return actor, req, proj, nil
}

func (s *InvitationService) lookupIdentity(ctx context.Context, uid user.UserID, code errs.Code, role string) (*identity.ExternalIdentity, error) {
	ident, err := s.identities.Lookup(ctx, uid, identity.ProviderGitHub)
	if errors.Is(err, identity.ErrIdentityNotFound) {
		return nil, errs.Newf(code, "%s %s has no linked GitHub account", role, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s identity: %w", role, err)
	}
	return ident, nil
}

// grant runs the adapter on its own goroutine under the operation timeout.
// Cancelling the context is what tears down a browser session still in flight.
func (s *InvitationService) grant(ctx context.Context, req collab.GrantRequest) collab.GrantOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan collab.GrantOutcome, 1)
	go func() {
		done <- s.adapter.GrantAccess(ctx, req)
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return collab.TimedOut(fmt.Sprintf("grant did not finish within %s", s.timeout))
		}
		return collab.Failed("grant cancelled: %v", ctx.Err())
	}
}

func (s *InvitationService) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Dispatch(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
	}
}
