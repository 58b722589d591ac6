package request

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/project"
	"gitcollab/internal/domain/user"
)

// RequestID identifies a contributor request
type RequestID struct {
	value uuid.UUID
}

// NewRequestID creates a new RequestID
func NewRequestID() RequestID {
	return RequestID{value: uuid.New()}
}

// ParseRequestID parses a string into a RequestID
func ParseRequestID(id string) (RequestID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return RequestID{}, fmt.Errorf("invalid request ID format: %w", err)
	}
	return RequestID{value: uid}, nil
}

func (id RequestID) String() string {
	return id.value.String()
}

func (id RequestID) Equals(other RequestID) bool {
	return id.value == other.value
}

// ContributorRequest is a user's request to join a project.
type ContributorRequest struct {
	id          RequestID
	projectID   project.ProjectID
	requesterID user.UserID
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

// NewContributorRequest creates a pending request. Owners cannot request their own project.
func NewContributorRequest(p *project.Project, requesterID user.UserID) (*ContributorRequest, error) {
	if p.BelongsToUser(requesterID) {
		return nil, errs.New(errs.CodeSelfRequest, "owners cannot request to join their own project")
	}

	now := time.Now().UTC()
	return &ContributorRequest{
		id:          NewRequestID(),
		projectID:   p.ID(),
		requesterID: requesterID,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute recreates a request from persistence
func Reconstitute(id, projectID, requesterID, status string, createdAt, updatedAt time.Time) (*ContributorRequest, error) {
	rid, err := ParseRequestID(id)
	if err != nil {
		return nil, err
	}
	pid, err := project.ParseProjectID(projectID)
	if err != nil {
		return nil, err
	}
	uid, err := user.ParseUserID(requesterID)
	if err != nil {
		return nil, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	return &ContributorRequest{
		id:          rid,
		projectID:   pid,
		requesterID: uid,
		status:      st,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// TransitionTo moves the in-memory request to target, enforcing the state machine.
func (r *ContributorRequest) TransitionTo(target Status) error {
	if !r.status.CanTransitionTo(target) {
		return ErrInvalidTransition(r.id, r.status, target)
	}
	r.status = target
	r.updatedAt = time.Now().UTC()
	return nil
}

// Getters

func (r *ContributorRequest) ID() RequestID {
	return r.id
}

func (r *ContributorRequest) ProjectID() project.ProjectID {
	return r.projectID
}

func (r *ContributorRequest) RequesterID() user.UserID {
	return r.requesterID
}

func (r *ContributorRequest) Status() Status {
	return r.status
}

func (r *ContributorRequest) IsPending() bool {
	return r.status == StatusPending
}

func (r *ContributorRequest) CreatedAt() time.Time {
	return r.createdAt
}

func (r *ContributorRequest) UpdatedAt() time.Time {
	return r.updatedAt
}
