package request

import (
	"gitcollab/internal/domain/events"
)

// Event types
const (
	EventTypeRequestCreated  = "request.created"
	EventTypeRequestAccepted = "request.accepted"
	EventTypeRequestRejected = "request.rejected"
	EventTypeGrantFailed     = "grant.failed"
)

// RequestCreated is raised when a user asks to join a project
type RequestCreated struct {
	events.BaseEvent
	ProjectID   string
	RequesterID string
}

func NewRequestCreated(r *ContributorRequest) *RequestCreated {
	return &RequestCreated{
		BaseEvent:   events.NewBaseEvent(EventTypeRequestCreated, r.ID().String()),
		ProjectID:   r.ProjectID().String(),
		RequesterID: r.RequesterID().String(),
	}
}

func (e *RequestCreated) Fields() map[string]any {
	return map[string]any{"project_id": e.ProjectID, "requester_id": e.RequesterID}
}

// RequestDecided is raised when an owner accepts or rejects a request
type RequestDecided struct {
	events.BaseEvent
	ProjectID         string
	RequesterID       string
	DecidedBy         string
	Outcome           string
	RemainingCapacity int
}

func NewRequestAccepted(r *ContributorRequest, decidedBy, outcome string, remaining int) *RequestDecided {
	return &RequestDecided{
		BaseEvent:         events.NewBaseEvent(EventTypeRequestAccepted, r.ID().String()),
		ProjectID:         r.ProjectID().String(),
		RequesterID:       r.RequesterID().String(),
		DecidedBy:         decidedBy,
		Outcome:           outcome,
		RemainingCapacity: remaining,
	}
}

func NewRequestRejected(r *ContributorRequest, decidedBy string) *RequestDecided {
	return &RequestDecided{
		BaseEvent:   events.NewBaseEvent(EventTypeRequestRejected, r.ID().String()),
		ProjectID:   r.ProjectID().String(),
		RequesterID: r.RequesterID().String(),
		DecidedBy:   decidedBy,
	}
}

func (e *RequestDecided) Fields() map[string]any {
	f := map[string]any{"project_id": e.ProjectID, "requester_id": e.RequesterID, "decided_by": e.DecidedBy}
	if e.EventType() == EventTypeRequestAccepted {
		f["outcome"] = e.Outcome
		f["remaining_capacity"] = e.RemainingCapacity
	}
	return f
}

// GrantFailed is raised when the external grant did not succeed and the request stays pending
type GrantFailed struct {
	events.BaseEvent
	ProjectID string
	Reason    string
	TimedOut  bool
}

func NewGrantFailed(r *ContributorRequest, reason string, timedOut bool) *GrantFailed {
	return &GrantFailed{
		BaseEvent: events.NewBaseEvent(EventTypeGrantFailed, r.ID().String()),
		ProjectID: r.ProjectID().String(),
		Reason:    reason,
		TimedOut:  timedOut,
	}
}

func (e *GrantFailed) Fields() map[string]any {
	return map[string]any{"project_id": e.ProjectID, "reason": e.Reason, "timed_out": e.TimedOut}
}
