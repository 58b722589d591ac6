// Package collab defines the port for granting repository access on GitHub.
package collab

import (
	"context"
	"fmt"
)

// OutcomeKind classifies the result of a grant attempt.
type OutcomeKind int

const (
	OutcomeFailed OutcomeKind = iota
	OutcomeGranted
	OutcomeAlreadyCollaboratorOrPending
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeGranted:
		return "granted"
	case OutcomeAlreadyCollaboratorOrPending:
		return "already_collaborator_or_pending"
	default:
		return "failed"
	}
}

// GrantOutcome is what a GrantAdapter reports. Adapters never return Go errors;
// every failure is a Failed outcome with a reason.
type GrantOutcome struct {
	Kind     OutcomeKind
	Reason   string
	TimedOut bool
}

func Granted() GrantOutcome {
	return GrantOutcome{Kind: OutcomeGranted}
}

func AlreadyCollaboratorOrPending() GrantOutcome {
	return GrantOutcome{Kind: OutcomeAlreadyCollaboratorOrPending}
}

func Failed(format string, args ...any) GrantOutcome {
	return GrantOutcome{Kind: OutcomeFailed, Reason: fmt.Sprintf(format, args...)}
}

func TimedOut(step string) GrantOutcome {
	return GrantOutcome{Kind: OutcomeFailed, Reason: "timed out: " + step, TimedOut: true}
}

// Succeeded is true for Granted and AlreadyCollaboratorOrPending.
func (o GrantOutcome) Succeeded() bool {
	return o.Kind == OutcomeGranted || o.Kind == OutcomeAlreadyCollaboratorOrPending
}

func (o GrantOutcome) String() string {
	if o.Kind == OutcomeFailed {
		return fmt.Sprintf("failed(%s)", o.Reason)
	}
	return o.Kind.String()
}

// GrantRequest carries everything a strategy needs to add one collaborator.
type GrantRequest struct {
	RepoOwner         string
	RepoName          string
	GranteeUsername   string
	GrantorUsername   string
	GrantorCredential string
}

// GrantAdapter adds GranteeUsername as a collaborator of RepoOwner/RepoName
// acting as the grantor. Calling it again for a granted pair is safe.
type GrantAdapter interface {
	GrantAccess(ctx context.Context, req GrantRequest) GrantOutcome
	Strategy() string
}
