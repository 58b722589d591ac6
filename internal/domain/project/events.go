package project

import (
	"gitcollab/internal/domain/events"
)

// Event types
const (
	EventTypeProjectCreated = "project.created"
	EventTypeProjectUpdated = "project.updated"
	EventTypeProjectDeleted = "project.deleted"
	EventTypeCommentAdded   = "project.comment_added"
)

// ProjectCreated is raised when a new project is created
type ProjectCreated struct {
	events.BaseEvent
	ProjectID          string
	OwnerID            string
	RepositoryURL      string
	ContributorsNeeded int
}

func NewProjectCreated(p *Project) *ProjectCreated {
	return &ProjectCreated{
		BaseEvent:          events.NewBaseEvent(EventTypeProjectCreated, p.ID().String()),
		ProjectID:          p.ID().String(),
		OwnerID:            p.OwnerID().String(),
		RepositoryURL:      p.RepositoryURL().String(),
		ContributorsNeeded: p.ContributorsNeeded(),
	}
}

func (e *ProjectCreated) Fields() map[string]any {
	return map[string]any{"owner_id": e.OwnerID, "repository_url": e.RepositoryURL, "contributors_needed": e.ContributorsNeeded}
}

// ProjectUpdated is raised when a project is updated
type ProjectUpdated struct {
	events.BaseEvent
	ProjectID          string
	OwnerID            string
	RepositoryURL      string
	ContributorsNeeded int
}

func NewProjectUpdated(p *Project) *ProjectUpdated {
	return &ProjectUpdated{
		BaseEvent:          events.NewBaseEvent(EventTypeProjectUpdated, p.ID().String()),
		ProjectID:          p.ID().String(),
		OwnerID:            p.OwnerID().String(),
		RepositoryURL:      p.RepositoryURL().String(),
		ContributorsNeeded: p.ContributorsNeeded(),
	}
}

func (e *ProjectUpdated) Fields() map[string]any {
	return map[string]any{"owner_id": e.OwnerID, "contributors_needed": e.ContributorsNeeded}
}

// ProjectDeleted is raised when a project is deleted
type ProjectDeleted struct {
	events.BaseEvent
	ProjectID string
	OwnerID   string
}

func NewProjectDeleted(projectID, ownerID string) *ProjectDeleted {
	return &ProjectDeleted{
		BaseEvent: events.NewBaseEvent(EventTypeProjectDeleted, projectID),
		ProjectID: projectID,
		OwnerID:   ownerID,
	}
}

func (e *ProjectDeleted) Fields() map[string]any {
	return map[string]any{"owner_id": e.OwnerID}
}

// CommentAdded is raised when someone comments on a project
type CommentAdded struct {
	events.BaseEvent
	CommentID string
	AuthorID  string
}

func NewCommentAdded(c *Comment) *CommentAdded {
	return &CommentAdded{
		BaseEvent: events.NewBaseEvent(EventTypeCommentAdded, c.ProjectID().String()),
		CommentID: c.ID(),
		AuthorID:  c.AuthorID().String(),
	}
}

func (e *CommentAdded) Fields() map[string]any {
	return map[string]any{"comment_id": e.CommentID, "author_id": e.AuthorID}
}
