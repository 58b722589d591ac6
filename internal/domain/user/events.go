package user

import (
	"gitcollab/internal/domain/events"
)

// Event types
const (
	EventTypeUserCreated = "user.created"
	EventTypeUserUpdated = "user.updated"
)

// UserCreatedEvent is raised when a new user signs in for the first time
type UserCreatedEvent struct {
	events.BaseEvent
	UserID   string
	Username string
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(userID, username string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeUserCreated, userID),
		UserID:    userID,
		Username:  username,
	}
}

func (e *UserCreatedEvent) Fields() map[string]any {
	return map[string]any{"username": e.Username}
}

// UserUpdatedEvent is raised when a user's profile changes
type UserUpdatedEvent struct {
	events.BaseEvent
	UserID   string
	Username string
	Email    string
}

// NewUserUpdatedEvent creates a new UserUpdatedEvent
func NewUserUpdatedEvent(userID, username, email string) *UserUpdatedEvent {
	return &UserUpdatedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeUserUpdated, userID),
		UserID:    userID,
		Username:  username,
		Email:     email,
	}
}

func (e *UserUpdatedEvent) Fields() map[string]any {
	return map[string]any{"username": e.Username}
}
