package dto

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	GitHubLinked   bool      `json:"github_linked"`
	GitHubUsername string    `json:"github_username,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UpdateUserRequest represents a request to update the current user
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
}

// AuthResponse is returned after a successful login
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// ReadmeGistResponse is the opening of a user's GitHub profile README
type ReadmeGistResponse struct {
	Username string `json:"username"`
	Gist     string `json:"gist"`
	Found    bool   `json:"found"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []*UserResponse    `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}
