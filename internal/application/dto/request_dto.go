package dto

// Decision actions
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// ContributorRequestResponse represents a join request in API responses
type ContributorRequestResponse struct {
	ID                string `json:"id"`
	ProjectID         string `json:"project_id"`
	RequesterID       string `json:"requester_id"`
	RequesterUsername string `json:"requester_username,omitempty"`
	RepositoryURL     string `json:"repository_url,omitempty"`
	Status            string `json:"status"`
	CreatedAt         string `json:"created_at"`
}

// ContributorRequestListResponse wraps a list of requests
type ContributorRequestListResponse struct {
	Requests []*ContributorRequestResponse `json:"requests"`
}

// DecisionRequest is an owner's accept/reject of a pending request
type DecisionRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

// DecisionResponse acknowledges a committed decision
type DecisionResponse struct {
	RequestID         string `json:"request_id"`
	Status            string `json:"status"`
	Outcome           string `json:"outcome,omitempty"`
	RemainingCapacity *int   `json:"remaining_capacity,omitempty"`
}
