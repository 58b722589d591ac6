package dto

// CreateProjectRequest represents the request to create a project
type CreateProjectRequest struct {
	RepositoryURL      string `json:"repository_url" binding:"required"`
	Description        string `json:"description"`
	ContributorsNeeded int    `json:"contributors_needed" binding:"min=0"`
}

// UpdateProjectRequest represents the request to update a project
type UpdateProjectRequest struct {
	RepositoryURL      string `json:"repository_url" binding:"required"`
	Description        string `json:"description"`
	ContributorsNeeded int    `json:"contributors_needed" binding:"min=0"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID                 string `json:"id"`
	OwnerID            string `json:"owner_id"`
	OwnerUsername      string `json:"owner_username"`
	RepositoryURL      string `json:"repository_url"`
	Description        string `json:"description"`
	ContributorsNeeded int    `json:"contributors_needed"`
	LikeCount          int64  `json:"like_count"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []*ProjectResponse `json:"projects"`
	Pagination PaginationResponse `json:"pagination"`
}

// ProjectDetailResponse is the project page: the project, its comments and the first pending requesters
type ProjectDetailResponse struct {
	Project           *ProjectResponse   `json:"project"`
	Comments          []*CommentResponse `json:"comments"`
	LikedByMe         bool               `json:"liked_by_me"`
	PendingRequesters []string           `json:"pending_requesters"`
}

// CommentRequest represents a new comment
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID             string `json:"id"`
	AuthorID       string `json:"author_id"`
	AuthorUsername string `json:"author_username"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
}

// LikeResponse reports the like state after a toggle
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
