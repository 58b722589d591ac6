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
	"gitcollab/internal/domain/user"
)

// PendingPreviewSize is how many pending requesters the project page shows
const PendingPreviewSize = 5

// ProjectService handles project-related use cases
type ProjectService struct {
	projectRepo project.ProjectRepository
	engagement  project.EngagementRepository
	userRepo    user.Repository
	ledger      request.Ledger
	publisher   events.Publisher
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo project.ProjectRepository,
	engagement project.EngagementRepository,
	userRepo user.Repository,
	ledger request.Ledger,
	publisher events.Publisher,
	logger *slog.Logger,
) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{
		projectRepo: projectRepo,
		engagement:  engagement,
		userRepo:    userRepo,
		ledger:      ledger,
		publisher:   publisher,
		logger:      logger.With("service", "project"),
	}
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, userID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	repoURL, err := project.NewRepositoryURL(req.RepositoryURL)
	if err != nil {
		return nil, err
	}

	exists, err := s.projectRepo.ExistsByRepositoryURL(ctx, uid, repoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to check project existence: %w", err)
	}
	if exists {
		return nil, project.ErrProjectAlreadyExists
	}

	proj, err := project.NewProject(uid, req.RepositoryURL, req.Description, req.ContributorsNeeded)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.publish(ctx, project.NewProjectCreated(proj))

	return s.toDTO(ctx, proj, 0), nil
}

// GetProjectByID retrieves a project by its ID
func (s *ProjectService) GetProjectByID(ctx context.Context, projectID string) (*dto.ProjectResponse, error) {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	likes, err := s.engagement.CountLikes(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return s.toDTO(ctx, proj, likes), nil
}

// GetProjectDetail returns the project page: the project with its like count, comments
// and the earliest pending requesters. viewerID may be empty for anonymous viewers.
func (s *ProjectService) GetProjectDetail(ctx context.Context, projectID, viewerID string) (*dto.ProjectDetailResponse, error) {
	resp, err := s.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pid, _ := project.ParseProjectID(resp.ID)

	comments, err := s.ListComments(ctx, resp.ID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ProjectDetailResponse{
		Project:           resp,
		Comments:          comments,
		PendingRequesters: []string{},
	}

	if viewerID != "" {
		if vid, err := user.ParseUserID(viewerID); err == nil {
			liked, err := s.engagement.HasLiked(ctx, pid, vid)
			if err != nil {
				return nil, fmt.Errorf("failed to check like: %w", err)
			}
			detail.LikedByMe = liked
		}
	}

	pending, err := s.ledger.ListPending(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	for i, v := range pending {
		if i == PendingPreviewSize {
			break
		}
		detail.PendingRequesters = append(detail.PendingRequesters, v.RequesterUsername)
	}

	return detail, nil
}

// ListProjects lists every project, newest first
func (s *ProjectService) ListProjects(ctx context.Context, page, limit int32) (*dto.ProjectListResponse, error) {
	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	projects, err := s.projectRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	total, err := s.projectRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return s.toListDTO(ctx, projects, page, limit, total)
}

// GetUserProjects lists the projects owned by a user
func (s *ProjectService) GetUserProjects(ctx context.Context, userID string, page, limit int32) (*dto.ProjectListResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	projects, err := s.projectRepo.FindByOwner(ctx, uid, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	total, err := s.projectRepo.CountByOwner(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return s.toListDTO(ctx, projects, page, limit, total)
}

// UpdateProject updates a project owned by userID
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !proj.BelongsToUser(uid) {
		return nil, project.ErrUnauthorized
	}

	if err := proj.Update(req.RepositoryURL, req.Description, req.ContributorsNeeded); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, proj); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.publish(ctx, project.NewProjectUpdated(proj))

	likes, err := s.engagement.CountLikes(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return s.toDTO(ctx, proj, likes), nil
}

// DeleteProject deletes a project owned by userID
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	uid, err := parseUserID(userID)
	if err != nil {
		return err
	}

	proj, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}

	if !proj.BelongsToUser(uid) {
		return project.ErrUnauthorized
	}

	if err := s.projectRepo.Delete(ctx, proj.ID()); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.publish(ctx, project.NewProjectDeleted(proj.ID().String(), uid.String()))
	return nil
}

// FillSlot records a contributor the owner added outside gitcollab by lowering
// the remaining capacity by one, never below zero
func (s *ProjectService) FillSlot(ctx context.Context, userID, projectID string) (*dto.ProjectResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !proj.BelongsToUser(uid) {
		return nil, project.ErrUnauthorized
	}

	if _, err := s.projectRepo.DecrementCapacity(ctx, proj.ID()); err != nil {
		return nil, fmt.Errorf("failed to decrement capacity: %w", err)
	}

	proj, err = s.projectRepo.FindByID(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}

	s.publish(ctx, project.NewProjectUpdated(proj))

	likes, err := s.engagement.CountLikes(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return s.toDTO(ctx, proj, likes), nil
}

// ToggleLike likes or unlikes a project for the user
func (s *ProjectService) ToggleLike(ctx context.Context, userID, projectID string) (*dto.LikeResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	liked, err := s.engagement.ToggleLike(ctx, proj.ID(), uid)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	count, err := s.engagement.CountLikes(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return &dto.LikeResponse{Liked: liked, LikeCount: count}, nil
}

// AddComment adds a comment to a project
func (s *ProjectService) AddComment(ctx context.Context, userID, projectID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comment, err := project.NewComment(proj.ID(), uid, req.Text)
	if err != nil {
		return nil, err
	}

	if err := s.engagement.AddComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	s.publish(ctx, project.NewCommentAdded(comment))

	names := newUsernameCache(s.userRepo)
	return commentToDTO(ctx, comment, names), nil
}

// ListComments lists the comments of a project, oldest first
func (s *ProjectService) ListComments(ctx context.Context, projectID string) ([]*dto.CommentResponse, error) {
	proj, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	comments, err := s.engagement.ListComments(ctx, proj.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	names := newUsernameCache(s.userRepo)
	out := make([]*dto.CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = commentToDTO(ctx, c, names)
	}
	return out, nil
}

func (s *ProjectService) load(ctx context.Context, projectID string) (*project.Project, error) {
	pid, err := project.ParseProjectID(projectID)
	if err != nil {
		return nil, project.ErrProjectNotFound
	}
	return s.projectRepo.FindByID(ctx, pid)
}

func (s *ProjectService) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Dispatch(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
	}
}

func (s *ProjectService) toListDTO(ctx context.Context, projects []*project.Project, page, limit int32, total int64) (*dto.ProjectListResponse, error) {
	out := make([]*dto.ProjectResponse, len(projects))
	for i, p := range projects {
		likes, err := s.engagement.CountLikes(ctx, p.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to count likes: %w", err)
		}
		out[i] = s.toDTO(ctx, p, likes)
	}

	return &dto.ProjectListResponse{
		Projects:   out,
		Pagination: pagination(page, limit, total),
	}, nil
}

func (s *ProjectService) toDTO(ctx context.Context, p *project.Project, likes int64) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:                 p.ID().String(),
		OwnerID:            p.OwnerID().String(),
		OwnerUsername:      newUsernameCache(s.userRepo).lookup(ctx, p.OwnerID()),
		RepositoryURL:      p.RepositoryURL().String(),
		Description:        p.Description().String(),
		ContributorsNeeded: p.ContributorsNeeded(),
		LikeCount:          likes,
		CreatedAt:          p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt().Format(time.RFC3339),
	}
}

func commentToDTO(ctx context.Context, c *project.Comment, names *usernameCache) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:             c.ID(),
		AuthorID:       c.AuthorID().String(),
		AuthorUsername: names.lookup(ctx, c.AuthorID()),
		Text:           c.Text(),
		CreatedAt:      c.CreatedAt().Format(time.RFC3339),
	}
}
