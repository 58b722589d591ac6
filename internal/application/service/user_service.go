package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/domain/errs"
	"gitcollab/internal/domain/events"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/user"
)

// maxUsernameAttempts bounds the "-2", "-3", ... suffixes tried when a GitHub login is already taken locally
const maxUsernameAttempts = 10

// GitHubLogin is what the OAuth callback learns about the signed-in GitHub account
type GitHubLogin struct {
	ExternalID  string
	Login       string
	Email       string
	AccessToken string
}

// UserService handles user-related use cases
type UserService struct {
	userRepo   user.Repository
	identities identity.Store
	publisher  events.Publisher
	logger     *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo user.Repository, identities identity.Store, publisher events.Publisher, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		userRepo:   userRepo,
		identities: identities,
		publisher:  publisher,
		logger:     logger.With("service", "user"),
	}
}

// LoginWithGitHub finds or creates the user behind a GitHub account and stores
// the account's login and access token as the user's GitHub identity.
func (s *UserService) LoginWithGitHub(ctx context.Context, login GitHubLogin) (*dto.UserResponse, error) {
	if login.ExternalID == "" || login.Login == "" {
		return nil, errs.New(errs.CodeInvalidInput, "GitHub login is missing the account id or login")
	}

	var domainUser *user.User
	existing, err := s.identities.FindByExternalID(ctx, identity.ProviderGitHub, login.ExternalID)
	switch {
	case err == nil:
		domainUser, err = s.userRepo.FindByID(ctx, existing.UserID())
		if err != nil {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
	case errors.Is(err, identity.ErrIdentityNotFound):
		domainUser, err = s.createUser(ctx, login)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	ident, err := identity.New(domainUser.ID(), identity.ProviderGitHub, login.ExternalID, login.Login, login.AccessToken)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, "invalid GitHub identity", err)
	}
	if err := s.identities.Save(ctx, ident); err != nil {
		return nil, fmt.Errorf("failed to save identity: %w", err)
	}

	s.logger.InfoContext(ctx, "github login", "user_id", domainUser.ID().String(), "github_login", login.Login)

	return s.toDTO(domainUser, ident), nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	domainUser, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toDTO(domainUser, s.githubIdentity(ctx, userID)), nil
}

// GetUserByUsername retrieves a user by username, case-insensitively
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	name, err := user.NewUsername(username)
	if err != nil {
		return nil, user.ErrInvalidUserData("username", err)
	}

	domainUser, err := s.userRepo.FindByUsername(ctx, name)
	if err != nil {
		return nil, err
	}

	return s.toDTO(domainUser, s.githubIdentity(ctx, domainUser.ID())), nil
}

// UpdateUser updates the mutable fields of a user
func (s *UserService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	domainUser, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := domainUser.UpdateEmail(*req.Email); err != nil {
			return nil, user.ErrInvalidUserData("email", err)
		}
	}

	if err := s.userRepo.Save(ctx, domainUser); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.publish(ctx, user.NewUserUpdatedEvent(domainUser.ID().String(), domainUser.Username().String(), domainUser.Email().String()))

	return s.toDTO(domainUser, s.githubIdentity(ctx, userID)), nil
}

// ListUsers retrieves users with pagination
func (s *UserService) ListUsers(ctx context.Context, page, limit int32) (*dto.UserListResponse, error) {
	page, limit = normalizePage(page, limit)
	offset := (page - 1) * limit

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	out := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = s.toDTO(u, s.githubIdentity(ctx, u.ID()))
	}

	return &dto.UserListResponse{
		Users:      out,
		Pagination: pagination(page, limit, total),
	}, nil
}

func (s *UserService) createUser(ctx context.Context, login GitHubLogin) (*user.User, error) {
	candidate := login.Login
	for attempt := 1; attempt <= maxUsernameAttempts; attempt++ {
		if attempt > 1 {
			candidate = fmt.Sprintf("%s-%d", login.Login, attempt)
		}

		name, err := user.NewUsername(candidate)
		if err != nil {
			return nil, user.ErrInvalidUserData("username", err)
		}

		_, err = s.userRepo.FindByUsername(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}

		domainUser, err := user.NewUser(candidate, login.Email)
		if err != nil {
			// GitHub does not always expose a valid public email
			domainUser, err = user.NewUser(candidate, "")
			if err != nil {
				return nil, user.ErrInvalidUserData("user", err)
			}
		}

		if err := s.userRepo.Save(ctx, domainUser); err != nil {
			return nil, fmt.Errorf("failed to save user: %w", err)
		}

		s.publish(ctx, user.NewUserCreatedEvent(domainUser.ID().String(), domainUser.Username().String()))
		return domainUser, nil
	}

	return nil, errs.Newf(errs.CodeInvalidInput, "no free username derived from GitHub login %q", login.Login)
}

func (s *UserService) githubIdentity(ctx context.Context, userID user.UserID) *identity.ExternalIdentity {
	ident, err := s.identities.Lookup(ctx, userID, identity.ProviderGitHub)
	if err != nil {
		return nil
	}
	return ident
}

func (s *UserService) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Dispatch(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
	}
}

// toDTO converts a domain user to DTO
func (s *UserService) toDTO(u *user.User, ident *identity.ExternalIdentity) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:        u.ID().String(),
		Username:  u.Username().String(),
		Email:     u.Email().String(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
	if ident != nil {
		resp.GitHubLinked = true
		resp.GitHubUsername = ident.Username()
	}
	return resp
}
