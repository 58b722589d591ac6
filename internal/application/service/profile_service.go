package service

import (
	"context"
	"errors"
	"fmt"

	"gitcollab/internal/application/dto"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/user"
)

// ReadmeGists returns the opening of a GitHub user's profile README
type ReadmeGists interface {
	ReadmeGist(ctx context.Context, githubLogin string) (text string, found bool)
}

// ProfileService serves profile pages
type ProfileService struct {
	userRepo   user.Repository
	identities identity.Store
	readmes    ReadmeGists
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo user.Repository, identities identity.Store, readmes ReadmeGists) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		identities: identities,
		readmes:    readmes,
	}
}

// GetReadmeGist resolves username to a GitHub login and returns its README gist.
// A local user with a linked account uses that account's login; any other name is
// taken to be a GitHub login already.
func (s *ProfileService) GetReadmeGist(ctx context.Context, username string) (*dto.ReadmeGistResponse, error) {
	name, err := user.NewUsername(username)
	if err != nil {
		return nil, user.ErrInvalidUserData("username", err)
	}

	login := name.String()
	u, err := s.userRepo.FindByUsername(ctx, name)
	switch {
	case err == nil:
		ident, err := s.identities.Lookup(ctx, u.ID(), identity.ProviderGitHub)
		if err == nil {
			login = ident.Username()
		} else if !errors.Is(err, identity.ErrIdentityNotFound) {
			return nil, fmt.Errorf("failed to look up identity: %w", err)
		}
	case !errors.Is(err, user.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	text, found := s.readmes.ReadmeGist(ctx, login)
	return &dto.ReadmeGistResponse{Username: login, Gist: text, Found: found}, nil
}
