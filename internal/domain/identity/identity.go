// Package identity maps internal users to their accounts on external providers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitcollab/internal/domain/user"
)

// ProviderGitHub is the only provider the invitation workflow resolves.
const ProviderGitHub = "github"

// ErrIdentityNotFound is returned when a user has no identity for the provider.
var ErrIdentityNotFound = errors.New("external identity not found")

// ExternalIdentity is a user's account on an external provider.
// Credential is the provider access token and is never serialized outside persistence.
type ExternalIdentity struct {
	userID     user.UserID
	provider   string
	externalID string
	username   string
	credential string
	updatedAt  time.Time
}

// New validates and builds an identity
func New(userID user.UserID, provider, externalID, username, credential string) (*ExternalIdentity, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	username = strings.TrimSpace(username)

	if userID.IsZero() {
		return nil, fmt.Errorf("identity needs a user")
	}
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}
	if username == "" {
		return nil, fmt.Errorf("external username cannot be empty")
	}

	return &ExternalIdentity{
		userID:     userID,
		provider:   provider,
		externalID: strings.TrimSpace(externalID),
		username:   username,
		credential: credential,
		updatedAt:  time.Now().UTC(),
	}, nil
}

// Reconstitute recreates an identity from persistence
func Reconstitute(userID, provider, externalID, username, credential string, updatedAt time.Time) (*ExternalIdentity, error) {
	uid, err := user.ParseUserID(userID)
	if err != nil {
		return nil, err
	}
	return &ExternalIdentity{
		userID:     uid,
		provider:   provider,
		externalID: externalID,
		username:   username,
		credential: credential,
		updatedAt:  updatedAt,
	}, nil
}

func (i *ExternalIdentity) UserID() user.UserID  { return i.userID }
func (i *ExternalIdentity) Provider() string     { return i.provider }
func (i *ExternalIdentity) ExternalID() string   { return i.externalID }
func (i *ExternalIdentity) Username() string     { return i.username }
func (i *ExternalIdentity) Credential() string   { return i.credential }
func (i *ExternalIdentity) UpdatedAt() time.Time { return i.updatedAt }

// HasCredential reports whether a usable access token is stored.
func (i *ExternalIdentity) HasCredential() bool {
	return i.credential != ""
}

// Store persists identities, one per (user, provider).
type Store interface {
	// Lookup returns ErrIdentityNotFound if the user has no identity for provider
	Lookup(ctx context.Context, userID user.UserID, provider string) (*ExternalIdentity, error)

	// FindByExternalID finds the identity linked to a provider account
	FindByExternalID(ctx context.Context, provider, externalID string) (*ExternalIdentity, error)

	// Save inserts or replaces the identity for (user, provider)
	Save(ctx context.Context, identity *ExternalIdentity) error
}
