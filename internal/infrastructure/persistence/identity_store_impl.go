package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gitcollab/internal/database"
	"gitcollab/internal/domain/identity"
	"gitcollab/internal/domain/user"
)

// Cipher protects credentials at rest
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// IdentityStoreImpl implements identity.Store; credentials are stored encrypted
type IdentityStoreImpl struct {
	db     *database.DB
	cipher Cipher
}

// NewIdentityStore creates a new identity store implementation
func NewIdentityStore(db *database.DB, cipher Cipher) identity.Store {
	return &IdentityStoreImpl{db: db, cipher: cipher}
}

const identityColumns = `user_id, provider, external_id, username, credential, updated_at`

// Lookup returns identity.ErrIdentityNotFound if the user has no identity for provider
func (s *IdentityStoreImpl) Lookup(ctx context.Context, userID user.UserID, provider string) (*identity.ExternalIdentity, error) {
	row := s.db.GetConnection().QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM external_identities WHERE user_id = $1 AND provider = $2`,
		userID.String(), provider)
	return s.scan(row)
}

// FindByExternalID finds the identity linked to a provider account
func (s *IdentityStoreImpl) FindByExternalID(ctx context.Context, provider, externalID string) (*identity.ExternalIdentity, error) {
	if externalID == "" {
		return nil, identity.ErrIdentityNotFound
	}
	row := s.db.GetConnection().QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM external_identities WHERE provider = $1 AND external_id = $2`,
		provider, externalID)
	return s.scan(row)
}

// Save inserts or replaces the identity for (user, provider)
func (s *IdentityStoreImpl) Save(ctx context.Context, id *identity.ExternalIdentity) error {
	sealed, err := s.cipher.Encrypt(id.Credential())
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	_, err = s.db.GetConnection().ExecContext(ctx, `
		INSERT INTO external_identities (`+identityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			external_id = excluded.external_id,
			username = excluded.username,
			credential = excluded.credential,
			updated_at = excluded.updated_at`,
		id.UserID().String(), id.Provider(), id.ExternalID(), id.Username(), sealed, id.UpdatedAt())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%s account %s is linked to another user: %w", id.Provider(), id.Username(), err)
		}
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

func (s *IdentityStoreImpl) scan(row rowScanner) (*identity.ExternalIdentity, error) {
	var (
		userID, provider, externalID, username, sealed string
		updatedAt                                      time.Time
	)
	if err := row.Scan(&userID, &provider, &externalID, &username, &sealed, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}

	credential, err := s.cipher.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return identity.Reconstitute(userID, provider, externalID, username, credential, updatedAt)
}
