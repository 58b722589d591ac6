package github

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	ghclient "gitcollab/internal/github"
)

const (
	// NoReadme is shown for users without a profile README
	NoReadme = "No profile README"
	// ReadmeUnavailable is shown when GitHub could not be reached
	ReadmeUnavailable = "Error fetching README"

	gistLength = 200
)

// Readmes is the slice of the GitHub client the README service needs
type Readmes interface {
	GetReadme(ctx context.Context, token, owner, repo string) (string, error)
}

// Gist is the opening of a user's profile README
type Gist struct {
	Username string
	Text     string
	Found    bool
}

// ReadmeService fetches profile READMEs (the <user>/<user> repository) and caches their gist
type ReadmeService struct {
	client Readmes
	cache  *expirable.LRU[string, Gist]
	logger *slog.Logger
}

// NewReadmeService creates the service with an expiring LRU of the given size
func NewReadmeService(client Readmes, size int, ttl time.Duration, logger *slog.Logger) *ReadmeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadmeService{
		client: client,
		cache:  expirable.NewLRU[string, Gist](size, nil, ttl),
		logger: logger.With("component", "readme"),
	}
}

// Gist returns the first 200 characters of the user's profile README.
// Fetch failures are not cached.
func (s *ReadmeService) Gist(ctx context.Context, username string) Gist {
	key := strings.ToLower(username)
	if g, ok := s.cache.Get(key); ok {
		return g
	}

	text, err := s.client.GetReadme(ctx, "", username, username)
	switch {
	case errors.Is(err, ghclient.ErrNotFound):
		g := Gist{Username: username, Text: NoReadme}
		s.cache.Add(key, g)
		return g
	case err != nil:
		s.logger.WarnContext(ctx, "failed to fetch profile README", "username", username, "error", err)
		return Gist{Username: username, Text: ReadmeUnavailable}
	}

	g := Gist{Username: username, Text: truncate(text, gistLength), Found: true}
	s.cache.Add(key, g)
	return g
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ReadmeGist is Gist flattened to text and a found flag
func (s *ReadmeService) ReadmeGist(ctx context.Context, username string) (string, bool) {
	g := s.Gist(ctx, username)
	return g.Text, g.Found
}
